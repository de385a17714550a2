package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/roomcode"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// Notifier - delivers one event to one connection. Implementations must not block,
// they are called while a room is locked.
type Notifier interface {
	Notify(conn string, event entity.Event)
}

// RoomObserver - receives every committed room state, in commit order per room.
// Same non-blocking rule as Notifier.
type RoomObserver interface {
	RoomChanged(snapshot entity.Snapshot)
	RoomDeleted(code string)
}

type nopObserver struct{}

func (nopObserver) RoomChanged(entity.Snapshot) {}
func (nopObserver) RoomDeleted(string)          {}

type CodeSource string

const (
	CodeFromClient CodeSource = "client"
	CodeFromServer CodeSource = "server"
)

type Options struct {
	CodeSource       CodeSource
	GenerateAttempts int
	// GenerateCode - overrides roomcode.Generate, used by tests.
	GenerateCode func() (string, error)
}

type Coordinator struct {
	logger   *slog.Logger
	registry *repository.RoomRegistry
	notifier Notifier
	observer RoomObserver

	codeSource       CodeSource
	generateAttempts int
	generateCode     func() (string, error)
}

func NewCoordinator(logger *slog.Logger, registry *repository.RoomRegistry, notifier Notifier, opts Options) *Coordinator {
	that := &Coordinator{
		logger:   logger.With("component", "coordinator"),
		registry: registry,
		notifier: notifier,
		observer: nopObserver{},

		codeSource:       opts.CodeSource,
		generateAttempts: opts.GenerateAttempts,
		generateCode:     opts.GenerateCode,
	}

	if that.codeSource == "" {
		that.codeSource = CodeFromClient
	}

	if that.generateAttempts < 1 {
		that.generateAttempts = 1
	}

	if that.generateCode == nil {
		that.generateCode = roomcode.Generate
	}

	return that
}

// SetObserver - must be called before the coordinator serves requests.
func (that *Coordinator) SetObserver(observer RoomObserver) {
	if observer == nil {
		observer = nopObserver{}
	}
	that.observer = observer
}

// CreateRoom - creates a room and admits conn as X. An empty code (or server
// code source) gets a generated one.
func (that *Coordinator) CreateRoom(conn, code, name string) error {
	log := that.logger.With("method", "CreateRoom", "conn", conn)

	handle, err := that.createHandle(code)
	if err != nil {
		log.Debug("create rejected", "code", code, "error", err)
		that.notifier.Notify(conn, entity.RoomError(apperror.Message(err)))
		return fmt.Errorf("failed to create room: %w", err)
	}

	room, err := handle.Lock()
	if err != nil {
		that.notifier.Notify(conn, entity.RoomError(apperror.Message(err)))
		return fmt.Errorf("failed to lock new room: %w", err)
	}
	defer handle.Unlock()

	if err = room.Admit(conn, name, entity.PlayerX); err != nil {
		that.registry.Release(handle)
		that.notifier.Notify(conn, entity.RoomError(apperror.Message(apperror.ErrRoomNotFound)))
		return fmt.Errorf("failed to admit creator: %w", err)
	}

	that.notifier.Notify(conn, entity.RoomCreated(room.Code, entity.PlayerX))
	that.observer.RoomChanged(room.Snapshot())

	log.Info("room created", "code", room.Code, "name", name)

	return nil
}

func (that *Coordinator) createHandle(code string) (*repository.RoomHandle, error) {
	code = roomcode.Normalize(code)

	if code != "" && that.codeSource == CodeFromClient {
		if err := roomcode.Validate(code); err != nil {
			return nil, err
		}

		return that.registry.Create(code)
	}

	var lastErr error
	for attempt := 0; attempt < that.generateAttempts; attempt++ {
		generated, err := that.generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		handle, err := that.registry.Create(generated)
		if err == nil {
			return handle, nil
		}

		if !errors.Is(err, apperror.ErrRoomAlreadyExists) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no free room code after %d attempts: %w", that.generateAttempts, lastErr)
}

// JoinRoom - admits conn as O and starts the game.
func (that *Coordinator) JoinRoom(conn, code, name string) error {
	log := that.logger.With("method", "JoinRoom", "conn", conn)

	err := that.joinRoom(conn, roomcode.Normalize(code), name)
	if err != nil {
		log.Debug("join rejected", "code", code, "error", err)
		that.notifier.Notify(conn, entity.RoomError(apperror.Message(err)))
		return fmt.Errorf("failed to join room: %w", err)
	}

	log.Info("room joined", "code", roomcode.Normalize(code), "name", name)

	return nil
}

func (that *Coordinator) joinRoom(conn, code, name string) error {
	if err := roomcode.Validate(code); err != nil {
		return err
	}

	handle, err := that.registry.Get(code)
	if err != nil {
		return err
	}

	room, err := handle.Lock()
	if err != nil {
		return err
	}
	defer handle.Unlock()

	// the creator has not been seated yet
	if room.IsEmpty() {
		return fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, code)
	}

	if room.IsFull() {
		return fmt.Errorf("%w: %s", apperror.ErrRoomFull, code)
	}

	if room.IsMember(conn) {
		return fmt.Errorf("%w: %s", apperror.ErrAlreadyMember, code)
	}

	// a room that lost a member mid-game does not take replacements
	if !room.IsWaiting() {
		return fmt.Errorf("%w: %s is %s", apperror.ErrRoomFull, code, room.Status)
	}

	if err = room.Admit(conn, name, entity.PlayerO); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrRoomFull, err)
	}

	room.Start()

	that.notifier.Notify(conn, entity.RoomJoined(room.Code, entity.PlayerO))
	that.broadcast(room, entity.GameStart(room))
	that.observer.RoomChanged(room.Snapshot())

	return nil
}

// MakeMove - applies conn's mark at index and broadcasts the new board.
func (that *Coordinator) MakeMove(conn, code string, index int) error {
	log := that.logger.With("method", "MakeMove", "conn", conn)

	code = roomcode.Normalize(code)

	err := that.makeMove(conn, code, index)
	if err != nil {
		log.Debug("move rejected", "code", code, "index", index, "error", err)
		that.notifier.Notify(conn, entity.MoveError(apperror.Message(err)))
		return fmt.Errorf("failed to make move: %w", err)
	}

	return nil
}

func (that *Coordinator) makeMove(conn, code string, index int) error {
	handle, err := that.registry.Get(code)
	if err != nil {
		return fmt.Errorf("%w: room %s not found", apperror.ErrInvalidMove, code)
	}

	room, err := handle.Lock()
	if err != nil {
		return fmt.Errorf("%w: room %s not found", apperror.ErrInvalidMove, code)
	}
	defer handle.Unlock()

	if !room.IsPlaying() {
		return fmt.Errorf("%w: room %s is %s", apperror.ErrInvalidMove, code, room.Status)
	}

	mark, ok := room.SymbolOf(conn)
	if !ok {
		return fmt.Errorf("%w: not a member of %s", apperror.ErrInvalidMove, code)
	}

	if !room.IsFull() {
		return fmt.Errorf("%w: opponent left %s", apperror.ErrInvalidMove, code)
	}

	result, err := tictactoe.MakeTurn(room, mark, index)
	if err != nil {
		return err
	}

	that.broadcast(room, entity.GameUpdate(room))
	that.observer.RoomChanged(room.Snapshot())

	if result.IsTerminal() {
		that.logger.Info("game finished", "code", code, "outcome", room.Outcome)
	}

	return nil
}

// ResetGame - starts a new game in a room with both members. Anything else is ignored.
func (that *Coordinator) ResetGame(conn, code string) error {
	log := that.logger.With("method", "ResetGame", "conn", conn)

	code = roomcode.Normalize(code)

	handle, err := that.registry.Get(code)
	if err != nil {
		log.Debug("reset ignored", "code", code, "error", err)
		return nil
	}

	room, err := handle.Lock()
	if err != nil {
		log.Debug("reset ignored", "code", code, "error", err)
		return nil
	}
	defer handle.Unlock()

	if !room.IsMember(conn) || !room.IsFull() {
		log.Debug("reset ignored", "code", code, "members", room.MemberCount())
		return nil
	}

	room.Reset()

	that.broadcast(room, entity.GameReset(room))
	that.observer.RoomChanged(room.Snapshot())

	log.Info("game reset", "code", code)

	return nil
}

// LeaveRoom - removes conn from one room. A non-member leaving is a no-op.
func (that *Coordinator) LeaveRoom(conn, code string) error {
	code = roomcode.Normalize(code)

	handle, err := that.registry.Get(code)
	if err != nil {
		return nil
	}

	that.leave(handle, conn)

	return nil
}

// Disconnect - removes conn from every room it is a member of.
func (that *Coordinator) Disconnect(conn string) {
	for _, handle := range that.registry.Handles() {
		that.leave(handle, conn)
	}
}

func (that *Coordinator) leave(handle *repository.RoomHandle, conn string) {
	room, err := handle.Lock()
	if err != nil {
		return
	}
	defer handle.Unlock()

	if !room.RemoveMember(conn) {
		return
	}

	if room.IsEmpty() {
		that.registry.Release(handle)
		that.observer.RoomDeleted(room.Code)
		that.logger.Info("room deleted", "code", room.Code, "conn", conn)
		return
	}

	that.broadcast(room, entity.PlayerLeft())
	that.observer.RoomChanged(room.Snapshot())
	that.logger.Info("player left", "code", room.Code, "conn", conn)
}

// broadcast - caller holds the room lock.
func (that *Coordinator) broadcast(room *entity.Room, event entity.Event) {
	for _, member := range room.Members() {
		that.notifier.Notify(member, event)
	}
}

// Room - snapshot of one live room.
func (that *Coordinator) Room(code string) (entity.Snapshot, error) {
	handle, err := that.registry.Get(roomcode.Normalize(code))
	if err != nil {
		return entity.Snapshot{}, err
	}

	room, err := handle.Lock()
	if err != nil {
		return entity.Snapshot{}, err
	}
	defer handle.Unlock()

	return room.Snapshot(), nil
}

type Stats struct {
	Rooms    int `json:"rooms"`
	Waiting  int `json:"waiting"`
	Playing  int `json:"playing"`
	Finished int `json:"finished"`
	Members  int `json:"members"`
}

// Stats - counts taken room by room, not one atomic view.
func (that *Coordinator) Stats() Stats {
	var stats Stats

	for _, handle := range that.registry.Handles() {
		room, err := handle.Lock()
		if err != nil {
			continue
		}

		stats.Rooms++
		stats.Members += room.MemberCount()

		switch room.Status {
		case entity.StatusWaiting:
			stats.Waiting++
		case entity.StatusPlaying:
			stats.Playing++
		case entity.StatusFinished:
			stats.Finished++
		}

		handle.Unlock()
	}

	return stats
}
