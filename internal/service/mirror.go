package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const defaultMirrorTimeout = 2 * time.Second

// RoomMirror - copies committed room states to external storage off the request path.
type RoomMirror interface {
	RoomChanged(snapshot entity.Snapshot)
	RoomDeleted(code string)

	// Run - writes pending states until ctx is done.
	Run(ctx context.Context)
}

type roomRepo interface {
	Save(ctx context.Context, snapshot entity.Snapshot) error
	DeleteByCode(ctx context.Context, code string) error
}

type mirrorOp struct {
	snapshot entity.Snapshot
	deleted  bool
}

// roomMirror keeps at most one pending op per room code. A newer op replaces
// the pending one, so only the latest state of a room is ever written and a
// delete cannot be lost behind a backlog.
type roomMirror struct {
	logger   *slog.Logger
	roomRepo roomRepo
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]mirrorOp
	order   []string
	wake    chan struct{}
}

func NewRoomMirror(logger *slog.Logger, roomRepo roomRepo) RoomMirror {
	return &roomMirror{
		logger:   logger.With("component", "mirror"),
		roomRepo: roomRepo,
		timeout:  defaultMirrorTimeout,
		pending:  make(map[string]mirrorOp),
		wake:     make(chan struct{}, 1),
	}
}

func (that *roomMirror) RoomChanged(snapshot entity.Snapshot) {
	that.enqueue(mirrorOp{snapshot: snapshot})
}

func (that *roomMirror) RoomDeleted(code string) {
	that.enqueue(mirrorOp{snapshot: entity.Snapshot{Code: code}, deleted: true})
}

// enqueue - never blocks.
func (that *roomMirror) enqueue(op mirrorOp) {
	code := op.snapshot.Code

	that.mu.Lock()
	if _, ok := that.pending[code]; !ok {
		that.order = append(that.order, code)
	}
	that.pending[code] = op
	that.mu.Unlock()

	select {
	case that.wake <- struct{}{}:
	default:
	}
}

// next - oldest pending op, ok is false when nothing is pending.
func (that *roomMirror) next() (mirrorOp, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.order) == 0 {
		return mirrorOp{}, false
	}

	code := that.order[0]
	that.order = that.order[1:]

	op := that.pending[code]
	delete(that.pending, code)

	return op, true
}

func (that *roomMirror) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")
	log.Info("room mirror started")

	for {
		select {
		case <-ctx.Done():
			log.Info("room mirror stopped")
			return
		case <-that.wake:
		}

		for ctx.Err() == nil {
			op, ok := that.next()
			if !ok {
				break
			}
			that.apply(ctx, op)
		}
	}
}

func (that *roomMirror) apply(ctx context.Context, op mirrorOp) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	var err error
	if op.deleted {
		err = that.roomRepo.DeleteByCode(ctx, op.snapshot.Code)
	} else {
		err = that.roomRepo.Save(ctx, op.snapshot)
	}

	if err != nil {
		that.logger.Error("failed to mirror room", "code", op.snapshot.Code, "deleted", op.deleted, "error", err)
	}
}
