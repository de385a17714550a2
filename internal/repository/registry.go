package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// RoomHandle - guards one live room. Every read-then-write of the room happens
// between Lock and Unlock.
type RoomHandle struct {
	mu     sync.Mutex
	room   *entity.Room
	closed bool
}

// Lock - acquires the room. Fails with ErrRoomNotFound when the room was
// deleted while the caller was waiting for it.
func (that *RoomHandle) Lock() (*entity.Room, error) {
	that.mu.Lock()

	if that.closed {
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, that.room.Code)
	}

	return that.room, nil
}

func (that *RoomHandle) Unlock() {
	that.mu.Unlock()
}

func (that *RoomHandle) Code() string {
	return that.room.Code
}

// RoomRegistry - in-memory table of live rooms keyed by normalized code.
// The table lock is never held while waiting on a room lock.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*RoomHandle
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*RoomHandle),
	}
}

// Create - inserts a new waiting room with no members.
func (that *RoomRegistry) Create(code string) (*RoomHandle, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[code]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomAlreadyExists, code)
	}

	handle := &RoomHandle{room: entity.NewRoom(code)}
	that.rooms[code] = handle

	return handle, nil
}

func (that *RoomRegistry) Get(code string) (*RoomHandle, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	handle, ok := that.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, code)
	}

	return handle, nil
}

// Delete - removes the room, idempotent.
func (that *RoomRegistry) Delete(code string) {
	that.mu.Lock()
	handle, ok := that.rooms[code]
	delete(that.rooms, code)
	that.mu.Unlock()

	if !ok {
		return
	}

	handle.mu.Lock()
	handle.closed = true
	handle.mu.Unlock()
}

// Release - removes handle from the table while the caller holds its lock.
// The code becomes reusable immediately.
func (that *RoomRegistry) Release(handle *RoomHandle) {
	handle.closed = true

	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.rooms[handle.room.Code]; ok && current == handle {
		delete(that.rooms, handle.room.Code)
	}
}

// Handles - point-in-time list of live rooms ordered by code.
func (that *RoomRegistry) Handles() []*RoomHandle {
	that.mu.RLock()
	handles := make([]*RoomHandle, 0, len(that.rooms))
	for _, handle := range that.rooms {
		handles = append(handles, handle)
	}
	that.mu.RUnlock()

	sort.Slice(handles, func(i, j int) bool {
		return handles[i].room.Code < handles[j].room.Code
	})

	return handles
}

func (that *RoomRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
