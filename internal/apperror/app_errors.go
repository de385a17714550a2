package apperror

import "errors"

var (
	ErrMalformedCode     = errors.New("malformed room code")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyMember     = errors.New("already a member of the room")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidMove       = errors.New("invalid move")
)

// clientMessages - human-readable reasons sent back to the originating connection.
var clientMessages = []struct {
	err error
	msg string
}{
	{ErrMalformedCode, "Invalid room code"},
	{ErrRoomAlreadyExists, "Room already exists"},
	{ErrRoomNotFound, "Room not found"},
	{ErrRoomFull, "Room is full"},
	{ErrAlreadyMember, "Already in this room"},
	{ErrNotYourTurn, "Not your turn"},
	{ErrCellOccupied, "Cell already taken"},
	{ErrInvalidMove, "Invalid move"},
}

// Message - returns the client-facing reason for err, falling back to a generic one.
func Message(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	return "Invalid request"
}

// IsMoveError - reports whether err belongs to the move error family (moveError event).
func IsMoveError(err error) bool {
	return errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidMove)
}
