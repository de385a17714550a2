package entity

// Outbound actions.
const (
	ActionRoomCreated = "roomCreated"
	ActionRoomError   = "roomError"
	ActionRoomJoined  = "roomJoined"
	ActionGameStart   = "gameStart"
	ActionGameUpdate  = "gameUpdate"
	ActionMoveError   = "moveError"
	ActionGameReset   = "gameReset"
	ActionPlayerLeft  = "playerLeft"
)

const PlayerLeftMessage = "A player has left the game"

// Event - one outbound message addressed to a single connection.
type Event struct {
	Action  string
	Payload any
}

type RoomPayload struct {
	Code   string `json:"code"`
	Symbol Mark   `json:"symbol"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type GameStatePayload struct {
	Board Board `json:"board"`
	Turn  Mark  `json:"turn"`
}

type GameUpdatePayload struct {
	Board   Board   `json:"board"`
	Turn    Mark    `json:"turn"`
	Status  Status  `json:"status"`
	Outcome Outcome `json:"outcome,omitempty"`
}

type PlayerLeftPayload struct {
	Message string `json:"message"`
}

func RoomCreated(code string, symbol Mark) Event {
	return Event{Action: ActionRoomCreated, Payload: RoomPayload{Code: code, Symbol: symbol}}
}

func RoomJoined(code string, symbol Mark) Event {
	return Event{Action: ActionRoomJoined, Payload: RoomPayload{Code: code, Symbol: symbol}}
}

func RoomError(message string) Event {
	return Event{Action: ActionRoomError, Payload: ErrorPayload{Message: message}}
}

func MoveError(message string) Event {
	return Event{Action: ActionMoveError, Payload: ErrorPayload{Message: message}}
}

func GameStart(room *Room) Event {
	return Event{Action: ActionGameStart, Payload: GameStatePayload{Board: room.Board, Turn: room.Turn}}
}

func GameReset(room *Room) Event {
	return Event{Action: ActionGameReset, Payload: GameStatePayload{Board: room.Board, Turn: room.Turn}}
}

func GameUpdate(room *Room) Event {
	return Event{Action: ActionGameUpdate, Payload: GameUpdatePayload{
		Board:   room.Board,
		Turn:    room.Turn,
		Status:  room.Status,
		Outcome: room.Outcome,
	}}
}

func PlayerLeft() Event {
	return Event{Action: ActionPlayerLeft, Payload: PlayerLeftPayload{Message: PlayerLeftMessage}}
}
