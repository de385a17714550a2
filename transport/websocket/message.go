package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var ErrMissingIndex = errors.New("index is required")

// Message - inbound and outbound envelope.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// Inbound actions.
const (
	ActionCreateRoom = "createRoom"
	ActionJoinRoom   = "joinRoom"
	ActionMakeMove   = "makeMove"
	ActionResetGame  = "resetGame"
	ActionLeaveRoom  = "leaveRoom"
)

type RoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

type MoveRequest struct {
	Code  string `json:"code"`
	Index *int   `json:"index"`
}

// decodeRoomRequest - accepts {"code": "..."} or a bare "CODE" string. An empty
// payload decodes to an empty request.
func decodeRoomRequest(payload json.RawMessage) (RoomRequest, error) {
	var req RoomRequest

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return req, nil
	}

	if payload[0] == '"' {
		if err := json.Unmarshal(payload, &req.Code); err != nil {
			return req, fmt.Errorf("failed to unmarshal room code: %w", err)
		}
		return req, nil
	}

	if err := json.Unmarshal(payload, &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return req, nil
}

func decodeMoveRequest(payload json.RawMessage) (string, int, error) {
	var req MoveRequest

	if err := json.Unmarshal(payload, &req); err != nil {
		return "", 0, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Index == nil {
		return "", 0, ErrMissingIndex
	}

	return req.Code, *req.Index, nil
}

func encodeEvent(event entity.Event) ([]byte, error) {
	data, err := json.Marshal(outbound{Action: event.Action, Payload: event.Payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.Action, err)
	}

	return data, nil
}
