package entity

type Player struct {
	Name   string `json:"name,omitempty"`
	Symbol Mark   `json:"symbol"`
}

// Snapshot - read-only view of a room handed to REST and the redis mirror.
type Snapshot struct {
	Code    string   `json:"code"`
	Board   Board    `json:"board"`
	Turn    Mark     `json:"turn"`
	Status  Status   `json:"status"`
	Outcome Outcome  `json:"outcome,omitempty"`
	Players []Player `json:"players"`
}
