package entity

import "fmt"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeX    Outcome = Outcome(PlayerX)
	OutcomeO    Outcome = Outcome(PlayerO)
	OutcomeDraw Outcome = "draw"
)

// seats[0] always plays X, seats[1] always plays O.
var seatMarks = [2]Mark{PlayerX, PlayerO}

type seat struct {
	conn     string
	name     string
	joinedAt uint64
}

// Room - authoritative state of one game session. Not safe for concurrent use,
// callers serialize access through the registry handle.
type Room struct {
	Code    string
	Board   Board
	Turn    Mark
	Status  Status
	Outcome Outcome

	seats   [2]seat
	joinSeq uint64
}

func NewRoom(code string) *Room {
	return &Room{
		Code:   code,
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// Admit - seats conn at the position that plays mark.
func (that *Room) Admit(conn, name string, mark Mark) error {
	idx, err := seatIndex(mark)
	if err != nil {
		return err
	}

	if that.seats[idx].conn != "" {
		return fmt.Errorf("seat %s is taken in room %s", mark, that.Code)
	}

	that.joinSeq++
	that.seats[idx] = seat{conn: conn, name: name, joinedAt: that.joinSeq}

	return nil
}

// RemoveMember - frees the seat of conn. Returns false when conn is not a member.
func (that *Room) RemoveMember(conn string) bool {
	for i := range that.seats {
		if conn != "" && that.seats[i].conn == conn {
			that.seats[i] = seat{}
			return true
		}
	}
	return false
}

// SymbolOf - returns the mark bound to conn's seat.
func (that *Room) SymbolOf(conn string) (Mark, bool) {
	for i, s := range that.seats {
		if conn != "" && s.conn == conn {
			return seatMarks[i], true
		}
	}
	return EmptyCell, false
}

func (that *Room) IsMember(conn string) bool {
	_, ok := that.SymbolOf(conn)
	return ok
}

// Members - connection ids of the current members in join order.
func (that *Room) Members() []string {
	members := make([]string, 0, len(that.seats))

	first, second := that.seats[0], that.seats[1]
	if second.conn != "" && (first.conn == "" || second.joinedAt < first.joinedAt) {
		first, second = second, first
	}

	for _, s := range []seat{first, second} {
		if s.conn != "" {
			members = append(members, s.conn)
		}
	}

	return members
}

func (that *Room) MemberCount() int {
	n := 0
	for _, s := range that.seats {
		if s.conn != "" {
			n++
		}
	}
	return n
}

func (that *Room) IsEmpty() bool {
	return that.MemberCount() == 0
}

func (that *Room) IsFull() bool {
	return that.MemberCount() == len(that.seats)
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// Start - moves a waiting room into play once both seats are filled.
func (that *Room) Start() {
	that.Status = StatusPlaying
}

// Finish - records the terminal result.
func (that *Room) Finish(outcome Outcome) {
	that.Status = StatusFinished
	that.Outcome = outcome
}

// Reset - clears the board and starts a fresh game with X to move.
func (that *Room) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Status = StatusPlaying
	that.Outcome = OutcomeNone
}

// Snapshot - copy of the public room state, without connection ids.
func (that *Room) Snapshot() Snapshot {
	snapshot := Snapshot{
		Code:    that.Code,
		Board:   that.Board,
		Turn:    that.Turn,
		Status:  that.Status,
		Outcome: that.Outcome,
		Players: make([]Player, 0, len(that.seats)),
	}

	for i, s := range that.seats {
		if s.conn == "" {
			continue
		}
		snapshot.Players = append(snapshot.Players, Player{Name: s.name, Symbol: seatMarks[i]})
	}

	return snapshot
}

func seatIndex(mark Mark) (int, error) {
	for i, m := range seatMarks {
		if m == mark {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown mark %q", mark)
}
