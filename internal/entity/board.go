package entity

import "encoding/json"

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// Board - 3x3 grid in row-major order.
type Board [BoardSize]Mark

// Opponent - returns the other symbol.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// MarshalJSON - empty cells are rendered as null.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*string, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			continue
		}
		mark := string(cell)
		cells[i] = &mark
	}

	return json.Marshal(cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells [BoardSize]*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}

	for i, cell := range cells {
		that[i] = EmptyCell
		if cell != nil {
			that[i] = Mark(*cell)
		}
	}

	return nil
}
