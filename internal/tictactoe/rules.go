package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type ResultKind int

const (
	None ResultKind = iota
	Win
	Draw
)

// Result - outcome of evaluating a board. Winner is set only for Win.
type Result struct {
	Kind   ResultKind
	Winner entity.Mark
}

func (that Result) IsTerminal() bool {
	return that.Kind != None
}

// Outcome - converts a terminal result into the room outcome.
func (that Result) Outcome() entity.Outcome {
	switch that.Kind {
	case Win:
		return entity.Outcome(that.Winner)
	case Draw:
		return entity.OutcomeDraw
	default:
		return entity.OutcomeNone
	}
}

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate - checks the board for a completed line, then for a full board.
func Evaluate(board entity.Board) Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return Result{Kind: Win, Winner: a}
		}
	}

	if board.IsFull() {
		return Result{Kind: Draw}
	}

	return Result{Kind: None}
}

// MakeTurn - validates and applies mark at cell, then either finishes the game
// or passes the turn to the opponent.
func MakeTurn(room *entity.Room, mark entity.Mark, cell int) (Result, error) {
	if !room.IsPlaying() {
		return Result{}, fmt.Errorf("%w: room %s is %s", apperror.ErrInvalidMove, room.Code, room.Status)
	}

	if err := validateMove(room, mark, cell); err != nil {
		return Result{}, err
	}

	room.Board[cell] = mark

	result := Evaluate(room.Board)
	if result.IsTerminal() {
		room.Finish(result.Outcome())
		return result, nil
	}

	room.Turn = mark.Opponent()

	return result, nil
}

// validateMove - turn first, then the cell.
func validateMove(room *entity.Room, mark entity.Mark, cell int) error {
	if room.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(room.Board) {
		return fmt.Errorf("%w: cell %d is out of range", apperror.ErrInvalidMove, cell)
	}

	if room.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}
