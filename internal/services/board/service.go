package board

import (
	"github.com/dropfour/dropfour/internal/model"
)

// axes through a landing cell, each scanned in both directions
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// Outcome is the result of evaluating a board after a piece lands
type Outcome struct {
	Winner       model.Color // ColorNone unless a run was found
	IsDraw       bool
	WinningCells []model.Cell // nil unless a run was found
}

// Finished returns true if the landing ended the round
func (o Outcome) Finished() bool {
	return o.Winner != model.ColorNone || o.IsDraw
}

// Service provides gravity-drop placement and outcome detection
type Service struct{}

// New creates a new board service
func New() *Service {
	return &Service{}
}

// Drop places a piece of the given color in the column, obeying gravity.
// Returns the row the piece landed in.
func (s *Service) Drop(b *model.Board, col int, color model.Color) (int, error) {
	if !b.IsValidColumn(col) {
		return 0, model.ErrInvalidColumn
	}
	row, ok := b.LowestEmptyRow(col)
	if !ok {
		return 0, model.ErrColumnFull
	}
	b.Cells[row][col] = color
	return row, nil
}

// DetectOutcome checks the board after color's piece landed at (row, col).
// Each axis is scanned outward from the landing cell in both directions; the
// first axis with a contiguous same-color run of at least WinLength wins and
// its cells are reported. A full board with no run is a draw.
func (s *Service) DetectOutcome(b *model.Board, row, col int, color model.Color) Outcome {
	for _, axis := range axes {
		cells := runAlong(b, row, col, axis[0], axis[1], color)
		if len(cells) >= model.WinLength {
			return Outcome{Winner: color, WinningCells: cells}
		}
	}

	if b.IsFull() {
		return Outcome{IsDraw: true}
	}

	return Outcome{}
}

// runAlong collects the contiguous run of color through (row, col) along the
// axis (dr, dc), landing cell included
func runAlong(b *model.Board, row, col, dr, dc int, color model.Color) []model.Cell {
	cells := []model.Cell{{Row: row, Col: col}}

	for i := 1; i < model.WinLength; i++ {
		r, c := row+dr*i, col+dc*i
		if b.At(r, c) != color {
			break
		}
		cells = append(cells, model.Cell{Row: r, Col: c})
	}
	for i := 1; i < model.WinLength; i++ {
		r, c := row-dr*i, col-dc*i
		if b.At(r, c) != color {
			break
		}
		cells = append(cells, model.Cell{Row: r, Col: c})
	}

	return cells
}
