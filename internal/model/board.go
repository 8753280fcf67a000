package model

// Board dimensions and the run length needed to win
const (
	BoardRows = 6
	BoardCols = 7
	WinLength = 4
)

// Color identifies one of the two seats in a room
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
)

// Opponent returns the other seat's color
func (c Color) Opponent() Color {
	switch c {
	case ColorRed:
		return ColorYellow
	case ColorYellow:
		return ColorRed
	default:
		return ColorNone
	}
}

// Avatar returns the glyph shown next to a seat's name
func (c Color) Avatar() string {
	if c == ColorRed {
		return "🔴"
	}
	return "🟡"
}

// Cell identifies a board position
type Cell struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

// Board is the shared 6x7 grid for a room
type Board struct {
	// Row-major: Cells[row][col], ColorNone means empty.
	// Row 0 is the top, pieces stack upward from row BoardRows-1.
	Cells [BoardRows][BoardCols]Color `json:"cells"`
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// At returns the color at the given cell, or ColorNone if out of bounds
func (b *Board) At(row, col int) Color {
	if !b.IsInside(row, col) {
		return ColorNone
	}
	return b.Cells[row][col]
}

// IsInside returns true if the position is within the grid
func (b *Board) IsInside(row, col int) bool {
	return row >= 0 && row < BoardRows && col >= 0 && col < BoardCols
}

// IsValidColumn returns true if col is a playable column index
func (b *Board) IsValidColumn(col int) bool {
	return col >= 0 && col < BoardCols
}

// LowestEmptyRow scans a column bottom-to-top and returns the first empty
// row index. The second return is false when the column is full.
func (b *Board) LowestEmptyRow(col int) (int, bool) {
	if !b.IsValidColumn(col) {
		return 0, false
	}
	for row := BoardRows - 1; row >= 0; row-- {
		if b.Cells[row][col] == ColorNone {
			return row, true
		}
	}
	return 0, false
}

// IsFull returns true if every cell holds a piece
func (b *Board) IsFull() bool {
	for col := 0; col < BoardCols; col++ {
		if b.Cells[0][col] == ColorNone {
			return false
		}
	}
	return true
}
