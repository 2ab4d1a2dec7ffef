package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

const (
	BoardSize = 9

	// minMarksForWin is the smallest number of occupied cells that can hold a line.
	minMarksForWin = 3
)

// Line is a set of three cell indices that wins when uniformly marked.
type Line [3]int

// WinLines are checked in this order: rows, columns, diagonals.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row-major (index = row*3 + col).
type Board struct {
	cells      [BoardSize]Mark
	takenCells int

	winningLine *Line
}

func NewBoard() *Board {
	return &Board{}
}

// RestoreBoard - rebuilds a board from stored cells, re-detecting a completed line.
func RestoreBoard(cells [BoardSize]Mark) (*Board, error) {
	board := NewBoard()

	for index, mark := range cells {
		switch mark {
		case MarkEmpty:
			continue
		case MarkX, MarkO:
			board.cells[index] = mark
			board.takenCells++
		default:
			return nil, fmt.Errorf("%w: unknown mark %q at cell %d", apperror.ErrInvalidSnapshot, mark, index)
		}
	}

	board.HasWinningLine()

	return board, nil
}

// MarkCell - places mark on the cell. Returns false if the cell is already occupied.
func (that *Board) MarkCell(index int, mark Mark) (bool, error) {
	if index < 0 || index >= BoardSize {
		return false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	if !that.cells[index].IsEmpty() {
		return false, nil
	}

	that.cells[index] = mark
	that.takenCells++

	return true, nil
}

// HasWinningLine - reports whether any line is complete and remembers the first one found.
func (that *Board) HasWinningLine() bool {
	if that.takenCells < minMarksForWin {
		return false
	}

	for _, line := range WinLines {
		if that.isLineComplete(line) {
			found := line
			that.winningLine = &found

			return true
		}
	}

	return false
}

// HasEmptyCell - false means a tie when no line is complete.
func (that *Board) HasEmptyCell() bool {
	return that.takenCells < BoardSize
}

func (that *Board) WinningLine() (Line, bool) {
	if that.winningLine == nil {
		return Line{}, false
	}

	return *that.winningLine, true
}

func (that *Board) Reset() {
	that.cells = [BoardSize]Mark{}
	that.takenCells = 0
	that.winningLine = nil
}

func (that *Board) Cells() [BoardSize]Mark {
	return that.cells
}

func (that *Board) TakenCells() int {
	return that.takenCells
}

func (that *Board) isLineComplete(line Line) bool {
	mark := that.cells[line[0]]
	if mark.IsEmpty() {
		return false
	}

	return that.cells[line[1]] == mark && that.cells[line[2]] == mark
}
