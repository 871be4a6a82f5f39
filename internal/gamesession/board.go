package gamesession

import "github.com/TheAwiteb/xors/internal/domain"

// Board is the 9-cell row-major tic-tac-toe grid, indexed 0..8.
type Board [9]domain.Symbol

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Winner returns the symbol occupying a completed line, if any.
func (b Board) Winner() (domain.Symbol, bool) {
	for _, line := range winLines {
		a, c, d := b[line[0]], b[line[1]], b[line[2]]
		if a != domain.SymbolNone && a == c && c == d {
			return a, true
		}
	}
	return domain.SymbolNone, false
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	for _, c := range b {
		if c == domain.SymbolNone {
			return false
		}
	}
	return true
}

// LowestEmpty returns the empty cell with the lowest index, used by the
// auto-play deadline policy.
func (b Board) LowestEmpty() (int, bool) {
	for i, c := range b {
		if c == domain.SymbolNone {
			return i, true
		}
	}
	return 0, false
}
