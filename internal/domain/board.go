package domain

import "strings"

// Size is the number of rows and columns on the board.
const Size = 8

// Cell represents a board cell state. Black and White double as the two player identities.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Coord addresses a cell by zero-based row and column.
type Coord struct {
	Row int
	Col int
}

// Board is a fixed 8x8 grid indexed [row][col], row 0 at the top.
type Board [Size][Size]Cell

// directions are the eight line directions a flip can run along.
var directions = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// NewBoard returns a board holding the standard opening position.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = White, White
	b[mid-1][mid], b[mid][mid-1] = Black, Black
	return b
}

// InBounds reports whether (r, c) lies on the board.
func InBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

func mustInBounds(r, c int) {
	if !InBounds(r, c) {
		panic(NewPositionOutOfRangeError(r, c))
	}
}

// At returns the content of cell (r, c). It panics if the cell is off the board.
func (b *Board) At(r, c int) Cell {
	mustInBounds(r, c)
	return b[r][c]
}

// Flips returns the opposing discs that would change owner if p placed a disc at (r, c),
// ignoring whether the cell itself is empty. The placement cell is never part of the result.
func (b *Board) Flips(r, c int, p Cell) []Coord {
	mustInBounds(r, c)
	opp := p.Opponent()
	if opp == Empty {
		return nil
	}
	var out []Coord
	for _, d := range directions {
		rr, cc := r+d.Row, c+d.Col
		start := len(out)
		for InBounds(rr, cc) && b[rr][cc] == opp {
			out = append(out, Coord{rr, cc})
			rr += d.Row
			cc += d.Col
		}
		// the run only counts when it is capped by one of our own discs
		if len(out) == start || !InBounds(rr, cc) || b[rr][cc] != p {
			out = out[:start]
		}
	}
	return out
}

// IsLegal reports whether p may place a disc at (r, c). It never mutates the board.
func (b *Board) IsLegal(r, c int, p Cell) bool {
	if b.At(r, c) != Empty {
		return false
	}
	return len(b.Flips(r, c, p)) > 0
}

// HasLegalMove reports whether p has at least one legal placement.
func (b *Board) HasLegalMove(p Cell) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(r, c, p) {
				return true
			}
		}
	}
	return false
}

// LegalMoves lists every legal placement for p in row-major order.
func (b *Board) LegalMoves(p Cell) []Coord {
	var out []Coord
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(r, c, p) {
				out = append(out, Coord{r, c})
			}
		}
	}
	return out
}

// place sets (r, c) and every flipped disc to p and returns the flipped cells.
// Callers must have checked legality.
func (b *Board) place(r, c int, p Cell) []Coord {
	flips := b.Flips(r, c, p)
	b[r][c] = p
	for _, f := range flips {
		b[f.Row][f.Col] = p
	}
	return flips
}

// Score counts the discs of each player.
func (b *Board) Score() Score {
	var s Score
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b[r][c] {
			case Black:
				s.Black++
			case White:
				s.White++
			}
		}
	}
	return s
}

// String renders the board as text with column letters and row numbers.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  A B C D E F G H\n")
	for r := 0; r < Size; r++ {
		sb.WriteByte(byte('1' + r))
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			switch b[r][c] {
			case Black:
				sb.WriteString("●")
			case White:
				sb.WriteString("○")
			default:
				sb.WriteString("·")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Score is a disc tally.
type Score struct {
	Black int
	White int
}

// Total is the number of discs on the board.
func (s Score) Total() int { return s.Black + s.White }

// Winner returns the player with more discs, or Empty on a draw.
func (s Score) Winner() Cell {
	switch {
	case s.Black > s.White:
		return Black
	case s.White > s.Black:
		return White
	default:
		return Empty
	}
}
