package domain

import (
	"fmt"
	"strings"
)

// String renders the coordinate as a column letter and a 1-based row ("D3").
func (c Coord) String() string {
	if !InBounds(c.Row, c.Col) {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return string(rune('A'+c.Col)) + string(rune('1'+c.Row))
}

// ParseCoord parses notation such as "d3" or "D3".
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	col := int(strings.ToUpper(s[:1])[0] - 'A')
	row := int(s[1] - '1')
	if !InBounds(row, col) {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	return Coord{Row: row, Col: col}, nil
}

// Transcript concatenates the placements of the game in order. Passes are
// omitted because the rules imply them.
func (g *Game) Transcript() string {
	var sb strings.Builder
	for _, m := range g.History {
		if m.Pass {
			continue
		}
		sb.WriteString(m.At.String())
	}
	return sb.String()
}

// Replay rebuilds a game from a transcript. Whitespace between moves is ignored.
func Replay(transcript string) (Game, error) {
	g := New()
	moves := strings.Join(strings.Fields(transcript), "")
	if len(moves)%2 != 0 {
		return g, fmt.Errorf("%w: odd transcript length %d", ErrBadNotation, len(moves))
	}
	for i := 0; i < len(moves); i += 2 {
		at, err := ParseCoord(moves[i : i+2])
		if err != nil {
			return g, fmt.Errorf("move %d: %w", i/2+1, err)
		}
		if _, err := g.Play(at.Row, at.Col); err != nil {
			return g, fmt.Errorf("move %d (%s): %w", i/2+1, at, err)
		}
	}
	return g, nil
}
