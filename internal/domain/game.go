package domain

// MoveRecord is one entry of the move history: a placement or a pass, with the
// tally after it.
type MoveRecord struct {
	Player Cell
	At     Coord
	Pass   bool
	Score  Score
}

// Notation is the coordinate of the move ("D3") or "pass".
func (m MoveRecord) Notation() string {
	if m.Pass {
		return "pass"
	}
	return m.At.String()
}

// Result describes the outcome of a single placement.
type Result struct {
	Player  Cell
	At      Coord
	Flipped []Coord
	Score   Score
	// Passed is the player whose turn was skipped after this move, or Empty.
	Passed Cell
	Over   bool
}

// Game holds the current state of a Reversi match.
type Game struct {
	Board   Board
	Turn    Cell
	Over    bool
	History []MoveRecord
}

// New returns a new game in the opening position with Black to move.
func New() Game {
	return Game{Board: NewBoard(), Turn: Black}
}

// Reset puts the game back to the opening position.
func (g *Game) Reset() {
	*g = New()
}

// Score counts the discs on the board.
func (g *Game) Score() Score { return g.Board.Score() }

// Winner returns the leading player once the game is over, or Empty while it
// is running or when it ended in a draw.
func (g *Game) Winner() Cell {
	if !g.Over {
		return Empty
	}
	return g.Board.Score().Winner()
}

// IsLegal reports whether p may place at (r, c). Off-board coordinates are
// simply not legal here; use Board.IsLegal for the strict variant.
func (g *Game) IsLegal(r, c int, p Cell) bool {
	if g.Over || !InBounds(r, c) {
		return false
	}
	return g.Board.IsLegal(r, c, p)
}

// LegalMoves lists the placements available to the side to move.
func (g *Game) LegalMoves() []Coord {
	if g.Over {
		return nil
	}
	return g.Board.LegalMoves(g.Turn)
}

// Play places a disc for the side to move at row r, column c (0..7).
func (g *Game) Play(r, c int) (Result, error) {
	return g.Apply(r, c, g.Turn)
}

// Apply places a disc for p at (r, c), flips the captured discs, records the
// move and advances the turn. On error the game is left untouched.
func (g *Game) Apply(r, c int, p Cell) (Result, error) {
	if g.Over {
		return Result{}, ErrGameOver
	}
	if !InBounds(r, c) {
		return Result{}, ErrOutOfBounds
	}
	if p != g.Turn {
		return Result{}, ErrNotYourTurn
	}
	if g.Board[r][c] != Empty {
		return Result{}, ErrOccupied
	}
	if len(g.Board.Flips(r, c, p)) == 0 {
		return Result{}, ErrIllegalMove
	}

	at := Coord{r, c}
	flipped := g.Board.place(r, c, p)
	score := g.Board.Score()
	g.History = append(g.History, MoveRecord{Player: p, At: at, Score: score})

	passed := g.advance(p)
	return Result{
		Player:  p,
		At:      at,
		Flipped: flipped,
		Score:   score,
		Passed:  passed,
		Over:    g.Over,
	}, nil
}

// advance hands the turn on after mover placed a disc and returns the player
// that had to pass, if any.
func (g *Game) advance(mover Cell) Cell {
	next := mover.Opponent()
	switch {
	case g.Board.HasLegalMove(next):
		g.Turn = next
		return Empty
	case g.Board.HasLegalMove(mover):
		g.History = append(g.History, MoveRecord{Player: next, Pass: true, Score: g.Board.Score()})
		g.Turn = mover
		g.checkPassBound()
		return next
	default:
		g.Over = true
		return Empty
	}
}

// checkPassBound asserts that a pass is always followed by a placement: the
// player that keeps the turn after a pass has a legal move, so two passes can
// never be recorded back to back.
func (g *Game) checkPassBound() {
	n := len(g.History)
	if n >= 2 && g.History[n-1].Pass && g.History[n-2].Pass {
		panic(ErrPassOverflow)
	}
}

// Snapshot returns a deep copy of the game that shares no memory with g.
func (g *Game) Snapshot() Game {
	cp := *g
	if g.History != nil {
		cp.History = make([]MoveRecord, len(g.History))
		copy(cp.History, g.History)
	}
	return cp
}
