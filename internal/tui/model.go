// Package tui is a hot-seat terminal client: both players share one keyboard.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/jaminalder/codex-reversi/internal/domain"
)

// Model is the state behind the terminal view. It is only touched from the
// tview event loop.
type Model struct {
	Game      domain.Game
	CursorRow int
	CursorCol int
	Hints     bool
	// Last is the most recent placement, used to highlight flipped discs.
	Last    *domain.Result
	Message string
}

// NewModel starts a game with the cursor near the center.
func NewModel() *Model {
	return &Model{Game: domain.New(), CursorRow: 2, CursorCol: 3}
}

// MoveCursor shifts the cursor, clamped to the board.
func (m *Model) MoveCursor(dr, dc int) {
	r, c := m.CursorRow+dr, m.CursorCol+dc
	if domain.InBounds(r, c) {
		m.CursorRow, m.CursorCol = r, c
	}
}

// Place plays the side to move at the cursor.
func (m *Model) Place() {
	res, err := m.Game.Play(m.CursorRow, m.CursorCol)
	if err != nil {
		m.Message = describe(err)
		return
	}
	m.Last = &res
	m.Message = ""
	if res.Passed != domain.Empty {
		m.Message = fmt.Sprintf("%s has no legal move and passes", title(res.Passed))
	}
}

// Restart resets the board.
func (m *Model) Restart() {
	m.Game.Reset()
	m.Last = nil
	m.Message = "New game"
}

// ToggleHints flips legal-move hints on or off.
func (m *Model) ToggleHints() { m.Hints = !m.Hints }

// HandleKey applies a key press and reports whether the user asked to quit.
func (m *Model) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		m.MoveCursor(-1, 0)
	case tcell.KeyDown:
		m.MoveCursor(1, 0)
	case tcell.KeyLeft:
		m.MoveCursor(0, -1)
	case tcell.KeyRight:
		m.MoveCursor(0, 1)
	case tcell.KeyEnter:
		m.Place()
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			m.MoveCursor(-1, 0)
		case 'j':
			m.MoveCursor(1, 0)
		case 'h':
			m.MoveCursor(0, -1)
		case 'l':
			m.MoveCursor(0, 1)
		case ' ':
			m.Place()
		case 'm':
			m.ToggleHints()
		case 'r':
			m.Restart()
		case 'q':
			return true
		}
	}
	return false
}

// Flipped reports whether (r, c) changed owner on the last placement.
func (m *Model) Flipped(r, c int) bool {
	if m.Last == nil {
		return false
	}
	for _, f := range m.Last.Flipped {
		if f.Row == r && f.Col == c {
			return true
		}
	}
	return false
}

// Panel renders the side panel text: score, turn, status and history.
func (m *Model) Panel() string {
	var sb strings.Builder
	score := m.Game.Score()
	fmt.Fprintf(&sb, "Black %d  White %d\n\n", score.Black, score.White)
	if m.Game.Over {
		switch score.Winner() {
		case domain.Empty:
			sb.WriteString("Game over: draw!\n")
		default:
			fmt.Fprintf(&sb, "Game over: %s wins!\n", title(score.Winner()))
		}
	} else {
		fmt.Fprintf(&sb, "%s to move\n", title(m.Game.Turn))
	}
	if m.Message != "" {
		fmt.Fprintf(&sb, "%s\n", m.Message)
	}
	sb.WriteString("\n")
	for i, rec := range m.Game.History {
		fmt.Fprintf(&sb, "%2d. %s %s (%d-%d)\n", i+1, title(rec.Player), rec.Notation(), rec.Score.Black, rec.Score.White)
	}
	sb.WriteString("\nhjkl/arrows move  enter place\nm hints  r restart  q quit")
	return sb.String()
}

func title(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "Black"
	case domain.White:
		return "White"
	default:
		return ""
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrIllegalMove):
		return "That move flips no discs"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over, press r to restart"
	default:
		return err.Error()
	}
}
