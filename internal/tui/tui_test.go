package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/jaminalder/codex-reversi/internal/config"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestEnterPlacesAtCursor(t *testing.T) {
	m := NewModel()
	if m.HandleKey(key(tcell.KeyEnter)) {
		t.Fatal("enter should not quit")
	}
	if got := m.Game.Score(); got.Black != 4 || got.White != 1 {
		t.Fatalf("score after D3 = %+v, want 4-1", got)
	}
	if m.Game.Turn != domain.White {
		t.Fatalf("turn = %v, want white", m.Game.Turn)
	}
	if !m.Flipped(3, 3) || m.Flipped(2, 3) {
		t.Fatal("only D4 should be marked as flipped")
	}
	panel := m.Panel()
	for _, want := range []string{"Black 4  White 1", "White to move", " 1. Black D3 (4-1)"} {
		if !strings.Contains(panel, want) {
			t.Fatalf("panel missing %q:\n%s", want, panel)
		}
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	m := NewModel()
	for i := 0; i < 5; i++ {
		m.HandleKey(runeKey('k'))
	}
	if m.CursorRow != 0 {
		t.Fatalf("row = %d, want 0", m.CursorRow)
	}
	for i := 0; i < 10; i++ {
		m.HandleKey(key(tcell.KeyRight))
	}
	if m.CursorCol != domain.Size-1 {
		t.Fatalf("col = %d, want %d", m.CursorCol, domain.Size-1)
	}
	m.HandleKey(runeKey('j'))
	m.HandleKey(runeKey('h'))
	m.HandleKey(key(tcell.KeyDown))
	m.HandleKey(key(tcell.KeyLeft))
	if m.CursorRow != 2 || m.CursorCol != 5 {
		t.Fatalf("cursor = (%d,%d), want (2,5)", m.CursorRow, m.CursorCol)
	}
}

func TestRejectedMoveShowsMessage(t *testing.T) {
	m := NewModel()
	m.CursorRow, m.CursorCol = 3, 3
	m.Place()
	if m.Message != "Cell is occupied" {
		t.Fatalf("message = %q", m.Message)
	}
	m.CursorRow, m.CursorCol = 0, 0
	m.Place()
	if m.Message != "That move flips no discs" {
		t.Fatalf("message = %q", m.Message)
	}
	if len(m.Game.History) != 0 {
		t.Fatal("rejected moves must not be recorded")
	}
}

func TestHintsRestartAndQuit(t *testing.T) {
	m := NewModel()
	m.HandleKey(runeKey('m'))
	if !m.Hints {
		t.Fatal("m should enable hints")
	}
	m.HandleKey(runeKey(' '))
	m.HandleKey(runeKey('r'))
	if len(m.Game.History) != 0 || m.Last != nil || m.Game.Turn != domain.Black {
		t.Fatal("r should restart the game")
	}
	if !m.Hints {
		t.Fatal("restart keeps the hint setting")
	}
	if !m.HandleKey(runeKey('q')) || !m.HandleKey(key(tcell.KeyEscape)) {
		t.Fatal("q and escape should quit")
	}
}

func TestBoardViewDraws(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(30, 12)

	theme := config.Default().Theme
	m := NewModel()
	m.Hints = true
	v := NewBoardView(m, theme)
	v.SetRect(0, 0, 30, 12)
	v.Draw(screen)

	at := func(x, y int) rune {
		r, _, _, _ := screen.GetContent(x, y)
		return r
	}
	if at(2, 0) != 'A' || at(16, 0) != 'H' || at(0, 1) != '1' || at(0, 8) != '8' {
		t.Fatal("coordinate labels misplaced")
	}
	if at(8, 4) != []rune(theme.WhiteSymbol)[0] || at(10, 4) != []rune(theme.BlackSymbol)[0] {
		t.Fatal("opening discs misplaced")
	}
	if at(8, 3) != []rune(theme.HintSymbol)[0] {
		t.Fatal("legal move D3 should show a hint")
	}
	if at(2, 1) != []rune(theme.EmptySymbol)[0] {
		t.Fatal("empty cell symbol missing")
	}
	_, _, style, _ := screen.GetContent(8, 3)
	if _, bg, _ := style.Decompose(); bg != tcell.PaletteColor(theme.CursorColor) {
		t.Fatalf("cursor background = %v", bg)
	}
}
