package tui

import (
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jaminalder/codex-reversi/internal/config"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

// BoardView draws a Model onto a tview box.
type BoardView struct {
	*tview.Box
	model *Model
	theme config.Theme
}

// NewBoardView creates the board widget.
func NewBoardView(m *Model, theme config.Theme) *BoardView {
	v := &BoardView{Box: tview.NewBox(), model: m, theme: theme}
	v.Box.SetDrawFunc(v.draw)
	return v
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

// draw lays the board out as a header row of column letters and one line per
// row: the row number then two cells per square.
func (v *BoardView) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	m := v.model
	board := tcell.StyleDefault.Background(tcell.PaletteColor(v.theme.BoardColor))
	plain := tcell.StyleDefault

	for c := 0; c < domain.Size; c++ {
		screen.SetContent(x+2+c*2, y, rune('A'+c), nil, plain)
	}
	for r := 0; r < domain.Size; r++ {
		screen.SetContent(x, y+1+r, rune('1'+r), nil, plain)
		for c := 0; c < domain.Size; c++ {
			style := board
			ch := firstRune(v.theme.EmptySymbol)
			switch m.Game.Board[r][c] {
			case domain.Black:
				ch = firstRune(v.theme.BlackSymbol)
				style = style.Foreground(tcell.PaletteColor(v.theme.BlackColor))
			case domain.White:
				ch = firstRune(v.theme.WhiteSymbol)
				style = style.Foreground(tcell.PaletteColor(v.theme.WhiteColor))
			default:
				if m.Hints && m.Game.IsLegal(r, c, m.Game.Turn) {
					ch = firstRune(v.theme.HintSymbol)
				}
			}
			if m.Flipped(r, c) {
				style = style.Background(tcell.PaletteColor(v.theme.FlipColor))
			}
			if r == m.CursorRow && c == m.CursorCol {
				style = style.Background(tcell.PaletteColor(v.theme.CursorColor))
			}
			screen.SetContent(x+2+c*2, y+1+r, ch, nil, style)
			screen.SetContent(x+3+c*2, y+1+r, ' ', nil, board)
		}
	}
	return x, y, width, height
}

// Run starts the terminal game and blocks until the user quits.
func Run(cfg *config.Config, logger *slog.Logger) error {
	model := NewModel()
	app := tview.NewApplication()

	boardView := NewBoardView(model, cfg.Theme)
	panel := tview.NewTextView()
	panel.SetBorder(true).SetTitle(" Reversi ").SetTitleAlign(tview.AlignLeft)
	panel.SetText(model.Panel())

	boardView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if model.HandleKey(event) {
			app.Stop()
			return nil
		}
		panel.SetText(model.Panel())
		return nil
	})

	layout := tview.NewFlex().
		AddItem(boardView, 2+domain.Size*2+1, 0, true).
		AddItem(panel, 0, 1, false)

	logger.Debug("starting terminal game")
	if err := app.SetRoot(layout, true).Run(); err != nil {
		return err
	}
	logger.Debug("terminal game closed", "transcript", model.Game.Transcript())
	return nil
}
