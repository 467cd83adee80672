package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaminalder/codex-reversi/internal/domain"
)

// newReplayCommand creates the "replay" subcommand that validates a move
// transcript and prints the resulting position.
func newReplayCommand(_ *Options) *cobra.Command {
	var showMoves bool

	cmd := &cobra.Command{
		Use:   "replay <transcript|->",
		Short: "Replay a move transcript such as D3C5F6 and print the final board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			transcript := strings.Join(args, "")
			if transcript == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				transcript = string(b)
			}

			g, err := domain.Replay(transcript)
			if err != nil {
				return err
			}
			logger.Debug("transcript replayed", "moves", len(g.History))

			out := cmd.OutOrStdout()
			if showMoves {
				for i, rec := range g.History {
					fmt.Fprintf(out, "%2d. %-5s %-4s %2d-%d\n", i+1, rec.Player, rec.Notation(), rec.Score.Black, rec.Score.White)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, g.Board.String())
			score := g.Score()
			fmt.Fprintf(out, "\nblack %d  white %d\n", score.Black, score.White)
			fmt.Fprintln(out, outcome(&g))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMoves, "moves", false, "Print the move list including passes")
	return cmd
}

func outcome(g *domain.Game) string {
	if !g.Over {
		return fmt.Sprintf("in progress, %s to move", g.Turn)
	}
	if w := g.Winner(); w != domain.Empty {
		return fmt.Sprintf("game over, %s wins", w)
	}
	return "game over, draw"
}
