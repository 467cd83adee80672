package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	logger    *slog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
	writeHTML(w, h.renderBoard(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// gamePage is the data behind the full game page.
type gamePage struct {
	ID        string
	Seat      string
	BoardHTML template.HTML
}

// view renders the game page. Opening it claims a free seat for the visitor.
func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	seat, gs, err := h.svc.Join(chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, renderTemplate(h.tpl.game, "base", gamePage{
		ID:        gs.ID,
		Seat:      sideName(seat),
		BoardHTML: template.HTML(h.renderBoard(*gs, "")),
	}))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	_, gs, err := h.svc.Join(chi.URLParam(r, "id"), ensurePlayerCookie(w, r))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gs, "")
}

// formInt reads an integer form field; malformed values become -1 so the
// engine rejects them as out of bounds.
func formInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.Form.Get(key)))
	if err != nil {
		return -1
	}
	return v
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_ = r.ParseForm()
	row, col := formInt(r, "r"), formInt(r, "c")
	gs, err := h.svc.Play(id, pid, row, col)
	if err != nil {
		h.logger.Debug("move rejected", "game", id, "player", pid, "r", row, "c", col, "error", err)
	}
	h.respond(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.Restart(id, ensurePlayerCookie(w, r))
	h.respond(w, r, id, gs, err)
}

// respond writes the board after an action. A rejected action shows the
// unchanged board with the reason above it.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	if err == nil {
		h.writeBoard(w, *gs, "")
		return
	}
	current, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *current, errorMessage(err))
}

// errorMessage maps service and engine errors to text shown above the board.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn), errors.Is(err, domain.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrIllegalMove):
		return "That move flips no discs"
	default:
		return "Invalid move"
	}
}

type stateJSON struct {
	ID      string        `json:"id"`
	Board   [][]string    `json:"board"`
	Turn    string        `json:"turn"`
	Over    bool          `json:"over"`
	Winner  string        `json:"winner"`
	Score   scoreJSON     `json:"score"`
	History []moveJSON    `json:"history"`
	Legal   []string      `json:"legal"`
	Last    *lastMoveJSON `json:"last,omitempty"`
}

type scoreJSON struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type moveJSON struct {
	Player string `json:"player"`
	Move   string `json:"move"`
	Black  int    `json:"black"`
	White  int    `json:"white"`
}

type lastMoveJSON struct {
	Move    string   `json:"move"`
	Flipped []string `json:"flipped"`
	Passed  string   `json:"passed,omitempty"`
}

func cellName(c domain.Cell) string {
	if c == domain.Empty {
		return ""
	}
	return c.String()
}

func newStateJSON(gs app.GameState) stateJSON {
	g := &gs.Game
	score := g.Score()
	out := stateJSON{
		ID:      gs.ID,
		Board:   make([][]string, domain.Size),
		Turn:    g.Turn.String(),
		Over:    g.Over,
		Winner:  cellName(g.Winner()),
		Score:   scoreJSON{Black: score.Black, White: score.White},
		History: []moveJSON{},
		Legal:   []string{},
	}
	for r := range out.Board {
		out.Board[r] = make([]string, domain.Size)
		for c := range out.Board[r] {
			out.Board[r][c] = cellName(g.Board[r][c])
		}
	}
	for _, m := range g.History {
		out.History = append(out.History, moveJSON{
			Player: m.Player.String(),
			Move:   m.Notation(),
			Black:  m.Score.Black,
			White:  m.Score.White,
		})
	}
	for _, at := range g.LegalMoves() {
		out.Legal = append(out.Legal, at.String())
	}
	if gs.Last != nil {
		last := &lastMoveJSON{Move: gs.Last.At.String(), Flipped: []string{}, Passed: cellName(gs.Last.Passed)}
		for _, f := range gs.Last.Flipped {
			last.Flipped = append(last.Flipped, f.String())
		}
		out.Last = last
	}
	return out
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": app.ErrNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newStateJSON(*gs))
}

func (h *handlers) transcript(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, gs.Game.Transcript()+"\n")
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Plain GETs only get the headers; the stream is for EventSource clients.
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	h.logger.Debug("sse subscriber connected", "game", id)
	defer h.logger.Debug("sse subscriber gone", "game", id)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}
