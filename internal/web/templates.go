package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-reversi/internal/app"
	"github.com/jaminalder/codex-reversi/internal/domain"
)

// templates holds the parsed page layouts. index and game are clones of the
// base layout with their own "content" block; render them as "base".
type templates struct {
	index *template.Template
	game  *template.Template
	board *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"sideName": sideName,
	}
}

func page(base *template.Template, content string) *template.Template {
	return template.Must(template.Must(base.Clone()).New("content").Parse(content))
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	return &templates{
		index: page(base, indexTemplate),
		game:  page(base, gameTemplate),
		board: template.Must(template.New("board").Funcs(funcs()).Parse(boardTemplate)),
	}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

func sideName(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "Black"
	case domain.White:
		return "White"
	default:
		return ""
	}
}

type cellView struct {
	Row, Col int
	Disc     string // "black", "white" or ""
	Legal    bool
	Flipped  bool
	Placed   bool
	Label    string
}

type historyView struct {
	N      int
	Player string
	Move   string
	Black  int
	White  int
}

// boardView is everything the board fragment shows. It does not depend on
// who is looking, so one rendering can be broadcast to every subscriber.
type boardView struct {
	ID      string
	Rows    [domain.Size][domain.Size]cellView
	Black   int
	White   int
	Turn    string
	Over    bool
	Status  string
	History []historyView
	Error   string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	g := &gs.Game
	v := boardView{ID: gs.ID, Turn: gs.Game.Turn.String(), Over: g.Over, Error: errMsg}
	score := g.Score()
	v.Black, v.White = score.Black, score.White

	flipped := map[domain.Coord]bool{}
	var placed domain.Coord
	hasLast := gs.Last != nil
	if hasLast {
		placed = gs.Last.At
		for _, f := range gs.Last.Flipped {
			flipped[f] = true
		}
	}
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			at := domain.Coord{Row: r, Col: c}
			cell := cellView{Row: r, Col: c, Label: at.String()}
			switch g.Board[r][c] {
			case domain.Black:
				cell.Disc = "black"
			case domain.White:
				cell.Disc = "white"
			default:
				cell.Legal = g.IsLegal(r, c, g.Turn)
			}
			cell.Flipped = flipped[at]
			cell.Placed = hasLast && placed == at
			v.Rows[r][c] = cell
		}
	}

	for i, m := range g.History {
		v.History = append(v.History, historyView{
			N:      i + 1,
			Player: sideName(m.Player),
			Move:   m.Notation(),
			Black:  m.Score.Black,
			White:  m.Score.White,
		})
	}
	v.Status = statusLine(gs)
	return v
}

// statusLine is the one-line game status shown above the board.
func statusLine(gs app.GameState) string {
	if gs.Game.Over {
		switch gs.Game.Winner() {
		case domain.Black:
			return "Black wins!"
		case domain.White:
			return "White wins!"
		default:
			return "Draw!"
		}
	}
	if gs.Last != nil && gs.Last.Passed != domain.Empty {
		return sideName(gs.Last.Passed) + " has no legal move and passes"
	}
	return ""
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Reversi</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.grid { display: grid; grid-template-columns: repeat(8, 48px); gap: 2px; background: #0b3d0b; padding: 2px; width: max-content; }
.grid form { margin: 0; }
.cell { width: 48px; height: 48px; border: 0; background: #1e7b1e; display: flex; align-items: center; justify-content: center; padding: 0; }
.disc { width: 38px; height: 38px; border-radius: 50%; display: block; }
.disc.black { background: #111; }
.disc.white { background: #f4f4f4; }
.disc.flipping { animation: flip 0.4s ease-in-out; }
.placed { outline: 2px solid #ffd54f; }
@keyframes flip { 0% { transform: scaleX(1); } 50% { transform: scaleX(0); } 100% { transform: scaleX(1); } }
.hints .legal .hint { width: 12px; height: 12px; border-radius: 50%; background: rgba(0,0,0,0.35); display: block; }
.alert { color: #b00020; }
.moves { max-height: 320px; overflow-y: auto; font-family: monospace; }
</style>
</head><body>{{template "content" .}}</body></html>`

const indexTemplate = `
<h1>Reversi</h1>
<form action="/game" method="post"><button>New game</button></form>`

const gameTemplate = `
<h1>Reversi</h1>
<p id="seat">{{if .Seat}}You play {{.Seat}}{{else}}Spectating{{end}}</p>
<div id="game">
  <label><input type="checkbox" onclick="document.getElementById('game').classList.toggle('hints')"> Show legal moves</label>
  <button hx-post="/game/{{.ID}}/restart" hx-target="#board" hx-swap="outerHTML">Restart</button>
  <div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
    <div hx-sse="swap:board">{{.BoardHTML}}</div>
  </div>
</div>`

const boardTemplate = `
<div id="board" data-turn="{{.Turn}}">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="scores">Black <span id="black-score">{{.Black}}</span> · White <span id="white-score">{{.White}}</span></div>
  {{if .Over}}<div class="turn">Game over</div>{{else}}<div class="turn">{{if eq .Turn "black"}}Black{{else}}White{{end}} to move</div>{{end}}
  <div id="game-status">{{.Status}}</div>
  <div class="grid">
  {{range $row := .Rows}}{{range $cell := $row}}
    <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
      <input type="hidden" name="r" value="{{$cell.Row}}">
      <input type="hidden" name="c" value="{{$cell.Col}}">
      <button type="submit" class="cell{{if $cell.Legal}} legal{{end}}{{if $cell.Placed}} placed{{end}}" title="{{$cell.Label}}">
        {{if $cell.Disc}}<span class="disc {{$cell.Disc}}{{if $cell.Flipped}} flipping{{end}}"></span>{{else if $cell.Legal}}<span class="hint"></span>{{end}}
      </button>
    </form>
  {{end}}{{end}}
  </div>
  <div class="moves" id="moves-list">
  {{range .History}}
    <div class="move-item">{{.N}}. {{.Player}} {{.Move}} ({{.Black}}-{{.White}})</div>
  {{end}}
  </div>
</div>
`

// playerCookie identifies a browser across requests; seats are keyed by it.
const playerCookie = "player_id"

func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return id
}
