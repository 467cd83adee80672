package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/codex-reversi/internal/domain"
	"github.com/jaminalder/codex-reversi/internal/logging"
)

// Service errors. Engine errors from domain pass through unchanged.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// DefaultIdleTTL is how long a game may go without updates before Sweep removes it.
const DefaultIdleTTL = 24 * time.Hour

// GameState is one hosted game: the engine plus who sits where.
type GameState struct {
	ID    string
	Game  domain.Game
	Black string
	White string
	// Last is the outcome of the most recent placement, nil after create or restart.
	Last    *domain.Result
	Created time.Time
	Updated time.Time
}

// Seat returns the side playerID is seated on, or Empty for spectators.
func (gs *GameState) Seat(playerID string) domain.Cell {
	switch {
	case playerID == "":
		return domain.Empty
	case gs.Black == playerID:
		return domain.Black
	case gs.White == playerID:
		return domain.White
	default:
		return domain.Empty
	}
}

// clone returns a copy that shares no mutable memory with gs.
func (gs *GameState) clone() GameState {
	cp := *gs
	cp.Game = gs.Game.Snapshot()
	if gs.Last != nil {
		last := *gs.Last
		last.Flipped = append([]domain.Coord(nil), gs.Last.Flipped...)
		cp.Last = &last
	}
	return cp
}

type subscriberSet map[*subscriber]struct{}

// subscriber is one SSE stream. Its channel holds a single pending payload.
type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send delivers b without blocking and reports false if the buffer is full.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service hosts games in memory and fans state changes out to subscribers.
type Service struct {
	mu      sync.Mutex
	games   map[string]*GameState
	subs    map[string]subscriberSet
	render  func(GameState) []byte
	logger  *slog.Logger
	idleTTL time.Duration
	now     func() time.Time
}

// NewService returns a service whose broadcasts carry no payload until a
// renderer is installed.
func NewService() *Service { return NewServiceWithRenderer(nil) }

// NewServiceWithRenderer returns a service that renders broadcasts with renderer.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	if renderer == nil {
		renderer = renderNothing
	}
	return &Service{
		games:   make(map[string]*GameState),
		subs:    make(map[string]subscriberSet),
		render:  renderer,
		logger:  logging.Discard(),
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

// SetRenderer swaps the broadcast renderer; nil restores the empty one.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = renderNothing
		return
	}
	s.render = renderer
}

// SetLogger replaces the logger used for game lifecycle events.
func (s *Service) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetIdleTTL changes how long idle games are kept.
func (s *Service) SetIdleTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleTTL = ttl
}

// CreateGame registers a fresh game under a new uuid.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	gs := &GameState{ID: uuid.NewString(), Game: domain.New(), Created: now, Updated: now}
	s.games[gs.ID] = gs
	s.logger.Info("game created", "game", gs.ID)
	cp := gs.clone()
	return &cp, nil
}

// Get returns a detached copy of the game.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gs, ok := s.games[id]; ok {
		cp := gs.clone()
		return &cp, true
	}
	return nil, false
}

// Join seats playerID: the first caller takes Black, the second White, and
// everyone after that spectates (Empty). Rejoining keeps the seat.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.games[id]
	if gs == nil {
		return domain.Empty, nil, ErrNotFound
	}
	side := gs.Seat(playerID)
	if side == domain.Empty && playerID != "" {
		if gs.Black == "" {
			gs.Black = playerID
			side = domain.Black
		} else if gs.White == "" {
			gs.White = playerID
			side = domain.White
		}
		if side != domain.Empty {
			s.logger.Info("player seated", "game", id, "player", playerID, "side", side)
		}
	}
	gs.Updated = s.now()
	view := gs.clone()
	return side, &view, nil
}

// Play places a disc for the seated player whose turn it is. The placement,
// its flips and any forced pass land in one critical section; subscribers see
// the result afterwards.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	return s.update(id, playerID, func(gs *GameState, seat domain.Cell) error {
		if seat != gs.Game.Turn {
			return ErrNotYourTurn
		}
		res, err := gs.Game.Apply(r, c, seat)
		if err != nil {
			return err
		}
		gs.Last = &res
		s.logMove(id, seat, res)
		return nil
	})
}

// Restart puts the game back to the opening position. Spectators get ErrNotAPlayer.
func (s *Service) Restart(id, playerID string) (*GameState, error) {
	return s.update(id, playerID, func(gs *GameState, _ domain.Cell) error {
		gs.Game.Reset()
		gs.Last = nil
		s.logger.Info("game restarted", "game", id, "player", playerID)
		return nil
	})
}

// update applies fn to a game on behalf of a seated player while holding the
// lock, then broadcasts the rendered state. Nothing is broadcast when fn fails.
func (s *Service) update(id, playerID string, fn func(gs *GameState, seat domain.Cell) error) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	seat := gs.Seat(playerID)
	if seat == domain.Empty {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if err := fn(gs, seat); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Updated = s.now()
	cp := gs.clone()
	subs := s.subscribersLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.broadcast(id, subs, payload)
	return &cp, nil
}

func (s *Service) logMove(id string, seat domain.Cell, res domain.Result) {
	s.logger.Debug("move played", "game", id, "side", seat, "at", res.At.String(),
		"flipped", len(res.Flipped), "black", res.Score.Black, "white", res.Score.White)
	if res.Passed != domain.Empty {
		s.logger.Info("forced pass", "game", id, "side", res.Passed)
	}
	if res.Over {
		s.logger.Info("game over", "game", id, "winner", res.Score.Winner(),
			"black", res.Score.Black, "white", res.Score.White)
	}
}

// broadcast fans payload out to subs; slow subscribers are closed and removed.
func (s *Service) broadcast(id string, subs subscriberSet, payload []byte) {
	var slow []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			slow = append(slow, sub)
		}
	}
	if len(slow) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range slow {
		delete(s.subs[id], sub)
	}
	s.mu.Unlock()
	s.logger.Debug("dropped slow subscribers", "game", id, "count", len(slow))
}

// Subscribe streams rendered states of game id. The channel is closed when
// ctx is done, the returned cancel func runs, the subscriber falls behind or
// the game is swept.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	if s.subs[id] == nil {
		s.subs[id] = make(subscriberSet)
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	s.subs[id][sub] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[id], sub)
			if len(s.subs[id]) == 0 {
				delete(s.subs, id)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return sub.ch, cancel, nil
}

// Sweep removes games not updated within the idle TTL as of now and closes
// their subscribers. It returns the number of games removed.
func (s *Service) Sweep(now time.Time) int {
	s.mu.Lock()
	var closed []*subscriber
	removed := 0
	for id, gs := range s.games {
		if now.Sub(gs.Updated) <= s.idleTTL {
			continue
		}
		delete(s.games, id)
		for sub := range s.subs[id] {
			closed = append(closed, sub)
		}
		delete(s.subs, id)
		removed++
	}
	logger := s.logger
	s.mu.Unlock()

	for _, sub := range closed {
		sub.close()
	}
	if removed > 0 {
		logger.Info("swept idle games", "count", removed)
	}
	return removed
}

// Run sweeps idle games every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Sweep(t)
		}
	}
}

// subscribersLocked snapshots the subscriber set of id. s.mu must be held.
func (s *Service) subscribersLocked(id string) subscriberSet {
	out := make(subscriberSet, len(s.subs[id]))
	for sub := range s.subs[id] {
		out[sub] = struct{}{}
	}
	return out
}

func renderNothing(GameState) []byte { return nil }
