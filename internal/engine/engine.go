// Package engine is the registry tying sessions, the matchmaker, and
// live game sessions together, grounded on the teacher's service.go
// (mutex-guarded room map) and lobby.go (actor-owned maps), extended
// with the rematch bookkeeping and History/Clock wiring SPEC_FULL.md
// adds.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/gamesession"
	"github.com/TheAwiteb/xors/internal/history"
	"github.com/TheAwiteb/xors/internal/matchmaker"
	"github.com/TheAwiteb/xors/internal/protocol"
	"github.com/TheAwiteb/xors/internal/session"
	"github.com/google/uuid"
)

type gameBinding struct {
	session *gamesession.GameSession
	x, o    domain.PlayerId
}

// Stats is the read-only snapshot served by GET /game/stats.
type Stats struct {
	ActiveSessions int `json:"active_sessions"`
	ActiveGames    int `json:"active_games"`
	SearchingCount int `json:"searching_count"`
}

// Engine owns every piece of mutable registry state: connected
// sessions, live games, and the matchmaker. All exported methods are
// safe for concurrent use.
type Engine struct {
	clk            clock.Clock
	movePeriod     time.Duration
	rematchWindow  time.Duration
	maxOnlineGames int
	history        history.Sink
	matchmaker     *matchmaker.Matchmaker

	mu       sync.RWMutex
	sessions map[domain.PlayerId]*session.Session
	games    map[domain.GameId]*gameBinding

	rematchMu        sync.Mutex
	rematches        map[pairKey]*rematchState
	pendingRematchOf map[domain.PlayerId]pairKey
}

// New wires a ready-to-use Engine. sink may be nil (history recording
// becomes a no-op), the way engine tests run without Postgres.
func New(clk clock.Clock, movePeriod, rematchWindow time.Duration, maxOnlineGames int, sink history.Sink) *Engine {
	e := &Engine{
		clk:              clk,
		movePeriod:       movePeriod,
		rematchWindow:    rematchWindow,
		maxOnlineGames:   maxOnlineGames,
		history:          sink,
		sessions:         map[domain.PlayerId]*session.Session{},
		games:            map[domain.GameId]*gameBinding{},
		rematches:        map[pairKey]*rematchState{},
		pendingRematchOf: map[domain.PlayerId]pairKey{},
	}
	e.matchmaker = matchmaker.New(e.handlePaired)
	return e
}

// Register binds a new Session under its PlayerId. An existing
// connection for the same player is superseded: closed without a wire
// event, and the new connection wins. The new Session starts Idle; no
// game state is copied from the old one. When the old connection's
// read pump exits, its Disconnect runs as for any dropped connection,
// so a game the player was in ends as player_disconnected.
func (e *Engine) Register(s *session.Session) {
	e.mu.Lock()
	old, existed := e.sessions[s.PlayerId()]
	e.sessions[s.PlayerId()] = s
	e.mu.Unlock()

	if existed {
		old.Close("superseded_by_new_connection")
	}
}

// Unregister removes s, but only if it is still the session on file
// for its PlayerId (a superseded session calling Unregister on its own
// way out must not evict its successor).
func (e *Engine) Unregister(s *session.Session) {
	e.mu.Lock()
	if current, ok := e.sessions[s.PlayerId()]; ok && current == s {
		delete(e.sessions, s.PlayerId())
	}
	e.mu.Unlock()
}

func (e *Engine) sessionFor(id domain.PlayerId) *session.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessions[id]
}

func (e *Engine) gameFor(id domain.GameId) *gameBinding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.games[id]
}

func (e *Engine) activeGameCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.games)
}

// Stats reports a point-in-time snapshot of registry size.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	activeSessions := len(e.sessions)
	activeGames := len(e.games)
	e.mu.RUnlock()
	return Stats{
		ActiveSessions: activeSessions,
		ActiveGames:    activeGames,
		SearchingCount: e.matchmaker.QueueLength(),
	}
}

// handlePaired runs on the matchmaker's own actor goroutine; it must
// never call back into the matchmaker synchronously (Enqueue/Dequeue
// would deadlock against the very goroutine invoking this callback).
func (e *Engine) handlePaired(x, o domain.PlayerId) {
	sx := e.sessionFor(x)
	so := e.sessionFor(o)

	if sx == nil || so == nil {
		// One side vanished between Enqueue and pairing (disconnected
		// mid-search). Requeue whichever side is still connected from
		// a fresh goroutine, never from this one.
		if sx != nil {
			go func() { _ = e.matchmaker.Enqueue(x) }()
		}
		if so != nil {
			go func() { _ = e.matchmaker.Enqueue(o) }()
		}
		return
	}

	// Random X/O assignment for the new pair.
	if rand.Intn(2) == 1 {
		sx, so = so, sx
	}
	e.startGame(sx, so)
}

func (e *Engine) startGame(x, o *session.Session) domain.GameId {
	id := domain.GameId(uuid.NewString())

	gs := gamesession.New(id, x, o, e.clk, e.movePeriod, func(summary domain.GameSummary, survivors []domain.PlayerId) {
		e.onGameEnd(id, summary, survivors)
	})

	e.mu.Lock()
	e.games[id] = &gameBinding{session: gs, x: x.PlayerId(), o: o.PlayerId()}
	e.mu.Unlock()

	x.SetState(session.InGame)
	x.SetGameId(id)
	o.SetState(session.InGame)
	o.SetGameId(id)

	frame, _ := protocol.Encode(protocol.EventGameFound, protocol.GameFoundData{XPlayer: x.PlayerId(), OPlayer: o.PlayerId()})
	x.Send(frame)
	o.Send(frame)

	return id
}

func (e *Engine) onGameEnd(id domain.GameId, summary domain.GameSummary, survivors []domain.PlayerId) {
	e.mu.Lock()
	delete(e.games, id)
	e.mu.Unlock()

	for _, p := range survivors {
		if s := e.sessionFor(p); s != nil {
			s.SetState(session.Idle)
			s.SetGameId("")
		}
	}

	if e.history != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.history.Record(ctx, summary); err != nil {
				slog.Error("failed to record game summary", "game_id", summary.GameId, "error", err)
			}
		}()
	}

	if summary.Reason == domain.ReasonPlayerWon || summary.Reason == domain.ReasonDraw {
		e.armRematchWindow(summary.XPlayer, summary.OPlayer)
	}
}

// Shutdown ends every live game with reason server_shutdown, closes
// every session, and stops the matchmaker — grounded on
// backend/main.go's sync.WaitGroup drain, expressed here through each
// GameSession's own Done() channel instead.
func (e *Engine) Shutdown(ctx context.Context) {
	e.matchmaker.Stop()

	e.mu.RLock()
	games := make([]*gamesession.GameSession, 0, len(e.games))
	for _, g := range e.games {
		games = append(games, g.session)
	}
	sessions := make([]*session.Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.mu.RUnlock()

	for _, g := range games {
		g.Shutdown()
	}
	for _, g := range games {
		select {
		case <-g.Done():
		case <-ctx.Done():
		}
	}
	for _, s := range sessions {
		s.Close("server_shutdown")
	}
}
