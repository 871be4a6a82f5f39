package engine

import (
	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/protocol"
)

// pairKey identifies an unordered pair of players so a rematch vote
// from either side of a just-finished game lands on the same state.
type pairKey string

func makePairKey(a, b domain.PlayerId) pairKey {
	if a < b {
		return pairKey(a + "|" + b)
	}
	return pairKey(b + "|" + a)
}

// rematchState tracks votes for one just-finished pair during the
// rematch window. lastX/lastO record who played which symbol so a
// rematch keeps the same assignment.
type rematchState struct {
	lastX, lastO domain.PlayerId
	wants        map[domain.PlayerId]bool
	timer        clock.Timer
}

// armRematchWindow opens the vote window for a pair whose game just
// ended normally (win or draw, never disconnect or shutdown).
func (e *Engine) armRematchWindow(x, o domain.PlayerId) {
	key := makePairKey(x, o)

	e.rematchMu.Lock()
	defer e.rematchMu.Unlock()

	state := &rematchState{
		lastX: x,
		lastO: o,
		wants: map[domain.PlayerId]bool{},
	}
	e.rematches[key] = state
	e.pendingRematchOf[x] = key
	e.pendingRematchOf[o] = key

	state.timer = e.clk.AfterFunc(e.rematchWindow, func() {
		e.expireRematch(key)
	})
}

// voteRematch records player's vote. Returns the wire error code to
// send back, or "" on success (including the case where this vote is
// the second one and a new game has already been started).
func (e *Engine) voteRematch(player domain.PlayerId) protocol.ErrorCode {
	e.rematchMu.Lock()

	key, ok := e.pendingRematchOf[player]
	if !ok {
		e.rematchMu.Unlock()
		return protocol.ErrNotInGame
	}
	state := e.rematches[key]
	state.wants[player] = true

	bothWant := state.wants[state.lastX] && state.wants[state.lastO]

	if !bothWant {
		e.rematchMu.Unlock()
		return ""
	}

	if state.timer != nil {
		state.timer.Stop()
	}
	delete(e.rematches, key)
	delete(e.pendingRematchOf, state.lastX)
	delete(e.pendingRematchOf, state.lastO)
	e.rematchMu.Unlock()

	sx := e.sessionFor(state.lastX)
	so := e.sessionFor(state.lastO)
	if sx == nil || so == nil {
		// Whoever vanished can't rematch; the remaining side just goes
		// back to searching on their own next "search" frame.
		return ""
	}
	e.startGame(sx, so)
	return ""
}

// cancelRematch drops player from any pending vote without notifying
// the opponent with a dedicated event; the opponent simply sees the
// window expire normally.
func (e *Engine) cancelRematch(player domain.PlayerId) {
	e.rematchMu.Lock()
	defer e.rematchMu.Unlock()

	key, ok := e.pendingRematchOf[player]
	if !ok {
		return
	}
	delete(e.pendingRematchOf, player)

	state, ok := e.rematches[key]
	if !ok {
		return
	}
	delete(state.wants, player)
}

func (e *Engine) expireRematch(key pairKey) {
	e.rematchMu.Lock()
	state, ok := e.rematches[key]
	if !ok {
		e.rematchMu.Unlock()
		return
	}
	delete(e.rematches, key)
	delete(e.pendingRematchOf, state.lastX)
	delete(e.pendingRematchOf, state.lastO)
	e.rematchMu.Unlock()

	// Only a player who asked for the rematch is told it timed out.
	frame, _ := protocol.Encode(protocol.EventRematchTimeout, nil)
	if sx := e.sessionFor(state.lastX); sx != nil && state.wants[state.lastX] {
		sx.Send(frame)
	}
	if so := e.sessionFor(state.lastO); so != nil && state.wants[state.lastO] {
		so.Send(frame)
	}
}
