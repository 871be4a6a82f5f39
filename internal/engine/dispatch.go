package engine

import (
	"errors"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/gamesession"
	"github.com/TheAwiteb/xors/internal/matchmaker"
	"github.com/TheAwiteb/xors/internal/protocol"
	"github.com/TheAwiteb/xors/internal/session"
)

// Search implements session.Dispatcher: enqueue s's player into the
// matchmaker's search queue.
func (e *Engine) Search(s *session.Session) protocol.ErrorCode {
	switch s.State() {
	case session.Searching:
		return protocol.ErrAlreadyInSearch
	case session.InGame:
		return protocol.ErrAlreadyInGame
	}
	if e.maxOnlineGames > 0 && e.activeGameCount() >= e.maxOnlineGames {
		return protocol.ErrMaxGamesReached
	}

	s.SetState(session.Searching)
	err := e.matchmaker.Enqueue(s.PlayerId())
	if err == nil {
		return ""
	}
	s.SetState(session.Idle)

	if errors.Is(err, matchmaker.ErrAlreadyInSearch) {
		return protocol.ErrAlreadyInSearch
	}
	return protocol.ErrOther
}

// CancelSearch implements session.Dispatcher.
func (e *Engine) CancelSearch(s *session.Session) protocol.ErrorCode {
	if s.State() != session.Searching {
		return protocol.ErrNotInGame
	}
	e.matchmaker.Dequeue(s.PlayerId())
	s.SetState(session.Idle)
	return ""
}

// Play implements session.Dispatcher: forward the move to the live
// GameSession for s's current game.
func (e *Engine) Play(s *session.Session, place int) protocol.ErrorCode {
	binding, err := e.liveGameFor(s)
	if err != "" {
		return err
	}

	if playErr := binding.session.Play(s.PlayerId(), place); playErr != nil {
		return toErrorCode(playErr, protocol.ErrNotInGame)
	}
	return ""
}

// Welcome implements session.Dispatcher.
func (e *Engine) Welcome(s *session.Session, publicKey []byte) protocol.ErrorCode {
	binding, err := e.liveGameFor(s)
	if err != "" {
		return err
	}
	if welcomeErr := binding.session.Welcome(s.PlayerId(), publicKey); welcomeErr != nil {
		return toErrorCode(welcomeErr, protocol.ErrNotInGame)
	}
	return ""
}

// Chat implements session.Dispatcher.
func (e *Engine) Chat(s *session.Session, envelope domain.ChatEnvelope) protocol.ErrorCode {
	binding, err := e.liveGameFor(s)
	if err != "" {
		return err
	}
	if chatErr := binding.session.Chat(s.PlayerId(), envelope); chatErr != nil {
		return toErrorCode(chatErr, protocol.ErrNotInGame)
	}
	return ""
}

// LeaveGame implements session.Dispatcher: an explicit exit distinct
// from a network disconnect, the leaving session itself stays open.
func (e *Engine) LeaveGame(s *session.Session) protocol.ErrorCode {
	binding, err := e.liveGameFor(s)
	if err != "" {
		return err
	}
	binding.session.Leave(s.PlayerId())
	s.SetState(session.Idle)
	s.SetGameId("")
	return ""
}

// Rematch implements session.Dispatcher: record this player's vote for
// a rematch against their last opponent, provided the rematch window
// (armed by onGameEnd) is still open.
func (e *Engine) Rematch(s *session.Session) protocol.ErrorCode {
	if s.State() != session.Idle {
		return protocol.ErrAlreadyInGame
	}
	return e.voteRematch(s.PlayerId())
}

// Disconnect implements session.Dispatcher: called exactly once by
// ReadPump's deferred cleanup, regardless of which state the session
// was in.
func (e *Engine) Disconnect(s *session.Session) {
	switch s.State() {
	case session.Searching:
		e.matchmaker.Dequeue(s.PlayerId())
	case session.InGame:
		if binding := e.gameFor(s.GameId()); binding != nil {
			binding.session.Disconnect(s.PlayerId())
		}
	}
	e.cancelRematch(s.PlayerId())
	e.Unregister(s)
}

func (e *Engine) liveGameFor(s *session.Session) (*gameBinding, protocol.ErrorCode) {
	if s.State() != session.InGame {
		return nil, protocol.ErrNotInGame
	}
	binding := e.gameFor(s.GameId())
	if binding == nil {
		return nil, protocol.ErrNotInGame
	}
	return binding, ""
}

func toErrorCode(err error, fallback protocol.ErrorCode) protocol.ErrorCode {
	if errors.Is(err, gamesession.ErrGameOver) {
		return fallback
	}
	var protoErr gamesession.ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Code()
	}
	return protocol.ErrOther
}
