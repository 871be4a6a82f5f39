package gamesession

import (
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/protocol"
)

func (s *GameSession) handlePlay(player domain.PlayerId, place int, autoPlay bool) error {
	mover := s.recipientFor(s.turn)
	if mover.PlayerId() != player {
		return ProtocolError(protocol.ErrNotYourTurn)
	}
	if place < 0 || place > 8 || s.board[place] != domain.SymbolNone {
		return ProtocolError(protocol.ErrInvalidPlace)
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.board[place] = s.turn
	s.applyMove(player, place, autoPlay)
	return nil
}

func (s *GameSession) handleDeadline() {
	place, ok := s.board.LowestEmpty()
	if !ok {
		return // board already full, deadline raced with a completed round; nothing to do
	}
	mover := s.recipientFor(s.turn)
	s.board[place] = s.turn
	s.applyMove(mover.PlayerId(), place, true)
}

// applyMove is the shared tail of a manual play and an auto-play: write
// already happened, decide round/game outcome and emit events.
func (s *GameSession) applyMove(mover domain.PlayerId, place int, autoPlay bool) {
	moverRecipient := s.recipientFor(s.turn)
	opponent := s.opponentOf(mover)

	if autoPlay {
		frame, _ := protocol.Encode(protocol.EventAutoPlay, protocol.AutoPlayData{Place: place})
		moverRecipient.Send(frame)
	}

	_, won := s.board.Winner()
	roundOver := won || s.board.Full()

	if !roundOver {
		frame, _ := protocol.Encode(protocol.EventPlay, protocol.ServerPlayData{Place: place, Player: mover})
		opponent.Send(frame)

		s.turn = flip(s.turn)
		s.armDeadline()
		return
	}

	var roundWinner domain.PlayerId
	if won {
		roundWinner = mover
		s.scores[mover]++
	}
	s.rounds = append(s.rounds, domain.RoundResult{Round: s.round, Winner: roundWinner})

	over, gameWinner := gameOverCheck(s.scores, s.round)
	if over {
		s.finish(gameWinner, domain.ReasonPlayerWon, gameWinner == "")
		return
	}

	var winnerPtr *domain.PlayerId
	if roundWinner != "" {
		winnerPtr = &roundWinner
	}
	frame, _ := protocol.Encode(protocol.EventRoundEnd, protocol.RoundEndData{Round: s.round, Winner: winnerPtr})
	s.x.Send(frame)
	s.o.Send(frame)

	s.board = Board{}
	s.round++
	s.turn = domain.SymbolX

	s.emitRoundStart()
	s.armDeadline()
}

func (s *GameSession) emitRoundStart() {
	frame, _ := protocol.Encode(protocol.EventRoundStart, protocol.RoundStartData{Round: s.round})
	s.x.Send(frame)
	s.o.Send(frame)
}

// finish ends the game and notifies both players plus the engine. When
// draw is true, winner is cleared and reason becomes draw.
func (s *GameSession) finish(winner domain.PlayerId, reason domain.GameOverReason, draw bool) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.terminal = true

	if draw {
		winner = ""
		reason = domain.ReasonDraw
	}

	var winnerPtr *domain.PlayerId
	if winner != "" {
		winnerPtr = &winner
	}
	frame, _ := protocol.Encode(protocol.EventGameOver, protocol.GameOverData{
		GameId: s.id,
		Winner: winnerPtr,
		Reason: reason,
	})
	s.x.Send(frame)
	s.o.Send(frame)

	s.emitSummary(reason, []domain.PlayerId{s.x.PlayerId(), s.o.PlayerId()})
}

func (s *GameSession) handleDisconnect(player domain.PlayerId) {
	if s.timer != nil {
		s.timer.Stop()
	}
	opponent := s.opponentOf(player)

	winner := opponent.PlayerId()
	frame, _ := protocol.Encode(protocol.EventGameOver, protocol.GameOverData{
		GameId: s.id,
		Winner: &winner,
		Reason: domain.ReasonPlayerDisconnected,
	})
	opponent.Send(frame)

	s.emitSummary(domain.ReasonPlayerDisconnected, []domain.PlayerId{winner})
}

func (s *GameSession) handleShutdown() {
	s.finish("", domain.ReasonServerShutdown, false)
}

func (s *GameSession) emitSummary(reason domain.GameOverReason, survivors []domain.PlayerId) {
	summary := domain.GameSummary{
		GameId:      s.id,
		XPlayer:     s.x.PlayerId(),
		OPlayer:     s.o.PlayerId(),
		Rounds:      s.rounds,
		FinalScores: s.scores,
		Reason:      reason,
		StartedAt:   s.startAt,
		EndedAt:     s.clk.Now(),
	}
	if s.onEnd != nil {
		s.onEnd(summary, survivors)
	}
}

func (s *GameSession) handleWelcome(player domain.PlayerId, publicKey []byte) error {
	if s.welcomed[player] {
		return ProtocolError(protocol.ErrAlreadyWellcomed)
	}
	if !domain.ValidPublicKey(publicKey) {
		return ProtocolError(protocol.ErrInvalidPublicKey)
	}
	s.welcomed[player] = true

	frame, _ := protocol.Encode(protocol.EventWelcome, protocol.WelcomeData{PublicKey: publicKey})
	s.opponentOf(player).Send(frame)
	return nil
}

func (s *GameSession) handleChat(player domain.PlayerId, envelope domain.ChatEnvelope) error {
	if !s.welcomed[player] {
		return ProtocolError(protocol.ErrChatNotAllowed)
	}
	opponent := s.opponentOf(player)
	if !s.welcomed[opponent.PlayerId()] {
		return ProtocolError(protocol.ErrChatNotStarted)
	}
	if len(envelope.EncryptedMessage) == 0 || len(envelope.EncryptedMessage) > domain.MaxChatEnvelopeFieldBytes {
		return ProtocolError(protocol.ErrInvalidChatMessage)
	}
	if len(envelope.Signature) == 0 || len(envelope.Signature) > domain.MaxChatEnvelopeFieldBytes {
		return ProtocolError(protocol.ErrInvalidChatSignature)
	}

	frame, _ := protocol.Encode(protocol.EventChat, protocol.ChatData{
		EncryptedMessage: envelope.EncryptedMessage,
		Signature:        envelope.Signature,
	})
	opponent.Send(frame)
	return nil
}

func flip(s domain.Symbol) domain.Symbol {
	if s == domain.SymbolX {
		return domain.SymbolO
	}
	return domain.SymbolX
}
