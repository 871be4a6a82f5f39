// Package gamesession implements the authoritative per-game state
// machine: one actor goroutine owning board, round, scores, turn and
// the move-deadline timer, grounded on the teacher repo's room_actor.go
// / room.go channel-actor shape (inbox, ticks, playerRemovalRequests
// become plays, deadlines, disconnects here).
package gamesession

import (
	"errors"
	"time"

	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/protocol"
)

// ErrGameOver is returned by public methods once the session's actor
// loop has exited; callers (a PlayerSession's read pump) should treat
// it as "nothing to do", the termination callback already fired.
var ErrGameOver = errors.New("gamesession: game already ended")

// Recipient is the narrow view of a PlayerSession the game session
// needs: an id to address events and turns, and a place to push
// outbound wire frames.
type Recipient interface {
	PlayerId() domain.PlayerId
	Send(frame []byte)
}

// OnEnd is invoked exactly once, from the session's own actor
// goroutine, when the game terminates for any reason. survivors lists
// the players who should return to Idle (both players on a normal
// game_over, only the opponent on player_disconnected).
type OnEnd func(summary domain.GameSummary, survivors []domain.PlayerId)

type playCmd struct {
	player domain.PlayerId
	place  int
	result chan error
}

type welcomeCmd struct {
	player    domain.PlayerId
	publicKey []byte
	result    chan error
}

type chatCmd struct {
	player   domain.PlayerId
	envelope domain.ChatEnvelope
	result   chan error
}

type deadlineFired struct {
	generation int
}

// GameSession is the actor owning one game's authoritative state.
type GameSession struct {
	id      domain.GameId
	x, o    Recipient
	clk     clock.Clock
	movePer time.Duration
	onEnd   OnEnd

	board    Board
	round    int
	scores   map[domain.PlayerId]int
	turn     domain.Symbol
	welcomed map[domain.PlayerId]bool
	rounds   []domain.RoundResult
	startAt  time.Time
	terminal bool

	timer      clock.Timer
	generation int

	plays       chan playCmd
	welcomes    chan welcomeCmd
	chats       chan chatCmd
	disconnects chan domain.PlayerId
	leaves      chan domain.PlayerId
	deadlines   chan deadlineFired
	shutdowns   chan struct{}
	done        chan struct{}
}

// New creates and starts a GameSession's actor goroutine. Symbol
// assignment (who is X) is the caller's responsibility (the engine's
// random coin flip); New always starts the round with X.
func New(id domain.GameId, xPlayer, oPlayer Recipient, clk clock.Clock, movePeriod time.Duration, onEnd OnEnd) *GameSession {
	s := &GameSession{
		id:      id,
		x:       xPlayer,
		o:       oPlayer,
		clk:     clk,
		movePer: movePeriod,
		onEnd:   onEnd,
		round:   1,
		scores: map[domain.PlayerId]int{
			xPlayer.PlayerId(): 0,
			oPlayer.PlayerId(): 0,
		},
		turn:        domain.SymbolX,
		welcomed:    map[domain.PlayerId]bool{},
		startAt:     clk.Now(),
		plays:       make(chan playCmd),
		welcomes:    make(chan welcomeCmd),
		chats:       make(chan chatCmd),
		disconnects: make(chan domain.PlayerId, 2),
		leaves:      make(chan domain.PlayerId, 2),
		deadlines:   make(chan deadlineFired, 1),
		shutdowns:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *GameSession) Id() domain.GameId { return s.id }

// Play forwards a play request from player at place. Blocks until the
// actor has processed it to completion.
func (s *GameSession) Play(player domain.PlayerId, place int) error {
	result := make(chan error, 1)
	select {
	case s.plays <- playCmd{player: player, place: place, result: result}:
	case <-s.done:
		return ErrGameOver
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrGameOver
	}
}

// Welcome forwards a welcome{public_key} from player.
func (s *GameSession) Welcome(player domain.PlayerId, publicKey []byte) error {
	result := make(chan error, 1)
	select {
	case s.welcomes <- welcomeCmd{player: player, publicKey: publicKey, result: result}:
	case <-s.done:
		return ErrGameOver
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrGameOver
	}
}

// Chat forwards an opaque chat envelope from player.
func (s *GameSession) Chat(player domain.PlayerId, envelope domain.ChatEnvelope) error {
	result := make(chan error, 1)
	select {
	case s.chats <- chatCmd{player: player, envelope: envelope, result: result}:
	case <-s.done:
		return ErrGameOver
	}
	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrGameOver
	}
}

// Disconnect notifies the game that player's connection is gone. Fire
// and forget: the opposing player wins immediately, no result to wait
// on. Safe to call more than once or after the game already ended.
func (s *GameSession) Disconnect(player domain.PlayerId) {
	select {
	case s.disconnects <- player:
	case <-s.done:
	}
}

// Leave treats an explicit leave_game the same as a disconnect for
// game-state purposes, but the leaving player's own session is expected
// to survive (the caller is responsible for that side).
func (s *GameSession) Leave(player domain.PlayerId) {
	select {
	case s.leaves <- player:
	case <-s.done:
	}
}

// Done reports when the session's actor loop has exited.
func (s *GameSession) Done() <-chan struct{} { return s.done }

// Shutdown ends the game early because the server is stopping. Fire
// and forget, like Disconnect and Leave.
func (s *GameSession) Shutdown() {
	select {
	case s.shutdowns <- struct{}{}:
	case <-s.done:
	}
}

func (s *GameSession) run() {
	defer close(s.done)
	s.emitRoundStart()
	s.armDeadline()

	for {
		select {
		case cmd := <-s.plays:
			cmd.result <- s.handlePlay(cmd.player, cmd.place, false)
			if s.terminal {
				return
			}
		case cmd := <-s.welcomes:
			cmd.result <- s.handleWelcome(cmd.player, cmd.publicKey)
		case cmd := <-s.chats:
			cmd.result <- s.handleChat(cmd.player, cmd.envelope)
		case fired := <-s.deadlines:
			if fired.generation != s.generation {
				continue // stale timer, superseded by a later move
			}
			s.handleDeadline()
			if s.terminal {
				return
			}
		case player := <-s.disconnects:
			s.handleDisconnect(player)
			return
		case player := <-s.leaves:
			s.handleDisconnect(player)
			return
		case <-s.shutdowns:
			s.handleShutdown()
			return
		}
	}
}

func (s *GameSession) opponentOf(player domain.PlayerId) Recipient {
	if s.x.PlayerId() == player {
		return s.o
	}
	return s.x
}

func (s *GameSession) recipientFor(sym domain.Symbol) Recipient {
	if sym == domain.SymbolX {
		return s.x
	}
	return s.o
}

func (s *GameSession) symbolOf(player domain.PlayerId) domain.Symbol {
	if s.x.PlayerId() == player {
		return domain.SymbolX
	}
	return domain.SymbolO
}

func (s *GameSession) armDeadline() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	deadline := s.clk.Now().Add(s.movePer)
	s.timer = s.clk.AfterFunc(s.movePer, func() {
		select {
		case s.deadlines <- deadlineFired{generation: gen}:
		case <-s.done:
		}
	})

	mover := s.recipientFor(s.turn)
	frame, _ := protocol.Encode(protocol.EventYourTurn, protocol.YourTurnData{
		AutoPlayAfter: deadline.Unix(),
	})
	mover.Send(frame)
}
