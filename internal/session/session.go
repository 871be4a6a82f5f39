package session

import (
	"sync"
	"time"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/protocol"
	"golang.org/x/time/rate"
)

// Session is a single connected player: identity, transport, and the
// state machine position (Idle/Searching/InGame). It implements
// gamesession.Recipient so a *Session can be handed to a GameSession
// directly.
type Session struct {
	id   domain.PlayerId
	conn Connection
	disp Dispatcher

	limiter *rate.Limiter

	outbox chan []byte
	closed chan struct{}
	once   sync.Once

	mu    sync.Mutex
	state State
	gameID domain.GameId
}

// New creates a Session and its outbound queue; callers still need to
// start ReadPump/WritePump in their own goroutines.
func New(id domain.PlayerId, conn Connection, disp Dispatcher, outboundQueueSize int) *Session {
	return &Session{
		id:      id,
		conn:    conn,
		disp:    disp,
		limiter: rate.NewLimiter(5, 10),
		outbox:  make(chan []byte, outboundQueueSize),
		closed:  make(chan struct{}),
		state:   Idle,
	}
}

func (s *Session) PlayerId() domain.PlayerId { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SetState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) GameId() domain.GameId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

func (s *Session) SetGameId(id domain.GameId) {
	s.mu.Lock()
	s.gameID = id
	s.mu.Unlock()
}

// Send enqueues an already-encoded frame. A full outbox means the
// client has fallen too far behind; per the overflow policy the
// connection is closed rather than let the queue grow unbounded.
func (s *Session) Send(frame []byte) {
	select {
	case s.outbox <- frame:
	case <-s.closed:
	default:
		s.CloseDueToOverflow()
	}
}

// CloseDueToOverflow tears the session down because its outbound queue
// could not keep up with the server.
func (s *Session) CloseDueToOverflow() {
	s.once.Do(func() {
		close(s.closed)
		s.conn.Close("outbound_queue_overflow")
	})
}

// Close tears the session down for any other session-fatal reason
// (e.g. auth expiry, reconnect supersession).
func (s *Session) Close(reason string) {
	s.once.Do(func() {
		close(s.closed)
		s.conn.Close(reason)
	})
}

// ReadPump decodes inbound frames and dispatches them until the
// connection errors out or is closed, then notifies the dispatcher
// exactly once. Runs in its own goroutine; returns when done.
func (s *Session) ReadPump() {
	defer s.disp.Disconnect(s)

	for {
		raw, err := s.conn.Read()
		if err != nil {
			return
		}

		if !s.limiter.Allow() {
			// Over the inbound rate: drop silently rather than invent a
			// wire error code the spec doesn't define.
			continue
		}

		env, err := protocol.DecodeEnvelope(raw)
		if err != nil {
			s.Send(protocol.EncodeError(protocol.ErrInvalidBody))
			continue
		}

		if code := s.dispatch(env); code != "" {
			s.Send(protocol.EncodeError(code))
		}
	}
}

func (s *Session) dispatch(env protocol.Envelope) protocol.ErrorCode {
	switch env.Event {
	case protocol.EventSearch:
		return s.disp.Search(s)
	case protocol.EventCancelSearch:
		return s.disp.CancelSearch(s)
	case protocol.EventPlay:
		var data protocol.PlayData
		if err := protocol.DecodeData(env, &data); err != nil {
			return protocol.ErrInvalidEventDataForEvent
		}
		return s.disp.Play(s, data.Place)
	case protocol.EventWelcome:
		var data protocol.WelcomeData
		if err := protocol.DecodeData(env, &data); err != nil {
			return protocol.ErrInvalidEventDataForEvent
		}
		return s.disp.Welcome(s, data.PublicKey)
	case protocol.EventChat:
		var data protocol.ChatData
		if err := protocol.DecodeData(env, &data); err != nil {
			return protocol.ErrInvalidEventDataForEvent
		}
		return s.disp.Chat(s, domain.ChatEnvelope{EncryptedMessage: data.EncryptedMessage, Signature: data.Signature})
	case protocol.EventRematch:
		return s.disp.Rematch(s)
	case protocol.EventLeaveGame:
		return s.disp.LeaveGame(s)
	default:
		return protocol.ErrUnknownEvent
	}
}

// WritePump drains the outbound queue to the connection and sends
// periodic pings, grounded on the teacher's player_actor.go WritePump
// select loop. Runs until the session is closed or a write fails.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-s.outbox:
			if err := s.conn.Write(frame); err != nil {
				s.Close("write_error")
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(); err != nil {
				s.Close("ping_error")
				return
			}
		case <-s.closed:
			return
		}
	}
}
