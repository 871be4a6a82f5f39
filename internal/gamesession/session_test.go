package gamesession

import (
	"sync"
	"testing"
	"time"

	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipient struct {
	id domain.PlayerId

	mu     sync.Mutex
	frames []protocol.Envelope
}

func newFakeRecipient(id domain.PlayerId) *fakeRecipient {
	return &fakeRecipient{id: id}
}

func (f *fakeRecipient) PlayerId() domain.PlayerId { return f.id }

func (f *fakeRecipient) Send(frame []byte) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, env)
}

func (f *fakeRecipient) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := make([]string, len(f.frames))
	for i, e := range f.frames {
		tags[i] = e.Event
	}
	return tags
}

func (f *fakeRecipient) last() protocol.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		panic("fakeRecipient: last() called with no frames received")
	}
	return f.frames[len(f.frames)-1]
}

func (f *fakeRecipient) snapshot() []protocol.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]protocol.Envelope{}, f.frames...)
}

func countEvent(f *fakeRecipient, event string) int {
	n := 0
	for _, env := range f.snapshot() {
		if env.Event == event {
			n++
		}
	}
	return n
}

func findEnvelope(t *testing.T, f *fakeRecipient, event string) protocol.Envelope {
	t.Helper()
	for _, env := range f.snapshot() {
		if env.Event == event {
			return env
		}
	}
	t.Fatalf("no %s frame received", event)
	return protocol.Envelope{}
}

func newTestSession(t *testing.T) (*GameSession, *fakeRecipient, *fakeRecipient, *clock.Virtual, *domain.GameSummary) {
	t.Helper()
	x := newFakeRecipient("alice")
	o := newFakeRecipient("bob")
	vc := clock.NewVirtual(time.Now())
	var summary domain.GameSummary
	var survivors []domain.PlayerId
	gs := New("game-1", x, o, vc, 10*time.Second, func(s domain.GameSummary, sv []domain.PlayerId) {
		summary = s
		survivors = sv
	})
	t.Cleanup(func() { _ = survivors })
	return gs, x, o, vc, &summary
}

func TestGameSession_RoundWin(t *testing.T) {
	t.Parallel()
	gs, x, o, _, _ := newTestSession(t)

	require.NoError(t, gs.Play("alice", 0))
	require.NoError(t, gs.Play("bob", 1))
	require.NoError(t, gs.Play("alice", 3))
	require.NoError(t, gs.Play("bob", 4))
	require.NoError(t, gs.Play("alice", 6)) // 0,3,6 column win for X

	assert.Contains(t, x.events(), protocol.EventRoundEnd)

	var data protocol.RoundEndData
	require.NoError(t, protocol.DecodeData(findEnvelope(t, o, protocol.EventRoundEnd), &data))
	assert.Equal(t, 1, data.Round)
	require.NotNil(t, data.Winner)
	assert.Equal(t, domain.PlayerId("alice"), *data.Winner)

	// round_start fires once at game creation and again after round 1.
	assert.Equal(t, 2, countEvent(x, protocol.EventRoundStart))
	assert.Contains(t, x.events(), protocol.EventYourTurn)
}

func TestGameSession_NotYourTurn(t *testing.T) {
	t.Parallel()
	gs, _, _, _, _ := newTestSession(t)

	err := gs.Play("bob", 0)
	var protoErr ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, protocol.ErrNotYourTurn, protoErr.Code())
}

func TestGameSession_InvalidPlace(t *testing.T) {
	t.Parallel()
	gs, _, _, _, _ := newTestSession(t)

	require.NoError(t, gs.Play("alice", 0))
	err := gs.Play("bob", 0) // occupied
	var protoErr ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, protocol.ErrInvalidPlace, protoErr.Code())
}

func TestGameSession_DrawRound(t *testing.T) {
	t.Parallel()
	gs, x, _, _, _ := newTestSession(t)

	// X O X
	// X O O
	// O X X
	moves := []struct {
		player domain.PlayerId
		place  int
	}{
		{"alice", 0}, {"bob", 1},
		{"alice", 2}, {"bob", 4},
		{"alice", 3}, {"bob", 5},
		{"alice", 7}, {"bob", 6},
		{"alice", 8},
	}
	for _, m := range moves {
		require.NoError(t, gs.Play(m.player, m.place))
	}

	assert.Contains(t, x.events(), protocol.EventRoundEnd)
	var data protocol.RoundEndData
	require.NoError(t, protocol.DecodeData(findEnvelope(t, x, protocol.EventRoundEnd), &data))
	assert.Nil(t, data.Winner)
}

func TestGameSession_AutoPlayOnDeadline(t *testing.T) {
	t.Parallel()
	_, x, o, vc, _ := newTestSession(t)

	// your_turn is sent right after the deadline timer is armed, so wait
	// for it before moving the clock.
	require.Eventually(t, func() bool {
		return countEvent(x, protocol.EventYourTurn) == 1
	}, time.Second, time.Millisecond)

	vc.Advance(10 * time.Second)

	assert.Eventually(t, func() bool {
		for _, ev := range x.events() {
			if ev == protocol.EventAutoPlay {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	assert.Eventually(t, func() bool {
		return countEvent(o, protocol.EventPlay) == 1
	}, time.Second, time.Millisecond)
}

func TestGameSession_WelcomeAndChatRelay(t *testing.T) {
	t.Parallel()
	gs, x, o, _, _ := newTestSession(t)

	require.NoError(t, gs.Welcome("alice", []byte("pk-alice")))
	assert.Contains(t, o.events(), protocol.EventWelcome)

	err := gs.Chat("bob", domain.ChatEnvelope{EncryptedMessage: []byte("hi"), Signature: []byte("sig")})
	var protoErr ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, protocol.ErrChatNotAllowed, protoErr.Code())

	require.NoError(t, gs.Welcome("bob", []byte("pk-bob")))
	require.NoError(t, gs.Chat("bob", domain.ChatEnvelope{EncryptedMessage: []byte("hi"), Signature: []byte("sig")}))

	last := x.last()
	assert.Equal(t, protocol.EventChat, last.Event)
	var data protocol.ChatData
	require.NoError(t, protocol.DecodeData(last, &data))
	assert.Equal(t, []byte("hi"), data.EncryptedMessage)
}

func TestGameSession_WelcomeTwiceRejected(t *testing.T) {
	t.Parallel()
	gs, _, _, _, _ := newTestSession(t)

	require.NoError(t, gs.Welcome("alice", []byte("pk")))
	err := gs.Welcome("alice", []byte("pk2"))
	var protoErr ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, protocol.ErrAlreadyWellcomed, protoErr.Code())
}

func TestGameSession_Disconnect(t *testing.T) {
	t.Parallel()
	gs, _, o, _, summary := newTestSession(t)

	gs.Disconnect("alice")

	assert.Eventually(t, func() bool {
		return countEvent(o, protocol.EventGameOver) == 1
	}, time.Second, time.Millisecond)

	var data protocol.GameOverData
	require.NoError(t, protocol.DecodeData(findEnvelope(t, o, protocol.EventGameOver), &data))
	require.NotNil(t, data.Winner)
	assert.Equal(t, domain.PlayerId("bob"), *data.Winner)
	assert.Equal(t, domain.ReasonPlayerDisconnected, data.Reason)

	<-gs.Done()
	assert.Eventually(t, func() bool {
		return summary.Reason == domain.ReasonPlayerDisconnected
	}, time.Second, time.Millisecond)
}

func TestGameSession_GameOverAtRoundsToWin(t *testing.T) {
	t.Parallel()
	gs, x, o, _, summary := newTestSession(t)

	winLine := func(round int) {
		require.NoError(t, gs.Play("alice", 0))
		require.NoError(t, gs.Play("bob", 3))
		require.NoError(t, gs.Play("alice", 1))
		require.NoError(t, gs.Play("bob", 4))
		require.NoError(t, gs.Play("alice", 2)) // top row win for X
	}

	winLine(1)
	winLine(2)
	winLine(3)

	<-gs.Done()
	assert.Eventually(t, func() bool { return summary.Reason == domain.ReasonPlayerWon }, time.Second, time.Millisecond)
	assert.Equal(t, 3, summary.FinalScores["alice"])

	assert.Contains(t, x.events(), protocol.EventGameOver)
	assert.Contains(t, o.events(), protocol.EventGameOver)
}
