// Package matchmaker pairs searching players, a single actor goroutine
// serializing the queue, grounded on the teacher repo's lobby.go
// LobbyActor select-loop shape — a FIFO slice instead of the lobby's
// room map, since this queue pairs two players rather than listing
// public rooms.
package matchmaker

import "github.com/TheAwiteb/xors/internal/domain"

// OnPaired is invoked from the matchmaker's own actor goroutine once
// two queued players are popped together. The caller (engine) is
// responsible for minting a GameId and starting the GameSession.
type OnPaired func(x, o domain.PlayerId)

type enqueueCmd struct {
	player domain.PlayerId
	result chan error
}

type dequeueCmd struct {
	player domain.PlayerId
	done   chan struct{}
}

type queueLenCmd struct {
	result chan int
}

// ErrAlreadyInSearch is returned by Enqueue when the player is already
// queued.
var ErrAlreadyInSearch = errAlreadyInSearch{}

type errAlreadyInSearch struct{}

func (errAlreadyInSearch) Error() string { return "matchmaker: player already in search" }

// ErrStopped is returned by Enqueue once the matchmaker's actor has
// shut down.
var ErrStopped = errStopped{}

type errStopped struct{}

func (errStopped) Error() string { return "matchmaker: stopped" }

// Matchmaker is the actor owning the FIFO search queue.
type Matchmaker struct {
	onPaired OnPaired

	enqueues  chan enqueueCmd
	dequeues  chan dequeueCmd
	queueLens chan queueLenCmd
	stop      chan struct{}
	stopped   chan struct{}
}

// New creates and starts the matchmaker's actor goroutine.
func New(onPaired OnPaired) *Matchmaker {
	m := &Matchmaker{
		onPaired:  onPaired,
		enqueues:  make(chan enqueueCmd),
		dequeues:  make(chan dequeueCmd),
		queueLens: make(chan queueLenCmd),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go m.run()
	return m
}

// Enqueue adds player to the search queue. Returns ErrAlreadyInSearch
// if the player is already queued; pairs the two oldest queued players
// as soon as there are at least two, emitting onPaired with the
// earlier-queued player as the first argument; symbol assignment is
// left to the caller.
func (m *Matchmaker) Enqueue(player domain.PlayerId) error {
	result := make(chan error, 1)
	select {
	case m.enqueues <- enqueueCmd{player: player, result: result}:
	case <-m.stopped:
		return ErrStopped
	}
	return <-result
}

// Dequeue removes player from the search queue if present. A no-op,
// not an error, if the player isn't queued (e.g. they were just
// paired concurrently) — the spec defines no wire error code for this
// case.
func (m *Matchmaker) Dequeue(player domain.PlayerId) {
	done := make(chan struct{})
	select {
	case m.dequeues <- dequeueCmd{player: player, done: done}:
		<-done
	case <-m.stopped:
	}
}

// QueueLength reports how many players are currently waiting, for the
// stats endpoint. Grounded on the teacher's GetPublicGames request/
// response channel pattern.
func (m *Matchmaker) QueueLength() int {
	result := make(chan int, 1)
	select {
	case m.queueLens <- queueLenCmd{result: result}:
	case <-m.stopped:
		return 0
	}
	return <-result
}

// Stop halts the actor goroutine. Queued-but-unpaired players are
// simply dropped; the caller is expected to have already torn down
// their sessions during shutdown.
func (m *Matchmaker) Stop() {
	select {
	case <-m.stopped:
	default:
		close(m.stop)
		<-m.stopped
	}
}

func (m *Matchmaker) run() {
	defer close(m.stopped)
	queue := make([]domain.PlayerId, 0, 16)
	queued := map[domain.PlayerId]bool{}

	for {
		select {
		case cmd := <-m.enqueues:
			if queued[cmd.player] {
				cmd.result <- ErrAlreadyInSearch
				continue
			}
			queued[cmd.player] = true
			queue = append(queue, cmd.player)
			cmd.result <- nil

			if len(queue) >= 2 {
				x, o := queue[0], queue[1]
				queue = queue[2:]
				delete(queued, x)
				delete(queued, o)
				m.onPaired(x, o)
			}

		case cmd := <-m.dequeues:
			if queued[cmd.player] {
				delete(queued, cmd.player)
				queue = removePlayer(queue, cmd.player)
			}
			close(cmd.done)

		case cmd := <-m.queueLens:
			cmd.result <- len(queue)

		case <-m.stop:
			return
		}
	}
}

func removePlayer(queue []domain.PlayerId, player domain.PlayerId) []domain.PlayerId {
	for i, p := range queue {
		if p == player {
			return append(queue[:i], queue[i+1:]...)
		}
	}
	return queue
}
