// Package session owns one goroutine pair per connected player: a read
// pump decoding inbound frames and a write pump draining an outbound
// queue, grounded on the teacher repo's player_actor.go/websocket.go
// split between a transport-agnostic Connection and the pumps that
// drive it.
package session

import "time"

// Connection is the narrow transport surface a Session needs. It is
// the JSON/WebSocket analogue of the teacher's WebsocketConnection.
type Connection interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

// pingInterval matches the teacher's lobby PingPlayers cadence.
const pingInterval = 30 * time.Second

// readDeadlineExtension is how long a received pong buys before the
// next read deadline; mirrors the teacher's SetPongHandler window.
const readDeadlineExtension = time.Minute
