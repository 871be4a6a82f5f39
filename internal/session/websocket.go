package session

import (
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketConnection adapts a gorilla *websocket.Conn to Connection,
// grounded on the teacher's game/websocket.go wrapper. Frames here are
// JSON text, not the teacher's binary protobuf, so TextMessage replaces
// BinaryMessage.
type WebsocketConnection struct {
	socket *websocket.Conn
}

// NewWebsocketConnection wires the pong handler the way the teacher
// does: a received pong pushes the read deadline out, keeping the
// connection alive as long as the client answers pings.
func NewWebsocketConnection(conn *websocket.Conn) *WebsocketConnection {
	conn.SetReadDeadline(time.Now().Add(readDeadlineExtension))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadlineExtension))
		return nil
	})
	return &WebsocketConnection{socket: conn}
}

func (c *WebsocketConnection) Write(data []byte) error {
	return c.socket.WriteMessage(websocket.TextMessage, data)
}

func (c *WebsocketConnection) Ping() error {
	return c.socket.WriteMessage(websocket.PingMessage, nil)
}

func (c *WebsocketConnection) Read() ([]byte, error) {
	_, p, err := c.socket.ReadMessage()
	return p, err
}

func (c *WebsocketConnection) Close(reason string) {
	c.socket.SetWriteDeadline(time.Now().Add(20 * time.Second))
	c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	c.socket.Close()
}
