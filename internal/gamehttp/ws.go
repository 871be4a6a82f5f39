package gamehttp

import (
	"log/slog"
	"net/http"

	"github.com/TheAwiteb/xors/internal/auth"
	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/engine"
	"github.com/TheAwiteb/xors/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// upgrader's CheckOrigin defers to the router's own origin-allowlist
// middleware, run earlier in the chain, grounded on the teacher's
// permissive game/handlers.go upgrader (the teacher trusts its cookie
// check upstream the same way).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func newWebsocketHandler(eng *engine.Engine, outboundQueueSize int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		playerID, ok := ctx.Get(auth.PlayerIdContextKey)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}

		wsConn := session.NewWebsocketConnection(conn)
		s := session.New(domain.PlayerId(playerID.(string)), wsConn, eng, outboundQueueSize)
		eng.Register(s)

		go s.WritePump()
		go s.ReadPump()
	}
}
