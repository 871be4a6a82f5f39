// Package gamehttp wires the HTTP/WebSocket surface: CORS and origin
// allowlisting, the authenticated WebSocket upgrade, and the stats
// endpoint, grounded on the teacher's backend/main.go CreateServer.
package gamehttp

import (
	"net/http"
	"slices"

	"github.com/TheAwiteb/xors/internal/auth"
	"github.com/TheAwiteb/xors/internal/engine"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine: origin allowlist, CORS, health
// check, the authenticated game WebSocket endpoint, and read-only
// stats. Grounded on the teacher's CreateServer, extended with the
// /game/ws and /game/stats routes this service needs instead of the
// teacher's REST room endpoints.
func NewRouter(allowedOrigins []string, tokens auth.TokenManager, eng *engine.Engine, outboundQueueSize int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	gameGroup := r.Group("/game")
	gameGroup.Use(auth.RequireAuth(tokens))
	gameGroup.GET("/ws", newWebsocketHandler(eng, outboundQueueSize))
	gameGroup.GET("/stats", statsHandler(eng))

	return r
}

func statsHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, eng.Stats())
	}
}
