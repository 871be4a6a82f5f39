package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/gin-gonic/gin"
)

// PlayerIdContextKey is where RequireAuth stores the verified PlayerId
// for downstream handlers.
const PlayerIdContextKey = "player_id"

// RequireAuth parses "Authorization: Bearer <token>", verifies it, and
// aborts with 401 on failure. Grounded on the teacher's
// RequireAuthMiddleware, adapted from a cookie to a bearer header (the
// WebSocket upgrade path here has no browser cookie jar) and splitting
// the failure log the way the teacher treats "suspicious" token
// failures (bad signature/alg, corrupted) differently from routine
// "expired" ones.
func RequireAuth(tokens TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		id, err := tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken):
				slog.Warn("suspicious token rejected",
					"ip", ctx.ClientIP(),
					"user_agent", ctx.Request.UserAgent(),
					"reason", err,
				)
			case errors.Is(err, domain.ErrExpiredToken):
				slog.Info("expired token rejected", "ip", ctx.ClientIP())
			default:
				slog.Error("token verification failed unexpectedly", "error", err)
			}
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Set(PlayerIdContextKey, id)
		ctx.Next()
	}
}
