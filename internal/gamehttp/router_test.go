package gamehttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TheAwiteb/xors/internal/auth"
	"github.com/TheAwiteb/xors/internal/clock"
	"github.com/TheAwiteb/xors/internal/engine"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *engine.Engine {
	return engine.New(clock.NewVirtual(time.Unix(0, 0)), 30*time.Second, 20*time.Second, 0, nil)
}

func TestOriginAllowlist(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewJWTManager([]byte("secret"), time.Hour)
	r := NewRouter([]string{"https://oussama.com"}, tokens, testEngine(), 64)

	tests := []struct {
		name           string
		path           string
		origin         string
		expectedStatus int
	}{
		{"health check is public", "/health", "", http.StatusOK},
		{"allowed origin passes", "/health", "https://oussama.com", http.StatusOK},
		{"disallowed origin forbidden", "/health", "http://evil.com", http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestGameRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewJWTManager([]byte("secret"), time.Hour)
	r := NewRouter([]string{"https://oussama.com"}, tokens, testEngine(), 64)

	req := httptest.NewRequest(http.MethodGet, "/game/stats", nil)
	req.Header.Set("Origin", "https://oussama.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGameStatsWithValidToken(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewJWTManager([]byte("secret"), time.Hour)
	r := NewRouter([]string{"https://oussama.com"}, tokens, testEngine(), 64)

	token, err := tokens.Generate("player-1", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/game/stats", nil)
	req.Header.Set("Origin", "https://oussama.com")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active_sessions":0,"active_games":0,"searching_count":0}`, w.Body.String())
}
