package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planeta-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:4200")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSessionMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret")

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := auth.SessionIDFrom(r.Context())
		assert.True(t, ok)
		seen = sid
		w.WriteHeader(http.StatusOK)
	})
	handler := SessionMiddleware(issuer, false)(next)

	t.Run("Missing Token issues a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		token := w.Header().Get(auth.SessionHeader)
		require.NotEmpty(t, token)

		sid, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, sid, seen)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Valid Token keeps the session", func(t *testing.T) {
		sid, token, err := issuer.Issue()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, sid, seen)
		assert.Empty(t, w.Header().Get(auth.SessionHeader))
	})

	t.Run("Invalid Token starts over", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "invalid-token"})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(auth.SessionHeader))
	})

	t.Run("No secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		w := httptest.NewRecorder()

		SessionMiddleware(auth.NewIssuer(""), false)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier for cart writes", func(t *testing.T) {
		rl := NewRateLimiter("")
		handler := rl.Middleware(ok)

		codes := map[int]int{}
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes[w.Code]++
		}

		assert.Equal(t, burstStrict, codes[http.StatusOK])
		assert.Equal(t, 1, codes[http.StatusTooManyRequests])
	})

	t.Run("Separate buckets per identity", func(t *testing.T) {
		rl := NewRateLimiter("")
		handler := rl.Middleware(ok)

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
			req.Header.Set("X-Device-ID", "device-a")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
		req.Header.Set("X-Device-ID", "device-b")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Tiers", func(t *testing.T) {
		rl := NewRateLimiter("internal-key")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/zene/patike", nil)
		_, _, tier := rl.resolveRateTier(req)
		assert.Equal(t, "general", tier)

		req.Header.Set("X-Service-Auth", "internal-key")
		_, _, tier = rl.resolveRateTier(req)
		assert.Equal(t, "internal", tier)

		req = httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
		_, _, tier = rl.resolveRateTier(req)
		assert.Equal(t, "strict", tier)

		req = httptest.NewRequest(http.MethodPost, "/api/v1/products/variants/v1/cart", nil)
		_, _, tier = rl.resolveRateTier(req)
		assert.Equal(t, "strict", tier)
	})

	t.Run("Sweep drops idle visitors", func(t *testing.T) {
		rl := NewRateLimiter("")
		rl.getVisitor("ip:1:general", limitGeneral, burstGeneral)

		rl.sweep(time.Now().Add(visitorTTL + time.Second))

		assert.Empty(t, rl.visitors)
	})
}
