package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arredo/backoffice-api/internal/auth"
	"github.com/arredo/backoffice-api/internal/config"
	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

func testAuthConfig(apiKey string) *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:  testSecret,
		JWTIssuer:  "test-issuer",
		TokenTTL:   60,
		APIKey:     apiKey,
		APIKeyName: "x-api-key",
	}
}

func testUser(staff bool) *domain.User {
	u := &domain.User{Email: "anna@example.com", Name: "Anna Verdi", IsStaff: staff}
	u.ID = uuid.New()
	return u
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer(testAuthConfig(""))
	user := testUser(true)

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	userCtx, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, "Anna Verdi", userCtx.DisplayName)
	assert.Equal(t, "anna@example.com", userCtx.Email)
	assert.True(t, userCtx.IsStaff)
	assert.False(t, userCtx.IsSystem)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := auth.NewTokenIssuer(testAuthConfig(""))

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		cfg := testAuthConfig("")
		cfg.JWTSecret = "another-secret-that-is-also-long-enough"
		token, _, err := auth.NewTokenIssuer(cfg).Issue(testUser(false))
		require.NoError(t, err)

		_, err = issuer.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testAuthConfig("")
		cfg.JWTIssuer = "someone-else"
		token, _, err := auth.NewTokenIssuer(cfg).Issue(testUser(false))
		require.NoError(t, err)

		_, err = issuer.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = issuer.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString(), Issuer: "test-issuer"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("not-a-hash", "s3cret-pass"))
}

func newTestMiddleware(apiKey string) (*auth.Middleware, *auth.TokenIssuer) {
	cfg := testAuthConfig(apiKey)
	issuer := auth.NewTokenIssuer(cfg)
	return auth.NewMiddleware(cfg, issuer, zap.NewNop()), issuer
}

func captureUser(captured **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Authenticate(t *testing.T) {
	m, issuer := newTestMiddleware("test-api-key-12345")

	t.Run("api key", func(t *testing.T) {
		var userCtx *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("x-api-key", "test-api-key-12345")
		rr := httptest.NewRecorder()

		m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, userCtx)
		assert.True(t, userCtx.IsSystem)
		assert.True(t, userCtx.CanManage())
	})

	t.Run("wrong api key", func(t *testing.T) {
		var userCtx *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("x-api-key", "nope")
		rr := httptest.NewRecorder()

		m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, userCtx)
	})

	t.Run("bearer token", func(t *testing.T) {
		user := testUser(false)
		token, _, err := issuer.Issue(user)
		require.NoError(t, err)

		var userCtx *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, userCtx)
		assert.Equal(t, user.ID, userCtx.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		var userCtx *auth.UserContext
		rr := httptest.NewRecorder()
		m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		var userCtx *auth.UserContext
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rr := httptest.NewRecorder()
		m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMiddleware_APIKeyDisabledWhenEmpty(t *testing.T) {
	m, _ := newTestMiddleware("")
	var userCtx *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-api-key", "anything")
	rr := httptest.NewRecorder()

	m.Authenticate(captureUser(&userCtx)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddleware_RequireStaff(t *testing.T) {
	m, _ := newTestMiddleware("")
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name   string
		user   *auth.UserContext
		status int
	}{
		{"no user", nil, http.StatusForbidden},
		{"regular user", &auth.UserContext{UserID: uuid.New()}, http.StatusForbidden},
		{"staff", &auth.UserContext{UserID: uuid.New(), IsStaff: true}, http.StatusOK},
		{"system", &auth.UserContext{IsSystem: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()
			m.RequireStaff(ok).ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestActingUserID(t *testing.T) {
	assert.Nil(t, auth.ActingUserID(context.Background()))

	system := auth.WithUserContext(context.Background(), &auth.UserContext{IsSystem: true, IsStaff: true})
	assert.Nil(t, auth.ActingUserID(system))

	id := uuid.New()
	user := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: id})
	require.NotNil(t, auth.ActingUserID(user))
	assert.Equal(t, id, *auth.ActingUserID(user))
}
