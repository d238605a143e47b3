package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookhall/lending-service/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newEcho(cfg auth.Config) *echo.Echo {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, id)
	}, auth.User(cfg))
	return e
}

func TestUserMiddleware(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{JWTKey: "test-key", TTL: time.Hour}
	e := newEcho(cfg)

	token, err := auth.IssueToken(cfg, auth.Identity{UserID: 7, Name: "alice"}, time.Now())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	r.Header.Set(auth.AuthorizationHeader, "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"userId":7`)
}

func TestUserMiddleware_NoHeader(t *testing.T) {
	t.Parallel()
	e := newEcho(auth.Config{JWTKey: "test-key", TTL: time.Hour})

	r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserMiddleware_Expired(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{JWTKey: "test-key", TTL: time.Hour}
	e := newEcho(cfg)

	token, err := auth.IssueToken(cfg, auth.Identity{UserID: 7, Name: "alice"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	r.Header.Set(auth.AuthorizationHeader, "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserMiddleware_WrongKey(t *testing.T) {
	t.Parallel()
	e := newEcho(auth.Config{JWTKey: "test-key", TTL: time.Hour})

	token, err := auth.IssueToken(auth.Config{JWTKey: "other-key", TTL: time.Hour}, auth.Identity{UserID: 7}, time.Now())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	r.Header.Set(auth.AuthorizationHeader, "Bearer "+token)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
