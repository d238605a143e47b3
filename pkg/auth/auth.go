package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "
)

type Config struct {
	JWTKey string        `yaml:"jwtKey" envconfig:"AUTH_JWT_KEY" default:"dev-only-key"`
	TTL    time.Duration `yaml:"ttl" envconfig:"AUTH_TOKEN_TTL" default:"24h"`
}

// Identity is the authenticated caller supplied to every user-scoped call.
// The service trusts it as-is and never re-derives admin rights.
type Identity struct {
	UserID  int    `json:"userId"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type Claims struct {
	Identity
	jwt.RegisteredClaims
}

type ctxKey struct{}

func SetIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// IssueToken signs an HMAC token carrying the caller identity.
func IssueToken(cfg Config, id Identity, now time.Time) (string, error) {
	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTKey))
}

func parseToken(cfg Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("JwtAccessDenied")
	}
	return claims, nil
}

// User requires a valid bearer token and puts the caller identity on the
// request context.
func User(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(AuthorizationHeader)
			if authorization == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
			}
			if !strings.HasPrefix(authorization, bearer) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
			}
			claims, err := parseToken(cfg, strings.TrimPrefix(authorization, bearer))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				return echo.NewHTTPError(http.StatusUnauthorized, "TokenExpired")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(SetIdentity(req.Context(), claims.Identity)))
			return next(c)
		}
	}
}

// Admin gates admin-scoped routes. It must run after User.
func Admin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := FromContext(c.Request().Context())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
		if !id.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin rights required")
		}
		return next(c)
	}
}

// MustIdentity reads the identity placed by the User middleware.
func MustIdentity(c echo.Context) (Identity, error) {
	id, ok := FromContext(c.Request().Context())
	if !ok {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return id, nil
}
