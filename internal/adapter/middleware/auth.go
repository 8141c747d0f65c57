package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	userDomain "coopvest-backend/internal/domain/user"
)

const actorContextKey = "auth.actor"

// AuthClaims is the JWT payload the API trusts. Tokens are HS256-signed by
// the cooperative's identity service.
type AuthClaims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the resulting Actor in the
// request context. Requests without a valid token are rejected with 401.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			const prefix = "Bearer "
			if !strings.HasPrefix(raw, prefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			claims := &AuthClaims{}
			tok, err := jwt.ParseWithClaims(strings.TrimSpace(raw[len(prefix):]), claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !tok.Valid || claims.UserID == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(actorContextKey, userDomain.Actor{
				UserID: claims.UserID,
				Role:   userDomain.Role(claims.Role),
			})
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Auth; zero value when the route is
// unauthenticated.
func ActorFrom(c echo.Context) userDomain.Actor {
	if a, ok := c.Get(actorContextKey).(userDomain.Actor); ok {
		return a
	}
	return userDomain.Actor{}
}

// SetActor injects an actor directly; tests only.
func SetActor(c echo.Context, a userDomain.Actor) {
	c.Set(actorContextKey, a)
}

// IssueToken signs an HS256 token for the given user. Exposed so tooling and
// tests can mint tokens with the same claim shape Auth expects.
func IssueToken(secret []byte, userID uint64, role userDomain.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AuthClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
