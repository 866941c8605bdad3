package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "fulfillment.actor"

var errUnauthenticated = errors.New("unauthenticated")

// Claims is the bearer token payload. Subject carries the actor id.
type Claims struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for actor that expires after ttl.
func IssueToken(secret []byte, actor kernel.Actor, ttl time.Duration, now time.Time) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	claims := Claims{
		Name:  actor.DisplayName(),
		Role:  actor.Role().String(),
		Admin: actor.IsAdmin(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Authenticate resolves the bearer token into a kernel.Actor and stores it on
// the echo context. Requests without a valid token never reach a handler.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			scheme, token, ok := strings.Cut(raw, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return fmt.Errorf("%w: missing bearer token", errUnauthenticated)
			}

			var claims Claims
			if _, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			); err != nil {
				return fmt.Errorf("%w: %w", errUnauthenticated, err)
			}

			role, err := kernel.ParseRole(claims.Role)
			if err != nil {
				return fmt.Errorf("%w: %w", errUnauthenticated, err)
			}
			actor, err := kernel.NewActor(claims.Subject, claims.Name, role, claims.Admin)
			if err != nil {
				return fmt.Errorf("%w: %w", errUnauthenticated, err)
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errUnauthenticated
	}
	return actor, nil
}
