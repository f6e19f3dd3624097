package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/allinbank/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// GameIDKey is the context key for storing the game ID granted by the token.
const GameIDKey contextKey = "game_id"

// GetGameID extracts the authorized game ID from the context.
// Returns empty string if not found.
func GetGameID(ctx context.Context) string {
	gameID, _ := ctx.Value(GameIDKey).(string)
	return gameID
}

// WithGameID returns a context authorized for gameID.
func WithGameID(ctx context.Context, gameID string) context.Context {
	return context.WithValue(ctx, GameIDKey, gameID)
}

// GameAuth returns an interceptor that validates game tokens when present.
// Requests without an Authorization header pass through unauthenticated, so
// procedures like CreateGame stay open; handlers that need a game check
// GetGameID themselves. A malformed or invalid token is always rejected.
func GameAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return next(ctx, req)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			// Validate token
			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			// Call the next handler with enriched context
			return next(WithGameID(ctx, claims.GameID), req)
		}
	}
}
