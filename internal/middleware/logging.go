package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/allinbank/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its duration. It logs the procedure name, game ID, duration,
// and any error codes/messages.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			gameID := GetGameID(ctx) // empty if pre-auth

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"game_id", gameID,
						"duration_ms", duration,
					)
					metrics.ObserveRPC(procedure, connectErr.Code().String(), elapsed)
				} else {
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"game_id", gameID,
						"duration_ms", duration,
					)
					metrics.ObserveRPC(procedure, connect.CodeUnknown.String(), elapsed)
				}
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"game_id", gameID,
					"duration_ms", duration,
				)
				metrics.ObserveRPC(procedure, "ok", elapsed)
			}

			return resp, err
		}
	}
}
