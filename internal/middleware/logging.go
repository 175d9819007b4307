package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, duration and error code. Client errors are
// logged at WARN and unexpected failures at ERROR.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx), // empty if pre-auth
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			var connectErr *connect.Error
			switch {
			case errors.As(err, &connectErr) && code != connect.CodeInternal && code != connect.CodeUnknown:
				slog.Warn("RPC error", append(attrs, "code", code.String(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC error", append(attrs, "code", code.String(), "error", err)...)
			}
			return resp, err
		}
	}
}
