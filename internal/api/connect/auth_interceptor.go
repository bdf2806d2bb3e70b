// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/infra/config"
)

const (
	// ControlTokenHeader is the header name for the control token.
	ControlTokenHeader = "X-Control-Token"
)

// NewControlAuthInterceptor creates an interceptor that requires the control
// token for state-changing procedures. Read-only procedures are always allowed,
// and nothing is checked when no token is configured.
func NewControlAuthInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !cfg.ControlEnabled() || playerv1.ReadOnlyProcedures[req.Spec().Procedure] {
				return next(ctx, req)
			}

			token := req.Header().Get(ControlTokenHeader)
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("control token required"))
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Control.Token)) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid control token"))
			}

			return next(ctx, req)
		}
	}
}
