// Package server exposes the codec socket transport over HTTP.
package server

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the HTTP server and ties it to the application
// lifecycle.
var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
