// Package transport implements codec-socket sessions: WebSocket
// connections that carry encoded codec frames, with a JSON profile
// handshake and per-session encode/decode loops.
package transport

import "go.uber.org/fx"

// Module provides transport dependencies.
var Module = fx.Module("transport",
	fx.Provide(
		NewRegistry,
	),
)
