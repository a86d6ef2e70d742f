package handler

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.sigmaverse.dev/bridge/bridge"
	"pkg.sigmaverse.dev/bridge/statsd"
)

func WebSocketUpgrader(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketBridge serves one bridge session per connection. Sessions end when ctx is done.
func WebSocketBridge(ctx context.Context, svc bridge.Services, logger zerolog.Logger) func(c *fiber.Ctx) error {
	return websocket.New(func(conn *websocket.Conn) {
		session := bridge.NewSession(conn, logger)
		statsd.Incr("session", "state:opened")
		defer statsd.Incr("session", "state:closed")
		if err := session.Serve(ctx, svc); err != nil {
			logger.Debug().Str("session", session.ID()).Msg(eris.ToString(err, true))
		}
	})
}
