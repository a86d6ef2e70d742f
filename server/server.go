// Package server exposes the bridge to the embedded runtime over a websocket and the host's wallet and collection
// state to the host page over HTTP.
package server

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pkg.sigmaverse.dev/bridge/bridge"
	"pkg.sigmaverse.dev/bridge/orchestrator"
	"pkg.sigmaverse.dev/bridge/server/handler"
)

const (
	defaultPort     = "4080"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	app      *fiber.App
	svc      bridge.Services
	balances orchestrator.BalanceSource

	port     string
	withCORS bool
	logger   zerolog.Logger

	// sessions is cancelled on shutdown so open bridge sessions stop reading.
	sessions context.Context
	cancel   context.CancelFunc
}

// New returns a server bridging the services to runtime sessions. balances is used to read the balance of a
// freshly selected wallet.
func New(svc bridge.Services, balances orchestrator.BalanceSource, opts ...Option) (*Server, error) {
	if svc.Store == nil || svc.Minter == nil || svc.Cybors == nil {
		return nil, eris.New("server requires a store, a minter and a cybor client")
	}
	if balances == nil {
		return nil, eris.New("server requires a balance source")
	}

	s := &Server{
		svc:      svc,
		balances: balances,
		port:     defaultPort,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions, s.cancel = context.WithCancel(context.Background())

	s.app = fiber.New(fiber.Config{
		Network:               "tcp",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
	if s.withCORS {
		s.app.Use(cors.New())
	}
	s.setupRoutes()

	return s, nil
}

// Serve serves the application, blocking until ctx is done or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		s.logger.Info().Msgf("Starting bridge server at port %s", s.port)
		if err := s.app.Listen(":" + s.port); err != nil {
			serverErr <- eris.Wrap(err, "error starting http server")
		}
	}()

	select {
	case err := <-serverErr:
		s.cancel()
		return eris.Wrap(err, "server encountered an error")
	case <-ctx.Done():
		if err := s.shutdown(); err != nil {
			return eris.Wrap(err, "error shutting down server")
		}
	}
	return nil
}

func (s *Server) shutdown() error {
	s.logger.Info().Msg("Shutting down server")
	s.cancel()
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return eris.Wrap(err, "error shutting down server")
	}
	s.logger.Info().Msg("Successfully shut down server")
	return nil
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", handler.GetHealth())

	// Route: /bridge
	s.app.Use("/bridge", handler.WebSocketUpgrader)
	s.app.Get("/bridge", handler.WebSocketBridge(s.sessions, s.svc, s.logger))

	// Route: /wallet/...
	w := s.app.Group("/wallet")
	w.Get("/", handler.GetWallet(s.svc.Store, s.svc.Decimals))
	w.Post("/select", handler.PostSelectWallet(s.svc.Store, s.balances, s.svc.Decimals))
	w.Post("/disconnect", handler.PostDisconnectWallet(s.svc.Store))

	// Route: /cybors/...
	c := s.app.Group("/cybors")
	c.Get("/", handler.GetCybors(s.svc.Store))
	c.Get("/:id", handler.GetCybor(s.svc.Store, s.svc.Cybors))
}
