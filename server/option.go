package server

import "github.com/rs/zerolog"

type Option func(s *Server)

// WithPort sets the port the server listens on.
func WithPort(port string) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithCORS allows cross origin requests, for host pages served from another origin.
func WithCORS() Option {
	return func(s *Server) {
		s.withCORS = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}
