package bridge

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.sigmaverse.dev/bridge/statsd"
)

// Conn is the part of a websocket connection a Session needs. Both gorilla and fiber websocket connections
// satisfy it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var ErrSessionClosed = eris.New("bridge session is closed")

// Session serves one runtime connection. Every inbound message is handled on its own goroutine; writes are
// serialized.
type Session struct {
	id     string
	conn   Conn
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewSession(conn Conn, logger zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		conn:   conn,
		logger: logger.With().Str("session", id).Logger(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Push encodes r and writes it to the connection.
func (s *Session) Push(_ context.Context, r Reply) error {
	bz, err := EncodeReply(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, bz); err != nil {
		return eris.Wrap(err, "failed to write bridge reply")
	}
	statsd.Incr("push", "action:"+string(r.Action()))
	return nil
}

// Serve reads messages until the connection fails or ctx is done. Pushes for requests still in flight after that
// fail and are logged.
func (s *Session) Serve(ctx context.Context, svc Services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := NewChannel(svc, s.Push, s.logger)
	stop := ch.Start(ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		s.close()
	}()

	s.logger.Info().Msg("bridge session opened")
	defer s.logger.Info().Msg("bridge session closed")
	for {
		messageType, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.close()
			s.wg.Wait()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				ctx.Err() != nil {
				return nil
			}
			return eris.Wrap(err, "failed to read from bridge connection")
		}
		if messageType != websocket.TextMessage {
			s.logger.Debug().Int("type", messageType).Msg("ignoring non-text message")
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ch.Handle(ctx, raw)
		}()
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("closing bridge connection")
	}
}
