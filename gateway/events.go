package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	defaultMaxDialAttempts = 5
	defaultRetryDelay      = 2 * time.Second
	subscriberBuffer       = 64
)

var (
	ErrEventHubIsShuttingDown = errors.New("event hub is shutting down")
)

// EventHub reads the gateway user message stream over a websocket and fans it out to subscribers. A dropped
// connection is re-established transparently. Subscriptions only ever see messages received after they were
// registered.
type EventHub struct {
	inputConnection *websocket.Conn
	channels        *sync.Map // map[string]*subscription
	connectMutex    *sync.Mutex
	didShutdown     bool
	wsURL           string
	logger          zerolog.Logger
	maxAttempts     int
	retryDelay      time.Duration
}

type EventHubOption func(*EventHub)

func WithDialRetry(maxAttempts int, delay time.Duration) EventHubOption {
	return func(eh *EventHub) {
		eh.maxAttempts = maxAttempts
		eh.retryDelay = delay
	}
}

func NewEventHub(ctx context.Context, logger zerolog.Logger, wsURL string, opts ...EventHubOption) (*EventHub, error) {
	res := &EventHub{
		channels:     &sync.Map{},
		connectMutex: &sync.Mutex{},
		wsURL:        wsURL,
		logger:       logger.With().Str("component", "event_hub").Logger(),
		maxAttempts:  defaultMaxDialAttempts,
		retryDelay:   defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(res)
	}
	if err := res.connectWithRetry(ctx); err != nil {
		return nil, eris.Wrap(err, "failed to make initial websocket connection")
	}
	return res, nil
}

// connectWithRetry attempts to make a websocket connection. If Shutdown is called while this method is
// running ErrEventHubIsShuttingDown will be returned.
func (eh *EventHub) connectWithRetry(ctx context.Context) error {
	var err error
	for tries := 1; tries <= eh.maxAttempts; tries++ {
		err = eh.establishConnection(ctx)
		if err == nil || errors.Is(err, ErrEventHubIsShuttingDown) {
			return err
		}
		eh.logger.Info().Err(err).Int("attempt", tries).Msg("gateway event stream unavailable")
		select {
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "connect cancelled")
		case <-time.After(eh.retryDelay):
		}
	}
	return eris.Wrapf(err, "failed to connect after %d attempts", eh.maxAttempts)
}

// establishConnection closes any previous connection and dials again. If nil is returned, a connection has been
// made and is ready for use.
func (eh *EventHub) establishConnection(ctx context.Context) error {
	eh.connectMutex.Lock()
	defer eh.connectMutex.Unlock()
	if eh.didShutdown {
		return ErrEventHubIsShuttingDown
	}

	if eh.inputConnection != nil {
		_ = eh.inputConnection.Close()
		eh.inputConnection = nil
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, eh.wsURL, nil) //nolint:bodyclose // no need.
	if err != nil {
		return eris.Wrap(err, "websocket dial failed")
	}
	eh.inputConnection = conn
	return nil
}

type subscription struct {
	mu     sync.Mutex
	ch     chan UserMessageSent
	closed bool
}

func (s *subscription) deliver(msg UserMessageSent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (eh *EventHub) Subscribe(session string) <-chan UserMessageSent {
	sub := &subscription{ch: make(chan UserMessageSent, subscriberBuffer)}
	eh.channels.Store(session, sub)
	return sub.ch
}

// Unsubscribe closes the session channel. Unknown sessions are ignored so disposers may run more than once.
func (eh *EventHub) Unsubscribe(session string) {
	sub, ok := eh.channels.LoadAndDelete(session)
	if !ok {
		return
	}
	sub.(*subscription).close()
}

func (eh *EventHub) Shutdown() {
	eh.connectMutex.Lock()
	defer eh.connectMutex.Unlock()
	if eh.didShutdown {
		return
	}
	eh.didShutdown = true
	if eh.inputConnection != nil {
		_ = eh.inputConnection.Close()
	}
}

func (eh *EventHub) conn() *websocket.Conn {
	eh.connectMutex.Lock()
	defer eh.connectMutex.Unlock()
	return eh.inputConnection
}

// readMessage blocks until a new message is available on the websocket. On a read error the socket is
// re-established. It returns once a message has been fetched, or when EventHub.Shutdown is called.
func (eh *EventHub) readMessage(ctx context.Context) (messageType int, message []byte, err error) {
	for {
		messageType, message, err = eh.conn().ReadMessage()
		if err == nil {
			return messageType, message, nil
		}
		eh.logger.Warn().Err(err).Msg("read from websocket failed")
		if err = eh.connectWithRetry(ctx); err != nil {
			return 0, nil, eris.Wrap(err, "failed to reestablish a websocket connection")
		}
	}
}

// Dispatch continually drains the websocket and sends copies of each message to all subscribed channels.
// Delivery is best effort: a subscriber whose buffer is full misses the message. This function is meant to be
// called in a goroutine.
func (eh *EventHub) Dispatch(ctx context.Context) error {
	defer eh.Shutdown()
	defer func() {
		eh.channels.Range(func(key any, _ any) bool {
			eh.logger.Info().Msgf("shutting down: %s", key.(string))
			eh.Unsubscribe(key.(string))
			return true
		})
	}()
	go func() {
		<-ctx.Done()
		eh.Shutdown()
	}()
	for {
		messageType, message, err := eh.readMessage(ctx) // will block
		if errors.Is(err, ErrEventHubIsShuttingDown) || ctx.Err() != nil {
			return nil
		} else if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			eh.logger.Warn().Int("type", messageType).Msg("unexpected message type on web socket")
			continue
		}
		var msg UserMessageSent
		if err := json.Unmarshal(message, &msg); err != nil {
			eh.logger.Error().Err(err).Msg("unable to unmarshal user message")
			continue
		}
		eh.channels.Range(func(key any, value any) bool {
			if sub, _ := value.(*subscription); !sub.deliver(msg) {
				eh.logger.Warn().Msgf("subscriber %s is lagging, dropping message %s", key, msg.ID)
			}
			return true
		})
	}
}
