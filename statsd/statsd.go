// Package statsd is a helper package that wraps some common statsd methods.
// It hides the datadog dependency so if we decide to migrate away from datadog in the future, we only need to
// edit this single file.
package statsd

import (
	"sync"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.RWMutex
	client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}
)

func Client() ddstatsd.ClientInterface {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// EmitDuration records the time elapsed since start under metric, tagged with stage.
func EmitDuration(metric string, start time.Time, stage string) {
	duration := time.Since(start)
	if err := Client().Timing(metric, duration, []string{"stage:" + stage}, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit %s stat: %v", metric, err)
	}
}

// Incr bumps the counter metric by one.
func Incr(metric string, tags ...string) {
	if err := Client().Incr(metric, tags, 1); err != nil {
		log.Logger.Warn().Msgf("failed to emit %s stat: %v", metric, err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("bridge."),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	// Success! replace the global client
	mu.Lock()
	defer mu.Unlock()
	client = newClient
	return nil
}

// Close flushes and closes the global client and falls back to a no-op one.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := client.Close()
	client = &ddstatsd.NoOpClient{}
	return eris.Wrap(err, "failed to close statsd client")
}
