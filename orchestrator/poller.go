package orchestrator

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/types"
)

const defaultBalanceInterval = 5 * time.Second

type BalanceSource interface {
	Balance(ctx context.Context, address types.ActorID) (types.Amount, error)
}

// BalancePoller keeps the balance of the active identity current. The store only notifies subscribers when the
// polled value differs from the cached one.
type BalancePoller struct {
	store    *state.Store
	source   BalanceSource
	interval time.Duration
	logger   zerolog.Logger
}

func NewBalancePoller(store *state.Store, source BalanceSource, interval time.Duration, logger zerolog.Logger) *BalancePoller {
	if interval <= 0 {
		interval = defaultBalanceInterval
	}
	return &BalancePoller{
		store:    store,
		source:   source,
		interval: interval,
		logger:   logger.With().Str("component", "balance_poller").Logger(),
	}
}

// Poll reads the balance of the active identity once.
func (p *BalancePoller) Poll(ctx context.Context) error {
	id, ok := p.store.Active()
	if !ok {
		return nil
	}
	balance, err := p.source.Balance(ctx, id.Address)
	if err != nil {
		return eris.Wrapf(err, "failed to read balance of %s", id.Address)
	}
	p.store.SetBalance(id.Address, balance)
	return nil
}

// Run polls until ctx is done. Failed polls are logged and retried on the next tick.
func (p *BalancePoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("balance poll failed")
			}
		}
	}
}
