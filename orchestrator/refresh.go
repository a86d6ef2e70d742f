package orchestrator

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/statsd"
	"pkg.sigmaverse.dev/bridge/types"
)

// CollectionSource lists the Cybors owned by the query origin.
type CollectionSource interface {
	AllMyCybors(ctx context.Context, opts ...program.QueryOption) ([]types.Entry[types.CyborStream], error)
}

// AssetRefresher rebuilds the cached Cybor collection of the active identity. Every refresh is a full fetch and
// is stamped by the store, so an overlapping slower refresh can never overwrite a newer one.
type AssetRefresher struct {
	store  *state.Store
	source CollectionSource
	logger zerolog.Logger
	wg     sync.WaitGroup
}

func NewAssetRefresher(store *state.Store, source CollectionSource, logger zerolog.Logger) *AssetRefresher {
	return &AssetRefresher{
		store:  store,
		source: source,
		logger: logger.With().Str("component", "asset_refresher").Logger(),
	}
}

// Refresh fetches the collection of the active identity and applies it. Without an active identity it does
// nothing.
func (r *AssetRefresher) Refresh(ctx context.Context) error {
	seq, owner, ok := r.store.BeginRefresh()
	if !ok {
		return nil
	}
	statsd.Incr("asset_refresh")
	records, err := r.source.AllMyCybors(ctx, program.WithOrigin(owner.Address))
	if err != nil {
		return eris.Wrapf(err, "failed to fetch cybors of %s", owner.Address)
	}
	if !r.store.ApplyAssets(seq, owner.Address, records) {
		r.logger.Debug().Uint64("seq", seq).Str("owner", owner.Address.Hex()).Msg("discarded stale refresh")
	}
	return nil
}

// RefreshAsync runs Refresh in the background and logs its failure.
func (r *AssetRefresher) RefreshAsync(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.Refresh(ctx); err != nil {
			r.logger.Error().Err(err).Msg("asset refresh failed")
		}
	}()
}

// Watch refreshes the collection every time the active identity changes, until the returned func is called.
func (r *AssetRefresher) Watch(ctx context.Context) func() {
	return r.store.SubscribeIdentity(func(id *state.Identity) {
		if id == nil {
			return
		}
		r.RefreshAsync(ctx)
	})
}

// Wait blocks until background refreshes are done.
func (r *AssetRefresher) Wait() {
	r.wg.Wait()
}
