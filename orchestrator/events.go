package orchestrator

import (
	"context"

	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/types"
)

// CyborEvents is the subscription side of the Cybor client.
type CyborEvents interface {
	SubscribeToMinted(ctx context.Context, cb func(program.CyborMinted)) (func(), error)
	SubscribeToTransfer(ctx context.Context, cb func(program.Transfer)) (func(), error)
}

// WatchEvents refreshes the collection whenever a Minted or Transfer event involves the active identity. This
// catches changes made outside the bridge, e.g. a transfer from another client.
func (r *AssetRefresher) WatchEvents(ctx context.Context, events CyborEvents) (func(), error) {
	involvesActive := func(addrs ...types.ActorID) bool {
		id, ok := r.store.Active()
		if !ok {
			return false
		}
		for _, a := range addrs {
			if a == id.Address {
				return true
			}
		}
		return false
	}
	stopMinted, err := events.SubscribeToMinted(ctx, func(e program.CyborMinted) {
		if involvesActive(e.To) {
			r.RefreshAsync(ctx)
		}
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to subscribe to minted events")
	}
	stopTransfer, err := events.SubscribeToTransfer(ctx, func(e program.Transfer) {
		if involvesActive(e.From, e.To) {
			r.RefreshAsync(ctx)
		}
	})
	if err != nil {
		stopMinted()
		return nil, eris.Wrap(err, "failed to subscribe to transfer events")
	}
	return func() {
		stopMinted()
		stopTransfer()
	}, nil
}

var (
	_ CyborEvents      = (*program.CyborNft)(nil)
	_ CollectionSource = (*program.CyborNft)(nil)
	_ TemplateSource   = (*program.CyborNft)(nil)
)
