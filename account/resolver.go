// Package account resolves the credentials of the active wallet identity.
package account

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/signer"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/types"
)

// SignerLookup locates the signing capability of an account inside a wallet extension.
type SignerLookup interface {
	Lookup(ctx context.Context, source string, address types.ActorID) (signer.Signer, error)
}

type Credentials struct {
	Identity state.Identity
	Signer   signer.Signer
}

type Resolver struct {
	store   *state.Store
	signers SignerLookup
}

func NewResolver(store *state.Store, signers SignerLookup) *Resolver {
	return &Resolver{store: store, signers: signers}
}

// Resolve looks up the credentials of the identity active right now. It fails with ErrNoAccountSelected when no
// identity is selected and with ErrNoSignerAvailable when its wallet cannot sign for it.
func (r *Resolver) Resolve(ctx context.Context) (Credentials, error) {
	id, ok := r.store.Active()
	if !ok {
		return Credentials{}, eris.Wrap(bridgeerrors.ErrNoAccountSelected, "resolve account")
	}
	s, err := r.signers.Lookup(ctx, id.Source, id.Address)
	if err != nil {
		if errors.Is(err, bridgeerrors.ErrNoSignerAvailable) {
			return Credentials{}, err
		}
		return Credentials{}, eris.Wrapf(bridgeerrors.ErrNoSignerAvailable, "account %s: %v", id.Address, err)
	}
	if s.Address() != id.Address {
		return Credentials{}, eris.Wrapf(bridgeerrors.ErrNoSignerAvailable,
			"wallet %q returned a signer for %s instead of %s", id.Source, s.Address(), id.Address)
	}
	return Credentials{Identity: id, Signer: s}, nil
}
