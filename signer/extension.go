package signer

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"github.com/rotisserie/eris"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/types"
)

// Extension is a wallet provider able to hand out signers for the accounts it manages.
type Extension interface {
	Name() string
	Signer(ctx context.Context, address types.ActorID) (Signer, error)
}

// Registry is the set of wallet extensions available to the host, keyed by name.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
}

func NewRegistry(exts ...Extension) *Registry {
	r := &Registry{extensions: map[string]Extension{}}
	for _, ext := range exts {
		r.Register(ext)
	}
	return r
}

func (r *Registry) Register(ext Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions[ext.Name()] = ext
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.extensions, name)
}

// Lookup finds the signer for address inside the named extension. A missing extension or account yields
// ErrNoSignerAvailable.
func (r *Registry) Lookup(ctx context.Context, source string, address types.ActorID) (Signer, error) {
	r.mu.RLock()
	ext, ok := r.extensions[source]
	r.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(bridgeerrors.ErrNoSignerAvailable, "wallet extension %q is not installed", source)
	}
	s, err := ext.Signer(ctx, address)
	if err != nil {
		return nil, eris.Wrapf(err, "extension %q", source)
	}
	return s, nil
}

// Accounts lists the addresses each registered Keystore exposes.
func (r *Registry) Accounts() map[string][]types.ActorID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string][]types.ActorID{}
	for name, ext := range r.extensions {
		if ks, ok := ext.(*Keystore); ok {
			out[name] = ks.Addresses()
		}
	}
	return out
}

var _ Extension = &Keystore{}

// Keystore is an Extension backed by private keys held in process.
type Keystore struct {
	name    string
	mu      sync.RWMutex
	signers map[types.ActorID]Signer
	order   []types.ActorID
}

func NewKeystore(name string, keys ...*ecdsa.PrivateKey) *Keystore {
	ks := &Keystore{name: name, signers: map[types.ActorID]Signer{}}
	for _, key := range keys {
		ks.Add(key)
	}
	return ks
}

// LoadKeystore builds a Keystore from hex encoded private keys.
func LoadKeystore(name string, hexKeys []string) (*Keystore, error) {
	ks := NewKeystore(name)
	for i, hk := range hexKeys {
		key, err := ParseHexKey(hk)
		if err != nil {
			return nil, eris.Wrapf(err, "key %d of keystore %q", i, name)
		}
		ks.Add(key)
	}
	return ks, nil
}

func (k *Keystore) Add(key *ecdsa.PrivateKey) types.ActorID {
	s := NewKeySigner(key)
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.signers[s.Address()]; !ok {
		k.order = append(k.order, s.Address())
	}
	k.signers[s.Address()] = s
	return s.Address()
}

func (k *Keystore) Name() string {
	return k.name
}

func (k *Keystore) Addresses() []types.ActorID {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]types.ActorID(nil), k.order...)
}

func (k *Keystore) Signer(_ context.Context, address types.ActorID) (Signer, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	s, ok := k.signers[address]
	if !ok {
		return nil, eris.Wrapf(bridgeerrors.ErrNoSignerAvailable, "account %s is not in keystore", address)
	}
	return s, nil
}
