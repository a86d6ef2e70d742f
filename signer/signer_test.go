package signer

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"

	"pkg.sigmaverse.dev/bridge/assert"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/types"
)

func TestKeystoreSignerProducesVerifiableMessages(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	assert.NilError(t, err)

	ks := NewKeystore("local", key)
	reg := NewRegistry(ks)
	addr := ks.Addresses()[0]

	s, err := reg.Lookup(ctx, "local", addr)
	assert.NilError(t, err)
	assert.Equal(t, addr, s.Address())

	sm, err := s.SignMessage(ctx, sign.Message{Payload: []byte("hi"), Nonce: 3})
	assert.NilError(t, err)
	assert.Equal(t, addr, sm.Source)
	assert.NilError(t, sm.Verify())
}

func TestRegistryLookupFailures(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	assert.NilError(t, err)
	other, err := crypto.GenerateKey()
	assert.NilError(t, err)
	reg := NewRegistry(NewKeystore("local", key))

	_, err = reg.Lookup(ctx, "missing-extension", sign.ActorIDFromPubkey(&key.PublicKey))
	assert.ErrorIs(t, err, bridgeerrors.ErrNoSignerAvailable)

	_, err = reg.Lookup(ctx, "local", sign.ActorIDFromPubkey(&other.PublicKey))
	assert.ErrorIs(t, err, bridgeerrors.ErrNoSignerAvailable)

	reg.Unregister("local")
	_, err = reg.Lookup(ctx, "local", sign.ActorIDFromPubkey(&key.PublicKey))
	assert.ErrorIs(t, err, bridgeerrors.ErrNoSignerAvailable)
}

func TestLoadKeystoreFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	assert.NilError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	ks, err := LoadKeystore("cfg", []string{hexKey, hexKey})
	assert.NilError(t, err)
	assert.Len(t, ks.Addresses(), 1)

	_, err = LoadKeystore("cfg", []string{"not-a-key"})
	assert.ErrorContains(t, err, "key 0")
}

func testNonceManager(t *testing.T, nm NonceManager) {
	ctx := context.Background()
	a := types.ActorID{1}
	b := types.ActorID{2}

	n, err := nm.IncNonce(ctx, a)
	assert.NilError(t, err)
	assert.Equal(t, uint64(0), n)
	n, err = nm.IncNonce(ctx, a)
	assert.NilError(t, err)
	assert.Equal(t, uint64(1), n)

	n, err = nm.IncNonce(ctx, b)
	assert.NilError(t, err)
	assert.Equal(t, uint64(0), n)

	assert.NilError(t, nm.SetNonce(ctx, a, 100))
	n, err = nm.IncNonce(ctx, a)
	assert.NilError(t, err)
	assert.Equal(t, uint64(100), n)

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := nm.IncNonce(ctx, b)
			assert.NoError(t, err)
			_, dup := seen.LoadOrStore(got, true)
			assert.False(t, dup, "nonce %d handed out twice", got)
		}()
	}
	wg.Wait()
}

func TestMemoryNonceManager(t *testing.T) {
	testNonceManager(t, NewMemoryNonceManager())
}

func TestRedisNonceManager(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	testNonceManager(t, NewRedisNonceManager(client))
}
