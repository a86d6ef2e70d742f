package signer

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/types"
)

const nonceKeyPrefix = "signer:nonce:"

var (
	_ NonceManager = &memoryNonceManager{}
	_ NonceManager = &redisNonceManager{}
)

// NonceManager hands out monotonically increasing message nonces per signer address.
type NonceManager interface {
	SetNonce(ctx context.Context, address types.ActorID, nonce uint64) error
	// IncNonce returns the nonce to use for the next message and advances the stored value.
	IncNonce(ctx context.Context, address types.ActorID) (nonce uint64, err error)
}

type memoryNonceManager struct {
	sync.Mutex
	nonces map[types.ActorID]uint64
}

func NewMemoryNonceManager() NonceManager {
	return &memoryNonceManager{nonces: map[types.ActorID]uint64{}}
}

func (m *memoryNonceManager) SetNonce(_ context.Context, address types.ActorID, nonce uint64) error {
	m.Lock()
	defer m.Unlock()
	m.nonces[address] = nonce
	return nil
}

func (m *memoryNonceManager) IncNonce(_ context.Context, address types.ActorID) (uint64, error) {
	m.Lock()
	defer m.Unlock()
	nonce := m.nonces[address]
	m.nonces[address] = nonce + 1
	return nonce, nil
}

type redisNonceManager struct {
	client *redis.Client
}

// NewRedisNonceManager keeps nonces in redis so they survive restarts of the bridge daemon.
func NewRedisNonceManager(client *redis.Client) NonceManager {
	return &redisNonceManager{client: client}
}

func (r *redisNonceManager) SetNonce(ctx context.Context, address types.ActorID, nonce uint64) error {
	err := r.client.Set(ctx, nonceKey(address), nonce, 0).Err()
	return eris.Wrap(err, "failed to store nonce")
}

func (r *redisNonceManager) IncNonce(ctx context.Context, address types.ActorID) (uint64, error) {
	next, err := r.client.Incr(ctx, nonceKey(address)).Result()
	if err != nil {
		return 0, eris.Wrap(err, "failed to increment nonce")
	}
	return uint64(next - 1), nil
}

func nonceKey(address types.ActorID) string {
	return nonceKeyPrefix + address.Hex()
}
