// Package state holds the host side view of the active wallet: the selected identity, its balance and its
// cached Cybor collection. Every slice has its own subscribers, notified synchronously after each write that
// changes it. Deliveries are serialized and always carry the latest state, so a slow subscriber never sees an
// older snapshot after a newer one. Subscribers must not write to the store from their callback.
package state

import (
	"sync"

	"pkg.sigmaverse.dev/bridge/types"
)

// Identity is a connected wallet account. Source names the wallet extension holding its key.
type Identity struct {
	Address types.ActorID `json:"address"`
	Source  string        `json:"source"`
	Name    string        `json:"name,omitempty"`
}

// Wallet is the identity slice: the active identity and its balance. Both are nil when nothing is selected;
// Balance is nil while unknown.
type Wallet struct {
	Identity *Identity
	Balance  *types.Amount
}

// Assets is the cached collection of the identity that owns it. Seq is the refresh that produced it.
type Assets struct {
	Owner   types.ActorID
	Seq     uint64
	Records []types.Entry[types.CyborStream]
}

type Store struct {
	mu sync.Mutex
	// notifyMu serializes deliveries. It is always taken before mu.
	notifyMu sync.Mutex

	identity *Identity
	balance  *types.Amount
	assets   Assets

	issuedSeq  uint64
	appliedSeq uint64

	// Versions of the wallet and identity slices, bumped on every write that changes them, and the versions
	// subscribers last received. notified* are guarded by notifyMu.
	walletVer        uint64
	identityVer      uint64
	notifiedWallet   uint64
	notifiedIdentity uint64
	notifiedAssets   uint64

	nextSub      int
	walletSubs   map[int]func(Wallet)
	identitySubs map[int]func(*Identity)
	assetSubs    map[int]func(Assets)
}

func NewStore() *Store {
	return &Store{
		walletSubs:   map[int]func(Wallet){},
		identitySubs: map[int]func(*Identity){},
		assetSubs:    map[int]func(Assets){},
	}
}

func (s *Store) walletLocked() Wallet {
	w := Wallet{}
	if s.identity != nil {
		id := *s.identity
		w.Identity = &id
	}
	if s.balance != nil {
		b := *s.balance
		w.Balance = &b
	}
	return w
}

func (s *Store) Wallet() Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walletLocked()
}

// Active returns the selected identity, if any.
func (s *Store) Active() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Assets() Assets {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.assets
	a.Records = append([]types.Entry[types.CyborStream](nil), s.assets.Records...)
	return a
}

// SelectIdentity makes id the active identity with the given balance (nil when unknown) in a single write. The
// cached collection of the previous identity is dropped without notification; the refresh triggered by the
// identity change publishes the new one. Re-selecting the active identity with a nil balance keeps the balance
// already known.
func (s *Store) SelectIdentity(id Identity, balance *types.Amount) {
	s.mu.Lock()
	changed := s.identity == nil || *s.identity != id
	walletChanged := changed
	s.identity = &id
	switch {
	case balance != nil:
		if s.balance == nil || s.balance.Cmp(*balance) != 0 {
			walletChanged = true
		}
		b := *balance
		s.balance = &b
	case changed:
		s.balance = nil
	default:
		// same identity, balance unknown to the caller: keep ours
	}
	if changed {
		s.assets = Assets{Owner: id.Address}
		s.identityVer++
	}
	if walletChanged {
		s.walletVer++
	}
	s.mu.Unlock()

	s.notify()
}

// ClearIdentity disconnects the active identity.
func (s *Store) ClearIdentity() {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return
	}
	s.identity = nil
	s.balance = nil
	s.assets = Assets{}
	s.walletVer++
	s.identityVer++
	s.mu.Unlock()

	s.notify()
}

// SetBalance records a new balance for address. It is ignored unless address is the active identity, and
// subscribers are only notified when the value changed.
func (s *Store) SetBalance(address types.ActorID, balance types.Amount) bool {
	s.mu.Lock()
	if s.identity == nil || s.identity.Address != address {
		s.mu.Unlock()
		return false
	}
	if s.balance != nil && s.balance.Cmp(balance) == 0 {
		s.mu.Unlock()
		return false
	}
	s.balance = &balance
	s.walletVer++
	s.mu.Unlock()

	s.notify()
	return true
}

// BeginRefresh stamps a new collection refresh for the active identity. The returned sequence number must be
// handed back to ApplyAssets.
func (s *Store) BeginRefresh() (seq uint64, owner Identity, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return 0, Identity{}, false
	}
	s.issuedSeq++
	return s.issuedSeq, *s.identity, true
}

// ApplyAssets replaces the cached collection with records fetched by refresh seq for owner. Completions older
// than the latest applied refresh, or fetched for an identity that is no longer active, are discarded. Token
// ids are made unique, the last record for an id wins.
func (s *Store) ApplyAssets(seq uint64, owner types.ActorID, records []types.Entry[types.CyborStream]) bool {
	s.mu.Lock()
	if seq <= s.appliedSeq || s.identity == nil || s.identity.Address != owner {
		s.mu.Unlock()
		return false
	}
	s.appliedSeq = seq
	s.assets = Assets{Owner: owner, Seq: seq, Records: dedupe(records)}
	s.mu.Unlock()

	s.notify()
	return true
}

// notify delivers every slice that changed since the last delivery. It reads the state after taking notifyMu,
// so a write that raced ahead is delivered once with its newest value and the older one is never sent after it.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	wallet := s.walletLocked()
	walletVer, identityVer := s.walletVer, s.identityVer
	assets := s.assets
	assets.Records = append([]types.Entry[types.CyborStream](nil), s.assets.Records...)
	walletSubs, identitySubs, assetSubs := s.walletSubsLocked(), s.identitySubsLocked(), s.assetSubsLocked()
	s.mu.Unlock()

	if walletVer > s.notifiedWallet {
		s.notifiedWallet = walletVer
		for _, cb := range walletSubs {
			cb(wallet)
		}
	}
	if identityVer > s.notifiedIdentity {
		s.notifiedIdentity = identityVer
		for _, cb := range identitySubs {
			cb(wallet.Identity)
		}
	}
	if assets.Seq > s.notifiedAssets {
		s.notifiedAssets = assets.Seq
		for _, cb := range assetSubs {
			cb(assets)
		}
	}
}

func dedupe(records []types.Entry[types.CyborStream]) []types.Entry[types.CyborStream] {
	index := make(map[types.TokenID]int, len(records))
	out := make([]types.Entry[types.CyborStream], 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// SubscribeWallet registers cb for identity and balance changes. The returned func unregisters it.
func (s *Store) SubscribeWallet(cb func(Wallet)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.walletSubs[id] = cb
	return func() { s.unsubscribe(id) }
}

// SubscribeIdentity registers cb for changes of the active identity only. cb receives nil on disconnect.
func (s *Store) SubscribeIdentity(cb func(*Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.identitySubs[id] = cb
	return func() { s.unsubscribe(id) }
}

func (s *Store) SubscribeAssets(cb func(Assets)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.assetSubs[id] = cb
	return func() { s.unsubscribe(id) }
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.walletSubs, id)
	delete(s.identitySubs, id)
	delete(s.assetSubs, id)
}

func (s *Store) walletSubsLocked() []func(Wallet) {
	out := make([]func(Wallet), 0, len(s.walletSubs))
	for _, cb := range s.walletSubs {
		out = append(out, cb)
	}
	return out
}

func (s *Store) identitySubsLocked() []func(*Identity) {
	out := make([]func(*Identity), 0, len(s.identitySubs))
	for _, cb := range s.identitySubs {
		out = append(out, cb)
	}
	return out
}

func (s *Store) assetSubsLocked() []func(Assets) {
	out := make([]func(Assets), 0, len(s.assetSubs))
	for _, cb := range s.assetSubs {
		out = append(out, cb)
	}
	return out
}
