package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pkg.sigmaverse.dev/bridge/account"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/orchestrator"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/signer"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/testutils"
	"pkg.sigmaverse.dev/bridge/types"
)

type recorder struct {
	mu      sync.Mutex
	replies []Reply
}

func (r *recorder) push(_ context.Context, rep Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, rep)
	return nil
}

func (r *recorder) all() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reply(nil), r.replies...)
}

func (r *recorder) of(action Action) []Reply {
	var out []Reply
	for _, rep := range r.all() {
		if rep.Action() == action {
			out = append(out, rep)
		}
	}
	return out
}

type mockMinter struct {
	mock.Mock
}

func (m *mockMinter) MintCybor(ctx context.Context, race types.Race) (*orchestrator.MintResult, error) {
	ret := m.Called(ctx, race)
	res, _ := ret.Get(0).(*orchestrator.MintResult)
	return res, ret.Error(1)
}

type mockCybors struct {
	mock.Mock
}

func (m *mockCybors) CyborInfo(
	ctx context.Context, id types.TokenID, opts ...program.QueryOption,
) (types.CyborStream, error) {
	ret := m.Called(ctx, id)
	cybor, _ := ret.Get(0).(types.CyborStream)
	return cybor, ret.Error(1)
}

func newTestChannel(svc Services) (*Channel, *recorder) {
	rec := &recorder{}
	if svc.Store == nil {
		svc.Store = state.NewStore()
	}
	return NewChannel(svc, rec.push, zerolog.Nop()), rec
}

func handle(t *testing.T, c *Channel, req Request) {
	t.Helper()
	bz, err := EncodeRequest(req)
	require.NoError(t, err)
	c.Handle(context.Background(), bz)
}

func TestUnknownActionIsIgnored(t *testing.T) {
	c, rec := newTestChannel(Services{})
	c.Handle(context.Background(), []byte(`{"action":"open_shop","requestBody":"{}"}`))
	assert.Empty(t, rec.all())
}

func TestMalformedMessagesDoNotStopTheChannel(t *testing.T) {
	c, rec := newTestChannel(Services{})
	c.Handle(context.Background(), []byte(`{"action":`))
	c.Handle(context.Background(), []byte(`{"action":"wallet_info","requestBody":"{"}`))
	assert.Empty(t, rec.all())

	handle(t, c, WalletInfoRequest{})
	assert.Equal(t, []Reply{WalletInfoReply{Balance: "0"}}, rec.all())
}

func TestWalletInfo(t *testing.T) {
	store := state.NewStore()
	c, rec := newTestChannel(Services{Store: store, Decimals: types.DefaultDecimals})
	addr := types.ActorID{0xa}
	balance := types.MustParseAmount("1500000000000")
	store.SelectIdentity(state.Identity{Address: addr, Source: "local"}, &balance)

	handle(t, c, WalletInfoRequest{})
	assert.Equal(t, []Reply{WalletInfoReply{Address: &addr, Balance: "1.5"}}, rec.all())
}

func TestWalletInfoWithoutDecimalsShowsRawAmount(t *testing.T) {
	store := state.NewStore()
	c, rec := newTestChannel(Services{Store: store})
	addr := types.ActorID{0xa}
	balance := types.MustParseAmount("1500000000000")
	store.SelectIdentity(state.Identity{Address: addr, Source: "local"}, &balance)

	handle(t, c, WalletInfoRequest{})
	assert.Equal(t, []Reply{WalletInfoReply{Address: &addr, Balance: "1500000000000"}}, rec.all())
}

func TestAllMyCybors(t *testing.T) {
	store := state.NewStore()
	c, rec := newTestChannel(Services{Store: store})
	owner := types.ActorID{0xa}
	store.SelectIdentity(state.Identity{Address: owner}, nil)
	seq, _, ok := store.BeginRefresh()
	require.True(t, ok)
	wide := mustTokenID(t, "340282366920938463463374607431768211457")
	store.ApplyAssets(seq, owner, []types.Entry[types.CyborStream]{
		{ID: types.TokenIDFromUint64(1), Value: types.CyborStream{RaceName: "nguyen"}},
		{ID: wide, Value: types.CyborStream{RaceName: "rodriguez", Level: 3}},
	})

	handle(t, c, AllMyCyborsRequest{})
	assert.Equal(t, []Reply{AllMyCyborsReply{
		"1": {RaceName: "nguyen"},
		"340282366920938463463374607431768211457": {RaceName: "rodriguez", Level: 3},
	}}, rec.all())
}

func TestMintCyborNormalizesRace(t *testing.T) {
	minter := &mockMinter{}
	minter.On("MintCybor", mock.Anything, types.RaceNguyen).Return(&orchestrator.MintResult{}, nil).Once()
	c, rec := newTestChannel(Services{Minter: minter})

	handle(t, c, MintCyborRequest{Race: " NGUYEN "})
	minter.AssertExpectations(t)
	assert.Empty(t, rec.all())
}

func TestMintCyborUnknownRace(t *testing.T) {
	minter := &mockMinter{}
	c, rec := newTestChannel(Services{Minter: minter})

	handle(t, c, MintCyborRequest{Race: "martian"})
	minter.AssertNotCalled(t, "MintCybor", mock.Anything, mock.Anything)
	assert.Equal(t, []Reply{MintErrorReply{Message: msgUnknownRace}}, rec.all())
}

func TestMintPanicIsReported(t *testing.T) {
	minter := &mockMinter{}
	minter.On("MintCybor", mock.Anything, types.RaceRodriguez).Run(func(mock.Arguments) {
		panic("boom")
	})
	c, rec := newTestChannel(Services{Minter: minter})

	handle(t, c, MintCyborRequest{Race: "rodriguez"})
	assert.Equal(t, []Reply{MintErrorReply{Message: msgMintFailed}}, rec.all())

	handle(t, c, WalletInfoRequest{})
	assert.Len(t, rec.all(), 2)
}

func TestMintErrorMessages(t *testing.T) {
	tests := []struct {
		reason orchestrator.Reason
		want   string
	}{
		{orchestrator.ReasonNoAccount, msgAccountNotReady},
		{orchestrator.ReasonNoSigner, msgNoSigner},
		{orchestrator.ReasonInsufficientBalance, msgInsufficient},
		{orchestrator.ReasonPriceUnavailable, msgPriceUnknown},
		{orchestrator.ReasonEstimationFailed, msgMintFailed},
		{orchestrator.ReasonSigningFailed, msgMintFailed},
		{orchestrator.ReasonSubmissionFailed, msgMintFailed},
		{orchestrator.Reason("unheard_of"), msgMintFailed},
	}
	for _, tc := range tests {
		err := &orchestrator.AbandonedError{Reason: tc.reason, Err: bridgeerrors.ErrSubmissionFailed}
		assert.Equal(t, tc.want, mintErrorMessage(err), tc.reason)
	}
	assert.Equal(t, msgMintFailed, mintErrorMessage(bridgeerrors.ErrSigningFailed))
}

func TestCyborInfo(t *testing.T) {
	store := state.NewStore()
	cybors := &mockCybors{}
	id := types.TokenIDFromUint64(7)
	cybors.On("CyborInfo", mock.Anything, id).Return(types.CyborStream{RaceName: "nguyen", Level: 2}, nil).Once()
	missing := types.TokenIDFromUint64(99)
	cybors.On("CyborInfo", mock.Anything, missing).Return(types.CyborStream{}, &bridgeerrors.RemoteCallError{
		Service: program.CyborNftService, Method: "CyborInfo", Message: "cybor does not exist",
	}).Once()
	c, rec := newTestChannel(Services{Store: store, Cybors: cybors})

	handle(t, c, CyborInfoRequest{TokenID: id})
	handle(t, c, CyborInfoRequest{TokenID: missing})
	assert.Equal(t, []Reply{
		CyborInfoReply{TokenID: id, Cybor: types.CyborStream{RaceName: "nguyen", Level: 2}},
		CyborInfoErrorReply{TokenID: missing, Message: "cybor does not exist"},
	}, rec.all())
}

// bridgeFixture wires the channel to real host components over a fake node.
type bridgeFixture struct {
	node      *testutils.FakeNode
	store     *state.Store
	refresher *orchestrator.AssetRefresher
	channel   *Channel
	rec       *recorder
	keystore  *signer.Keystore
}

func newBridgeFixture(t *testing.T) *bridgeFixture {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := signer.NewKeystore("local", key)
	node := testutils.NewFakeNode()
	p := program.New(node, program.WithProgramID(types.ActorID{0x5e}))
	store := state.NewStore()
	refresher := orchestrator.NewAssetRefresher(store, p.CyborNft, zerolog.Nop())
	orch := orchestrator.New(
		store,
		account.NewResolver(store, signer.NewRegistry(ks)),
		p.CyborNft,
		orchestrator.NewPriceSchedule(p.CyborNft, orchestrator.DefaultFixedPrices(), time.Minute),
		refresher,
	)
	c, rec := newTestChannel(Services{Store: store, Minter: orch, Cybors: p.CyborNft})
	return &bridgeFixture{node: node, store: store, refresher: refresher, channel: c, rec: rec, keystore: ks}
}

func TestMintWithoutIdentityRepliesMintError(t *testing.T) {
	f := newBridgeFixture(t)
	handle(t, f.channel, MintCyborRequest{Race: "nguyen"})
	assert.Equal(t, []Reply{MintErrorReply{Message: msgAccountNotReady}}, f.rec.all())
	assert.Equal(t, 0, f.node.TotalCalls())
}

func TestMintWithInsufficientBalanceRepliesMintError(t *testing.T) {
	f := newBridgeFixture(t)
	balance := types.MustParseAmount("1500000000000")
	f.store.SelectIdentity(state.Identity{Address: f.keystore.Addresses()[0], Source: "local"}, &balance)

	handle(t, f.channel, MintCyborRequest{Race: "nguyen"})
	assert.Equal(t, []Reply{MintErrorReply{Message: msgInsufficient}}, f.rec.all())
	assert.Equal(t, 0, f.node.Calls("CalculateGas"))
	assert.Equal(t, 0, f.node.TotalCalls())
}

func TestSuccessfulMintPushesRefreshedCollection(t *testing.T) {
	f := newBridgeFixture(t)
	f.node.HandleResult(program.CyborNftService, "AllMyCybors",
		[]any{[]any{"1", map[string]any{"race_name": "nguyen"}}})
	balance := types.MustParseAmount("5000000000000")
	f.store.SelectIdentity(state.Identity{Address: f.keystore.Addresses()[0], Source: "local"}, &balance)
	stop := f.channel.Start(context.Background())
	defer stop()

	handle(t, f.channel, MintCyborRequest{Race: "nguyen"})
	assert.Empty(t, f.rec.of(ActionMintError))
	collections := f.rec.of(ActionAllMyCybors)
	require.Len(t, collections, 2)
	assert.Equal(t, AllMyCyborsReply{"1": {RaceName: "nguyen"}}, collections[1])
}

func TestIdentitySwitchPushesOnceAndRefreshes(t *testing.T) {
	f := newBridgeFixture(t)
	alice, bob := types.ActorID{0xa}, types.ActorID{0xb}
	f.node.Handle(program.CyborNftService, "AllMyCybors", func(origin types.ActorID, _ []json.RawMessage) (any, error) {
		if origin == bob {
			return []any{[]any{"42", map[string]any{"race_name": "rodriguez"}}}, nil
		}
		return []any{[]any{"1", map[string]any{"race_name": "nguyen"}}}, nil
	})
	stopWatch := f.refresher.Watch(context.Background())
	defer stopWatch()
	f.store.SelectIdentity(state.Identity{Address: alice}, nil)
	f.refresher.Wait()

	stop := f.channel.Start(context.Background())
	defer stop()
	before := len(f.rec.all())
	callsBefore := f.node.RouteCalls(program.CyborNftService, "AllMyCybors")

	f.store.SelectIdentity(state.Identity{Address: bob}, nil)
	f.refresher.Wait()

	pushed := f.rec.all()[before:]
	var wallets, collections []Reply
	for _, r := range pushed {
		switch r.Action() {
		case ActionWalletInfo:
			wallets = append(wallets, r)
		case ActionAllMyCybors:
			collections = append(collections, r)
		default:
		}
	}
	assert.Equal(t, []Reply{WalletInfoReply{Address: &bob, Balance: "0"}}, wallets)
	assert.Equal(t, []Reply{AllMyCyborsReply{"42": {RaceName: "rodriguez"}}}, collections)
	assert.Equal(t, callsBefore+1, f.node.RouteCalls(program.CyborNftService, "AllMyCybors"))
}
