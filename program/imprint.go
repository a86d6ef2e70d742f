package program

import (
	"context"

	"pkg.sigmaverse.dev/bridge/types"
)

// ImprintNft is the client of the program's Imprint collection.
type ImprintNft struct {
	service
}

func (c *ImprintNft) Mint(race types.Race) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Mint", race)
}

func (c *ImprintNft) Burn(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Burn", id)
}

func (c *ImprintNft) Combine(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Combine", id)
}

func (c *ImprintNft) Deposit(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Deposit", id)
}

func (c *ImprintNft) Withdraw(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Withdraw", id)
}

func (c *ImprintNft) GetTemplate(race types.Race) *Transaction[types.ImprintTemplate] {
	return newTransaction[types.ImprintTemplate](c.service, "GetTemplate", race)
}

func (c *ImprintNft) Approve(approved types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Approve", approved, id)
}

func (c *ImprintNft) Transfer(to types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Transfer", to, id)
}

func (c *ImprintNft) TransferFrom(from, to types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "TransferFrom", from, to, id)
}

func (c *ImprintNft) AllImprints(
	ctx context.Context, opts ...QueryOption,
) ([]types.Entry[types.ImprintMetadata], error) {
	return query[[]types.Entry[types.ImprintMetadata]](ctx, c.service, "AllImprints", opts)
}

func (c *ImprintNft) AllMyImprints(
	ctx context.Context, opts ...QueryOption,
) ([]types.Entry[types.ImprintStream], error) {
	return query[[]types.Entry[types.ImprintStream]](ctx, c.service, "AllMyImprints", opts)
}

func (c *ImprintNft) ImprintInfo(
	ctx context.Context, id types.TokenID, opts ...QueryOption,
) (types.ImprintStream, error) {
	return query[types.ImprintStream](ctx, c.service, "ImprintInfo", opts, id)
}

func (c *ImprintNft) ImprintMetadata(
	ctx context.Context, id types.TokenID, opts ...QueryOption,
) (types.ImprintMetadata, error) {
	return query[types.ImprintMetadata](ctx, c.service, "ImprintMetadata", opts, id)
}

func (c *ImprintNft) DebugInfo(
	ctx context.Context, race types.Race, opts ...QueryOption,
) (types.ImprintNftDebugInfo, error) {
	return query[types.ImprintNftDebugInfo](ctx, c.service, "DebugInfo", opts, race)
}

func (c *ImprintNft) MaxSupply(ctx context.Context, opts ...QueryOption) (uint32, error) {
	return query[uint32](ctx, c.service, "MaxSupply", opts)
}

func (c *ImprintNft) BalanceOf(ctx context.Context, owner types.ActorID, opts ...QueryOption) (types.Amount, error) {
	return query[types.Amount](ctx, c.service, "BalanceOf", opts, owner)
}

func (c *ImprintNft) GetApproved(ctx context.Context, id types.TokenID, opts ...QueryOption) (types.ActorID, error) {
	return query[types.ActorID](ctx, c.service, "GetApproved", opts, id)
}

func (c *ImprintNft) OwnerOf(ctx context.Context, id types.TokenID, opts ...QueryOption) (types.ActorID, error) {
	return query[types.ActorID](ctx, c.service, "OwnerOf", opts, id)
}

func (c *ImprintNft) Name(ctx context.Context, opts ...QueryOption) (string, error) {
	return query[string](ctx, c.service, "Name", opts)
}

func (c *ImprintNft) Symbol(ctx context.Context, opts ...QueryOption) (string, error) {
	return query[string](ctx, c.service, "Symbol", opts)
}

func (c *ImprintNft) SubscribeToMinted(ctx context.Context, cb func(ImprintMinted)) (func(), error) {
	return subscribe(ctx, c.service, EventMinted, cb)
}

func (c *ImprintNft) SubscribeToBurned(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventBurned, cb)
}

func (c *ImprintNft) SubscribeToDeposit(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventDeposit, cb)
}

func (c *ImprintNft) SubscribeToWithdraw(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventWithdraw, cb)
}

func (c *ImprintNft) SubscribeToCombine(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventCombine, cb)
}

func (c *ImprintNft) SubscribeToDebug(ctx context.Context, cb func(ImprintDebug)) (func(), error) {
	return subscribe(ctx, c.service, EventDebug, cb)
}

func (c *ImprintNft) SubscribeToTransfer(ctx context.Context, cb func(Transfer)) (func(), error) {
	return subscribe(ctx, c.service, EventTransfer, cb)
}

func (c *ImprintNft) SubscribeToApproval(ctx context.Context, cb func(Approval)) (func(), error) {
	return subscribe(ctx, c.service, EventApproval, cb)
}
