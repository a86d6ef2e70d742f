package program

import (
	"context"

	"pkg.sigmaverse.dev/bridge/types"
)

// CyborNft is the client of the program's Cybor collection.
type CyborNft struct {
	service
}

func (c *CyborNft) Mint(race types.Race) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Mint", race)
}

func (c *CyborNft) Burn(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Burn", id)
}

func (c *CyborNft) Freeze(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Freeze", id)
}

func (c *CyborNft) Unfreeze(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Unfreeze", id)
}

func (c *CyborNft) UpLevel(id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "UpLevel", id)
}

func (c *CyborNft) GetTemplate(race types.Race) *Transaction[types.CyborTemplate] {
	return newTransaction[types.CyborTemplate](c.service, "GetTemplate", race)
}

func (c *CyborNft) Approve(approved types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Approve", approved, id)
}

func (c *CyborNft) Transfer(to types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "Transfer", to, id)
}

func (c *CyborNft) TransferFrom(from, to types.ActorID, id types.TokenID) *Transaction[struct{}] {
	return newTransaction[struct{}](c.service, "TransferFrom", from, to, id)
}

func (c *CyborNft) AllCybors(ctx context.Context, opts ...QueryOption) ([]types.Entry[types.CyborMetadata], error) {
	return query[[]types.Entry[types.CyborMetadata]](ctx, c.service, "AllCybors", opts)
}

// AllMyCybors lists the Cybors owned by the query origin, so callers pass WithOrigin.
func (c *CyborNft) AllMyCybors(ctx context.Context, opts ...QueryOption) ([]types.Entry[types.CyborStream], error) {
	return query[[]types.Entry[types.CyborStream]](ctx, c.service, "AllMyCybors", opts)
}

func (c *CyborNft) CyborInfo(ctx context.Context, id types.TokenID, opts ...QueryOption) (types.CyborStream, error) {
	return query[types.CyborStream](ctx, c.service, "CyborInfo", opts, id)
}

func (c *CyborNft) CyborMetadata(
	ctx context.Context, id types.TokenID, opts ...QueryOption,
) (types.CyborMetadata, error) {
	return query[types.CyborMetadata](ctx, c.service, "CyborMetadata", opts, id)
}

func (c *CyborNft) DebugInfo(
	ctx context.Context, race types.Race, opts ...QueryOption,
) (types.CyborNftDebugInfo, error) {
	return query[types.CyborNftDebugInfo](ctx, c.service, "DebugInfo", opts, race)
}

func (c *CyborNft) MaxSupply(ctx context.Context, opts ...QueryOption) (uint32, error) {
	return query[uint32](ctx, c.service, "MaxSupply", opts)
}

func (c *CyborNft) BalanceOf(ctx context.Context, owner types.ActorID, opts ...QueryOption) (types.Amount, error) {
	return query[types.Amount](ctx, c.service, "BalanceOf", opts, owner)
}

func (c *CyborNft) GetApproved(ctx context.Context, id types.TokenID, opts ...QueryOption) (types.ActorID, error) {
	return query[types.ActorID](ctx, c.service, "GetApproved", opts, id)
}

func (c *CyborNft) OwnerOf(ctx context.Context, id types.TokenID, opts ...QueryOption) (types.ActorID, error) {
	return query[types.ActorID](ctx, c.service, "OwnerOf", opts, id)
}

func (c *CyborNft) Name(ctx context.Context, opts ...QueryOption) (string, error) {
	return query[string](ctx, c.service, "Name", opts)
}

func (c *CyborNft) Symbol(ctx context.Context, opts ...QueryOption) (string, error) {
	return query[string](ctx, c.service, "Symbol", opts)
}

func (c *CyborNft) SubscribeToMinted(ctx context.Context, cb func(CyborMinted)) (func(), error) {
	return subscribe(ctx, c.service, EventMinted, cb)
}

func (c *CyborNft) SubscribeToBurned(ctx context.Context, cb func(CyborBurned)) (func(), error) {
	return subscribe(ctx, c.service, EventBurned, cb)
}

func (c *CyborNft) SubscribeToFreeze(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventFreeze, cb)
}

func (c *CyborNft) SubscribeToUnFreeze(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventUnFreeze, cb)
}

func (c *CyborNft) SubscribeToUplevel(ctx context.Context, cb func(ValueMoved)) (func(), error) {
	return subscribe(ctx, c.service, EventUplevel, cb)
}

func (c *CyborNft) SubscribeToDebug(ctx context.Context, cb func(CyborDebug)) (func(), error) {
	return subscribe(ctx, c.service, EventDebug, cb)
}

func (c *CyborNft) SubscribeToTransfer(ctx context.Context, cb func(Transfer)) (func(), error) {
	return subscribe(ctx, c.service, EventTransfer, cb)
}

func (c *CyborNft) SubscribeToApproval(ctx context.Context, cb func(Approval)) (func(), error) {
	return subscribe(ctx, c.service, EventApproval, cb)
}
