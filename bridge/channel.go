package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcode "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/orchestrator"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/statsd"
	"pkg.sigmaverse.dev/bridge/types"
)

const (
	msgAccountNotReady = "account is not ready for minting"
	msgNoSigner        = "wallet signer is unavailable"
	msgInsufficient    = "insufficient balance"
	msgPriceUnknown    = "mint price is unavailable"
	msgUnknownRace     = "unknown cybor race"
	msgMintFailed      = "failed to mint cybor"
	msgQueryFailed     = "failed to query cybor"
)

type Minter interface {
	MintCybor(ctx context.Context, race types.Race) (*orchestrator.MintResult, error)
}

type CyborQuerier interface {
	CyborInfo(ctx context.Context, id types.TokenID, opts ...program.QueryOption) (types.CyborStream, error)
}

// PushFunc delivers a reply to the runtime.
type PushFunc func(ctx context.Context, r Reply) error

// Services are the host components the channel serves requests from.
type Services struct {
	Store  *state.Store
	Minter Minter
	Cybors CyborQuerier
	// Decimals used to display balances. Zero displays raw amounts.
	Decimals int
}

// Channel dispatches runtime requests to their handlers and pushes host state changes to the runtime. Handlers
// never return errors to the caller: failures are logged and, where the runtime expects it, reported with an
// error reply.
type Channel struct {
	svc    Services
	push   PushFunc
	logger zerolog.Logger
}

func NewChannel(svc Services, push PushFunc, logger zerolog.Logger) *Channel {
	return &Channel{svc: svc, push: push, logger: logger}
}

// Handle decodes raw and serves it. Malformed messages and unknown actions are logged and dropped.
func (c *Channel) Handle(ctx context.Context, raw []byte) {
	req, err := DecodeRequest(raw)
	if err != nil {
		switch {
		case errors.Is(err, bridgeerrors.ErrUnknownAction):
			statsd.Incr("request", "action:unknown")
			c.logger.Warn().Err(err).Msg("ignoring unknown action")
		default:
			statsd.Incr("request", "action:malformed")
			c.logger.Warn().Err(err).Int("size", len(raw)).Msg("discarding malformed message")
		}
		return
	}
	c.Dispatch(ctx, req)
}

// Dispatch serves a decoded request. A panicking handler is recovered here; a mint request still gets its
// mint_error reply.
func (c *Channel) Dispatch(ctx context.Context, req Request) {
	action := req.Action()
	ctx, span := otel.Tracer("bridge").Start(ctx, "dispatch",
		trace.WithAttributes(attribute.String("action", string(action))))
	defer span.End()
	start := time.Now()
	logger := c.logger.With().Str("action", string(action)).Logger()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panicked: %v", r)
			span.RecordError(err)
			span.SetStatus(otelcode.Error, "panic")
			logger.Error().Err(err).Msg("recovered bridge handler")
			if action == ActionMintCybor {
				c.send(ctx, logger, MintErrorReply{Message: msgMintFailed})
			}
		}
	}()

	statsd.Incr("request", "action:"+string(action))
	var reply Reply
	switch r := req.(type) {
	case WalletInfoRequest:
		reply = c.walletInfo()
	case AllMyCyborsRequest:
		reply = c.allMyCybors()
	case MintCyborRequest:
		reply = c.mintCybor(ctx, logger, r)
	case CyborInfoRequest:
		reply = c.cyborInfo(ctx, logger, r)
	default:
		logger.Warn().Msgf("no handler for %T", req)
	}
	if reply != nil {
		c.send(ctx, logger, reply)
	}
	statsd.EmitDuration("dispatch", start, string(action))
	span.SetStatus(otelcode.Ok, "")
}

func (c *Channel) send(ctx context.Context, logger zerolog.Logger, r Reply) {
	if err := c.push(ctx, r); err != nil {
		logger.Warn().Err(err).Str("reply", string(r.Action())).Msg("failed to push reply")
	}
}

func (c *Channel) walletInfo() WalletInfoReply {
	w := c.svc.Store.Wallet()
	reply := WalletInfoReply{Balance: "0"}
	if w.Identity != nil {
		addr := w.Identity.Address
		reply.Address = &addr
	}
	if w.Balance != nil {
		reply.Balance = types.FormatAmount(*w.Balance, c.svc.Decimals)
	}
	return reply
}

func (c *Channel) allMyCybors() AllMyCyborsReply {
	return collectionReply(c.svc.Store.Assets())
}

func collectionReply(assets state.Assets) AllMyCyborsReply {
	out := make(AllMyCyborsReply, len(assets.Records))
	for _, r := range assets.Records {
		out[r.ID.Key()] = r.Value
	}
	return out
}

// mintCybor runs the orchestrator. Success has no direct reply: the refreshed collection is pushed by the store
// subscription.
func (c *Channel) mintCybor(ctx context.Context, logger zerolog.Logger, req MintCyborRequest) Reply {
	race, err := types.ParseRace(req.Race)
	if err != nil {
		logger.Warn().Err(err).Str("race", req.Race).Msg("mint rejected")
		return MintErrorReply{Message: msgUnknownRace}
	}
	if _, err := c.svc.Minter.MintCybor(ctx, race); err != nil {
		logger.Info().Msgf("mint failed: %s", eris.ToString(err, true))
		return MintErrorReply{Message: mintErrorMessage(err)}
	}
	return nil
}

func mintErrorMessage(err error) string {
	ae, ok := orchestrator.AsAbandoned(err)
	if !ok {
		return msgMintFailed
	}
	switch ae.Reason {
	case orchestrator.ReasonNoAccount:
		return msgAccountNotReady
	case orchestrator.ReasonNoSigner:
		return msgNoSigner
	case orchestrator.ReasonInsufficientBalance:
		return msgInsufficient
	case orchestrator.ReasonPriceUnavailable:
		return msgPriceUnknown
	case orchestrator.ReasonEstimationFailed, orchestrator.ReasonSigningFailed, orchestrator.ReasonSubmissionFailed:
		return msgMintFailed
	default:
		return msgMintFailed
	}
}

func (c *Channel) cyborInfo(ctx context.Context, logger zerolog.Logger, req CyborInfoRequest) Reply {
	var opts []program.QueryOption
	if id, ok := c.svc.Store.Active(); ok {
		opts = append(opts, program.WithOrigin(id.Address))
	}
	cybor, err := c.svc.Cybors.CyborInfo(ctx, req.TokenID, opts...)
	if err != nil {
		logger.Info().Err(err).Str("token_id", req.TokenID.String()).Msg("cybor query failed")
		msg := msgQueryFailed
		if rce, ok := bridgeerrors.AsRemoteCallError(err); ok {
			msg = rce.Message
		}
		return CyborInfoErrorReply{TokenID: req.TokenID, Message: msg}
	}
	return CyborInfoReply{TokenID: req.TokenID, Cybor: cybor}
}

// Start pushes the current wallet and collection, then pushes them again on every change until the returned func
// is called.
func (c *Channel) Start(ctx context.Context) func() {
	stopWallet := c.svc.Store.SubscribeWallet(func(state.Wallet) {
		c.send(ctx, c.logger, c.walletInfo())
	})
	stopAssets := c.svc.Store.SubscribeAssets(func(a state.Assets) {
		c.send(ctx, c.logger, collectionReply(a))
	})
	c.send(ctx, c.logger, c.walletInfo())
	c.send(ctx, c.logger, c.allMyCybors())
	return func() {
		stopWallet()
		stopAssets()
	}
}
