// Package orchestrator drives state changing program actions from a staged transaction to settlement and keeps
// the host's cached state in step with the chain.
package orchestrator

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

	"pkg.sigmaverse.dev/bridge/account"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/statsd"
	"pkg.sigmaverse.dev/bridge/types"
)

// Stage is a step of the mint state machine.
type Stage int

const (
	StageStaged Stage = iota
	StageAccountBound
	StageValueConfigured
	StageFeeEstimated
	StageSubmitted
	StageSettled
)

func (s Stage) String() string {
	switch s {
	case StageStaged:
		return "staged"
	case StageAccountBound:
		return "account_bound"
	case StageValueConfigured:
		return "value_configured"
	case StageFeeEstimated:
		return "fee_estimated"
	case StageSubmitted:
		return "submitted"
	case StageSettled:
		return "settled"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Reason is why a mint was abandoned.
type Reason string

const (
	ReasonNoAccount           Reason = "no_account"
	ReasonNoSigner            Reason = "no_signer"
	ReasonPriceUnavailable    Reason = "price_unavailable"
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonEstimationFailed    Reason = "estimation_failed"
	ReasonSigningFailed       Reason = "signing_failed"
	ReasonSubmissionFailed    Reason = "submission_failed"
)

// AbandonedError is the terminal failure of a mint. Stage is the step that could not be reached. Err wraps one
// of the sentinel errors of the errors package.
type AbandonedError struct {
	Stage  Stage
	Reason Reason
	Err    error
}

func (e *AbandonedError) Error() string {
	return fmt.Sprintf("mint abandoned before %s (%s): %v", e.Stage, e.Reason, e.Err)
}

func (e *AbandonedError) Unwrap() error {
	return e.Err
}

func AsAbandoned(err error) (*AbandonedError, bool) {
	var ae *AbandonedError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type CredentialResolver interface {
	Resolve(ctx context.Context) (account.Credentials, error)
}

type Pricer interface {
	Price(ctx context.Context, race types.Race) (types.Amount, error)
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

// Minter builds the staged mint message of a race.
type Minter interface {
	Mint(race types.Race) *program.Transaction[struct{}]
}

type MintResult struct {
	TxID      string
	MessageID gateway.MessageID
	Race      types.Race
	Value     types.Amount
	GasLimit  uint64
}

type Orchestrator struct {
	store        *state.Store
	resolver     CredentialResolver
	minter       Minter
	prices       Pricer
	refresher    Refresher
	checkBalance bool
	logger       zerolog.Logger
}

type Option func(*Orchestrator)

// WithoutBalanceCheck leaves insufficient funds to be rejected by the network instead of locally.
func WithoutBalanceCheck() Option {
	return func(o *Orchestrator) {
		o.checkBalance = false
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func New(
	store *state.Store, resolver CredentialResolver, minter Minter, prices Pricer, refresher Refresher, opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		resolver:     resolver,
		minter:       minter,
		prices:       prices,
		refresher:    refresher,
		checkBalance: true,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MintCybor mints a Cybor of race for the active identity. Steps run strictly in order and the first failure
// abandons the mint with an *AbandonedError; nothing is retried. After a successful submission the collection is
// refreshed exactly once before MintCybor returns. A failed refresh is logged and does not fail the mint.
func (o *Orchestrator) MintCybor(ctx context.Context, race types.Race) (*MintResult, error) {
	ctx, span := otel.Tracer("orchestrator").Start(ctx, "orchestrator.mint-cybor",
		trace.WithAttributes(attribute.String("race", race.String())))
	defer span.End()
	start := time.Now()

	res, err := o.mint(ctx, race, span)
	if err != nil {
		outcome := "error"
		if ae, ok := AsAbandoned(err); ok {
			outcome = string(ae.Reason)
		}
		statsd.Incr("mint", "outcome:"+outcome)
		span.RecordError(err)
		span.SetStatus(otelcode.Error, outcome)
		o.logger.Info().Err(err).Str("race", race.String()).Msg("mint abandoned")
		return nil, err
	}
	statsd.Incr("mint", "outcome:settled")
	statsd.EmitDuration("mint", start, StageSettled.String())
	span.SetStatus(otelcode.Ok, "mint settled")
	return res, nil
}

func (o *Orchestrator) mint(ctx context.Context, race types.Race, span trace.Span) (*MintResult, error) {
	// No identity means no wallet interaction at all.
	if _, ok := o.store.Active(); !ok {
		return nil, abandon(StageAccountBound, ReasonNoAccount, bridgeerrors.ErrNoAccountSelected)
	}
	tx := o.minter.Mint(race)

	creds, err := o.resolver.Resolve(ctx)
	if err != nil {
		if errors.Is(err, bridgeerrors.ErrNoAccountSelected) {
			return nil, abandon(StageAccountBound, ReasonNoAccount, err)
		}
		return nil, abandon(StageAccountBound, ReasonNoSigner, err)
	}
	tx.WithAccount(creds.Signer)
	span.AddEvent(StageAccountBound.String())

	price, err := o.prices.Price(ctx, race)
	if err != nil {
		return nil, abandon(StageValueConfigured, ReasonPriceUnavailable, err)
	}
	if !price.IsZero() {
		if o.checkBalance {
			// An unknown balance counts as zero.
			balance := types.NewAmount(0)
			if w := o.store.Wallet(); w.Identity != nil && w.Identity.Address == creds.Identity.Address &&
				w.Balance != nil {
				balance = *w.Balance
			}
			if balance.Lt(price) {
				return nil, abandon(StageValueConfigured, ReasonInsufficientBalance, eris.Wrapf(
					bridgeerrors.ErrInsufficientBalance, "balance %s is below the %s price of %s", balance, race, price))
			}
		}
		tx.WithValue(price)
	}
	span.AddEvent(StageValueConfigured.String())

	if _, err := tx.CalculateGas(ctx); err != nil {
		return nil, abandon(StageFeeEstimated, ReasonEstimationFailed, err)
	}
	span.AddEvent(StageFeeEstimated.String())

	id, err := tx.SignAndSend(ctx)
	if err != nil {
		if errors.Is(err, bridgeerrors.ErrSigningFailed) {
			return nil, abandon(StageSubmitted, ReasonSigningFailed, err)
		}
		return nil, abandon(StageSubmitted, ReasonSubmissionFailed, err)
	}
	span.AddEvent(StageSubmitted.String())

	if err := o.refresher.Refresh(ctx); err != nil {
		o.logger.Warn().Err(err).Str("message_id", string(id)).Msg("collection refresh after mint failed")
	}
	o.logger.Info().
		Str("race", race.String()).
		Str("message_id", string(id)).
		Str("value", price.String()).
		Msg("cybor minted")
	return &MintResult{
		TxID:      tx.ID(),
		MessageID: id,
		Race:      race,
		Value:     tx.Value(),
		GasLimit:  tx.GasLimit(),
	}, nil
}

func abandon(stage Stage, reason Reason, err error) error {
	if sentinel := sentinelFor(reason); !errors.Is(err, sentinel) {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return &AbandonedError{Stage: stage, Reason: reason, Err: err}
}

func sentinelFor(reason Reason) error {
	switch reason {
	case ReasonNoAccount:
		return bridgeerrors.ErrNoAccountSelected
	case ReasonNoSigner:
		return bridgeerrors.ErrNoSignerAvailable
	case ReasonPriceUnavailable:
		return bridgeerrors.ErrPriceUnavailable
	case ReasonInsufficientBalance:
		return bridgeerrors.ErrInsufficientBalance
	case ReasonEstimationFailed:
		return bridgeerrors.ErrEstimationFailed
	case ReasonSigningFailed:
		return bridgeerrors.ErrSigningFailed
	case ReasonSubmissionFailed:
		return bridgeerrors.ErrSubmissionFailed
	}
	return errors.New(string(reason))
}
