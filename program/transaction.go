package program

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcode "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pkg.sigmaverse.dev/bridge/codec"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/signer"
	"pkg.sigmaverse.dev/bridge/types"
)

// Transaction is a staged program message. Building one has no side effects: the caller binds an account, sets
// the attached value, estimates gas and finally signs and sends it. T is the type of the program's reply.
type Transaction[T any] struct {
	id       string
	program  *Program
	service  string
	method   string
	payload  []byte
	buildErr error

	signer   signer.Signer
	value    types.Amount
	gasLimit uint64

	messageID gateway.MessageID
}

func newTransaction[T any](s service, method string, args ...any) *Transaction[T] {
	payload, err := codec.EncodeCall(s.name, method, args...)
	return &Transaction[T]{
		id:       uuid.NewString(),
		program:  s.program,
		service:  s.name,
		method:   method,
		payload:  payload,
		buildErr: err,
	}
}

func (t *Transaction[T]) ID() string {
	return t.id
}

// Route is the "service/method" name of the staged call.
func (t *Transaction[T]) Route() string {
	return t.service + "/" + t.method
}

func (t *Transaction[T]) Payload() []byte {
	return t.payload
}

// WithAccount binds the account that signs and pays for the message.
func (t *Transaction[T]) WithAccount(s signer.Signer) *Transaction[T] {
	t.signer = s
	return t
}

// WithValue sets the value transferred to the program along with the message.
func (t *Transaction[T]) WithValue(value types.Amount) *Transaction[T] {
	t.value = value
	return t
}

// WithGasLimit skips estimation and uses limit as is.
func (t *Transaction[T]) WithGasLimit(limit uint64) *Transaction[T] {
	t.gasLimit = limit
	return t
}

func (t *Transaction[T]) Value() types.Amount {
	return t.value
}

func (t *Transaction[T]) GasLimit() uint64 {
	return t.gasLimit
}

func (t *Transaction[T]) MessageID() gateway.MessageID {
	return t.messageID
}

// CalculateGas estimates the gas the message needs and adds the program's safety margin. Failures wrap
// ErrEstimationFailed.
func (t *Transaction[T]) CalculateGas(ctx context.Context) (uint64, error) {
	if t.buildErr != nil {
		return 0, eris.Wrap(bridgeerrors.ErrEstimationFailed, t.buildErr.Error())
	}
	programID, err := t.program.ProgramID()
	if err != nil {
		return 0, eris.Wrap(bridgeerrors.ErrEstimationFailed, err.Error())
	}
	var origin types.ActorID
	if t.signer != nil {
		origin = t.signer.Address()
	}
	info, err := t.program.node.CalculateGas(ctx, gateway.CalculateGasRequest{
		Origin:      origin,
		Destination: programID,
		Payload:     t.payload,
		Value:       t.value,
	})
	if err != nil {
		return 0, eris.Wrapf(bridgeerrors.ErrEstimationFailed, "%s: %v", t.Route(), err)
	}
	t.gasLimit = info.MinLimit + info.MinLimit*t.program.gasMarginPercent/100 //nolint:gomnd // percent
	return t.gasLimit, nil
}

// SignAndSend signs the message with the bound account and submits it. Signing problems wrap ErrSigningFailed,
// rejected submissions wrap ErrSubmissionFailed. A transaction is sent at most once.
func (t *Transaction[T]) SignAndSend(ctx context.Context) (gateway.MessageID, error) {
	ctx, span := otel.Tracer("program").Start(ctx, "program.sign-and-send",
		trace.WithAttributes(routeAttr(t.Route())))
	defer span.End()

	id, err := t.signAndSend(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcode.Error, "failed to send message")
		return "", err
	}
	span.SetStatus(otelcode.Ok, "message sent")
	return id, nil
}

func (t *Transaction[T]) signAndSend(ctx context.Context) (gateway.MessageID, error) {
	if t.messageID != "" {
		return "", eris.Wrapf(bridgeerrors.ErrSubmissionFailed, "%s was already sent as %s", t.Route(), t.messageID)
	}
	if t.buildErr != nil {
		return "", eris.Wrap(bridgeerrors.ErrSigningFailed, t.buildErr.Error())
	}
	if t.signer == nil {
		return "", eris.Wrapf(bridgeerrors.ErrSigningFailed, "%s has no account bound", t.Route())
	}
	programID, err := t.program.ProgramID()
	if err != nil {
		return "", eris.Wrap(bridgeerrors.ErrSubmissionFailed, err.Error())
	}
	if t.gasLimit == 0 {
		if _, err := t.CalculateGas(ctx); err != nil {
			return "", err
		}
	}
	address := t.signer.Address()
	nonce, err := t.program.nonces.IncNonce(ctx, address)
	if err != nil {
		return "", eris.Wrapf(bridgeerrors.ErrSigningFailed, "nonce for %s: %v", address, err)
	}
	signed, err := t.signer.SignMessage(ctx, sign.Message{
		Source:      address,
		Destination: programID,
		Payload:     t.payload,
		Value:       t.value,
		GasLimit:    t.gasLimit,
		Nonce:       nonce,
	})
	if err != nil {
		return "", eris.Wrapf(bridgeerrors.ErrSigningFailed, "%s: %v", t.Route(), err)
	}
	id, err := t.program.node.SendMessage(ctx, signed)
	if err != nil {
		return "", eris.Wrapf(bridgeerrors.ErrSubmissionFailed, "%s: %v", t.Route(), err)
	}
	t.messageID = id
	t.program.logger.Debug().
		Str("route", t.Route()).
		Str("tx", t.id).
		Str("message_id", string(id)).
		Msg("program message sent")
	return id, nil
}

// Response waits for the program's reply to the sent message and decodes it. A failed reply is returned as a
// RemoteCallError.
func (t *Transaction[T]) Response(ctx context.Context) (T, error) {
	var zero T
	if t.messageID == "" {
		return zero, eris.Errorf("%s has not been sent", t.Route())
	}
	reply, err := t.program.node.WaitReply(ctx, t.messageID)
	if err != nil {
		return zero, eris.Wrapf(err, "waiting for %s reply", t.Route())
	}
	return decodeReply[T](t.service, t.method, reply)
}

func routeAttr(route string) attribute.KeyValue {
	return attribute.String("program.route", route)
}
