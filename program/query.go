package program

import (
	"context"

	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/codec"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/types"
)

type queryConfig struct {
	origin types.ActorID
	value  types.Amount
	at     string
}

// QueryOption tunes the read-only simulation of a query.
type QueryOption func(*queryConfig)

// WithOrigin simulates the query as sent by origin. The zero actor is used otherwise.
func WithOrigin(origin types.ActorID) QueryOption {
	return func(c *queryConfig) {
		c.origin = origin
	}
}

// WithValue attaches value to the simulated message.
func WithValue(value types.Amount) QueryOption {
	return func(c *queryConfig) {
		c.value = value
	}
}

// AtBlock simulates the query against the state at the given block hash.
func AtBlock(blockHash string) QueryOption {
	return func(c *queryConfig) {
		c.at = blockHash
	}
}

func query[T any](ctx context.Context, s service, method string, opts []QueryOption, args ...any) (T, error) {
	var zero T
	cfg := queryConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	programID, err := s.program.ProgramID()
	if err != nil {
		return zero, err
	}
	payload, err := codec.EncodeCall(s.name, method, args...)
	if err != nil {
		return zero, err
	}
	gasLimit, err := s.program.node.BlockGasLimit(ctx)
	if err != nil {
		return zero, eris.Wrap(err, "failed to read block gas limit")
	}
	reply, err := s.program.node.CalculateReply(ctx, gateway.CalculateReplyRequest{
		Origin:      cfg.origin,
		Destination: programID,
		Payload:     payload,
		Value:       cfg.value,
		GasLimit:    gasLimit,
		At:          cfg.at,
	})
	if err != nil {
		return zero, eris.Wrapf(err, "%s/%s", s.name, method)
	}
	return decodeReply[T](s.name, method, reply)
}

func decodeReply[T any](service, method string, reply *gateway.Reply) (T, error) {
	var zero T
	if !reply.Code.Success {
		return zero, &bridgeerrors.RemoteCallError{
			Service: service,
			Method:  method,
			Reason:  reply.Code.Reason,
			Message: codec.DecodeErrorMessage(reply.Payload),
		}
	}
	res, err := codec.DecodeResult[T](reply.Payload, service, method)
	if err != nil {
		return zero, eris.Wrapf(err, "failed to decode %s/%s reply", service, method)
	}
	return res, nil
}
