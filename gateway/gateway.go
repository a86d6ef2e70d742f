// Package gateway talks to a Sigmaverse node gateway: read-only reply calculation, gas estimation, signed message
// submission, account balances and the stream of user messages emitted by programs.
package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/types"
)

// Node is the capability every program client is built on.
type Node interface {
	CalculateReply(ctx context.Context, req CalculateReplyRequest) (*Reply, error)
	CalculateGas(ctx context.Context, req CalculateGasRequest) (*GasInfo, error)
	BlockGasLimit(ctx context.Context) (uint64, error)
	SendMessage(ctx context.Context, msg *sign.SignedMessage) (MessageID, error)
	// WaitReply blocks until the program replied to the message or ctx is done.
	WaitReply(ctx context.Context, id MessageID) (*Reply, error)
	Balance(ctx context.Context, address types.ActorID) (types.Amount, error)
	// SubscribeUserMessages invokes cb for every live user message until the returned disposer is called.
	SubscribeUserMessages(ctx context.Context, cb func(UserMessageSent)) (func(), error)
}

type MessageID string

type CalculateReplyRequest struct {
	Origin      types.ActorID `json:"origin"`
	Destination types.ActorID `json:"destination"`
	Payload     hexutil.Bytes `json:"payload"`
	Value       types.Amount  `json:"value"`
	GasLimit    uint64        `json:"gasLimit"`
	// At is an optional block hash the call is simulated against.
	At string `json:"at,omitempty"`
}

type CalculateGasRequest struct {
	Origin           types.ActorID `json:"origin"`
	Destination      types.ActorID `json:"destination"`
	Payload          hexutil.Bytes `json:"payload"`
	Value            types.Amount  `json:"value"`
	AllowOtherPanics bool          `json:"allowOtherPanics"`
}

type GasInfo struct {
	MinLimit uint64 `json:"minLimit"`
	Reserved uint64 `json:"reserved"`
	Burned   uint64 `json:"burned"`
}

type ReplyCode struct {
	Success bool `json:"isSuccess"`
	// Reason describes a non-success code, e.g. "execution:panic" or "unavailableActor".
	Reason string `json:"reason,omitempty"`
}

type Reply struct {
	Code    ReplyCode     `json:"code"`
	Payload hexutil.Bytes `json:"payload"`
	Value   types.Amount  `json:"value"`
}

// UserMessageSent is a message a program sent to a user. Program events are user messages addressed to the
// zero actor.
type UserMessageSent struct {
	ID          MessageID     `json:"id"`
	Source      types.ActorID `json:"source"`
	Destination types.ActorID `json:"destination"`
	Payload     hexutil.Bytes `json:"payload"`
	Value       types.Amount  `json:"value"`
}
