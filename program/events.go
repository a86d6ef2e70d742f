package program

import (
	"context"

	"pkg.sigmaverse.dev/bridge/codec"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/types"
)

const (
	EventMinted   = "Minted"
	EventBurned   = "Burned"
	EventFreeze   = "Freeze"
	EventUnFreeze = "UnFreeze"
	EventUplevel  = "Uplevel"
	EventDeposit  = "Deposit"
	EventWithdraw = "Withdraw"
	EventCombine  = "Combine"
	EventTransfer = "Transfer"
	EventApproval = "Approval"
	EventDebug    = "DEBUG"
)

type CyborMinted struct {
	To             types.ActorID `json:"to"`
	Value          types.Amount  `json:"value"`
	NextID         types.TokenID `json:"next_id"`
	LenByMinted    uint32        `json:"len_by_minted"`
	LenByGroupUser uint32        `json:"len_by_group_user"`
}

type CyborBurned struct {
	From  types.ActorID `json:"from"`
	Value types.Amount  `json:"value"`
	MsgID string        `json:"msg_id"`
}

// ValueMoved is the payload shared by the events that only report who acted and the value involved: Freeze,
// UnFreeze and Uplevel for Cybors, Burned, Deposit, Withdraw and Combine for Imprints.
type ValueMoved struct {
	From  types.ActorID `json:"from"`
	Value types.Amount  `json:"value"`
}

type ImprintMinted struct {
	To          types.ActorID `json:"to"`
	Value       types.Amount  `json:"value"`
	NextID      types.TokenID `json:"next_id"`
	LenByMinted uint32        `json:"len_by_minted"`
}

type Transfer struct {
	From    types.ActorID `json:"from"`
	To      types.ActorID `json:"to"`
	TokenID types.TokenID `json:"token_id"`
}

type Approval struct {
	Owner    types.ActorID `json:"owner"`
	Approved types.ActorID `json:"approved"`
	TokenID  types.TokenID `json:"token_id"`
}

type CyborDebug struct {
	Value types.CyborNftDebugInfo `json:"value"`
}

type ImprintDebug struct {
	Value types.ImprintNftDebugInfo `json:"value"`
}

// subscribe registers cb for live occurrences of one event of service s. Only user messages sent by the program
// to the zero actor whose route matches are considered, and payloads that fail to decode are skipped.
func subscribe[T any](ctx context.Context, s service, event string, cb func(T)) (func(), error) {
	programID, err := s.program.ProgramID()
	if err != nil {
		return nil, err
	}
	logger := s.program.logger.With().Str("service", s.name).Str("event", event).Logger()
	return s.program.node.SubscribeUserMessages(ctx, func(msg gateway.UserMessageSent) {
		if msg.Source != programID || !msg.Destination.IsZero() {
			return
		}
		route, err := codec.DecodeRoute(msg.Payload)
		if err != nil || route.Service != s.name || route.Method != event {
			return
		}
		data, err := codec.DecodeResult[T](msg.Payload, s.name, event)
		if err != nil {
			logger.Debug().Err(err).Str("message_id", string(msg.ID)).Msg("skipping undecodable event")
			return
		}
		cb(data)
	})
}
