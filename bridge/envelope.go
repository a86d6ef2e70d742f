// Package bridge carries actions between the embedded game runtime and the host. Every message is an envelope
// whose body is itself a JSON document encoded as a string.
package bridge

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/codec"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/types"
)

type Action string

const (
	ActionWalletInfo     Action = "wallet_info"
	ActionAllMyCybors    Action = "all_my_cybors"
	ActionMintCybor      Action = "mint_cybor"
	ActionMintError      Action = "mint_error"
	ActionCyborInfo      Action = "cybor_info"
	ActionCyborInfoError Action = "cybor_info_error"
)

type envelope struct {
	Action       Action  `json:"action"`
	RequestBody  *string `json:"requestBody,omitempty"`
	ResponseBody *string `json:"responseBody,omitempty"`
}

// Request is a message sent by the runtime.
type Request interface {
	Action() Action
	isRequest()
}

type WalletInfoRequest struct{}

type AllMyCyborsRequest struct{}

type MintCyborRequest struct {
	Race string `json:"race"`
}

type CyborInfoRequest struct {
	TokenID types.TokenID `json:"tokenId"`
}

func (WalletInfoRequest) Action() Action  { return ActionWalletInfo }
func (AllMyCyborsRequest) Action() Action { return ActionAllMyCybors }
func (MintCyborRequest) Action() Action   { return ActionMintCybor }
func (CyborInfoRequest) Action() Action   { return ActionCyborInfo }

func (WalletInfoRequest) isRequest()  {}
func (AllMyCyborsRequest) isRequest() {}
func (MintCyborRequest) isRequest()   {}
func (CyborInfoRequest) isRequest()   {}

// Reply is a message pushed to the runtime, either answering a request or reporting a host state change.
type Reply interface {
	Action() Action
	isReply()
}

// WalletInfoReply reports the active identity. Balance is the display value; Address is omitted when no identity
// is selected.
type WalletInfoReply struct {
	Address *types.ActorID `json:"address,omitempty"`
	Balance string         `json:"balance"`
}

// AllMyCyborsReply maps decimal token ids to the owned Cybors.
type AllMyCyborsReply map[string]types.CyborStream

type MintErrorReply struct {
	Message string `json:"message"`
}

type CyborInfoReply struct {
	TokenID types.TokenID     `json:"tokenId"`
	Cybor   types.CyborStream `json:"cybor"`
}

type CyborInfoErrorReply struct {
	TokenID types.TokenID `json:"tokenId"`
	Message string        `json:"message"`
}

func (WalletInfoReply) Action() Action     { return ActionWalletInfo }
func (AllMyCyborsReply) Action() Action    { return ActionAllMyCybors }
func (MintErrorReply) Action() Action      { return ActionMintError }
func (CyborInfoReply) Action() Action      { return ActionCyborInfo }
func (CyborInfoErrorReply) Action() Action { return ActionCyborInfoError }

func (WalletInfoReply) isReply()     {}
func (AllMyCyborsReply) isReply()    {}
func (MintErrorReply) isReply()      {}
func (CyborInfoReply) isReply()      {}
func (CyborInfoErrorReply) isReply() {}

// DecodeRequest parses a runtime message. A missing body is read as an empty object. Messages that are not a
// valid envelope, or whose body does not parse, wrap ErrMalformedBridgeMessage; well-formed messages with an
// action this bridge does not serve wrap ErrUnknownAction.
func DecodeRequest(raw []byte) (Request, error) {
	env, err := codec.Decode[envelope](raw)
	if err != nil {
		return nil, eris.Wrap(bridgeerrors.ErrMalformedBridgeMessage, err.Error())
	}
	if env.Action == "" {
		return nil, eris.Wrap(bridgeerrors.ErrMalformedBridgeMessage, "missing action")
	}
	body := "{}"
	if env.RequestBody != nil {
		body = *env.RequestBody
	}

	switch env.Action {
	case ActionWalletInfo:
		return decodeBody[WalletInfoRequest](env.Action, body)
	case ActionAllMyCybors:
		return decodeBody[AllMyCyborsRequest](env.Action, body)
	case ActionMintCybor:
		return decodeBody[MintCyborRequest](env.Action, body)
	case ActionCyborInfo:
		return decodeBody[CyborInfoRequest](env.Action, body)
	case ActionMintError, ActionCyborInfoError:
		// Replies only: the runtime never sends them.
		return nil, eris.Wrapf(bridgeerrors.ErrUnknownAction, "%q is an outbound action", env.Action)
	default:
		return nil, eris.Wrapf(bridgeerrors.ErrUnknownAction, "%q", env.Action)
	}
}

func decodeBody[T Request](action Action, body string) (Request, error) {
	req, err := codec.DecodeString[T](body)
	if err != nil {
		return nil, eris.Wrapf(bridgeerrors.ErrMalformedBridgeMessage, "%s body: %v", action, err)
	}
	return req, nil
}

// EncodeRequest builds the envelope the runtime sends for req.
func EncodeRequest(req Request) ([]byte, error) {
	body, err := codec.EncodeString(req)
	if err != nil {
		return nil, err
	}
	return codec.Encode(envelope{Action: req.Action(), RequestBody: &body})
}

// EncodeReply builds the envelope pushed to the runtime for r.
func EncodeReply(r Reply) ([]byte, error) {
	body, err := codec.EncodeString(r)
	if err != nil {
		return nil, err
	}
	return codec.Encode(envelope{Action: r.Action(), ResponseBody: &body})
}

// DecodeReply splits a pushed envelope into its action and the decoded body document.
func DecodeReply(raw []byte) (Action, json.RawMessage, error) {
	env, err := codec.Decode[envelope](raw)
	if err != nil {
		return "", nil, eris.Wrap(bridgeerrors.ErrMalformedBridgeMessage, err.Error())
	}
	if env.Action == "" || env.ResponseBody == nil || !codec.Valid([]byte(*env.ResponseBody)) {
		return "", nil, eris.Wrap(bridgeerrors.ErrMalformedBridgeMessage, "reply without a valid body")
	}
	return env.Action, json.RawMessage(*env.ResponseBody), nil
}
