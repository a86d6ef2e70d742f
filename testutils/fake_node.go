package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"pkg.sigmaverse.dev/bridge/codec"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/types"
)

var _ gateway.Node = &FakeNode{}

// QueryHandler answers a routed call. args are the raw call arguments after the route prefix. Returning an error
// produces a failed reply whose payload is the error text.
type QueryHandler func(origin types.ActorID, args []json.RawMessage) (any, error)

// FakeNode is an in-memory gateway.Node. Queries and sent messages are answered by handlers registered per
// route, every call is counted, and events can be pushed to subscribers with Emit.
type FakeNode struct {
	mu sync.Mutex

	handlers map[string]QueryHandler
	balances map[types.ActorID]types.Amount
	replies  map[gateway.MessageID]*gateway.Reply
	subs     map[int]func(gateway.UserMessageSent)
	nextSub  int
	sent     []*sign.SignedMessage
	calls    map[string]int
	routes   map[string]int

	GasLimit    uint64
	MinGas      uint64
	GasErr      error
	SendErr     error
	BalanceErr  error
	BlockGasErr error
}

func NewFakeNode() *FakeNode {
	return &FakeNode{
		handlers: map[string]QueryHandler{},
		balances: map[types.ActorID]types.Amount{},
		replies:  map[gateway.MessageID]*gateway.Reply{},
		subs:     map[int]func(gateway.UserMessageSent){},
		calls:    map[string]int{},
		routes:   map[string]int{},
		GasLimit: 250_000_000_000,
		MinGas:   1_000_000,
	}
}

func route(service, method string) string {
	return service + "/" + method
}

// Handle registers the handler answering service/method, for both queries and sent messages.
func (f *FakeNode) Handle(service, method string, h QueryHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[route(service, method)] = h
}

// HandleResult always answers service/method with result.
func (f *FakeNode) HandleResult(service, method string, result any) {
	f.Handle(service, method, func(types.ActorID, []json.RawMessage) (any, error) {
		return result, nil
	})
}

func (f *FakeNode) SetBalance(address types.ActorID, amount types.Amount) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] = amount
}

// Calls returns how often the named Node method was invoked.
func (f *FakeNode) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// RouteCalls returns how often service/method was queried or sent.
func (f *FakeNode) RouteCalls(service, method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.routes[route(service, method)]
}

// TotalCalls counts every Node method invocation.
func (f *FakeNode) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeNode) Sent() []*sign.SignedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*sign.SignedMessage(nil), f.sent...)
}

func (f *FakeNode) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *FakeNode) answer(origin types.ActorID, payload []byte) (*gateway.Reply, error) {
	r, err := codec.DecodeRoute(payload)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.routes[route(r.Service, r.Method)]++
	h, ok := f.handlers[route(r.Service, r.Method)]
	f.mu.Unlock()
	if !ok {
		return failedReply(fmt.Sprintf("no handler for %s/%s", r.Service, r.Method)), nil
	}
	res, err := h(origin, r.Body)
	if err != nil {
		return failedReply(err.Error()), nil
	}
	bz, err := codec.EncodeReply(r.Service, r.Method, res)
	if err != nil {
		return nil, err
	}
	return &gateway.Reply{Code: gateway.ReplyCode{Success: true}, Payload: bz}, nil
}

func failedReply(msg string) *gateway.Reply {
	bz, _ := json.Marshal(msg)
	return &gateway.Reply{Code: gateway.ReplyCode{Success: false, Reason: "execution:panic"}, Payload: bz}
}

func (f *FakeNode) CalculateReply(_ context.Context, req gateway.CalculateReplyRequest) (*gateway.Reply, error) {
	f.record("CalculateReply")
	return f.answer(req.Origin, req.Payload)
}

func (f *FakeNode) CalculateGas(_ context.Context, _ gateway.CalculateGasRequest) (*gateway.GasInfo, error) {
	f.record("CalculateGas")
	if f.GasErr != nil {
		return nil, f.GasErr
	}
	return &gateway.GasInfo{MinLimit: f.MinGas}, nil
}

func (f *FakeNode) BlockGasLimit(context.Context) (uint64, error) {
	f.record("BlockGasLimit")
	return f.GasLimit, f.BlockGasErr
}

func (f *FakeNode) SendMessage(_ context.Context, msg *sign.SignedMessage) (gateway.MessageID, error) {
	f.record("SendMessage")
	if f.SendErr != nil {
		return "", f.SendErr
	}
	reply, err := f.answer(msg.Source, msg.Payload)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	id := gateway.MessageID(fmt.Sprintf("0x%064x", len(f.sent)))
	f.replies[id] = reply
	return id, nil
}

func (f *FakeNode) WaitReply(_ context.Context, id gateway.MessageID) (*gateway.Reply, error) {
	f.record("WaitReply")
	f.mu.Lock()
	defer f.mu.Unlock()
	reply, ok := f.replies[id]
	if !ok {
		return nil, fmt.Errorf("unknown message %s", id)
	}
	return reply, nil
}

func (f *FakeNode) Balance(_ context.Context, address types.ActorID) (types.Amount, error) {
	f.record("Balance")
	if f.BalanceErr != nil {
		return types.Amount{}, f.BalanceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[address], nil
}

func (f *FakeNode) SubscribeUserMessages(_ context.Context, cb func(gateway.UserMessageSent)) (func(), error) {
	f.record("SubscribeUserMessages")
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = cb
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}, nil
}

// Subscribers returns the number of live subscriptions.
func (f *FakeNode) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Emit delivers msg synchronously to every subscriber.
func (f *FakeNode) Emit(msg gateway.UserMessageSent) {
	f.mu.Lock()
	subs := make([]func(gateway.UserMessageSent), 0, len(f.subs))
	for _, cb := range f.subs {
		subs = append(subs, cb)
	}
	f.mu.Unlock()
	for _, cb := range subs {
		cb(msg)
	}
}

// EmitEvent emits a program event: a user message from program to the zero actor.
func (f *FakeNode) EmitEvent(program types.ActorID, service, event string, data any) {
	payload, err := codec.EncodeReply(service, event, data)
	if err != nil {
		panic(err)
	}
	f.Emit(gateway.UserMessageSent{Source: program, Destination: types.ZeroActorID, Payload: payload})
}
