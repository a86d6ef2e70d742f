package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"pkg.sigmaverse.dev/bridge/sign"
	"pkg.sigmaverse.dev/bridge/types"
)

const (
	calculateReplyEndpoint = "program/calculate-reply"
	calculateGasEndpoint   = "program/calculate-gas"
	blockGasLimitEndpoint  = "chain/block-gas-limit"
	messagesEndpoint       = "messages"
	accountsEndpoint       = "accounts"

	defaultReplyPollInterval = 500 * time.Millisecond
)

var _ Node = &Client{}

var ErrEventsDisabled = errors.New("gateway client has no event hub")

// Client is the HTTP implementation of Node. Subscriptions are served by an optional EventHub.
type Client struct {
	baseURL           string
	http              *http.Client
	hub               *EventHub
	replyPollInterval time.Duration
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithEventHub(hub *EventHub) ClientOption {
	return func(cl *Client) {
		cl.hub = hub
	}
}

func WithReplyPollInterval(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.replyPollInterval = d
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		http:              http.DefaultClient,
		replyPollInterval: defaultReplyPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CalculateReply(ctx context.Context, req CalculateReplyRequest) (*Reply, error) {
	reply := &Reply{}
	if err := c.post(ctx, calculateReplyEndpoint, req, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) CalculateGas(ctx context.Context, req CalculateGasRequest) (*GasInfo, error) {
	info := &GasInfo{}
	if err := c.post(ctx, calculateGasEndpoint, req, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) BlockGasLimit(ctx context.Context) (uint64, error) {
	var res struct {
		GasLimit uint64 `json:"gasLimit"`
	}
	if err := c.get(ctx, blockGasLimitEndpoint, &res); err != nil {
		return 0, err
	}
	return res.GasLimit, nil
}

func (c *Client) SendMessage(ctx context.Context, msg *sign.SignedMessage) (MessageID, error) {
	var res struct {
		MessageID MessageID `json:"messageId"`
	}
	if err := c.post(ctx, messagesEndpoint, msg, &res); err != nil {
		return "", err
	}
	if res.MessageID == "" {
		return "", eris.New("gateway accepted the message without returning an id")
	}
	return res.MessageID, nil
}

// WaitReply polls the gateway until the reply is available. The gateway answers 204 while the message is
// still queued.
func (c *Client) WaitReply(ctx context.Context, id MessageID) (*Reply, error) {
	resource := messagesEndpoint + "/" + url.PathEscape(string(id)) + "/reply"
	ticker := time.NewTicker(c.replyPollInterval)
	defer ticker.Stop()
	for {
		reply := &Reply{}
		found, err := c.getOptional(ctx, resource, reply)
		if err != nil {
			return nil, err
		}
		if found {
			return reply, nil
		}
		select {
		case <-ctx.Done():
			return nil, eris.Wrapf(ctx.Err(), "waiting for reply to %s", id)
		case <-ticker.C:
		}
	}
}

func (c *Client) Balance(ctx context.Context, address types.ActorID) (types.Amount, error) {
	var res struct {
		Balance types.Amount `json:"balance"`
	}
	if err := c.get(ctx, accountsEndpoint+"/"+address.Hex()+"/balance", &res); err != nil {
		return types.Amount{}, err
	}
	return res.Balance, nil
}

func (c *Client) SubscribeUserMessages(ctx context.Context, cb func(UserMessageSent)) (func(), error) {
	if c.hub == nil {
		return nil, ErrEventsDisabled
	}
	session := uuid.NewString()
	ch := c.hub.Subscribe(session)
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				cb(msg)
			case <-ctx.Done():
				c.hub.Unsubscribe(session)
				return
			}
		}
	}()
	return func() { c.hub.Unsubscribe(session) }, nil
}

func (c *Client) post(ctx context.Context, resource string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "failed to encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.makeURL(resource), bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := doRequest(c.http, req, buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp, out)
}

func (c *Client) get(ctx context.Context, resource string, out any) error {
	found, err := c.getOptional(ctx, resource, out)
	if err != nil {
		return err
	}
	if !found {
		return eris.Errorf("no content at %q", resource)
	}
	return nil
}

func (c *Client) getOptional(ctx context.Context, resource string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.makeURL(resource), nil)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	resp, err := doRequest(c.http, req, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	return true, decodeBody(resp, out)
}

func (c *Client) makeURL(resource string) string {
	return c.baseURL + "/" + resource
}

// doRequest performs req and turns any status other than 200/204 into an error carrying both bodies.
func doRequest(client *http.Client, req *http.Request, reqBody []byte) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "request to %q failed", req.URL)
	}
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}
	defer resp.Body.Close()
	statusCode := resp.StatusCode
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "failed reading body in resp, status code: %d", statusCode)
	}
	return nil, eris.Errorf(
		"error to url: %s, with request body: %s, got response of %d: %s",
		req.URL,
		string(reqBody),
		statusCode,
		string(buf))
}

func decodeBody(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "failed to decode response from %q", resp.Request.URL)
	}
	return nil
}
