package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Program payloads are JSON arrays prefixed by a route: [service, method, args...] for calls and
// [service, method, result] for replies and events.

// EncodeCall builds the payload of a call to service/method.
func EncodeCall(service, method string, args ...any) ([]byte, error) {
	parts := make([]any, 0, len(args)+2)
	parts = append(parts, service, method)
	parts = append(parts, args...)
	return Encode(parts)
}

// EncodeReply builds the payload a program answers service/method with.
func EncodeReply(service, method string, result any) ([]byte, error) {
	return Encode([]any{service, method, result})
}

// Route is the decoded prefix of a payload.
type Route struct {
	Service string
	Method  string
	// Body holds the remaining elements; for replies and events it is the single result value.
	Body []json.RawMessage
}

func DecodeRoute(payload []byte) (Route, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(payload, &parts); err != nil {
		return Route{}, eris.Wrap(err, "payload is not a routed array")
	}
	if len(parts) < 2 {
		return Route{}, eris.Errorf("payload has %d elements, route prefix needs 2", len(parts))
	}
	r := Route{Body: parts[2:]}
	if err := json.Unmarshal(parts[0], &r.Service); err != nil {
		return Route{}, eris.Wrap(err, "service name")
	}
	if err := json.Unmarshal(parts[1], &r.Method); err != nil {
		return Route{}, eris.Wrap(err, "method name")
	}
	return r, nil
}

// DecodeResult checks the route of a reply or event payload and decodes its result into T.
func DecodeResult[T any](payload []byte, service, method string) (T, error) {
	var zero T
	r, err := DecodeRoute(payload)
	if err != nil {
		return zero, err
	}
	if r.Service != service || r.Method != method {
		return zero, eris.Errorf("expected route %s/%s, got %s/%s", service, method, r.Service, r.Method)
	}
	if len(r.Body) != 1 {
		return zero, eris.Errorf("expected a single result for %s/%s, got %d", service, method, len(r.Body))
	}
	return Decode[T](r.Body[0])
}

// DecodeErrorMessage extracts the message a program reported with a failed reply. The payload is a JSON string
// when the program produced one; anything else is returned verbatim.
func DecodeErrorMessage(payload []byte) string {
	var msg string
	if err := json.Unmarshal(payload, &msg); err == nil {
		return msg
	}
	return string(payload)
}
