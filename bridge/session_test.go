package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkg.sigmaverse.dev/bridge/state"
	"pkg.sigmaverse.dev/bridge/types"
)

var upgrader = websocket.Upgrader{}

func serveBridge(t *testing.T, svc Services) (*websocket.Conn, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		done <- NewSession(conn, zerolog.Nop()).Serve(context.Background(), svc)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil) //nolint:bodyclose // no need.
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, done
}

func readReply(t *testing.T, conn *websocket.Conn) (Action, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	action, body, err := DecodeReply(raw)
	require.NoError(t, err)
	return action, body
}

func TestSessionServesRequests(t *testing.T) {
	store := state.NewStore()
	addr := types.ActorID{0xa}
	balance := types.MustParseAmount("2500000000000")
	store.SelectIdentity(state.Identity{Address: addr}, &balance)
	conn, done := serveBridge(t, Services{Store: store, Decimals: types.DefaultDecimals})

	// The current state is pushed as soon as the session opens.
	action, body := readReply(t, conn)
	assert.Equal(t, ActionWalletInfo, action)
	assert.JSONEq(t, `{"address":"`+addr.Hex()+`","balance":"2.5"}`, string(body))
	action, body = readReply(t, conn)
	assert.Equal(t, ActionAllMyCybors, action)
	assert.JSONEq(t, `{}`, string(body))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{{{`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"shop","requestBody":"{}"}`)))
	req, err := EncodeRequest(WalletInfoRequest{})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, req))

	action, _ = readReply(t, conn)
	assert.Equal(t, ActionWalletInfo, action)

	// Host side changes are pushed without a request.
	store.ClearIdentity()
	action, body = readReply(t, conn)
	assert.Equal(t, ActionWalletInfo, action)
	assert.JSONEq(t, `{"balance":"0"}`, string(body))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
}

type failingConn struct{}

func (failingConn) ReadMessage() (int, []byte, error) { return 0, nil, websocket.ErrCloseSent }
func (failingConn) WriteMessage(int, []byte) error    { return nil }
func (failingConn) Close() error                      { return nil }

func TestPushAfterCloseFails(t *testing.T) {
	s := NewSession(failingConn{}, zerolog.Nop())
	assert.NotEmpty(t, s.ID())
	err := s.Serve(context.Background(), Services{Store: state.NewStore()})
	assert.Error(t, err)
	assert.ErrorIs(t, s.Push(context.Background(), WalletInfoReply{}), ErrSessionClosed)
}
