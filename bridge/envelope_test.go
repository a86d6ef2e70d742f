package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
	"pkg.sigmaverse.dev/bridge/types"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Request
	}{
		{"wallet info", `{"action":"wallet_info","requestBody":"{}"}`, WalletInfoRequest{}},
		{"missing body", `{"action":"all_my_cybors"}`, AllMyCyborsRequest{}},
		{"mint", `{"action":"mint_cybor","requestBody":"{\"race\":\"Nguyen\"}"}`, MintCyborRequest{Race: "Nguyen"}},
		{
			"cybor info with a wide token id",
			`{"action":"cybor_info","requestBody":"{\"tokenId\":\"18446744073709551617\"}"}`,
			CyborInfoRequest{TokenID: mustTokenID(t, "18446744073709551617")},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeRequestFailures(t *testing.T) {
	malformed := []string{
		`not json`,
		`{"action":"mint_cybor","requestBody":"{\"race\":"}`,
		`{"requestBody":"{}"}`,
		`{"action":"mint_cybor","requestBody":"[1,2]"}`,
	}
	for _, raw := range malformed {
		_, err := DecodeRequest([]byte(raw))
		assert.ErrorIs(t, err, bridgeerrors.ErrMalformedBridgeMessage, raw)
	}

	for _, raw := range []string{
		`{"action":"dance","requestBody":"{}"}`,
		`{"action":"mint_error","requestBody":"{}"}`,
		`{"action":"cybor_info_error","requestBody":"{}"}`,
	} {
		_, err := DecodeRequest([]byte(raw))
		assert.ErrorIs(t, err, bridgeerrors.ErrUnknownAction, raw)
	}
}

func TestRepliesAreDoubleEncoded(t *testing.T) {
	bz, err := EncodeReply(MintErrorReply{Message: "insufficient balance"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"mint_error","responseBody":"{\"message\":\"insufficient balance\"}"}`, string(bz))

	action, body, err := DecodeReply(bz)
	require.NoError(t, err)
	assert.Equal(t, ActionMintError, action)
	assert.JSONEq(t, `{"message":"insufficient balance"}`, string(body))
}

func TestWalletInfoReplyOmitsMissingAddress(t *testing.T) {
	bz, err := EncodeReply(WalletInfoReply{Balance: "0"})
	require.NoError(t, err)
	_, body, err := DecodeReply(bz)
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"0"}`, string(body))
}

func TestCollectionKeysAreDecimal(t *testing.T) {
	id := mustTokenID(t, "0x10000000000000001")
	bz, err := EncodeReply(AllMyCyborsReply{id.Key(): {RaceName: "nguyen"}})
	require.NoError(t, err)
	_, body, err := DecodeReply(bz)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"18446744073709551617":`)
}

func TestRequestRoundTrip(t *testing.T) {
	bz, err := EncodeRequest(MintCyborRequest{Race: "rodriguez"})
	require.NoError(t, err)
	got, err := DecodeRequest(bz)
	require.NoError(t, err)
	assert.Equal(t, MintCyborRequest{Race: "rodriguez"}, got)
}

func mustTokenID(t *testing.T, s string) types.TokenID {
	t.Helper()
	id, err := types.ParseTokenID(s)
	require.NoError(t, err)
	return id
}
