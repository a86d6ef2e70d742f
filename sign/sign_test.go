package sign

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"pkg.sigmaverse.dev/bridge/assert"
	"pkg.sigmaverse.dev/bridge/types"
)

func TestCanSignAndVerifyMessage(t *testing.T) {
	goodKey, err := crypto.GenerateKey()
	assert.NilError(t, err)
	badKey, err := crypto.GenerateKey()
	assert.NilError(t, err)

	msg := Message{
		Source:      ActorIDFromPubkey(&goodKey.PublicKey),
		Destination: types.MustParseActorID("0x" + "11" + "00000000000000000000000000000000000000000000000000000000000022"),
		Payload:     []byte(`["CyborNft","Mint","nguyen"]`),
		Value:       types.MustParseAmount("2000000000000"),
		GasLimit:    1_000_000,
		Nonce:       7,
	}
	sm, err := NewSignedMessage(goodKey, msg)
	assert.NilError(t, err)

	buf, err := sm.Marshal()
	assert.NilError(t, err)

	toBeVerified, err := Unmarshal(buf)
	assert.NilError(t, err)
	assert.Equal(t, msg.Nonce, toBeVerified.Nonce)
	assert.Equal(t, msg.Value, toBeVerified.Value)
	assert.NilError(t, toBeVerified.Verify())

	toBeVerified.Nonce++
	assert.ErrorIs(t, toBeVerified.Verify(), ErrSignatureValidationFailed)

	_, err = NewSignedMessage(badKey, msg)
	assert.ErrorContains(t, err, "does not match")
}
