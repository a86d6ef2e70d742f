package types

import (
	"testing"

	"github.com/goccy/go-json"

	"pkg.sigmaverse.dev/bridge/assert"
	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
)

func TestParseRaceNormalizesCase(t *testing.T) {
	for _, in := range []string{"nguyen", "Nguyen", " NGUYEN "} {
		r, err := ParseRace(in)
		assert.NilError(t, err)
		assert.Equal(t, RaceNguyen, r)
	}
	_, err := ParseRace("elf")
	assert.ErrorIs(t, err, bridgeerrors.ErrUnknownRace)
}

func TestDecodeAllMyCyborsReply(t *testing.T) {
	raw := `[
		[7, {"race_name":"nguyen","basic_damage":10,"basic_hp":100,"basic_move_speed":3,"basic_knockdown_hit":1,
			"score_per_block":"5","is_have_finishing_skill":true,"mint_at":42,"image":"ipfs://x","level":2,
			"grade":1,"lucky":9,"exp":"18446744073709551617","is_freeze":false}],
		["0x08", {"race_name":"rodriguez","exp":0}]
	]`
	var entries []Entry[CyborStream]
	assert.NilError(t, json.Unmarshal([]byte(raw), &entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, "7", entries[0].ID.Key())
	assert.Equal(t, "18446744073709551617", entries[0].Value.Exp.String())
	assert.Equal(t, uint16(2), entries[0].Value.Level)
	assert.Equal(t, "8", entries[1].ID.Key())

	_, err := json.Marshal(entries[0])
	assert.NilError(t, err)

	var bad Entry[CyborStream]
	assert.Check(t, json.Unmarshal([]byte(`[1]`), &bad) != nil)
}

func TestActorIDText(t *testing.T) {
	hex := "0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000001"
	id, err := ParseActorID(hex)
	assert.NilError(t, err)
	assert.Equal(t, hex, id.Hex())
	assert.False(t, id.IsZero())
	assert.True(t, ZeroActorID.IsZero())

	var owner TokenOwner
	assert.NilError(t, json.Unmarshal([]byte(`["3","`+hex+`"]`), &owner))
	assert.Equal(t, id, owner.Owner)

	_, err = ParseActorID("0x1234")
	assert.Check(t, err != nil)
}
