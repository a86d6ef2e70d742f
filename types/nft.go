package types

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

type CyborTemplate struct {
	RaceName          string `json:"race_name"`
	Price             Amount `json:"price"`
	BasicDamage       uint32 `json:"basic_damage"`
	BasicHP           uint32 `json:"basic_hp"`
	BasicMoveSpeed    uint8  `json:"basic_move_speed"`
	BasicKnockdownHit uint8  `json:"basic_knockdown_hit"`
	ScorePerBlock     Amount `json:"score_per_block"`
}

type CyborMetadata struct {
	Race                 Race          `json:"race"`
	CyborTemplate        CyborTemplate `json:"cybor_template"`
	IsHaveFinishingSkill bool          `json:"is_have_finishing_skill"`
	MintAt               uint32        `json:"mint_at"`
	Image                string        `json:"image"`
}

// CyborStream is the mutable attribute set of an owned Cybor. It is the AssetRecord cached by the host and
// forwarded to the game runtime.
type CyborStream struct {
	RaceName             string `json:"race_name"`
	BasicDamage          uint32 `json:"basic_damage"`
	BasicHP              uint32 `json:"basic_hp"`
	BasicMoveSpeed       uint8  `json:"basic_move_speed"`
	BasicKnockdownHit    uint8  `json:"basic_knockdown_hit"`
	ScorePerBlock        Amount `json:"score_per_block"`
	IsHaveFinishingSkill bool   `json:"is_have_finishing_skill"`
	MintAt               uint32 `json:"mint_at"`
	Image                string `json:"image"`
	Level                uint16 `json:"level"`
	Grade                uint16 `json:"grade"`
	Lucky                uint16 `json:"lucky"`
	Exp                  Amount `json:"exp"`
	IsFreeze             bool   `json:"is_freeze"`
}

type CyborNftDebugInfo struct {
	Source               ActorID       `json:"source"`
	Value                Amount        `json:"value"`
	Temp                 CyborTemplate `json:"temp"`
	MintedCount          Amount        `json:"minted_count"`
	OwnerByID            []TokenOwner  `json:"owner_by_id"`
	TokenGroupByOwnerLen Amount        `json:"token_group_by_owner_len"`
	MyTokens1            []TokenID     `json:"my_tokens1"`
	MyTokens2            []TokenID     `json:"my_tokens2"`
	NextTokenID          TokenID       `json:"next_token_id"`
}

type ImprintTemplate struct {
	RaceName             string `json:"race_name"`
	MaxLumimemories      Amount `json:"max_lumimemories"`
	Story                string `json:"story"`
	LumimemoriesPerBlock Amount `json:"lumimemories_per_block"`
	Price                Amount `json:"price"`
}

type ImprintMetadata struct {
	Race            Race            `json:"race"`
	ImprintTemplate ImprintTemplate `json:"imprint_template"`
	MintAt          uint32          `json:"mint_at"`
	Image           string          `json:"image"`
}

type ImprintStream struct {
	RaceName        string   `json:"race_name"`
	MaxLumimemories Amount   `json:"max_lumimemories"`
	MintAt          uint32   `json:"mint_at"`
	Story           string   `json:"story"`
	Lumimemories    Amount   `json:"lumimemories"`
	OpenStory       []uint32 `json:"open_story"`
	StartAt         uint32   `json:"start_at"`
}

type ImprintNftDebugInfo struct {
	Source               ActorID         `json:"source"`
	Value                Amount          `json:"value"`
	Temp                 ImprintTemplate `json:"temp"`
	MintedCount          Amount          `json:"minted_count"`
	OwnerByID            []TokenOwner    `json:"owner_by_id"`
	TokenGroupByOwnerLen Amount          `json:"token_group_by_owner_len"`
	MyTokens1            []TokenID       `json:"my_tokens1"`
	MyTokens2            []TokenID       `json:"my_tokens2"`
	NextTokenID          TokenID         `json:"next_token_id"`
}

// TokenOwner is a (token id, owner) tuple, encoded as a two element JSON array.
type TokenOwner struct {
	ID    TokenID
	Owner ActorID
}

func (o TokenOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.ID, o.Owner})
}

func (o *TokenOwner) UnmarshalJSON(bz []byte) error {
	return unmarshalTuple(bz, &o.ID, &o.Owner)
}

// Entry is a (token id, value) tuple as returned by the collection queries.
type Entry[V any] struct {
	ID    TokenID
	Value V
}

func (e Entry[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.ID, e.Value})
}

func (e *Entry[V]) UnmarshalJSON(bz []byte) error {
	return unmarshalTuple(bz, &e.ID, &e.Value)
}

func unmarshalTuple(bz []byte, first, second any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(bz, &raw); err != nil {
		return eris.Wrap(err, "tuple must be a JSON array")
	}
	if len(raw) != 2 {
		return eris.Errorf("tuple must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], first); err != nil {
		return eris.Wrap(err, "tuple element 0")
	}
	if err := json.Unmarshal(raw[1], second); err != nil {
		return eris.Wrap(err, "tuple element 1")
	}
	return nil
}
