package types

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/rotisserie/eris"
)

// TokenID is the unsigned 256 bit identifier of an NFT. It is never converted to a float: ids are parsed from
// and rendered to decimal strings, with hex ("0x...") accepted on input.
type TokenID struct {
	v uint256.Int
}

func TokenIDFromUint64(id uint64) TokenID {
	var t TokenID
	t.v.SetUint64(id)
	return t
}

func TokenIDFromBig(id *big.Int) (TokenID, error) {
	v, err := fromBig(id)
	return TokenID{v: v}, err
}

func ParseTokenID(s string) (TokenID, error) {
	v, err := parseU256(s)
	if err != nil {
		return TokenID{}, eris.Wrapf(err, "invalid token id %q", s)
	}
	return TokenID{v: v}, nil
}

// Key is the decimal representation used to key token ids in maps sent to the game runtime.
func (t TokenID) Key() string {
	return t.v.Dec()
}

func (t TokenID) String() string {
	return t.v.Dec()
}

func (t TokenID) Big() *big.Int {
	return t.v.ToBig()
}

func (t TokenID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.v.Dec() + `"`), nil
}

func (t *TokenID) UnmarshalJSON(bz []byte) error {
	v, err := unmarshalU256(bz)
	if err != nil {
		return eris.Wrap(err, "invalid token id")
	}
	t.v = v
	return nil
}

// Amount is an on-chain integer quantity (balances, values, experience, prices). Like TokenID it is carried as
// an arbitrary precision integer; use FormatAmount to get a display value.
type Amount struct {
	v uint256.Int
}

func NewAmount(x uint64) Amount {
	var a Amount
	a.v.SetUint64(x)
	return a
}

func AmountFromBig(x *big.Int) (Amount, error) {
	v, err := fromBig(x)
	return Amount{v: v}, err
}

func ParseAmount(s string) (Amount, error) {
	v, err := parseU256(s)
	if err != nil {
		return Amount{}, eris.Wrapf(err, "invalid amount %q", s)
	}
	return Amount{v: v}, nil
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Lt(b Amount) bool {
	return a.v.Lt(&b.v)
}

func (a Amount) Big() *big.Int {
	return a.v.ToBig()
}

// Uint64 returns the amount and whether it fits in 64 bits.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.v.Dec() + `"`), nil
}

func (a *Amount) UnmarshalJSON(bz []byte) error {
	v, err := unmarshalU256(bz)
	if err != nil {
		return eris.Wrap(err, "invalid amount")
	}
	a.v = v
	return nil
}

func parseU256(s string) (uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uint256.Int{}, eris.New("empty integer")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return uint256.Int{}, eris.Errorf("malformed hex integer %q", s)
		}
		return fromBig(b)
	}
	var v uint256.Int
	if err := v.SetFromDecimal(s); err != nil {
		return uint256.Int{}, eris.Wrapf(err, "malformed decimal integer %q", s)
	}
	return v, nil
}

func fromBig(b *big.Int) (uint256.Int, error) {
	if b == nil || b.Sign() < 0 {
		return uint256.Int{}, eris.New("integer must be non-negative")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return uint256.Int{}, eris.New("integer overflows 256 bits")
	}
	return *v, nil
}

// unmarshalU256 accepts a bare JSON number or a quoted decimal/hex string.
func unmarshalU256(bz []byte) (uint256.Int, error) {
	bz = bytes.TrimSpace(bz)
	if bytes.Equal(bz, []byte("null")) {
		return uint256.Int{}, nil
	}
	if len(bz) >= 2 && bz[0] == '"' && bz[len(bz)-1] == '"' {
		return parseU256(string(bz[1 : len(bz)-1]))
	}
	if bytes.ContainsAny(bz, ".eE-") {
		return uint256.Int{}, eris.Errorf("integer expected, got %s", bz)
	}
	return parseU256(string(bz))
}
