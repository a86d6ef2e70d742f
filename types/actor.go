package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rotisserie/eris"
)

const ActorIDLength = 32

// ActorID is a 32 byte account or program identifier on the Sigmaverse network.
type ActorID [ActorIDLength]byte

// ZeroActorID is the broadcast destination of program events.
var ZeroActorID ActorID

func ParseActorID(s string) (ActorID, error) {
	var id ActorID
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	bz, err := hexutil.Decode(s)
	if err != nil {
		return id, eris.Wrapf(err, "invalid actor id %q", s)
	}
	if len(bz) != ActorIDLength {
		return id, eris.Errorf("invalid actor id %q: expected %d bytes, got %d", s, ActorIDLength, len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

func MustParseActorID(s string) ActorID {
	id, err := ParseActorID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (a ActorID) IsZero() bool {
	return a == ZeroActorID
}

func (a ActorID) Hex() string {
	return hexutil.Encode(a[:])
}

func (a ActorID) String() string {
	return a.Hex()
}

func (a ActorID) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *ActorID) UnmarshalText(bz []byte) error {
	id, err := ParseActorID(string(bz))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
