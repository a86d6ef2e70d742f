package types

import (
	"strings"

	"github.com/rotisserie/eris"

	bridgeerrors "pkg.sigmaverse.dev/bridge/errors"
)

// Race is the variant of a Cybor chosen at mint time.
type Race string

const (
	RaceRodriguez Race = "rodriguez"
	RaceNguyen    Race = "nguyen"
)

// Races lists every known race in declaration order.
func Races() []Race {
	return []Race{RaceRodriguez, RaceNguyen}
}

// ParseRace normalizes s (case and surrounding space) and checks it against the known races.
func ParseRace(s string) (Race, error) {
	r := Race(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Races() {
		if r == known {
			return r, nil
		}
	}
	return "", eris.Wrapf(bridgeerrors.ErrUnknownRace, "race %q", s)
}

func (r Race) String() string {
	return string(r)
}

func (r Race) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

func (r *Race) UnmarshalText(bz []byte) error {
	parsed, err := ParseRace(string(bz))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
