package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
)

// DefaultDecimals is the number of decimals of the chain's native token.
const DefaultDecimals = 12

// maxFormatBits bounds the amounts that fit into a LegacyDec. Native balances are u128, so this is only hit by
// values the chain never produces.
const maxFormatBits = 192

// FormatAmount renders a raw amount as a decimal display string, e.g. 1500000000000 with 12 decimals is "1.5".
// The result is only meant for display. Comparisons must be done on the raw Amount.
func FormatAmount(a Amount, decimals int) string {
	raw := a.Big()
	if decimals <= 0 || decimals > sdkmath.LegacyPrecision || raw.BitLen() > maxFormatBits {
		return raw.String()
	}
	s := sdkmath.LegacyNewDecFromBigIntWithPrec(raw, int64(decimals)).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
