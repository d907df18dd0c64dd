package shortinterest

import (
	"math"

	"github.com/nanzhong/shorts/market"
)

// RatioField labels values derived from sharesShort and the float share count.
const RatioField = "sharesShort/floatShares"

// DirectFields are checked in order before falling back to the ratio.
var DirectFields = []string{"shortPercentOfFloat", "shortPercentFloat", "shortPercent"}

// Resolve picks the raw short interest candidate out of info and reports the
// field it came from. The first direct field holding a non-nil value wins,
// whatever its type. Otherwise sharesShort is divided by floatShares (or its
// alias sharesFloat). It returns (nil, "") when nothing usable is present.
func Resolve(info market.Info) (interface{}, string) {
	for _, key := range DirectFields {
		if v, ok := info[key]; ok && v != nil {
			return v, key
		}
	}

	sharesShort := info["sharesShort"]
	floatShares := info["floatShares"]
	if !truthy(floatShares) {
		floatShares = info["sharesFloat"]
	}
	if !truthy(sharesShort) || !truthy(floatShares) {
		return nil, ""
	}

	num, ok := toDecimal(sharesShort)
	if !ok {
		return nil, ""
	}
	den, ok := toDecimal(floatShares)
	if !ok || den.IsZero() {
		return nil, ""
	}
	ratio, _ := num.Div(den).Float64()
	if math.IsInf(ratio, 0) {
		return nil, ""
	}
	return ratio, RatioField
}
