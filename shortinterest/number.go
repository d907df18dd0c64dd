package shortinterest

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// toDecimal converts a data source value into a decimal. Booleans, NaN and
// infinities are not numbers here.
func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return toDecimal(float64(n))
	case int:
		return decimal.New(int64(n), 0), true
	case int8:
		return decimal.New(int64(n), 0), true
	case int16:
		return decimal.New(int64(n), 0), true
	case int32:
		return decimal.New(int64(n), 0), true
	case int64:
		return decimal.New(n, 0), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint8:
		return decimal.New(int64(n), 0), true
	case uint16:
		return decimal.New(int64(n), 0), true
	case uint32:
		return decimal.New(int64(n), 0), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case json.Number:
		return parseDecimal(string(n))
	case string:
		return parseDecimal(n)
	default:
		return decimal.Decimal{}, false
	}
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// toFloat keeps float inputs as they are and goes through decimal for
// everything else.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return toFloat(float64(n))
	}

	d, ok := toDecimal(v)
	if !ok {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy reports whether v holds a usable value: not nil, not false, not an
// empty string and not numerically zero.
func truthy(v interface{}) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	}
	if d, ok := toDecimal(v); ok {
		return !d.IsZero()
	}
	return true
}
