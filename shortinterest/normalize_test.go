package shortinterest

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		out  *float64
	}{
		{name: "nil", in: nil, out: nil},
		{name: "negative", in: -5, out: nil},
		{name: "above 100", in: 150, out: nil},
		{name: "percentage", in: 45, out: float64Ptr(0.45)},
		{name: "percentage upper bound", in: 100.0, out: float64Ptr(1)},
		{name: "fraction", in: 0.23, out: float64Ptr(0.23)},
		{name: "fraction upper bound", in: 1.0, out: float64Ptr(1)},
		{name: "zero", in: 0, out: float64Ptr(0)},
		{name: "non-numeric string", in: "abc", out: nil},
		{name: "numeric string", in: " 12.5 ", out: float64Ptr(0.125)},
		{name: "json number", in: json.Number("0.0071"), out: float64Ptr(0.0071)},
		{name: "decimal", in: decimal.NewFromFloat(2.5), out: float64Ptr(0.025)},
		{name: "empty string", in: "", out: nil},
		{name: "boolean", in: true, out: nil},
		{name: "NaN", in: math.NaN(), out: nil},
		{name: "infinity", in: math.Inf(1), out: nil},
		{name: "object", in: map[string]interface{}{"raw": 1}, out: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Normalize(test.in)
			if test.out == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *test.out, *got, 1e-12)
		})
	}
}

func TestNormalize_range(t *testing.T) {
	for _, in := range []interface{}{0.0, 0.5, 1, 1.01, 33, 99.99, 100} {
		got := Normalize(in)
		require.NotNil(t, got, "%v", in)
		assert.True(t, *got >= 0 && *got <= 1, "%v normalized to %v", in, *got)
	}
}

func float64Ptr(f float64) *float64 {
	return &f
}
