package units

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutree-ai/cluster-info/internal/errdefs"
)

func TestBluntGiB(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    int
		wantErr bool
	}{
		{name: "megabytes", expr: "10240m", want: 10},
		{name: "megabytes with suffix", expr: "10240mb", want: 10},
		{name: "kilobytes as reported by pbs", expr: "263842732kb", want: 252},
		{name: "upper case unit", expr: "64GB", want: 64},
		{name: "long unit name", expr: "2048megabyte", want: 2},
		{name: "kibi unit reduces to k", expr: "1048576kib", want: 1},
		{name: "bare number is bytes", expr: "1073741824", want: 1},
		{name: "explicit byte unit", expr: "2147483648b", want: 2},
		{name: "surrounding whitespace", expr: " 32gb ", want: 32},
		{name: "half rounds to even", expr: "2560mb", want: 2},
		{name: "small value rounds to zero", expr: "100mb", want: 0},
		{name: "no digits", expr: "gb", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
		{name: "unknown unit run", expr: "10gbk", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BluntGiB(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errdefs.IsFormat(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreciseGiB(t *testing.T) {
	got, err := PreciseGiB("1536m")
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	got, err = PreciseGiB("1000mb")
	require.NoError(t, err)
	assert.Equal(t, 0.98, got)

	got, err = PreciseGiB("12g")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got)
}

func TestRound(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   float64
	}{
		{x: 6.25, places: 1, want: 6.2},
		{x: 6.35, places: 1, want: 6.3},
		{x: 0.125, places: 2, want: 0.12},
		{x: 0.375, places: 2, want: 0.38},
		{x: 2.0 / 3.0 * 100, places: 1, want: 66.7},
		{x: 1.0 / 400 * 100, places: 1, want: 0.2},
		{x: -0.125, places: 2, want: -0.12},
		{x: 3, places: 2, want: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%d", tt.x, tt.places), func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.x, tt.places))
		})
	}
}

func TestPreciseGiBTiesToEven(t *testing.T) {
	// 0.125 GiB
	got, err := PreciseGiB("128m")
	require.NoError(t, err)
	assert.Equal(t, 0.12, got)

	// 0.375 GiB
	got, err = PreciseGiB("384m")
	require.NoError(t, err)
	assert.Equal(t, 0.38, got)
}

func TestRoundTripAllTokens(t *testing.T) {
	values := []int64{0, 1, 7, 1023, 1024, 65536, 10240, 263842732}

	for _, tok := range Tokens() {
		unit, err := ParseUnit(tok)
		require.NoError(t, err)

		for _, v := range values {
			want := float64(v) / math.Pow(1024, float64(unit))

			precise, err := ToGiB(fmt.Sprintf("%d%s", v, tok), Precise)
			require.NoError(t, err, tok)
			assert.InDelta(t, want, precise, 0.006, "%d%s", v, tok)

			blunt, err := ToGiB(fmt.Sprintf("%d%s", v, tok), Blunt)
			require.NoError(t, err, tok)
			assert.InDelta(t, want, blunt, 0.5, "%d%s", v, tok)
		}
	}
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("MiB")
	require.NoError(t, err)
	assert.Equal(t, MiB, u)
	assert.Equal(t, float64(1024*1024), KiB.Divisor())
	assert.Equal(t, 1.0, GiB.Divisor())

	_, err = ParseUnit("tb")
	assert.True(t, errdefs.IsFormat(err))
	assert.Contains(t, err.Error(), "must be one of b, byte, g, gb, gib")
}

func TestTokensSorted(t *testing.T) {
	tokens := Tokens()

	assert.Len(t, tokens, 20)
	assert.True(t, sort.StringsAreSorted(tokens))
}
