// Package units converts scheduler memory expressions such as "10240mb" or "263842732kb"
// into binary gibibytes.
package units

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/neutree-ai/cluster-info/internal/errdefs"
)

// MemoryUnit is the power of 1024 that separates a unit from GiB.
type MemoryUnit int

const (
	GiB  MemoryUnit = 0
	MiB  MemoryUnit = 1
	KiB  MemoryUnit = 2
	Byte MemoryUnit = 3
)

var unitTokens = map[string]MemoryUnit{
	"byte": Byte,
	"b":    Byte,

	"kilobyte": KiB,
	"kilo":     KiB,
	"kibi":     KiB,
	"kib":      KiB,
	"kb":       KiB,
	"k":        KiB,

	"megabyte": MiB,
	"mega":     MiB,
	"mebi":     MiB,
	"mib":      MiB,
	"mb":       MiB,
	"m":        MiB,

	"gigabyte": GiB,
	"giga":     GiB,
	"gibi":     GiB,
	"gib":      GiB,
	"gb":       GiB,
	"g":        GiB,
}

// Tokens returns every recognized unit token, sorted.
func Tokens() []string {
	out := make([]string, 0, len(unitTokens))
	for tok := range unitTokens {
		out = append(out, tok)
	}

	sort.Strings(out)

	return out
}

// ParseUnit looks up a complete unit token, ignoring case.
func ParseUnit(token string) (MemoryUnit, error) {
	u, ok := unitTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, errdefs.Formatf("unknown memory unit %q, must be one of %s", token, strings.Join(Tokens(), ", "))
	}

	return u, nil
}

// Divisor is the value a quantity in this unit is divided by to obtain GiB.
func (u MemoryUnit) Divisor() float64 {
	return math.Pow(1024, float64(u))
}

func (u MemoryUnit) String() string {
	switch u {
	case GiB:
		return "GiB"
	case MiB:
		return "MiB"
	case KiB:
		return "KiB"
	case Byte:
		return "B"
	default:
		return "MemoryUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// Mode selects the rounding applied to a conversion.
type Mode int

const (
	// Blunt rounds to a whole GiB, halves go to the even neighbour.
	Blunt Mode = iota
	// Precise rounds to two decimals.
	Precise
)

var (
	digitsRegexp = regexp.MustCompile(`[0-9]+`)
	// unit tokens are reduced to their leading k/m/g/b letters, so "kib" and "kilobyte" both read as "k"
	unitRegexp = regexp.MustCompile(`[mkgb]+`)
)

// ToGiB converts a memory expression to GiB. The first run of digits is the value, the
// unit is taken from the text that follows it. Expressions without a unit are bytes.
func ToGiB(expr string, mode Mode) (float64, error) {
	loc := digitsRegexp.FindStringIndex(expr)
	if loc == nil {
		return 0, errdefs.Formatf("invalid memory expression %q", expr)
	}

	value, err := strconv.ParseInt(expr[loc[0]:loc[1]], 10, 64)
	if err != nil {
		return 0, errdefs.Formatf("invalid memory value in %q: %v", expr, err)
	}

	unit := Byte

	if tok := unitRegexp.FindString(strings.ToLower(expr[loc[1]:])); tok != "" {
		unit, err = ParseUnit(tok)
		if err != nil {
			return 0, errdefs.Formatf("invalid memory unit in %q", expr)
		}
	}

	gib := float64(value) / unit.Divisor()

	switch mode {
	case Blunt:
		return math.RoundToEven(gib), nil
	case Precise:
		return Round(gib, 2), nil
	default:
		return 0, errdefs.Formatf("unknown rounding mode %d", mode)
	}
}

// Round rounds x to the given number of decimal places. Exact ties go to the even digit.
func Round(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}

	return v
}

// BluntGiB converts a memory expression to whole GiB.
func BluntGiB(expr string) (int, error) {
	v, err := ToGiB(expr, Blunt)
	if err != nil {
		return 0, err
	}

	return int(v), nil
}

// PreciseGiB converts a memory expression to GiB with two decimals.
func PreciseGiB(expr string) (float64, error) {
	return ToGiB(expr, Precise)
}
