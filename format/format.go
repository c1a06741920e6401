// Package format converts raw magnitudes into fixed-width and
// human-readable strings for benchmark reporting.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Base selects the scaling base for human-readable magnitudes.
type Base int

// Supported scaling bases.
const (
	Base1000 Base = 1000
	Base1024 Base = 1024
)

var (
	// kilo, Mega, Giga, Tera, Peta, Exa, Zetta, Yotta.
	bigSIUnits = []string{"k", "M", "G", "T", "P", "E", "Z", "Y"}
	// Kibi, Mebi, Gibi, Tebi, Pebi, Exbi, Zebi, Yobi.
	bigIECUnits = []string{"Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}
	// milli, micro, nano, pico, femto, atto, zepto, yocto.
	smallSIUnits = []string{"m", "u", "n", "p", "f", "a", "z", "y"}
)

// Values in ]simpleThreshold, smallThreshold[ are printed as-is.
const simpleThreshold = 0.01

// mantissaDigits matches the default significant-digit count of the
// stream formatting the prefixed mantissa is compared against downstream.
const mantissaDigits = 6

// Time renders a duration value, already expressed in its display unit,
// into a right-aligned 10-character field. Decimal precision shrinks as
// the magnitude grows so columns stay aligned across rows; values too
// wide for 10 digits fall back to scientific notation.
func Time(value float64) string {
	switch {
	case value < 1.0:
		return fmt.Sprintf("%10.3f", value)
	case value < 10.0:
		return fmt.Sprintf("%10.2f", value)
	case value < 100.0:
		return fmt.Sprintf("%10.1f", value)
	case value > 9999999999: // max 10 digit number
		return fmt.Sprintf("%1.4e", value)
	default:
		return fmt.Sprintf("%10.0f", value)
	}
}

// HumanReadable scales value by the largest power of base that keeps the
// mantissa under the rendering threshold and appends the matching SI or
// IEC prefix ("1.5k", "1.5Ki", "500u").
func HumanReadable(value float64, base Base) string {
	mantissa, exponent := toExponentAndMantissa(value, 1, base)
	return mantissa + exponentToPrefix(exponent, base == Base1024)
}

// toExponentAndMantissa splits value into a mantissa string and a
// 1-indexed exponent into the prefix tables (negative for sub-unit
// prefixes, 0 for no prefix). The threshold is widened so that values
// which cannot be rendered in the requested precision are never scaled
// into an unrepresentable band.
func toExponentAndMantissa(value float64, precision int, base Base) (string, int) {
	var b strings.Builder
	if value < 0 {
		b.WriteByte('-')
		value = -value
	}

	oneK := float64(base)
	adjustedThreshold := math.Max(1.0, 1.0/math.Pow(10.0, float64(precision)))
	bigThreshold := adjustedThreshold*oneK - 1
	smallThreshold := adjustedThreshold

	switch {
	case value > bigThreshold:
		scaled := value
		for i := range bigSIUnits {
			scaled /= oneK
			if scaled <= bigThreshold {
				b.WriteString(formatMantissa(scaled))
				return b.String(), i + 1
			}
		}
	case value < smallThreshold && value < simpleThreshold:
		scaled := value
		for i := range smallSIUnits {
			scaled *= oneK
			if scaled >= smallThreshold {
				b.WriteString(formatMantissa(scaled))
				return b.String(), -(i + 1)
			}
		}
	}

	b.WriteString(formatMantissa(value))
	return b.String(), 0
}

// exponentToPrefix resolves a 1-indexed exponent into its unit prefix.
// Out-of-range exponents degrade to an empty suffix. Binary scaling only
// affects the positive table choice; sub-unit prefixes are always SI.
func exponentToPrefix(exponent int, iec bool) string {
	if exponent == 0 {
		return ""
	}
	index := exponent - 1
	if exponent < 0 {
		index = -exponent - 1
	}
	if index >= len(bigSIUnits) {
		return ""
	}
	if exponent < 0 {
		return smallSIUnits[index]
	}
	if iec {
		return bigIECUnits[index]
	}
	return bigSIUnits[index]
}

func formatMantissa(value float64) string {
	return strconv.FormatFloat(value, 'g', mantissaDigits, 64)
}
