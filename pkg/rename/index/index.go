// Package index renders sequence numbers into the index token that is
// inserted into a synthesized file stem.
package index

import (
	"strconv"
	"strings"

	"github.com/jamesainslie/rename/pkg/rename/types"
)

// romanLimit is the first value that standard notation cannot express.
const romanLimit = 4000

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Format renders seq as a token of the given type. width only applies to
// numeric tokens and never truncates.
func Format(t types.IndexType, seq, width int) string {
	switch t {
	case types.IndexNone:
		return ""
	case types.IndexAlpha:
		return Letters(seq)
	case types.IndexRoman:
		return Roman(seq)
	default:
		return Numeric(seq, width)
	}
}

// Numeric left-pads the decimal form of seq with zeros to width characters.
func Numeric(seq, width int) string {
	s := strconv.Itoa(seq)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Letters encodes seq in bijective base-26: 1 is "A", 26 is "Z", 27 is "AA".
// Values below 1 are treated as 1.
func Letters(seq int) string {
	n := max(seq, 1)
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Roman renders seq in subtractive notation. Values outside 1..3999 fall back
// to their decimal form.
func Roman(seq int) string {
	if seq <= 0 || seq >= romanLimit {
		return strconv.Itoa(seq)
	}
	var b strings.Builder
	n := seq
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// Padding decides the numeric width for a run of count files starting at
// start. mode is types.PadAuto or a fixed width. Non-numeric types ignore
// padding and get 0.
func Padding(t types.IndexType, mode, start, count int) int {
	if t != types.IndexNumeric {
		return 0
	}
	if mode != types.PadAuto {
		return types.ClampPadding(mode)
	}
	end := start + max(count-1, 0)
	return types.ClampPadding(len(strconv.Itoa(end)))
}
