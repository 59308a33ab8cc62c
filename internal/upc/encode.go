package upc

import (
	"errors"
	"fmt"
)

// Fixed module totals for the two symbol layouts.
const (
	// UPCATotalModules is the module width of a UPC-A symbol:
	// 3 (start) + 6*7 (left) + 5 (center) + 6*7 (right) + 3 (end).
	UPCATotalModules = 95

	// UPCETotalModules is the module width of a UPC-E symbol:
	// 3 (start) + 6*7 (data) + 6 (end).
	UPCETotalModules = 51
)

// ErrEncodingInvariant marks an internal encoder invariant violation. It is
// unreachable for codes produced by Validate and indicates a programming
// error, not bad user input.
var ErrEncodingInvariant = errors.New("internal encoding invariant violation")

// Module is one run of same-colored modules in a symbol. Bar is true for
// dark modules, false for spaces. Width is the run length in modules.
type Module struct {
	Bar   bool
	Width int
}

// ModuleSequence is the full bar/space layout of one symbol, guards included,
// ordered left to right.
type ModuleSequence []Module

// TotalModules returns the summed module width of the sequence.
func (s ModuleSequence) TotalModules() int {
	total := 0
	for _, m := range s {
		total += m.Width
	}
	return total
}

// Guard patterns, most significant bit first, 1 = bar.
const (
	startGuard        = 0b101 // also the UPC-A end guard
	startGuardWidth   = 3
	centerGuard       = 0b01010
	centerGuardWidth  = 5
	upceEndGuard      = 0b010101
	upceEndGuardWidth = 6
)

// digitWidth is the module width of every encoded digit.
const digitWidth = 7

// leftOdd holds the left-hand odd-parity digit patterns, indexed by digit.
//
//nolint:gochecknoglobals // Static symbology lookup table.
var leftOdd = [10]uint{
	0b0001101, // 0
	0b0011001, // 1
	0b0010011, // 2
	0b0111101, // 3
	0b0100011, // 4
	0b0110001, // 5
	0b0101111, // 6
	0b0111011, // 7
	0b0110111, // 8
	0b0001011, // 9
}

// leftEven holds the left-hand even-parity digit patterns used by UPC-E,
// indexed by digit.
//
//nolint:gochecknoglobals // Static symbology lookup table.
var leftEven = [10]uint{
	0b0100111, // 0
	0b0110011, // 1
	0b0011011, // 2
	0b0100001, // 3
	0b0011101, // 4
	0b0111001, // 5
	0b0000101, // 6
	0b0010001, // 7
	0b0001001, // 8
	0b0010111, // 9
}

// right holds the right-hand digit patterns, indexed by digit. Each is the
// bitwise complement of the corresponding left-hand odd pattern.
//
//nolint:gochecknoglobals // Static symbology lookup table.
var right = [10]uint{
	0b1110010, // 0
	0b1100110, // 1
	0b1101100, // 2
	0b1000010, // 3
	0b1011100, // 4
	0b1001110, // 5
	0b1010000, // 6
	0b1000100, // 7
	0b1001000, // 8
	0b1110100, // 9
}

// parityPattern marks, per data position, whether the left-hand odd table
// applies; false means the left-hand even table.
type parityPattern [6]bool

// upceParity selects the per-position parity for a UPC-E symbol under number
// system 0, indexed by the check digit. Number system 1 inverts the pattern.
//
//nolint:gochecknoglobals // Static symbology lookup table.
var upceParity = [10]parityPattern{
	{false, false, false, true, true, true},  // 0 EEEOOO
	{false, false, true, false, true, true},  // 1 EEOEOO
	{false, false, true, true, false, true},  // 2 EEOOEO
	{false, false, true, true, true, false},  // 3 EEOOOE
	{false, true, false, false, true, true},  // 4 EOEEOO
	{false, true, true, false, false, true},  // 5 EOOEEO
	{false, true, true, true, false, false},  // 6 EOOOEE
	{false, true, false, true, false, true},  // 7 EOEOEO
	{false, true, false, true, true, false},  // 8 EOEOOE
	{false, true, true, false, true, false},  // 9 EOOEOE
}

// Encode maps a validated code to its full module sequence, guards included.
// Any failure here is an ErrEncodingInvariant: Validate-approved codes always
// encode, so an error indicates a Code constructed outside Validate or a
// broken lookup table.
func Encode(code Code) (ModuleSequence, error) {
	switch len(code) {
	case UPCALength:
		return encodeUPCA(code)
	case UPCELength:
		return encodeUPCE(code)
	default:
		return nil, fmt.Errorf("%w: %d-digit code reached the encoder", ErrEncodingInvariant, len(code))
	}
}

// encodeUPCA lays out start guard, six left-hand odd digits, center guard,
// six right-hand digits, end guard.
func encodeUPCA(code Code) (ModuleSequence, error) {
	seq := make(ModuleSequence, 0, 60)
	seq = appendBits(seq, startGuard, startGuardWidth)

	for i := 0; i < 6; i++ {
		d, err := digitAt(code, i)
		if err != nil {
			return nil, err
		}
		seq = appendBits(seq, leftOdd[d], digitWidth)
	}

	seq = appendBits(seq, centerGuard, centerGuardWidth)

	for i := 6; i < 12; i++ {
		d, err := digitAt(code, i)
		if err != nil {
			return nil, err
		}
		seq = appendBits(seq, right[d], digitWidth)
	}

	seq = appendBits(seq, startGuard, startGuardWidth)

	if got := seq.TotalModules(); got != UPCATotalModules {
		return nil, fmt.Errorf("%w: UPC-A symbol is %d modules, want %d", ErrEncodingInvariant, got, UPCATotalModules)
	}
	return seq, nil
}

// encodeUPCE lays out start guard, six data digits encoded left-hand
// odd/even per the parity pattern, and the six-module end guard. The
// parity pattern is selected by the check digit and inverted under number
// system 1; the check digit itself is not an encoded position.
func encodeUPCE(code Code) (ModuleSequence, error) {
	ns, err := digitAt(code, 0)
	if err != nil {
		return nil, err
	}
	if ns > 1 {
		return nil, fmt.Errorf("%w: UPC-E number system %d, want 0 or 1", ErrEncodingInvariant, ns)
	}

	check, err := digitAt(code, UPCELength-1)
	if err != nil {
		return nil, err
	}

	parity := upceParity[check]

	seq := make(ModuleSequence, 0, 36)
	seq = appendBits(seq, startGuard, startGuardWidth)

	for i := 0; i < 6; i++ {
		d, digitErr := digitAt(code, i+1)
		if digitErr != nil {
			return nil, digitErr
		}
		odd := parity[i]
		if ns == 1 {
			odd = !odd
		}
		if odd {
			seq = appendBits(seq, leftOdd[d], digitWidth)
		} else {
			seq = appendBits(seq, leftEven[d], digitWidth)
		}
	}

	seq = appendBits(seq, upceEndGuard, upceEndGuardWidth)

	if got := seq.TotalModules(); got != UPCETotalModules {
		return nil, fmt.Errorf("%w: UPC-E symbol is %d modules, want %d", ErrEncodingInvariant, got, UPCETotalModules)
	}
	return seq, nil
}

// Expand re-expands an 8-digit UPC-E code into the 12-digit UPC-A code it
// suppresses, applying the manufacturer-code suppression rules keyed on the
// final data digit. The returned code carries a freshly computed check digit.
// Full-length codes pass through unchanged.
func Expand(code Code) (Code, error) {
	if !code.IsCompressed() {
		return code, nil
	}

	data := string(code[1:7])
	last := data[5]

	var body string
	switch {
	case last <= '2':
		body = data[0:2] + string(last) + "0000" + data[2:5]
	case last == '3':
		body = data[0:3] + "00000" + data[3:5]
	case last == '4':
		body = data[0:4] + "00000" + data[4:5]
	default:
		body = data[0:5] + "0000" + string(last)
	}

	eleven := string(code[0]) + body
	if len(eleven) != UPCALength-1 {
		return "", fmt.Errorf("%w: expanded body is %d digits, want %d", ErrEncodingInvariant, len(eleven), UPCALength-1)
	}

	return Code(eleven + string(byte('0'+CheckDigit(eleven)))), nil
}

// digitAt returns the decimal digit at position i, or an invariant error if
// the byte is not a digit. Codes produced by Validate never trip this.
func digitAt(code Code, i int) (int, error) {
	b := code[i]
	if b < '0' || b > '9' {
		return 0, fmt.Errorf("%w: non-digit byte %q at position %d in %q", ErrEncodingInvariant, b, i, string(code))
	}
	return int(b - '0'), nil
}

// appendBits appends a most-significant-bit-first pattern of the given module
// width to the sequence, merging adjacent runs of the same color.
func appendBits(seq ModuleSequence, bits uint, width int) ModuleSequence {
	for i := width - 1; i >= 0; i-- {
		bar := bits>>uint(i)&1 == 1
		if n := len(seq); n > 0 && seq[n-1].Bar == bar {
			seq[n-1].Width++
			continue
		}
		seq = append(seq, Module{Bar: bar, Width: 1})
	}
	return seq
}
