package upc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitString flattens a module sequence into a "1"/"0" string, one character
// per module, for comparison against reference patterns.
func bitString(seq ModuleSequence) string {
	var b strings.Builder
	for _, m := range seq {
		ch := byte('0')
		if m.Bar {
			ch = '1'
		}
		for i := 0; i < m.Width; i++ {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// The published reference pattern for UPC-A 036000291452.
func TestEncode_UPCAKnownVector(t *testing.T) {
	code, err := Validate("036000291452")
	require.NoError(t, err)

	seq, err := Encode(code)
	require.NoError(t, err)

	want := "101" + // start guard
		"0001101" + "0111101" + "0101111" + "0001101" + "0001101" + "0001101" + // 0 3 6 0 0 0
		"01010" + // center guard
		"1101100" + "1110100" + "1100110" + "1011100" + "1001110" + "1101100" + // 2 9 1 4 5 2
		"101" // end guard

	assert.Equal(t, want, bitString(seq))
	assert.Equal(t, UPCATotalModules, seq.TotalModules())
}

func TestEncode_UPCEParitySelection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			// Check digit 5 selects EOOEEO under number system 0.
			name: "number system 0",
			raw:  "01234565",
			want: "101" +
				"0110011" + // 1 even
				"0010011" + // 2 odd
				"0111101" + // 3 odd
				"0011101" + // 4 even
				"0111001" + // 5 even
				"0101111" + // 6 odd
				"010101",
		},
		{
			// Check digit 2 selects EEOOEO, inverted to OOEEOE under
			// number system 1.
			name: "number system 1 inverts parity",
			raw:  "11234562",
			want: "101" +
				"0011001" + // 1 odd
				"0010011" + // 2 odd
				"0100001" + // 3 even
				"0011101" + // 4 even
				"0110001" + // 5 odd
				"0000101" + // 6 even
				"010101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Validate(tt.raw)
			require.NoError(t, err)

			seq, err := Encode(code)
			require.NoError(t, err)

			assert.Equal(t, tt.want, bitString(seq))
			assert.Equal(t, UPCETotalModules, seq.TotalModules())
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	for _, raw := range []string{"012345678905", "036000291452", "01234565"} {
		code, err := Validate(raw)
		require.NoError(t, err)

		first, err := Encode(code)
		require.NoError(t, err)
		second, err := Encode(code)
		require.NoError(t, err)

		assert.Equal(t, first, second, "code %s", raw)
	}
}

func TestEncode_SymbolShape(t *testing.T) {
	code, err := Validate("725272730706")
	require.NoError(t, err)

	seq, err := Encode(code)
	require.NoError(t, err)

	// Symbols start and end on a bar; widths are small positive integers.
	require.NotEmpty(t, seq)
	assert.True(t, seq[0].Bar)
	assert.True(t, seq[len(seq)-1].Bar)
	for i, m := range seq {
		assert.Positive(t, m.Width, "module %d", i)
		assert.LessOrEqual(t, m.Width, 4, "module %d", i)
		if i > 0 {
			assert.NotEqual(t, seq[i-1].Bar, m.Bar, "adjacent runs must alternate at %d", i)
		}
	}
}

func TestEncode_InvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		code Code // constructed outside Validate on purpose
	}{
		{name: "wrong length", code: Code("123")},
		{name: "non-digit byte", code: Code("0123X5678905")},
		{name: "UPC-E number system out of range", code: Code("91234565")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.code)
			assert.ErrorIs(t, err, ErrEncodingInvariant)
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "last digit 0 restores manufacturer prefix", raw: "01234503", want: "012000003455"},
		{name: "last digit 3 splits after three", raw: "01234534", want: "012300000451"},
		{name: "last digit 4 splits after four", raw: "01234541", want: "012340000053"},
		{name: "last digit 5-9 keeps five leading digits", raw: "01234565", want: "012345000065"},
		{name: "number system 1 carried through", raw: "11234562", want: "112345000062"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Validate(tt.raw)
			require.NoError(t, err)

			expanded, err := Expand(code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expanded.String())

			// The expansion itself must be a valid UPC-A code.
			_, err = Validate(expanded.String())
			assert.NoError(t, err)
		})
	}

	t.Run("UPC-A passes through", func(t *testing.T) {
		code, err := Validate("012345678905")
		require.NoError(t, err)

		expanded, err := Expand(code)
		require.NoError(t, err)
		assert.Equal(t, code, expanded)
	})
}
