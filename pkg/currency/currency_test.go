package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "brazilian format with symbol", text: "R$ 1.234,56", want: 1234.56},
		{name: "lower case symbol", text: "r$1.234,56", want: 1234.56},
		{name: "plain dot decimal", text: "1234.56", want: 1234.56},
		{name: "comma decimal only", text: "500,00", want: 500},
		{name: "dot thousands with comma decimal", text: "1.000.000,10", want: 1000000.10},
		{name: "comma thousands with dot decimal", text: "1,234,567.89", want: 1234567.89},
		{name: "internal whitespace", text: " 12 345,5 ", want: 12345.5},
		{name: "negative amount", text: "-1.500,25", want: -1500.25},
		{name: "empty", text: "", want: 0},
		{name: "zero literal", text: "0", want: 0},
		{name: "only symbol", text: "R$ ", want: 0},
		{name: "letters", text: "abc", want: 0},
		{name: "trailing garbage", text: "12abc", want: 12},
		{name: "annotated amount", text: "100,00 (estimado)", want: 100},
		{name: "repeated dots read up to the second", text: "1.234.567", want: 1.234},
		{name: "negative with suffix", text: "-50,5 BRL", want: -50.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Parse(tt.text), 0.000001)
		})
	}
}

func TestParser_Strict(t *testing.T) {
	t.Run("should return error for unparseable text", func(t *testing.T) {
		// given
		parser := NewParser(false)

		// when
		_, err := parser.Parse("abc")

		// then
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should parse valid text", func(t *testing.T) {
		// given
		parser := NewParser(false)

		// when
		value, err := parser.Parse("R$ 2.500,75")

		// then
		require.NoError(t, err)
		assert.InDelta(t, 2500.75, value, 0.000001)
	})

	t.Run("should reject trailing text", func(t *testing.T) {
		_, err := NewParser(false).Parse("100,00 (estimado)")

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should treat empty text as zero", func(t *testing.T) {
		value, err := NewParser(false).Parse("")

		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})
}

func TestParser_Lenient(t *testing.T) {
	value, err := NewParser(true).Parse("not a number")

	assert.NoError(t, err)
	assert.Equal(t, 0.0, value)
}

func TestStripFormatting(t *testing.T) {
	assert.Equal(t, "1.234,56", StripFormatting("R$ 1.234,56"))
	assert.Equal(t, "-10,00", StripFormatting("(-10,00) BRL"))
	assert.Equal(t, "", StripFormatting("n/a"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", Format(1234.56))
	assert.Equal(t, "R$ 0,00", Format(0))
	assert.Equal(t, "1.000,50", FormatNumber(1000.5))
}
