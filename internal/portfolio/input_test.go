package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	sym, err := NormalizeSymbol("  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", sym)

	sym, err = NormalizeSymbol("bhp.au")
	require.NoError(t, err)
	assert.Equal(t, "BHP.AU", sym)

	for _, bad := range []string{"", "   ", "A B"} {
		_, err := NormalizeSymbol(bad)
		assert.ErrorIs(t, err, ErrInvalidSymbol, bad)
	}
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber(" 10.5 ")
	require.NoError(t, err)
	assert.Equal(t, 10.5, v)

	v, err = ParseNumber("0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	for _, bad := range []string{"", "ten", "1,5", "-3", "NaN", "Inf", "1e400"} {
		_, err := ParseNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidNumericInput, bad)
	}
}

func TestParseOptionalNumber(t *testing.T) {
	v, err := ParseOptionalNumber("  ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseOptionalNumber("149.99")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 149.99, *v)

	_, err = ParseOptionalNumber("abc")
	assert.ErrorIs(t, err, ErrInvalidNumericInput)
}
