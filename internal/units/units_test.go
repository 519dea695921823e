package units

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	wei, err := ParseEther("0.5")
	require.NoError(t, err)
	require.Equal(t, "500000000000000000", wei.String())

	wei, err = ParseEther(" 12 ")
	require.NoError(t, err)
	require.Equal(t, "12000000000000000000", wei.String())

	wei, err = ParseEther("0.000000000000000001")
	require.NoError(t, err)
	require.Equal(t, int64(1), wei.Int64())

	wei, err = ParseEther(".25")
	require.NoError(t, err)
	require.Equal(t, "250000000000000000", wei.String())

	// trailing zeros past the 18th digit carry no value
	wei, err = ParseEther("1.50000000000000000000")
	require.NoError(t, err)
	require.Equal(t, "1500000000000000000", wei.String())
}

func TestParseEtherRejects(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "-1", "+1", "1e18", "1.2.3", ".", "0.0000000000000000001", "1,5"} {
		_, err := ParseEther(in)
		require.Error(t, err, in)
		require.True(t, errors.Is(err, ErrInvalidAmount), in)
	}
}

func TestEtherRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "1", "0.5", "0.1", "123.456", "0.000000000000000001", "99999999999.999999999999999999"} {
		wei, err := ParseEther(in)
		require.NoError(t, err, in)

		out := FormatEther(wei)
		require.True(t, decimal.RequireFromString(in).Equal(decimal.RequireFromString(out)), "%s -> %s", in, out)

		back, err := ParseEther(out)
		require.NoError(t, err)
		require.Equal(t, 0, back.Cmp(wei))
	}
}

func TestFormatEther(t *testing.T) {
	require.Equal(t, "0", FormatEther(nil))
	require.Equal(t, "0", FormatEther(big.NewInt(0)))
	require.Equal(t, "1", FormatEther(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)))
	require.Equal(t, "0.01", FormatEther(big.NewInt(10_000_000_000_000_000)))
}

func TestFormatUnitsTrim(t *testing.T) {
	amount, _ := new(big.Int).SetString("1234500000000000000", 10)
	require.Equal(t, "1.2345", FormatUnitsTrim(amount, 18, 6))
	require.Equal(t, "1.23", FormatUnitsTrim(amount, 18, 2))
	require.Equal(t, "1", FormatUnitsTrim(amount, 18, 0))
	require.Equal(t, "0", FormatUnitsTrim(big.NewInt(1), 18, 4))
	require.Equal(t, "0", FormatUnitsTrim(nil, 18, 4))
}
