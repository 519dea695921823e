// Package units converts between decimal ether strings and integer wei.
package units

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of base-unit digits in one ether.
const EtherDecimals = 18

var ErrInvalidAmount = errors.New("invalid amount")

// ParseEther converts a decimal ether string such as "0.5" into wei.
// The conversion is exact: inputs with more significant fractional digits
// than wei can hold are rejected instead of rounded.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// ParseUnits converts a plain decimal string into base units with the given
// number of decimals. Signs, exponents and empty strings are rejected.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, errors.Wrap(ErrInvalidAmount, "empty amount")
	}
	if !isPlainDecimal(raw) {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q is not a decimal number", s)
	}

	if frac := fractionalDigits(raw); frac > int(decimals) {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q has %d fractional digits, at most %d allowed", s, frac, decimals)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q: %v", s, err)
	}
	return d.Shift(decimals).BigInt(), nil
}

// FormatEther renders wei as a decimal ether string without trailing zeros.
//
//	1000000000000000000 -> "1"
//	500000000000000000  -> "0.5"
//	1                   -> "0.000000000000000001"
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatUnits renders an integer amount with the given number of decimals.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// FormatUnitsTrim converts an amount to a human string truncated to maxFrac
// fractional digits, with trailing zeros removed. It is meant for compact
// display only; use FormatUnits where the value must survive a round trip.
//
//	amount=1234500000000000000, decimals=18, maxFrac=2 -> "1.23"
//	amount=1, decimals=18, maxFrac=4                   -> "0"
func FormatUnitsTrim(amount *big.Int, decimals uint8, maxFrac int) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}

	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	intPart, fracPart := new(big.Int).QuoRem(amount, base, new(big.Int))
	if fracPart.Sign() < 0 {
		fracPart.Neg(fracPart)
	}

	if fracPart.Sign() == 0 || maxFrac <= 0 {
		return intPart.String()
	}

	fracStr := fracPart.String()
	if len(fracStr) < int(decimals) {
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	}
	if len(fracStr) > maxFrac {
		fracStr = fracStr[:maxFrac]
	}

	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return intPart.String()
	}
	return intPart.String() + "." + fracStr
}

func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// fractionalDigits counts fractional digits, ignoring trailing zeros.
func fractionalDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(s[i+1:], "0"))
}
