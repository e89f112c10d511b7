package utils

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerTB = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatSupply renders an integer token supply with a B/M/K suffix for
// display in the admin panel, e.g. "1000000" -> "1.0M". Non-numeric input
// is returned unchanged.
func FormatSupply(supply string) string {
	v, ok := new(big.Int).SetString(strings.TrimSpace(supply), 10)
	if !ok {
		return supply
	}
	f := new(big.Float).SetInt(v)
	switch {
	case v.CmpAbs(big.NewInt(1_000_000_000)) >= 0:
		q, _ := new(big.Float).Quo(f, big.NewFloat(1e9)).Float64()
		return fmt.Sprintf("%.1fB", q)
	case v.CmpAbs(big.NewInt(1_000_000)) >= 0:
		q, _ := new(big.Float).Quo(f, big.NewFloat(1e6)).Float64()
		return fmt.Sprintf("%.1fM", q)
	case v.CmpAbs(big.NewInt(1_000)) >= 0:
		q, _ := new(big.Float).Quo(f, big.NewFloat(1e3)).Float64()
		return fmt.Sprintf("%.1fK", q)
	default:
		return v.String()
	}
}

// FormatWeiToTB converts a wei amount to a decimal TB string without
// floating-point precision loss. Trailing fractional zeros are trimmed.
func FormatWeiToTB(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	quo, rem := new(big.Int).QuoRem(wei, weiPerTB, new(big.Int))
	if rem.Sign() == 0 {
		return quo.String() + ".0"
	}
	frac := fmt.Sprintf("%018s", rem.String())
	frac = strings.TrimRight(frac, "0")
	return quo.String() + "." + frac
}

// ScaleByDecimals multiplies a human-readable integer amount by 10^decimals,
// producing the on-chain raw unit amount. The input must be a base-10 integer
// string; fractional amounts are not supported by the factory contracts.
func ScaleByDecimals(amount string, decimals int) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", amount)
	}
	if decimals < 0 || decimals > 77 {
		return nil, fmt.Errorf("decimals %d out of range", decimals)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return v.Mul(v, scale), nil
}
