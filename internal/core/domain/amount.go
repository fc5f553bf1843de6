package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Asset describes a fungible asset and the number of decimals its raw
// minor units carry. Every display conversion goes through an Asset.
type Asset struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// Amount is a raw minor-unit quantity of an Asset.
type Amount struct {
	Raw   *big.Int `json:"-"`
	Asset Asset    `json:"asset"`
}

// NewAmount copies raw so later mutation of the argument cannot leak in.
func NewAmount(raw *big.Int, asset Asset) Amount {
	if raw == nil {
		return Amount{Raw: new(big.Int), Asset: asset}
	}
	return Amount{Raw: new(big.Int).Set(raw), Asset: asset}
}

// Display returns the human-scaled value (raw / 10^decimals).
func (a Amount) Display() decimal.Decimal {
	if a.Raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.Raw, -a.Asset.Decimals)
}

// String renders the amount as "<display> <symbol>".
func (a Amount) String() string {
	return a.Display().String() + " " + a.Asset.Symbol
}

// IsZero reports whether the amount is zero or unset.
func (a Amount) IsZero() bool {
	return a.Raw == nil || a.Raw.Sign() == 0
}

// FromDisplay converts a human-scaled value into raw minor units,
// truncating anything below the asset's precision.
func (a Asset) FromDisplay(d decimal.Decimal) *big.Int {
	return d.Shift(a.Decimals).Truncate(0).BigInt()
}

// Amount wraps raw in this asset.
func (a Asset) Amount(raw *big.Int) Amount {
	return NewAmount(raw, a)
}

// ParseRaw parses a base-10 raw amount as stored in the ledger.
// An empty string is zero.
func ParseRaw(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid raw amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative raw amount %q", s)
	}
	return v, nil
}

// RawString formats a raw amount for storage; nil is "0".
func RawString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
