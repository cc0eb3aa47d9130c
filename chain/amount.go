package chain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/w3ledger/w3ledger/schema"
)

// ToBaseUnits converts a human amount such as "1.25" into the token's smallest unit.
// Digits beyond the token's precision are truncated; a zero or negative result is rejected.
func ToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", schema.ErrInvalidAmount, amount)
	}
	units := d.Shift(int32(decimals)).Truncate(0)
	if units.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q must be positive", schema.ErrInvalidAmount, amount)
	}
	return units.BigInt(), nil
}

// FromBaseUnits renders base units as a human amount.
func FromBaseUnits(units *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(units, -int32(decimals)).String()
}
