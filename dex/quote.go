package dex

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const bpsDenominator = 10000

// Quote is computed per swap and never persisted. Amounts are in base units.
type Quote struct {
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
}

// MinAmountOut is expected reduced by slippageBps basis points, rounded down.
func MinAmountOut(expected *big.Int, slippageBps int64) *big.Int {
	if slippageBps < 0 {
		slippageBps = 0
	}
	if slippageBps > bpsDenominator {
		slippageBps = bpsDenominator
	}
	keep := decimal.NewFromInt(bpsDenominator - slippageBps).Div(decimal.NewFromInt(bpsDenominator))
	return decimal.NewFromBigInt(expected, 0).Mul(keep).Floor().BigInt()
}
