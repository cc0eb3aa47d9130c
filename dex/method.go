package dex

import (
	"fmt"

	"github.com/w3ledger/w3ledger/schema"
)

type SwapMethod int

const (
	MethodUnsupported SwapMethod = iota
	NativeToTokenSwap
	TokenToNativeSwap
	TokenToTokenSwap
)

func (m SwapMethod) String() string {
	switch m {
	case NativeToTokenSwap:
		return "swapExactETHForTokens"
	case TokenToNativeSwap:
		return "swapExactTokensForETH"
	case TokenToTokenSwap:
		return "swapExactTokensForTokens"
	}
	return "unsupported"
}

// SelectMethod picks the router call for a pair of classifications. The native asset
// routes as its wrapped form, so eth and weth select the same method.
func SelectMethod(from, to TokenClass) (SwapMethod, error) {
	if from == NativeAsset {
		from = WrappedNative
	}
	if to == NativeAsset {
		to = WrappedNative
	}
	switch {
	case from == Unsupported || to == Unsupported:
	case from == WrappedNative && to == ERC20:
		return NativeToTokenSwap, nil
	case from == ERC20 && to == WrappedNative:
		return TokenToNativeSwap, nil
	case from == ERC20 && to == ERC20:
		return TokenToTokenSwap, nil
	}
	return MethodUnsupported, fmt.Errorf("%w: %s -> %s", schema.ErrUnsupportedPair, from, to)
}
