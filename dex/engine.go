package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/w3ledger/w3ledger/chain"
	w3common "github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

var log = w3common.NewLog("dex")

// ChainClient is a signer-scoped view of the chain. *chain.Signer implements it.
type ChainClient interface {
	Address() common.Address
	Read(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error)
	Send(ctx context.Context, contract common.Address, value *big.Int, method string, args ...interface{}) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Params supplies the runtime swap settings.
type Params interface {
	SlippageBps() int64
	Deadline() time.Duration
}

type StaticParams struct {
	Bps    int64
	Expiry time.Duration
}

func (p StaticParams) SlippageBps() int64      { return p.Bps }
func (p StaticParams) Deadline() time.Duration { return p.Expiry }

func DefaultParams() StaticParams {
	return StaticParams{Bps: schema.DefaultSlippageBps, Expiry: schema.DefaultDeadlineSeconds * time.Second}
}

type Result struct {
	TxHash common.Hash
	Method SwapMethod
	Quote  Quote
}

// Engine routes swaps through a UniswapV2 style router.
type Engine struct {
	registry *Registry
	router   common.Address
	params   Params
	now      func() time.Time
}

func NewEngine(registry *Registry, router common.Address, params Params) *Engine {
	if params == nil {
		params = DefaultParams()
	}
	return &Engine{registry: registry, router: router, params: params, now: time.Now}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// ExecuteSwap swaps amount (human units) of fromSymbol into toSymbol for the signer.
// The returned hash means the swap was accepted by the node, not that it is final.
// An approval mined before a failed swap is left in place.
func (e *Engine) ExecuteSwap(ctx context.Context, signer ChainClient, fromSymbol, toSymbol, amount string) (*Result, error) {
	from := Routable(e.registry.Classify(fromSymbol))
	to := Routable(e.registry.Classify(toSymbol))
	method, err := SelectMethod(from.Class, to.Class)
	if err != nil {
		return nil, err
	}
	if from.Address == to.Address {
		return nil, fmt.Errorf("%w: %s -> %s", schema.ErrUnsupportedPair, from.Symbol, to.Symbol)
	}

	quote, err := e.Quote(ctx, signer, from, to, amount)
	if err != nil {
		metricSwap(method, err)
		return nil, err
	}

	if method != NativeToTokenSwap {
		if err := e.approve(ctx, signer, from.Address, quote.AmountIn); err != nil {
			metricSwap(method, err)
			return nil, err
		}
	}

	deadline := big.NewInt(e.now().Add(e.params.Deadline()).Unix())
	var tx *types.Transaction
	switch method {
	case NativeToTokenSwap:
		tx, err = signer.Send(ctx, e.router, quote.AmountIn, method.String(),
			quote.AmountOutMin, quote.Path, signer.Address(), deadline)
	default:
		tx, err = signer.Send(ctx, e.router, nil, method.String(),
			quote.AmountIn, quote.AmountOutMin, quote.Path, signer.Address(), deadline)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", schema.ErrSwapSubmissionFailed, err)
		metricSwap(method, err)
		return nil, err
	}
	metricSwap(method, nil)
	log.Info("swap submitted", "hash", tx.Hash().Hex(), "method", method.String(), "from", from.Symbol, "to", to.Symbol, "amountIn", quote.AmountIn, "amountOutMin", quote.AmountOutMin)
	return &Result{TxHash: tx.Hash(), Method: method, Quote: *quote}, nil
}

// Quote converts amount to base units and bounds the router's expected output by the slippage tolerance.
func (e *Engine) Quote(ctx context.Context, cli ChainClient, from, to Token, amount string) (*Quote, error) {
	out, err := cli.Read(ctx, from.Address, "decimals")
	if err != nil {
		return nil, fmt.Errorf("%w: decimals: %v", schema.ErrQuoteUnavailable, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: decimals: unexpected output", schema.ErrQuoteUnavailable)
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("%w: decimals: unexpected output type %T", schema.ErrQuoteUnavailable, out[0])
	}
	amountIn, err := chain.ToBaseUnits(amount, decimals)
	if err != nil {
		return nil, err
	}

	path := []common.Address{from.Address, to.Address}
	out, err = cli.Read(ctx, e.router, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("%w: getAmountsOut: %v", schema.ErrQuoteUnavailable, err)
	}
	amounts, ok := firstBigSlice(out)
	if !ok || len(amounts) == 0 || amounts[len(amounts)-1].Sign() <= 0 {
		return nil, fmt.Errorf("%w: getAmountsOut: no output amount", schema.ErrQuoteUnavailable)
	}
	expected := amounts[len(amounts)-1]

	return &Quote{
		AmountIn:     amountIn,
		AmountOutMin: MinAmountOut(expected, e.params.SlippageBps()),
		Path:         path,
	}, nil
}

// approve blocks until the router allowance is mined, the swap is invalid before that.
func (e *Engine) approve(ctx context.Context, cli ChainClient, token common.Address, amount *big.Int) error {
	tx, err := cli.Send(ctx, token, nil, "approve", e.router, amount)
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrApprovalFailed, err)
	}
	if _, err := cli.WaitMined(ctx, tx); err != nil {
		return fmt.Errorf("%w: %v", schema.ErrApprovalFailed, err)
	}
	return nil
}

func firstBigSlice(out []interface{}) ([]*big.Int, bool) {
	if len(out) != 1 {
		return nil, false
	}
	v, ok := out[0].([]*big.Int)
	return v, ok
}
