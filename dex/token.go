package dex

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/w3ledger/w3ledger/schema"
)

type TokenClass int

const (
	Unsupported TokenClass = iota
	NativeAsset
	WrappedNative
	ERC20
)

func (c TokenClass) String() string {
	switch c {
	case NativeAsset:
		return "native"
	case WrappedNative:
		return "wrapped_native"
	case ERC20:
		return "erc20"
	}
	return "unsupported"
}

const (
	SymbolETH  = "eth"
	SymbolWETH = "weth"
	SymbolUSDC = "usdc"
	SymbolLINK = "link"
)

type Token struct {
	Symbol  string
	Class   TokenClass
	Address common.Address // the wrapped token for NativeAsset
}

// Registry maps the symbols the gateway accepts to their contracts.
type Registry struct {
	tokens map[string]Token
}

// NewRegistry skips tokens whose contract address is not configured.
func NewRegistry(addrs schema.TokenAddrs) *Registry {
	r := &Registry{tokens: make(map[string]Token)}
	if common.IsHexAddress(addrs.WETH) {
		weth := common.HexToAddress(addrs.WETH)
		r.tokens[SymbolETH] = Token{Symbol: SymbolETH, Class: NativeAsset, Address: weth}
		r.tokens[SymbolWETH] = Token{Symbol: SymbolWETH, Class: WrappedNative, Address: weth}
	}
	for sym, addr := range map[string]string{SymbolUSDC: addrs.USDC, SymbolLINK: addrs.LINK} {
		if common.IsHexAddress(addr) {
			r.tokens[sym] = Token{Symbol: sym, Class: ERC20, Address: common.HexToAddress(addr)}
		}
	}
	return r
}

// Classify never fails, unknown symbols are Unsupported.
func (r *Registry) Classify(symbol string) Token {
	sym := strings.ToLower(strings.TrimSpace(symbol))
	if tok, ok := r.tokens[sym]; ok {
		return tok
	}
	return Token{Symbol: sym, Class: Unsupported}
}

// Routable substitutes the wrapped representation for the native asset, routers only hold wrapped liquidity.
func Routable(tok Token) Token {
	if tok.Class == NativeAsset {
		tok.Class = WrappedNative
	}
	return tok
}
