package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	w3common "github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

var log = w3common.NewLog("chain")

// Backend is everything the gateway needs from an EVM node. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

type Node struct {
	backend Backend
	chainId *big.Int
}

// RpcUrl joins an infura style base url and project key, e.g. https://sepolia.infura.io + key.
func RpcUrl(baseUrl, apiKey string) string {
	baseUrl = strings.TrimSuffix(baseUrl, "/")
	if apiKey == "" {
		return baseUrl
	}
	return fmt.Sprintf("%s/v3/%s", baseUrl, apiKey)
}

func Dial(ctx context.Context, rpcUrl string) (*Node, error) {
	cli, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, err
	}
	return NewNode(ctx, cli)
}

// NewNode queries the chain id once, every signer of the node reuses it.
func NewNode(ctx context.Context, backend Backend) (*Node, error) {
	chainId, err := backend.ChainID(ctx)
	if err != nil {
		log.Error("backend.ChainID(ctx)", "err", err)
		return nil, fmt.Errorf("%w: %v", schema.ErrNetwork, err)
	}
	return &Node{backend: backend, chainId: chainId}, nil
}

func (n *Node) ChainID() *big.Int {
	return new(big.Int).Set(n.chainId)
}

// Signer binds the node to a private key.
func (n *Node) Signer(ctx context.Context, privHex string) (*Signer, error) {
	return NewSigner(n, privHex)
}

func (n *Node) Read(ctx context.Context, from, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	abi, err := abiOf(method)
	if err != nil {
		return nil, err
	}
	c := bind.NewBoundContract(contract, abi, n.backend, n.backend, n.backend)
	out := make([]interface{}, 0, 1)
	if err := c.Call(&bind.CallOpts{Context: ctx, From: from}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", schema.ErrNetwork, method, err)
	}
	return out, nil
}

func (n *Node) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := n.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrNetwork, err)
	}
	return bal, nil
}

// TokenBalance returns the erc20 balance of addr in base units.
func (n *Node) TokenBalance(ctx context.Context, token, addr common.Address) (*big.Int, error) {
	out, err := n.Read(ctx, addr, token, "balanceOf", addr)
	if err != nil {
		return nil, err
	}
	return bigOut(out)
}

func (n *Node) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := n.Read(ctx, common.Address{}, token, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%w: decimals: unexpected output", schema.ErrNetwork)
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: decimals: unexpected output type %T", schema.ErrNetwork, out[0])
	}
	return dec, nil
}

func bigOut(out []interface{}) (*big.Int, error) {
	if len(out) != 1 {
		return nil, fmt.Errorf("%w: unexpected output", schema.ErrNetwork)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected output type %T", schema.ErrNetwork, out[0])
	}
	return v, nil
}
