package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/w3ledger/w3ledger/schema"
)

// Signer sends contract transactions from one key. Send returns once the node accepted the
// transaction; callers that need inclusion must WaitMined.
type Signer struct {
	node *Node
	key  *ecdsa.PrivateKey
	addr common.Address
}

func NewSigner(node *Node, privHex string) (*Signer, error) {
	key, err := ParsePrivateKey(privHex)
	if err != nil {
		return nil, err
	}
	return &Signer{node: node, key: key, addr: keyAddress(key)}, nil
}

func (s *Signer) Address() common.Address {
	return s.addr
}

func (s *Signer) Read(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	return s.node.Read(ctx, s.addr, contract, method, args...)
}

// Send signs and broadcasts a call of method on contract, attaching value wei when non-nil.
func (s *Signer) Send(ctx context.Context, contract common.Address, value *big.Int, method string, args ...interface{}) (*types.Transaction, error) {
	abi, err := abiOf(method)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.node.chainId)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Value = value

	c := bind.NewBoundContract(contract, abi, s.node.backend, s.node.backend, s.node.backend)
	tx, err := c.Transact(opts, method, args...)
	if err != nil {
		log.Error("c.Transact(opts,method,args...)", "err", err, "method", method, "contract", contract.Hex(), "from", s.addr.Hex())
		return nil, fmt.Errorf("%w: %s: %v", schema.ErrNetwork, method, err)
	}
	log.Debug("send tx", "hash", tx.Hash().Hex(), "method", method, "from", s.addr.Hex())
	return tx, nil
}

// WaitMined blocks until tx is included, a reverted transaction is an error.
func (s *Signer) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.node.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: wait %s: %v", schema.ErrNetwork, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: tx %s reverted", schema.ErrNetwork, tx.Hash().Hex())
	}
	return receipt, nil
}

func (s *Signer) Balance(ctx context.Context) (*big.Int, error) {
	return s.node.Balance(ctx, s.addr)
}

func (s *Signer) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	return s.node.TokenBalance(ctx, token, s.addr)
}

func (s *Signer) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	return s.node.Decimals(ctx, token)
}

// abiOf resolves method against the erc20 and router abis, their method names are disjoint.
func abiOf(method string) (abi.ABI, error) {
	if _, ok := ERC20ABI.Methods[method]; ok {
		return ERC20ABI, nil
	}
	if _, ok := RouterABI.Methods[method]; ok {
		return RouterABI, nil
	}
	return abi.ABI{}, fmt.Errorf("%w: unknown contract method %s", schema.ErrUnsupported, method)
}
