package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/w3ledger/w3ledger/schema"
)

// hardhat account #0
const (
	testKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddr = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
)

// callBackend answers eth_call from canned outputs keyed by method name.
type callBackend struct {
	bind.ContractBackend
	bind.DeployBackend
	outputs map[string][]interface{}
	balance *big.Int
}

func (b *callBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	for name, m := range ERC20ABI.Methods {
		if strings.HasPrefix(string(call.Data), string(m.ID)) {
			out, ok := b.outputs[name]
			if !ok {
				return nil, errors.New("execution reverted")
			}
			return m.Outputs.Pack(out...)
		}
	}
	return nil, errors.New("unknown selector")
}

func (b *callBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{1}, nil
}

func (b *callBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(11155111), nil
}

func (b *callBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return b.balance, nil
}

func TestToBaseUnits(t *testing.T) {
	v, err := ToBaseUnits("1.5", 6)
	assert.NoError(t, err)
	assert.Equal(t, "1500000", v.String())

	v, err = ToBaseUnits("0.1", 18)
	assert.NoError(t, err)
	assert.Equal(t, "100000000000000000", v.String())

	// truncated
	v, err = ToBaseUnits("1.0000009", 6)
	assert.NoError(t, err)
	assert.Equal(t, "1000000", v.String())

	for _, bad := range []string{"", "abc", "0", "-1", "0.0000001"} {
		_, err = ToBaseUnits(bad, 6)
		assert.ErrorIs(t, err, schema.ErrInvalidAmount, bad)
	}

	assert.Equal(t, "1.5", FromBaseUnits(big.NewInt(1500000), 6))
}

func TestWallet(t *testing.T) {
	addr, err := WalletAddress(testKey)
	assert.NoError(t, err)
	assert.Equal(t, testAddr, addr)

	addr2, err := WalletAddress(strings.TrimPrefix(testKey, "0x"))
	assert.NoError(t, err)
	assert.Equal(t, addr, addr2)

	_, err = WalletAddress("0x1234")
	assert.ErrorIs(t, err, schema.ErrInvalidPrivateKey)
	_, err = ParsePrivateKey("zz")
	assert.ErrorIs(t, err, schema.ErrInvalidPrivateKey)

	newAddr, priv, err := GenerateWallet()
	assert.NoError(t, err)
	derived, err := WalletAddress(priv)
	assert.NoError(t, err)
	assert.Equal(t, newAddr, derived)
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress(testAddr)
	assert.NoError(t, err)
	assert.Equal(t, testAddr, FormatAddress(a))

	_, err = ParseAddress("0x123")
	assert.ErrorIs(t, err, schema.ErrInvalidAddress)
}

func TestRpcUrl(t *testing.T) {
	assert.Equal(t, "https://sepolia.infura.io/v3/key", RpcUrl("https://sepolia.infura.io/", "key"))
	assert.Equal(t, "http://127.0.0.1:8545", RpcUrl("http://127.0.0.1:8545", ""))
}

func TestSignerReads(t *testing.T) {
	backend := &callBackend{
		outputs: map[string][]interface{}{
			"decimals":  {uint8(6)},
			"balanceOf": {big.NewInt(2500000)},
		},
		balance: big.NewInt(1e18),
	}
	node, err := NewNode(context.Background(), backend)
	assert.NoError(t, err)
	assert.EqualValues(t, 11155111, node.ChainID().Int64())

	s, err := node.Signer(context.Background(), testKey)
	assert.NoError(t, err)
	assert.Equal(t, testAddr, FormatAddress(s.Address()))

	token := common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
	dec, err := s.Decimals(context.Background(), token)
	assert.NoError(t, err)
	assert.EqualValues(t, 6, dec)

	bal, err := s.TokenBalance(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "2.5", FromBaseUnits(bal, dec))

	native, err := s.Balance(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "1", FromBaseUnits(native, 18))

	_, err = s.Read(context.Background(), token, "allowance", s.Address(), s.Address())
	assert.ErrorIs(t, err, schema.ErrNetwork)

	_, err = s.Read(context.Background(), token, "mint")
	assert.ErrorIs(t, err, schema.ErrUnsupported)
}
