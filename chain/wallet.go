package chain

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/goether"
	"github.com/w3ledger/w3ledger/schema"
)

func trimHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

func ParsePrivateKey(privHex string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(trimHexPrefix(privHex))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidPrivateKey, err)
	}
	return key, nil
}

func ParseAddress(addr string) (common.Address, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: %q", schema.ErrInvalidAddress, addr)
	}
	return common.HexToAddress(addr), nil
}

// FormatAddress is the lower case 0x form addresses are recorded under.
func FormatAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

func keyAddress(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// WalletAddress derives the address of a private key.
func WalletAddress(privHex string) (string, error) {
	signer, err := goether.NewSigner(trimHexPrefix(privHex))
	if err != nil {
		return "", fmt.Errorf("%w: %v", schema.ErrInvalidPrivateKey, err)
	}
	return FormatAddress(signer.Address), nil
}

// GenerateWallet creates a fresh key pair; nothing is persisted.
func GenerateWallet() (address, privHex string, err error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", "", err
	}
	return FormatAddress(keyAddress(key)), "0x" + hex.EncodeToString(crypto.FromECDSA(key)), nil
}
