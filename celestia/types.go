package celestia

import (
	"errors"

	"github.com/w3ledger/w3ledger/schema"
)

const (
	NamespaceVersionZero = byte(0)
	// NamespaceSize is version byte plus 28 byte id.
	NamespaceSize = 29
	// v0 ids start with 18 zero bytes, the remaining 10 are user defined.
	namespaceZeroPrefix = 18
	namespaceIdSize     = 28

	ShareVersionZero = uint8(0)
)

var ErrNamespaceFormat = errors.New("invalid_v0_namespace")

// Blob is the node's wire form of a blob.
type Blob struct {
	Namespace    []byte `json:"namespace"`
	Data         []byte `json:"data"`
	ShareVersion uint8  `json:"share_version"`
	Commitment   []byte `json:"commitment,omitempty"`
	Index        int    `json:"index"`
}

// SubmitOptions leaves gas estimation and fees to the node.
type SubmitOptions struct {
	GasPrice      float64 `json:"gas_price,omitempty"`
	IsGasPriceSet bool    `json:"is_gas_price_set,omitempty"`
	Gas           uint64  `json:"gas,omitempty"`
	KeyName       string  `json:"key_name,omitempty"`
	SignerAddress string  `json:"signer_address,omitempty"`
}

// NamespaceV0 places the 8 byte ledger namespace at the tail of a version 0 namespace.
func NamespaceV0(id schema.NamespaceId) []byte {
	ns := make([]byte, NamespaceSize)
	ns[0] = NamespaceVersionZero
	copy(ns[NamespaceSize-schema.NamespaceSize:], id[:])
	return ns
}

// ParseNamespaceV0 is the inverse of NamespaceV0.
func ParseNamespaceV0(ns []byte) (schema.NamespaceId, error) {
	id := schema.NamespaceId{}
	if len(ns) != NamespaceSize || ns[0] != NamespaceVersionZero {
		return id, ErrNamespaceFormat
	}
	for _, b := range ns[1 : 1+namespaceZeroPrefix] {
		if b != 0 {
			return id, ErrNamespaceFormat
		}
	}
	copy(id[:], ns[NamespaceSize-schema.NamespaceSize:])
	return id, nil
}

func toWire(b schema.Blob) Blob {
	return Blob{
		Namespace:    NamespaceV0(b.Namespace),
		Data:         b.Data,
		ShareVersion: ShareVersionZero,
		Index:        -1,
	}
}

func fromWire(b Blob) (schema.Blob, error) {
	id, err := ParseNamespaceV0(b.Namespace)
	if err != nil {
		return schema.Blob{}, err
	}
	return schema.Blob{Namespace: id, Data: b.Data}, nil
}
