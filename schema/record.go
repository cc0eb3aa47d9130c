package schema

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const NamespaceSize = 8

type TxKind string

const (
	Swap           TxKind = "Swap"
	FiatTransfer   TxKind = "FiatTransfer"
	CryptoTransfer TxKind = "CryptoTransfer"
)

func ParseTxKind(s string) (TxKind, error) {
	switch k := TxKind(s); k {
	case Swap, FiatTransfer, CryptoTransfer:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown tx_type %q", ErrValidation, s)
}

func (k TxKind) Valid() bool {
	_, err := ParseTxKind(string(k))
	return err == nil
}

// TransactionRecord is the audit unit written to the DA network.
// Data is kept as compact JSON so a record survives an encode/decode cycle byte for byte.
type TransactionRecord struct {
	Kind TxKind          `json:"tx_type"`
	Data json.RawMessage `json:"data"`
}

// NewTransactionRecord serializes payload once; the record is not meant to be mutated afterwards.
func NewTransactionRecord(kind TxKind, payload interface{}) (TransactionRecord, error) {
	if !kind.Valid() {
		return TransactionRecord{}, fmt.Errorf("%w: unknown tx_type %q", ErrValidation, kind)
	}
	by, err := json.Marshal(payload)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return TransactionRecord{Kind: kind, Data: by}, nil
}

// Equal ignores insignificant whitespace in Data.
func (r TransactionRecord) Equal(o TransactionRecord) bool {
	return r.Kind == o.Kind && bytes.Equal(compactJSON(r.Data), compactJSON(o.Data))
}

func compactJSON(by json.RawMessage) []byte {
	buf := bytes.Buffer{}
	if err := json.Compact(&buf, by); err != nil {
		return by
	}
	return buf.Bytes()
}

// Unmarshal decodes the payload into v.
func (r TransactionRecord) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.Data, v)
}

type NamespaceId [NamespaceSize]byte

func (n NamespaceId) String() string {
	return hex.EncodeToString(n[:])
}

// Blob is the DA network's unit of storage, Data is the encoded record.
type Blob struct {
	Namespace NamespaceId
	Data      []byte
}
