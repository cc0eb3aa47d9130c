package w3ledger

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/w3ledger/w3ledger/schema"
)

// EncodeBlob serializes record as JSON, base64s the text and tags it with ns.
func EncodeBlob(ns schema.NamespaceId, record schema.TransactionRecord) (schema.Blob, error) {
	if !record.Kind.Valid() {
		return schema.Blob{}, fmt.Errorf("%w: unknown tx_type %q", schema.ErrSerialization, record.Kind)
	}
	js, err := json.Marshal(record)
	if err != nil {
		return schema.Blob{}, fmt.Errorf("%w: %v", schema.ErrSerialization, err)
	}
	data := make([]byte, base64.StdEncoding.EncodedLen(len(js)))
	base64.StdEncoding.Encode(data, js)
	return schema.Blob{Namespace: ns, Data: data}, nil
}

// DecodeBlob reverses EncodeBlob. Every failure is reported as ErrMalformedBlob.
func DecodeBlob(blob schema.Blob) (schema.TransactionRecord, error) {
	record := schema.TransactionRecord{}
	if !utf8.Valid(blob.Data) {
		return record, fmt.Errorf("%w: blob data is not utf-8", schema.ErrMalformedBlob)
	}
	js, err := base64.StdEncoding.DecodeString(string(blob.Data))
	if err != nil {
		return record, fmt.Errorf("%w: %v", schema.ErrMalformedBlob, err)
	}
	if !utf8.Valid(js) {
		return record, fmt.Errorf("%w: decoded payload is not utf-8", schema.ErrMalformedBlob)
	}

	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		return record, fmt.Errorf("%w: %v", schema.ErrMalformedBlob, err)
	}
	if dec.More() {
		return record, fmt.Errorf("%w: trailing data", schema.ErrMalformedBlob)
	}
	if !record.Kind.Valid() {
		return record, fmt.Errorf("%w: unknown tx_type %q", schema.ErrMalformedBlob, record.Kind)
	}
	if len(record.Data) == 0 {
		return record, fmt.Errorf("%w: %v", schema.ErrMalformedBlob, errors.New("missing data"))
	}
	return record, nil
}
