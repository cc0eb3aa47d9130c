package w3ledger

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w3ledger/w3ledger/schema"
)

func mustRecord(t *testing.T, kind schema.TxKind, payload interface{}) schema.TransactionRecord {
	r, err := schema.NewTransactionRecord(kind, payload)
	assert.NoError(t, err)
	return r
}

func TestBlobRoundTrip(t *testing.T) {
	ns, err := DeriveNamespace(testAddr)
	assert.NoError(t, err)

	records := []schema.TransactionRecord{
		mustRecord(t, schema.Swap, map[string]interface{}{"transaction_hash": "0xabc", "amount_in": "1.5"}),
		mustRecord(t, schema.FiatTransfer, schema.FiatTransactionResponse{TransferId: "t-1", Status: "pending", Amount: "10.00"}),
		mustRecord(t, schema.CryptoTransfer, []int{1, 2, 3}),
		mustRecord(t, schema.CryptoTransfer, "plain string"),
	}
	for _, r := range records {
		blob, err := EncodeBlob(ns, r)
		assert.NoError(t, err)
		assert.Equal(t, ns, blob.Namespace)

		got, err := DecodeBlob(blob)
		assert.NoError(t, err)
		assert.True(t, r.Equal(got), "%s != %s", r.Data, got.Data)
	}
}

func TestEncodeBlob_Format(t *testing.T) {
	r := mustRecord(t, schema.CryptoTransfer, map[string]string{"a": "b"})
	blob, err := EncodeBlob(schema.NamespaceId{}, r)
	assert.NoError(t, err)

	js, err := base64.StdEncoding.DecodeString(string(blob.Data))
	assert.NoError(t, err)
	assert.Equal(t, `{"tx_type":"CryptoTransfer","data":{"a":"b"}}`, string(js))
}

func TestEncodeBlob_UnknownKind(t *testing.T) {
	_, err := EncodeBlob(schema.NamespaceId{}, schema.TransactionRecord{Kind: "Refund", Data: []byte(`{}`)})
	assert.ErrorIs(t, err, schema.ErrSerialization)
}

func TestDecodeBlob_Malformed(t *testing.T) {
	b64 := func(s string) []byte { return []byte(base64.StdEncoding.EncodeToString([]byte(s))) }

	cases := map[string][]byte{
		"not base64":    []byte("%%%not-base64%%%"),
		"not utf8":      {0xff, 0xfe, 0xfd},
		"decoded utf8":  []byte(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe})),
		"not json":      b64("hello"),
		"unknown kind":  b64(`{"tx_type":"Refund","data":{}}`),
		"missing data":  b64(`{"tx_type":"Swap"}`),
		"unknown field": b64(`{"tx_type":"Swap","data":{},"extra":1}`),
		"trailing":      b64(`{"tx_type":"Swap","data":{}} {}`),
	}
	for name, data := range cases {
		_, err := DecodeBlob(schema.Blob{Data: data})
		assert.ErrorIs(t, err, schema.ErrMalformedBlob, name)
		assert.ErrorIs(t, err, schema.ErrEncoding, name)
	}
}

func TestBlobRoundTrip_LiteralData(t *testing.T) {
	ns, err := DeriveNamespace(testAddr)
	assert.NoError(t, err)

	r := schema.TransactionRecord{Kind: schema.Swap, Data: []byte("{ \"amount\": \"1.5\",\n  \"pair\": [1, 2] }")}
	blob, err := EncodeBlob(ns, r)
	assert.NoError(t, err)
	got, err := DecodeBlob(blob)
	assert.NoError(t, err)
	assert.True(t, r.Equal(got), "%s != %s", r.Data, got.Data)

	other := schema.TransactionRecord{Kind: schema.Swap, Data: []byte(`{"amount":"2"}`)}
	assert.False(t, r.Equal(other))
}
