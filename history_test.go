package w3ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w3ledger/w3ledger/schema"
)

func TestGetHistory_Empty(t *testing.T) {
	r := NewReconstructor(newMemDA(), newMemIndex(), 0)
	records, err := r.GetHistory(context.Background(), testAddr)
	assert.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetHistory_OrderedAndFiltered(t *testing.T) {
	da, idx := newMemDA(), newMemIndex()
	ns, _ := DeriveNamespace(testAddr)
	otherNs, _ := DeriveNamespace("0x2e8f4a7b9c3d1e0f5a6b7c8d9e0f1a2b3c4d5e6f")

	r1 := mustRecord(t, schema.CryptoTransfer, map[string]int{"n": 1})
	r2 := mustRecord(t, schema.Swap, map[string]int{"n": 2})
	r3 := mustRecord(t, schema.FiatTransfer, map[string]int{"n": 3})
	foreign := mustRecord(t, schema.Swap, map[string]int{"n": 4})

	b := func(ns schema.NamespaceId, r schema.TransactionRecord) schema.Blob {
		blob, err := EncodeBlob(ns, r)
		assert.NoError(t, err)
		return blob
	}
	da.put(30, b(ns, r2), b(otherNs, foreign), b(ns, r3))
	da.put(10, b(ns, r1))
	da.put(20, b(otherNs, foreign))

	for _, h := range []uint64{30, 10, 20, 30} {
		assert.NoError(t, idx.RecordHeight(context.Background(), testAddr, h))
	}

	records, err := NewReconstructor(da, idx, 2).GetHistory(context.Background(), testAddr)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.True(t, r1.Equal(records[0]))
	assert.True(t, r2.Equal(records[1]))
	assert.True(t, r3.Equal(records[2]))
}

func TestGetHistory_AllOrNothing(t *testing.T) {
	da, idx := newMemDA(), newMemIndex()
	ns, _ := DeriveNamespace(testAddr)
	blob, err := EncodeBlob(ns, mustRecord(t, schema.Swap, "ok"))
	assert.NoError(t, err)
	da.put(1, blob)
	da.put(2, schema.Blob{Namespace: ns, Data: []byte("!!not-base64")})
	_ = idx.RecordHeight(context.Background(), testAddr, 1)
	_ = idx.RecordHeight(context.Background(), testAddr, 2)

	r := NewReconstructor(da, idx, 4)
	_, err = r.GetHistory(context.Background(), testAddr)
	assert.ErrorIs(t, err, schema.ErrHistoryFetchFailed)

	// fetch failure
	da2, idx2 := newMemDA(), newMemIndex()
	da2.put(1, blob)
	da2.failGet[3] = true
	_ = idx2.RecordHeight(context.Background(), testAddr, 1)
	_ = idx2.RecordHeight(context.Background(), testAddr, 3)
	_, err = NewReconstructor(da2, idx2, 4).GetHistory(context.Background(), testAddr)
	assert.ErrorIs(t, err, schema.ErrHistoryFetchFailed)
	assert.ErrorIs(t, err, schema.ErrNetwork)
}

func TestGetHistory_IndexUnavailable(t *testing.T) {
	idx := newMemIndex()
	idx.fail = true
	_, err := NewReconstructor(newMemDA(), idx, 1).GetHistory(context.Background(), testAddr)
	assert.ErrorIs(t, err, schema.ErrStorageUnavailable)
}

func TestGetHistory_BadAddress(t *testing.T) {
	_, err := NewReconstructor(newMemDA(), newMemIndex(), 1).GetHistory(context.Background(), "0x$$")
	assert.ErrorIs(t, err, schema.ErrInvalidAddressEncoding)
}
