package w3ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w3ledger/w3ledger/schema"
)

func newTestStore(t *testing.T) *Store {
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPendingIndex(t *testing.T) {
	s := newTestStore(t)

	p1 := schema.PendingIndex{Address: testAddr, Height: 10, TxType: schema.Swap, Timestamp: 1700000000}
	p2 := schema.PendingIndex{Address: testAddr, Height: 11, TxType: schema.CryptoTransfer, Timestamp: 1700000001}
	assert.NoError(t, s.SavePendingIndex(p1))
	assert.NoError(t, s.SavePendingIndex(p2))
	assert.True(t, s.IsExistPendingIndex(testAddr, 10))

	ps, err := s.LoadPendingIndexes()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []schema.PendingIndex{p1, p2}, ps)

	// update retries in place
	p1.Retries = 3
	assert.NoError(t, s.SavePendingIndex(p1))
	ps, err = s.LoadPendingIndexes()
	assert.NoError(t, err)
	assert.Len(t, ps, 2)

	assert.NoError(t, s.DelPendingIndex(testAddr, 10))
	assert.False(t, s.IsExistPendingIndex(testAddr, 10))
	ps, err = s.LoadPendingIndexes()
	assert.NoError(t, err)
	assert.Equal(t, []schema.PendingIndex{p2}, ps)
}
