package w3ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/w3ledger/w3ledger/schema"
)

func TestSubmitter_Sequential(t *testing.T) {
	da := newMemDA()
	da.delay = 5 * time.Millisecond
	s := NewSubmitter(da, nil)

	const n = 20
	heights := make(chan uint64, n)
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := s.Submit(context.Background(), []schema.Blob{{Data: []byte("e30=")}})
			assert.NoError(t, err)
			heights <- h
		}()
	}
	wg.Wait()
	close(heights)

	assert.EqualValues(t, n, da.calls)
	assert.EqualValues(t, 1, da.maxSeen)

	seen := make(map[uint64]bool)
	for h := range heights {
		assert.False(t, seen[h])
		seen[h] = true
	}
	assert.Len(t, seen, n)
}

func TestSubmitter_SharedLocker(t *testing.T) {
	da := newMemDA()
	da.delay = 2 * time.Millisecond
	locker := &sync.Mutex{}
	a, b := NewSubmitter(da, locker), NewSubmitter(da, locker)

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); a.Submit(context.Background(), []schema.Blob{{}}) }()
		go func() { defer wg.Done(); b.Submit(context.Background(), []schema.Blob{{}}) }()
	}
	wg.Wait()
	assert.EqualValues(t, 20, da.calls)
	assert.EqualValues(t, 1, da.maxSeen)
}

func TestSubmitter_Failure(t *testing.T) {
	da := newMemDA()
	da.failSub = true
	s := NewSubmitter(da, nil)

	_, err := s.Submit(context.Background(), []schema.Blob{{}})
	assert.ErrorIs(t, err, schema.ErrSubmissionFailed)
	assert.ErrorIs(t, err, schema.ErrNetwork)

	// lock released after failure
	da.failSub = false
	h, err := s.Submit(context.Background(), []schema.Blob{{}})
	assert.NoError(t, err)
	assert.EqualValues(t, 101, h)

	_, err = s.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, schema.ErrSubmissionFailed)
}

func TestSubmitTransactionRecord(t *testing.T) {
	da := newMemDA()
	s := NewSubmitter(da, nil)
	r := mustRecord(t, schema.CryptoTransfer, map[string]string{"transaction_hash": "0x01"})

	h, err := s.SubmitTransactionRecord(context.Background(), testAddr, r)
	assert.NoError(t, err)

	ns, _ := DeriveNamespace(testAddr)
	blobs, err := da.GetAll(context.Background(), h, []schema.NamespaceId{ns})
	assert.NoError(t, err)
	assert.Len(t, blobs, 1)

	_, err = s.SubmitTransactionRecord(context.Background(), "0xAQIDBA==", r)
	assert.ErrorIs(t, err, schema.ErrAddressTooShort)
	assert.EqualValues(t, 1, da.calls)
}
