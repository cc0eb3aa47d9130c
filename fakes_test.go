package w3ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/w3ledger/w3ledger/schema"
)

// memDA keeps blobs in memory and counts overlapping Submit calls.
type memDA struct {
	mu      sync.Mutex
	height  uint64
	blobs   map[uint64][]schema.Blob
	delay   time.Duration
	failGet map[uint64]bool
	failSub bool

	calls    int32
	inFlight int32
	maxSeen  int32
}

func newMemDA() *memDA {
	return &memDA{height: 100, blobs: make(map[uint64][]schema.Blob), failGet: make(map[uint64]bool)}
}

func (m *memDA) Submit(_ context.Context, blobs []schema.Blob) (uint64, error) {
	atomic.AddInt32(&m.calls, 1)
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&m.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&m.maxSeen, seen, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.failSub {
		return 0, errors.New("node unreachable")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.height++
	m.blobs[m.height] = append(m.blobs[m.height], blobs...)
	return m.height, nil
}

func (m *memDA) GetAll(_ context.Context, height uint64, namespaces []schema.NamespaceId) ([]schema.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet[height] {
		return nil, errors.New("header not found")
	}
	res := make([]schema.Blob, 0)
	for _, b := range m.blobs[height] {
		for _, ns := range namespaces {
			if b.Namespace == ns {
				res = append(res, b)
				break
			}
		}
	}
	return res, nil
}

// put stores raw blobs at a fixed height.
func (m *memDA) put(height uint64, blobs ...schema.Blob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[height] = append(m.blobs[height], blobs...)
}

// memIndex is an in-memory Indexer.
type memIndex struct {
	mu   sync.Mutex
	rows map[string][]uint64
	fail bool
}

func newMemIndex() *memIndex {
	return &memIndex{rows: make(map[string][]uint64)}
}

func (m *memIndex) RecordHeight(_ context.Context, address string, height uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return schema.ErrStorageUnavailable
	}
	m.rows[address] = append(m.rows[address], height)
	return nil
}

func (m *memIndex) LookupHeights(_ context.Context, address string) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, schema.ErrStorageUnavailable
	}
	return append([]uint64{}, m.rows[address]...), nil
}
