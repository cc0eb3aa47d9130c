package w3ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/w3ledger/w3ledger/schema"
)

const defaultHistoryWorkers = 8

// Reconstructor rebuilds an address's transaction history from the index and the DA network.
type Reconstructor struct {
	da      DAClient
	indexer Indexer
	workers int
}

func NewReconstructor(da DAClient, indexer Indexer, workers int) *Reconstructor {
	if workers <= 0 {
		workers = defaultHistoryWorkers
	}
	return &Reconstructor{da: da, indexer: indexer, workers: workers}
}

type heightResult struct {
	height  uint64
	records []schema.TransactionRecord
}

// GetHistory returns every record stored under address. Heights are fetched concurrently and the
// result is ordered by height, keeping the DA network's blob order within a height.
// The first fetch or decode failure aborts the whole call with ErrHistoryFetchFailed.
func (r *Reconstructor) GetHistory(ctx context.Context, address string) ([]schema.TransactionRecord, error) {
	address = NormalizeAddress(address)
	ns, err := DeriveNamespace(address)
	if err != nil {
		return nil, err
	}
	heights, err := r.indexer.LookupHeights(ctx, address)
	if err != nil {
		log.Error("r.indexer.LookupHeights(ctx,address)", "err", err, "address", address)
		return nil, err
	}
	heights = uniqueHeights(heights)
	if len(heights) == 0 {
		return []schema.TransactionRecord{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
		results  = make([]heightResult, 0, len(heights))
		wg       = sync.WaitGroup{}
	)
	p, err := ants.NewPoolWithFunc(r.workers, func(i interface{}) {
		defer wg.Done()
		height := i.(uint64)
		records, err := r.fetchHeight(ctx, height, ns)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
				cancel()
			}
			return
		}
		results = append(results, heightResult{height: height, records: records})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrHistoryFetchFailed, err)
	}
	defer p.Release()

	for _, h := range heights {
		wg.Add(1)
		if err := p.Invoke(h); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", schema.ErrHistoryFetchFailed, err)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		log.Error("fetch history failed", "err", firstErr, "address", address, "heights", len(heights))
		return nil, firstErr
	}

	sort.Slice(results, func(i, j int) bool { return results[i].height < results[j].height })
	records := make([]schema.TransactionRecord, 0, len(results))
	for _, res := range results {
		records = append(records, res.records...)
	}
	return records, nil
}

func (r *Reconstructor) fetchHeight(ctx context.Context, height uint64, ns schema.NamespaceId) ([]schema.TransactionRecord, error) {
	blobs, err := r.da.GetAll(ctx, height, []schema.NamespaceId{ns})
	if err != nil {
		return nil, fmt.Errorf("%w: height %d: %w", schema.ErrHistoryFetchFailed, height, err)
	}
	records := make([]schema.TransactionRecord, 0, len(blobs))
	for _, b := range blobs {
		// the node filters by namespace, this guards against a misbehaving one
		if b.Namespace != ns {
			continue
		}
		rec, err := DecodeBlob(b)
		if err != nil {
			return nil, fmt.Errorf("%w: height %d: %w", schema.ErrHistoryFetchFailed, height, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// uniqueHeights treats the index rows as a set, a retried index write may have left duplicates.
func uniqueHeights(heights []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(heights))
	res := make([]uint64, 0, len(heights))
	for _, h := range heights {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		res = append(res, h)
	}
	return res
}
