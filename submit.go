package w3ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/w3ledger/w3ledger/schema"
)

// DAClient is the data-availability network as seen by the ledger.
// GetAll returns no blobs and no error when nothing under the namespaces exists at height.
type DAClient interface {
	Submit(ctx context.Context, blobs []schema.Blob) (uint64, error)
	GetAll(ctx context.Context, height uint64, namespaces []schema.NamespaceId) ([]schema.Blob, error)
}

// Submitter sends blobs to the DA network one batch at a time.
// All submissions sharing a locker are sequential, whichever request started them.
type Submitter struct {
	da     DAClient
	locker sync.Locker
}

// NewSubmitter uses locker as the submission guard; a nil locker gives the Submitter its own mutex.
func NewSubmitter(da DAClient, locker sync.Locker) *Submitter {
	if locker == nil {
		locker = &sync.Mutex{}
	}
	return &Submitter{da: da, locker: locker}
}

// Submit returns the inclusion height of blobs. Failures are not retried.
func (s *Submitter) Submit(ctx context.Context, blobs []schema.Blob) (uint64, error) {
	if len(blobs) == 0 {
		return 0, fmt.Errorf("%w: %v", schema.ErrSubmissionFailed, errors.New("no blobs"))
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	start := time.Now()
	height, err := s.da.Submit(ctx, blobs)
	metricSubmit(time.Since(start), err)
	if err != nil {
		log.Error("s.da.Submit(ctx,blobs)", "err", err, "blobs", len(blobs))
		return 0, fmt.Errorf("%w: %v", schema.ErrSubmissionFailed, err)
	}
	return height, nil
}

// SubmitTransactionRecord encodes record under the namespace of address and submits it.
func (s *Submitter) SubmitTransactionRecord(ctx context.Context, address string, record schema.TransactionRecord) (uint64, error) {
	ns, err := DeriveNamespace(NormalizeAddress(address))
	if err != nil {
		return 0, err
	}
	blob, err := EncodeBlob(ns, record)
	if err != nil {
		return 0, err
	}
	return s.Submit(ctx, []schema.Blob{blob})
}
