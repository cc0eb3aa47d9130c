package w3ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/w3ledger/w3ledger/schema"
)

const publishTimeout = 3 * time.Second

// IndexTransaction appends the (address, height) index row.
func (w *W3Ledger) IndexTransaction(ctx context.Context, address string, height uint64) error {
	if err := w.indexer.RecordHeight(ctx, NormalizeAddress(address), height); err != nil {
		log.Error("w.indexer.RecordHeight(ctx,address,height)", "err", err, "address", address, "height", height)
		return err
	}
	return nil
}

// RecordTransaction submits record under address and indexes its inclusion height.
// When the index write fails the pair is kept in the store for the reconcile job
// and the storage error is still returned.
func (w *W3Ledger) RecordTransaction(ctx context.Context, address string, record schema.TransactionRecord) (uint64, error) {
	address = NormalizeAddress(address)
	ns, err := DeriveNamespace(address)
	if err != nil {
		return 0, err
	}
	blob, err := EncodeBlob(ns, record)
	if err != nil {
		return 0, err
	}
	height, err := w.submitter.Submit(ctx, []schema.Blob{blob})
	if err != nil {
		return 0, err
	}

	if err := w.IndexTransaction(ctx, address, height); err != nil {
		p := schema.PendingIndex{
			Address:   address,
			Height:    height,
			TxType:    record.Kind,
			Timestamp: time.Now().Unix(),
			Data:      blob.Data,
		}
		if err := w.store.SavePendingIndex(p); err != nil {
			log.Error("w.store.SavePendingIndex(p)", "err", err, "address", address, "height", height)
		}
		return height, err
	}

	metricRecorded(string(record.Kind))
	w.publish(ctx, address, height, record.Kind, ns)
	w.archive(blob, record.Kind, height)
	return height, nil
}

func (w *W3Ledger) GetHistory(ctx context.Context, address string) ([]schema.TransactionRecord, error) {
	return w.history.GetHistory(ctx, address)
}

func (w *W3Ledger) publish(ctx context.Context, address string, height uint64, kind schema.TxKind, ns schema.NamespaceId) {
	if w.kWriter == nil {
		return
	}
	by, err := json.Marshal(schema.KafkaLedgerEvent{
		Address:   address,
		Height:    height,
		TxType:    kind,
		Namespace: ns.String(),
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Error("json.Marshal(event)", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := w.kWriter.Write(ctx, by); err != nil {
		log.Error("w.kWriter.Write(ctx,by)", "err", err, "address", address, "height", height)
	}
}

func (w *W3Ledger) archive(blob schema.Blob, kind schema.TxKind, height uint64) {
	if w.archiver == nil {
		return
	}
	itemId, err := w.archiver.Archive(blob, kind, height)
	if err != nil {
		log.Error("w.archiver.Archive(blob,kind,height)", "err", err, "namespace", blob.Namespace.String(), "height", height)
		return
	}
	log.Info("archived record", "itemId", itemId, "height", height)
}
