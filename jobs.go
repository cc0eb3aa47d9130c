package w3ledger

import (
	"context"
	"time"

	"github.com/w3ledger/w3ledger/schema"
)

const reconcileTimeout = 10 * time.Second

func (w *W3Ledger) runJobs() {
	w.scheduler.Every(30).Seconds().SingletonMode().Do(w.reconcilePendingIndex)

	w.scheduler.StartAsync()
}

// reconcilePendingIndex retries the index writes of records already on the DA network.
func (w *W3Ledger) reconcilePendingIndex() {
	ps, err := w.store.LoadPendingIndexes()
	if err != nil {
		log.Error("w.store.LoadPendingIndexes()", "err", err)
		return
	}
	remain := 0
	for _, p := range ps {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		err := w.indexer.RecordHeight(ctx, p.Address, p.Height)
		cancel()
		if err != nil {
			remain++
			p.Retries++
			if err := w.store.SavePendingIndex(p); err != nil {
				log.Error("w.store.SavePendingIndex(p)", "err", err, "address", p.Address, "height", p.Height)
			}
			continue
		}
		if err := w.store.DelPendingIndex(p.Address, p.Height); err != nil {
			log.Error("w.store.DelPendingIndex(p.Address,p.Height)", "err", err, "address", p.Address, "height", p.Height)
		}
		metricRecorded(string(p.TxType))
		w.afterReconcile(p)
		log.Info("pending index reconciled", "address", p.Address, "height", p.Height, "retries", p.Retries)
	}
	metricPendingIndex(remain)
}

// afterReconcile emits the event and archive copy skipped when the index write first failed.
func (w *W3Ledger) afterReconcile(p schema.PendingIndex) {
	ns, err := DeriveNamespace(p.Address)
	if err != nil {
		log.Error("DeriveNamespace(p.Address)", "err", err, "address", p.Address)
		return
	}
	w.publish(context.Background(), p.Address, p.Height, p.TxType, ns)
	if len(p.Data) > 0 {
		w.archive(schema.Blob{Namespace: ns, Data: p.Data}, p.TxType, p.Height)
	}
}
