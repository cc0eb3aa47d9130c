package w3ledger

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TransactionTopic = "w3ledger_transaction"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(ctx context.Context, body []byte) error {
	err := kw.w.WriteMessages(
		ctx,
		kafka.Message{
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}
