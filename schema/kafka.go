package schema

type KafkaLedgerEvent struct {
	Address   string `json:"address"`
	Height    uint64 `json:"height"`
	TxType    TxKind `json:"txType"`
	Namespace string `json:"namespace"` // hex
	Timestamp int64  `json:"timestamp"`
}
