package schema

var (
	// bucket
	PendingIndexBucket = "pending-index-bucket" // key: address+"-"+height, val: json.marshal(PendingIndex)
)

// PendingIndex is a DA submission whose index write failed.
type PendingIndex struct {
	Address   string `json:"address"`
	Height    uint64 `json:"height"`
	TxType    TxKind `json:"txType"`
	Timestamp int64  `json:"timestamp"`
	Retries   int    `json:"retries"`
	Data      []byte `json:"data,omitempty"` // encoded blob, archived once the index write succeeds
}
