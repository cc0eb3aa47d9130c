package rawdb

import (
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

var log = common.NewLog("rawdb")

// Buckets are created by every backend on open.
var Buckets = []string{
	schema.PendingIndexBucket,
}

// KeyValueDB is the bucketed byte store behind the gateway's local state.
// Get returns schema.ErrNotExist for a missing key.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}
