package w3ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/w3ledger/w3ledger/rawdb"
	"github.com/w3ledger/w3ledger/schema"
)

// Store keeps local gateway state, today the submissions whose index write is still owed.
type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	Db, err := rawdb.NewBoltDB(boltDirPath)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewS3Store(accKey, secretKey, region, bucketPrefix, endpoint string) (*Store, error) {
	Db, err := rawdb.NewS3DB(accKey, secretKey, region, bucketPrefix, endpoint)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewAliyunStore(endpoint, accKey, secretKey, bucketPrefix string) (*Store, error) {
	Db, err := rawdb.NewAliyunDB(endpoint, accKey, secretKey, bucketPrefix)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func NewMongoStore(uri string) (*Store, error) {
	Db, err := rawdb.NewMongoDB(context.Background(), uri)
	if err != nil {
		return nil, err
	}
	return &Store{KVDb: Db}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

func pendingIndexKey(address string, height uint64) string {
	return fmt.Sprintf("%s-%d", address, height)
}

func (s *Store) SavePendingIndex(p schema.PendingIndex) error {
	val, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.KVDb.Put(schema.PendingIndexBucket, pendingIndexKey(p.Address, p.Height), val)
}

func (s *Store) LoadPendingIndexes() ([]schema.PendingIndex, error) {
	keys, err := s.KVDb.GetAllKey(schema.PendingIndexBucket)
	if err != nil {
		return nil, err
	}
	res := make([]schema.PendingIndex, 0, len(keys))
	for _, key := range keys {
		val, err := s.KVDb.Get(schema.PendingIndexBucket, key)
		if err != nil {
			// deleted concurrently
			if err == schema.ErrNotExist {
				continue
			}
			return nil, err
		}
		p := schema.PendingIndex{}
		if err := json.Unmarshal(val, &p); err != nil {
			log.Error("json.Unmarshal(val,&p)", "err", err, "key", key)
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

func (s *Store) DelPendingIndex(address string, height uint64) error {
	return s.KVDb.Delete(schema.PendingIndexBucket, pendingIndexKey(address, height))
}

func (s *Store) IsExistPendingIndex(address string, height uint64) bool {
	return s.KVDb.Exist(schema.PendingIndexBucket, pendingIndexKey(address, height))
}
