package w3ledger

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/w3ledger/w3ledger/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	sqliteName = "w3ledger.db"
)

// Indexer associates addresses with the DA heights their records were included at.
// Rows are append-only: RecordHeight never updates or deduplicates.
type Indexer interface {
	RecordHeight(ctx context.Context, address string, height uint64) error
	LookupHeights(ctx context.Context, address string) ([]uint64, error)
}

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.W3Transaction{})
}

func (w *Wdb) RecordHeight(ctx context.Context, address string, height uint64) error {
	row := schema.W3Transaction{
		W3Height:  strconv.FormatUint(height, 10),
		W3Address: NormalizeAddress(address),
	}
	if err := w.Db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", schema.ErrStorageUnavailable, err)
	}
	return nil
}

func (w *Wdb) LookupHeights(ctx context.Context, address string) ([]uint64, error) {
	rows := make([]schema.W3Transaction, 0, 10)
	err := w.Db.WithContext(ctx).Where("w3_address = ?", NormalizeAddress(address)).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrStorageUnavailable, err)
	}
	heights := make([]uint64, 0, len(rows))
	for _, r := range rows {
		h, err := strconv.ParseUint(r.W3Height, 10, 64)
		if err != nil {
			log.Warn("skip unparsable height", "address", r.W3Address, "w3Height", r.W3Height, "err", err)
			continue
		}
		heights = append(heights, h)
	}
	return heights, nil
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
