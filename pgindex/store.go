package pgindex

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

var log = common.NewLog("pgindex")

//go:embed sql/*.sql
var migrations embed.FS

const queryTimeout = 2 * time.Second

// Store records address to height index rows in the w3_transaction table.
type Store struct {
	pool *Pool
}

func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded migrations in file name order; they are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := migrations.ReadDir("sql")
	if err != nil {
		return err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.Name())
	}
	sort.Strings(files)
	for _, f := range files {
		by, err := migrations.ReadFile("sql/" + f)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(by)); err != nil {
			return fmt.Errorf("apply migration %s: %w", f, err)
		}
	}
	return nil
}

func (s *Store) RecordHeight(ctx context.Context, address string, height uint64) error {
	cctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.pool.Exec(cctx,
		`INSERT INTO w3_transaction (w3_height, w3_address) VALUES ($1, $2)`,
		strconv.FormatUint(height, 10), normalize(address))
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) LookupHeights(ctx context.Context, address string) ([]uint64, error) {
	cctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(cctx, `SELECT w3_height FROM w3_transaction WHERE w3_address = $1`, normalize(address))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrStorageUnavailable, err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrStorageUnavailable, err)
	}
	heights := make([]uint64, 0, len(raw))
	for _, r := range raw {
		h, err := strconv.ParseUint(r, 10, 64)
		if err != nil {
			log.Warn("skip unparsable height", "address", address, "w3Height", r, "err", err)
			continue
		}
		heights = append(heights, h)
	}
	return heights, nil
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
