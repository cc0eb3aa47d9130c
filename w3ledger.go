package w3ledger

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/w3ledger/w3ledger/arweave"
	"github.com/w3ledger/w3ledger/celestia"
	"github.com/w3ledger/w3ledger/chain"
	"github.com/w3ledger/w3ledger/circle"
	w3common "github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/config"
	"github.com/w3ledger/w3ledger/dex"
	"github.com/w3ledger/w3ledger/pgindex"
	"github.com/w3ledger/w3ledger/schema"
)

var log = w3common.NewLog("w3ledger")

// PaymentProvider pays fiat out to a blockchain address. *circle.Client implements it.
type PaymentProvider interface {
	Transfer(amount, chain, destination string) (*circle.Receipt, error)
}

// ChainSigner is a chain client bound to one private key.
type ChainSigner interface {
	dex.ChainClient
	Balance(ctx context.Context) (*big.Int, error)
	TokenBalance(ctx context.Context, token common.Address) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}

type SignerFactory interface {
	Signer(ctx context.Context, privHex string) (ChainSigner, error)
}

// EventWriter publishes ledger events. *KWriter implements it.
type EventWriter interface {
	Write(ctx context.Context, body []byte) error
}

// RecordArchiver mirrors recorded blobs elsewhere. *arweave.Archiver implements it.
type RecordArchiver interface {
	Archive(blob schema.Blob, kind schema.TxKind, height uint64) (string, error)
}

type W3Ledger struct {
	submitter *Submitter
	indexer   Indexer
	history   *Reconstructor
	store     *Store

	dex     *dex.Engine
	signers SignerFactory
	payment PaymentProvider

	kWriter  EventWriter
	archiver RecordArchiver

	config    *config.Config
	engine    *gin.Engine
	scheduler *gocron.Scheduler
	closers   []func()
}

// newLedger wires the ledger pipeline; the remaining providers are optional.
func newLedger(da DAClient, indexer Indexer, store *Store, historyWorkers int) *W3Ledger {
	return &W3Ledger{
		submitter: NewSubmitter(da, &sync.Mutex{}),
		indexer:   indexer,
		history:   NewReconstructor(da, indexer, historyWorkers),
		store:     store,
		engine:    gin.Default(),
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

func New(cfg schema.Config) *W3Ledger {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := newStore(cfg.KV)
	if err != nil {
		panic(err)
	}

	da, err := celestia.New(ctx, cfg.CelestiaRpc, cfg.CelestiaAuthToken, cfg.CelestiaMinHeight)
	if err != nil {
		panic(err)
	}

	var (
		indexer Indexer
		params  dex.Params = dex.DefaultParams()
		cf      *config.Config
		closers = []func(){da.Close, func() { store.Close() }}
	)
	switch cfg.DbType {
	case "postgres":
		pool, err := pgindex.NewPool(ctx, cfg.Postgres)
		if err != nil {
			panic(err)
		}
		pg := pgindex.NewStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			panic(err)
		}
		indexer = pg
		closers = append(closers, pool.Close)
	default:
		var wdb *Wdb
		if cfg.DbType == "sqlite" {
			wdb = NewSqliteDb(cfg.SqliteDir)
		} else {
			wdb = NewMysqlDb(cfg.Mysql)
		}
		if err := wdb.Migrate(); err != nil {
			panic(err)
		}
		cf = config.New(wdb.Db)
		indexer, params = wdb, cf
		closers = append(closers, cf.Close, wdb.Close)
	}

	node, err := chain.Dial(ctx, chain.RpcUrl(cfg.InfuraBaseUrl, cfg.InfuraApiKey))
	if err != nil {
		panic(err)
	}
	router, err := chain.ParseAddress(cfg.RouterAddress)
	if err != nil {
		panic(err)
	}

	w := newLedger(da, indexer, store, cfg.HistoryWorkers)
	w.config = cf
	w.dex = dex.NewEngine(dex.NewRegistry(cfg.Tokens), router, params)
	w.signers = nodeSigners{node: node}
	w.payment = circle.New(cfg.CircleBaseUrl, cfg.CircleApiKey)

	if cfg.Kafka.Start {
		kw, err := NewKWriter(TransactionTopic, cfg.Kafka.Uri)
		if err != nil {
			panic(err)
		}
		w.kWriter = kw
		closers = append(closers, kw.Close)
	}
	if cfg.ArchiveKey != "" && cfg.ArseedUrl != "" {
		archiver, err := arweave.New(cfg.ArchiveKey, cfg.ArseedUrl, 0)
		if err != nil {
			panic(err)
		}
		w.archiver = archiver
	}
	w.closers = closers
	return w
}

func newStore(kv schema.KV) (*Store, error) {
	switch {
	case kv.UseS3:
		return NewS3Store(kv.S3AccKey, kv.S3SecretKey, kv.S3Region, kv.S3Prefix, kv.S3Endpoint)
	case kv.UseAliyun:
		return NewAliyunStore(kv.AliyunEndpoint, kv.AliyunAccKey, kv.AliyunSecretKey, kv.AliyunPrefix)
	case kv.UseMongoDB:
		return NewMongoStore(kv.MongoUri)
	default:
		return NewBoltStore(kv.BoltDir)
	}
}

func (w *W3Ledger) Run(port string) {
	if w.config != nil {
		w.config.Run()
	}
	go w.runAPI(port)
	go w.runJobs()
}

func (w *W3Ledger) Close() {
	w.scheduler.Stop()
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

type nodeSigners struct {
	node *chain.Node
}

func (n nodeSigners) Signer(ctx context.Context, privHex string) (ChainSigner, error) {
	s, err := n.node.Signer(ctx, privHex)
	if err != nil {
		return nil, err
	}
	return s, nil
}
