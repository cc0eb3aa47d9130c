package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/w3ledger/w3ledger"
	"github.com/w3ledger/w3ledger/celestia"
	"github.com/w3ledger/w3ledger/circle"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, relying on environment variables")
	}

	app := &cli.App{
		Name: "w3ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "metric_port", Value: ":9000", EnvVars: []string{"METRIC_PORT"}},
			&cli.StringFlag{Name: "sentry_dsn", Usage: "errors are reported to sentry when set", EnvVars: []string{"SENTRY_DSN"}},

			// index
			&cli.StringFlag{Name: "db_type", Value: "postgres", Usage: "postgres, mysql or sqlite", EnvVars: []string{"DB_TYPE"}},
			&cli.StringFlag{Name: "database_url", Usage: "postgres dsn", EnvVars: []string{"DATABASE_URL"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/w3ledger?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},

			// da network
			&cli.StringFlag{Name: "celestia_rpc_url", Value: "ws://127.0.0.1:26658", EnvVars: []string{"CELESTIA_RPC_URL"}},
			&cli.StringFlag{Name: "celestia_auth_token", EnvVars: []string{"CELESTIA_AUTH_TOKEN"}},
			&cli.Uint64Flag{Name: "celestia_min_height", Value: celestia.DefaultMinHeight, Usage: "wait for this height before serving", EnvVars: []string{"CELESTIA_MIN_HEIGHT"}},
			&cli.IntFlag{Name: "history_workers", Value: 8, EnvVars: []string{"HISTORY_WORKERS"}},

			// chain
			&cli.StringFlag{Name: "infura_base_url", Value: "https://sepolia.infura.io", EnvVars: []string{"INFURA_BASE_URL"}},
			&cli.StringFlag{Name: "infura_api_key", EnvVars: []string{"INFURA_API_KEY"}},
			&cli.StringFlag{Name: "contract_weth", EnvVars: []string{"CONTRACT_WETH"}},
			&cli.StringFlag{Name: "contract_usdc", EnvVars: []string{"CONTRACT_USDC"}},
			&cli.StringFlag{Name: "contract_link", EnvVars: []string{"CONTRACT_LINK"}},
			&cli.StringFlag{Name: "router_address", Usage: "uniswap v2 router", EnvVars: []string{"ROUTER_ADDRESS"}},

			// fiat
			&cli.StringFlag{Name: "circle_base_url", Value: circle.DefaultBaseUrl, EnvVars: []string{"CIRCLE_MINT_BASE_URL"}},
			&cli.StringFlag{Name: "circle_api_key", EnvVars: []string{"CIRCLE_MINT_API_KEY"}},

			// pending index store
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.BoolFlag{Name: "use_s3", Value: false, Usage: "run with s3 store", EnvVars: []string{"USE_S3"}},
			&cli.StringFlag{Name: "s3_acc_key", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "w3ledger", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Usage: "s3 compatible endpoint", EnvVars: []string{"S3_ENDPOINT"}},
			&cli.BoolFlag{Name: "use_aliyun", Value: false, Usage: "run with aliyun oss store", EnvVars: []string{"USE_ALIYUN"}},
			&cli.StringFlag{Name: "aliyun_endpoint", EnvVars: []string{"ALIYUN_ENDPOINT"}},
			&cli.StringFlag{Name: "aliyun_acc_key", EnvVars: []string{"ALIYUN_ACC_KEY"}},
			&cli.StringFlag{Name: "aliyun_secret_key", EnvVars: []string{"ALIYUN_SECRET_KEY"}},
			&cli.StringFlag{Name: "aliyun_prefix", Value: "w3ledger", EnvVars: []string{"ALIYUN_PREFIX"}},
			&cli.BoolFlag{Name: "use_mongodb", Value: false, Usage: "run with mongodb store", EnvVars: []string{"USE_MONGODB"}},
			&cli.StringFlag{Name: "mongodb_uri", Value: "mongodb://127.0.0.1:27017", EnvVars: []string{"MONGODB_URI"}},

			// events & archive
			&cli.BoolFlag{Name: "kafka", Value: false, Usage: "publish recorded transactions to kafka", EnvVars: []string{"KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "127.0.0.1:9092", EnvVars: []string{"KAFKA_URI"}},
			&cli.StringFlag{Name: "archive_key", Usage: "eth private key signing archive items, empty disables the archive", EnvVars: []string{"ARCHIVE_KEY"}},
			&cli.StringFlag{Name: "arseed_url", Value: "https://arseed.web3infra.dev", EnvVars: []string{"ARSEED_URL"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	if err := common.InitSentry(c.String("sentry_dsn"), "w3ledger"); err != nil {
		return err
	}
	common.NewMetricServer(c.String("metric_port"))

	s := w3ledger.New(schema.Config{
		Port:      c.String("port"),
		DbType:    c.String("db_type"),
		Mysql:     c.String("mysql"),
		SqliteDir: c.String("sqlite_dir"),
		Postgres:  c.String("database_url"),

		CelestiaRpc:       c.String("celestia_rpc_url"),
		CelestiaAuthToken: c.String("celestia_auth_token"),
		CelestiaMinHeight: c.Uint64("celestia_min_height"),

		InfuraBaseUrl: c.String("infura_base_url"),
		InfuraApiKey:  c.String("infura_api_key"),
		Tokens: schema.TokenAddrs{
			WETH: c.String("contract_weth"),
			USDC: c.String("contract_usdc"),
			LINK: c.String("contract_link"),
		},
		RouterAddress: c.String("router_address"),

		CircleBaseUrl: c.String("circle_base_url"),
		CircleApiKey:  c.String("circle_api_key"),

		HistoryWorkers: c.Int("history_workers"),

		KV: schema.KV{
			BoltDir:         c.String("db_dir"),
			UseS3:           c.Bool("use_s3"),
			S3AccKey:        c.String("s3_acc_key"),
			S3SecretKey:     c.String("s3_secret_key"),
			S3Prefix:        c.String("s3_prefix"),
			S3Region:        c.String("s3_region"),
			S3Endpoint:      c.String("s3_endpoint"),
			UseAliyun:       c.Bool("use_aliyun"),
			AliyunEndpoint:  c.String("aliyun_endpoint"),
			AliyunAccKey:    c.String("aliyun_acc_key"),
			AliyunSecretKey: c.String("aliyun_secret_key"),
			AliyunPrefix:    c.String("aliyun_prefix"),
			UseMongoDB:      c.Bool("use_mongodb"),
			MongoUri:        c.String("mongodb_uri"),
		},
		Kafka: schema.Kafka{
			Start: c.Bool("kafka"),
			Uri:   c.String("kafka_uri"),
		},

		ArchiveKey: c.String("archive_key"),
		ArseedUrl:  c.String("arseed_url"),
	})
	s.Run(c.String("port"))

	<-signals

	s.Close()
	return nil
}
