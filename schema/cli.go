package schema

type Config struct {
	Port      string
	DbType    string // "mysql", "sqlite" or "postgres"
	Mysql     string
	SqliteDir string
	Postgres  string

	CelestiaRpc       string
	CelestiaAuthToken string
	CelestiaMinHeight uint64

	InfuraBaseUrl string
	InfuraApiKey  string
	Tokens        TokenAddrs
	RouterAddress string

	CircleBaseUrl string
	CircleApiKey  string

	HistoryWorkers int

	KV    KV
	Kafka Kafka

	ArchiveKey string // eth private key hex, empty disables the arweave archive
	ArseedUrl  string
}

type TokenAddrs struct {
	WETH string
	USDC string
	LINK string
}

type KV struct {
	BoltDir string

	UseS3       bool
	S3AccKey    string
	S3SecretKey string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string

	UseAliyun       bool
	AliyunEndpoint  string
	AliyunAccKey    string
	AliyunSecretKey string
	AliyunPrefix    string

	UseMongoDB bool
	MongoUri   string
}

type Kafka struct {
	Start bool
	Uri   string
}
