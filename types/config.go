package types

import "time"

// Config is a struct to hold the configuration data
type Config struct {
	Logging struct {
		OutputLevel  string `yaml:"outputLevel" envconfig:"LOGGING_OUTPUT_LEVEL"`
		OutputStderr bool   `yaml:"outputStderr" envconfig:"LOGGING_OUTPUT_STDERR"`

		FilePath  string `yaml:"filePath" envconfig:"LOGGING_FILE_PATH"`
		FileLevel string `yaml:"fileLevel" envconfig:"LOGGING_FILE_LEVEL"`
	} `yaml:"logging"`

	// Environment selects one of the embedded chain environments (omega, gamma, alpha, delta).
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	AlchemyApiKey string `yaml:"alchemyApiKey" envconfig:"ALCHEMY_API_KEY"`

	Base  ChainConfig `yaml:"base"`
	River ChainConfig `yaml:"river"`

	Prober ProberConfig `yaml:"prober"`

	Server struct {
		Port string `yaml:"port" envconfig:"SERVER_PORT"`
		Host string `yaml:"host" envconfig:"SERVER_HOST"`

		HttpReadTimeout  time.Duration `yaml:"httpReadTimeout" envconfig:"SERVER_HTTP_READ_TIMEOUT"`
		HttpWriteTimeout time.Duration `yaml:"httpWriteTimeout" envconfig:"SERVER_HTTP_WRITE_TIMEOUT"`
		HttpIdleTimeout  time.Duration `yaml:"httpIdleTimeout" envconfig:"SERVER_HTTP_IDLE_TIMEOUT"`
	} `yaml:"server"`

	Api struct {
		ReportCacheTtl   time.Duration `yaml:"reportCacheTtl" envconfig:"API_REPORT_CACHE_TTL"`
		LocalCacheSize   int           `yaml:"localCacheSize" envconfig:"API_LOCAL_CACHE_SIZE"`
		RedisCacheAddr   string        `yaml:"redisCacheAddr" envconfig:"API_REDIS_CACHE_ADDR"`
		RedisCachePrefix string        `yaml:"redisCachePrefix" envconfig:"API_REDIS_CACHE_PREFIX"`
		CorsOrigins      []string      `yaml:"corsOrigins" envconfig:"API_CORS_ORIGINS"`
	} `yaml:"api"`

	RateLimit struct {
		Enabled    bool `yaml:"enabled" envconfig:"RATELIMIT_ENABLED"`
		ProxyCount uint `yaml:"proxyCount" envconfig:"RATELIMIT_PROXY_COUNT"`
		Rate       uint `yaml:"rate" envconfig:"RATELIMIT_RATE"`
		Burst      uint `yaml:"burst" envconfig:"RATELIMIT_BURST"`
	} `yaml:"rateLimit"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
		Public  bool   `yaml:"public" envconfig:"METRICS_PUBLIC"`
		Host    string `yaml:"host" envconfig:"METRICS_HOST"`
		Port    string `yaml:"port" envconfig:"METRICS_PORT"`
	} `yaml:"metrics"`

	ReportStore S3StoreConfig `yaml:"reportStore"`
}

// ChainConfig describes one of the two chains the tools read from.
// Base carries the staking contracts, River carries the node registry.
type ChainConfig struct {
	ChainId   uint64            `yaml:"chainId"`
	RpcUrl    string            `yaml:"rpcUrl"`
	Headers   map[string]string `yaml:"headers"`
	Registry  string            `yaml:"registry"`
	ChainName string            `yaml:"chainName"`
}

type ProberConfig struct {
	Timeout    time.Duration `yaml:"timeout" envconfig:"PROBER_TIMEOUT"`
	StatusPath string        `yaml:"statusPath" envconfig:"PROBER_STATUS_PATH"`
	NodeUrls   []string      `yaml:"nodeUrls" envconfig:"PROBER_NODE_URLS"`
}

type S3StoreConfig struct {
	Endpoint   string `yaml:"endpoint" envconfig:"REPORTSTORE_S3_ENDPOINT"`
	Secure     bool   `yaml:"secure" envconfig:"REPORTSTORE_S3_SECURE"`
	Bucket     string `yaml:"bucket" envconfig:"REPORTSTORE_S3_BUCKET"`
	Region     string `yaml:"region" envconfig:"REPORTSTORE_S3_REGION"`
	AccessKey  string `yaml:"accessKey" envconfig:"REPORTSTORE_S3_ACCESS_KEY"`
	SecretKey  string `yaml:"secretKey" envconfig:"REPORTSTORE_S3_SECRET_KEY"`
	PathPrefix string `yaml:"pathPrefix" envconfig:"REPORTSTORE_S3_PATH_PREFIX"`
}

// EnvironmentConfig is one entry of the embedded environments file.
type EnvironmentConfig struct {
	Base  ChainConfig `yaml:"base"`
	River ChainConfig `yaml:"river"`
}
