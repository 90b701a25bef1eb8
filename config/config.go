package config

import (
	"botleague/pkg/cache"
	"botleague/pkg/s3client"
	"botleague/pkg/types"
	"botleague/pkg/utils"
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Trading   TradingConfig   `yaml:"trading"`
	PriceFeed PriceFeedConfig `yaml:"priceFeed"`
	Pyth      PythConfig      `yaml:"pyth"`
	Cache     cache.Config    `yaml:"cache"`
	Ai        AiConfig        `yaml:"ai"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // empty picks by environment
	File  string `yaml:"file"`  // optional, rotated
}

type TradingConfig struct {
	LiveMode           bool   `yaml:"liveMode"`
	Testnet            bool   `yaml:"testnet"`
	EnvPrefix          string `yaml:"envPrefix"` // private key is read from <envPrefix>_PRIVATE_KEY
	FillDelayMs        int    `yaml:"fillDelayMs"`
	RefreshIntervalMs  int    `yaml:"refreshIntervalMs"`
	ApiUrl             string `yaml:"apiUrl"`
	WsUrl              string `yaml:"wsUrl"`
	StreamOrderUpdates bool   `yaml:"streamOrderUpdates"`
}

type PriceFeedConfig struct {
	IntervalMs         int    `yaml:"intervalMs"`
	RateLimitBackoffMs int    `yaml:"rateLimitBackoffMs"`
	CacheTtlMs         int    `yaml:"cacheTtlMs"`
	HistorySize        int    `yaml:"historySize"`
	CoingeckoUrl       string `yaml:"coingeckoUrl"`
}

type PythConfig struct {
	IntervalMs     int    `yaml:"intervalMs"`
	HermesUrl      string `yaml:"hermesUrl"`
	Query          string `yaml:"query"`
	Network        string `yaml:"network"`
	BinanceBaseUrl string `yaml:"binanceBaseUrl"`
}

type AiConfig struct {
	BaseUrl            string  `yaml:"baseUrl"`
	Model              string  `yaml:"model"`
	Temperature        float64 `yaml:"temperature"`
	ApiKeyEnv          string  `yaml:"apiKeyEnv"`
	ThinkingIntervalMs int     `yaml:"thinkingIntervalMs"`
}

var yamlFiles = map[types.EnvName]string{
	types.EnvLocal: "botleague.yaml",
	types.EnvDev:   "botleague.dev.yaml",
	types.EnvProd:  "botleague.prod.yaml",
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func (c TradingConfig) FillDelay() time.Duration { return ms(c.FillDelayMs) }

func (c TradingConfig) RefreshInterval() time.Duration { return ms(c.RefreshIntervalMs) }

func (c PriceFeedConfig) Interval() time.Duration { return ms(c.IntervalMs) }

func (c PriceFeedConfig) RateLimitBackoff() time.Duration { return ms(c.RateLimitBackoffMs) }

func (c PriceFeedConfig) CacheTTL() time.Duration { return ms(c.CacheTtlMs) }

func (c PythConfig) Interval() time.Duration { return ms(c.IntervalMs) }

func (c AiConfig) ThinkingInterval() time.Duration { return ms(c.ThinkingIntervalMs) }

// PrivateKeyEnv is the env var holding the Hyperliquid signing key.
func (c TradingConfig) PrivateKeyEnv() string {
	return c.EnvPrefix + "_PRIVATE_KEY"
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Trading.EnvPrefix == "" {
		c.Trading.EnvPrefix = "HPL"
	}
	if c.Trading.FillDelayMs <= 0 {
		c.Trading.FillDelayMs = 2000
	}
	if c.Trading.RefreshIntervalMs <= 0 {
		c.Trading.RefreshIntervalMs = 5000
	}
	if c.PriceFeed.IntervalMs <= 0 {
		c.PriceFeed.IntervalMs = 10000
	}
	if c.PriceFeed.RateLimitBackoffMs <= 0 {
		c.PriceFeed.RateLimitBackoffMs = 60000
	}
	if c.PriceFeed.CacheTtlMs <= 0 {
		c.PriceFeed.CacheTtlMs = 300000
	}
	if c.PriceFeed.HistorySize <= 0 {
		c.PriceFeed.HistorySize = 20
	}
	if c.Pyth.IntervalMs <= 0 {
		c.Pyth.IntervalMs = 5000
	}
	if c.Ai.ApiKeyEnv == "" {
		c.Ai.ApiKeyEnv = "OPENAI_API_KEY"
	}
	if c.Ai.ThinkingIntervalMs <= 0 {
		c.Ai.ThinkingIntervalMs = 30000
	}
}

// Parse decodes a YAML document and fills unset values with defaults.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("fail to decode config: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func LoadConfig(ctx context.Context, envName types.EnvName, mode types.YamlMode) (*Config, error) {
	fileName, ok := yamlFiles[envName]
	if !ok {
		return nil, fmt.Errorf("no config file for environment '%v'", envName)
	}

	var data []byte
	var err error
	switch mode {
	case types.YamlModeS3:
		data, err = readFromS3(ctx, fileName)
	default:
		data, err = os.ReadFile(fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("fail to load config file '%s': %w", fileName, err)
	}
	log.Debugf("config loaded from '%s' (%v)", fileName, mode)
	return Parse(data)
}

func readFromS3(ctx context.Context, key string) ([]byte, error) {
	client, err := s3client.New(s3client.Config{
		AccessKey: utils.LoadEnvWithDefault("AWS_ACCESS_KEY", ""),
		SecretKey: utils.LoadEnvWithDefault("AWS_SECRET_KEY", ""),
		Region:    utils.LoadEnvWithDefault("AWS_REGION", s3client.DefaultRegion),
		Endpoint:  utils.LoadEnvWithDefault("S3_ENDPOINT", ""),
		Bucket:    utils.LoadEnvWithDefault("CONFIG_BUCKET", ""),
	})
	if err != nil {
		return nil, err
	}
	return client.GetObject(ctx, key)
}
