package core

import (
	"botleague/config"
	"botleague/pkg/ai"
	"botleague/pkg/cache"
	"botleague/pkg/pricefeed"
	"botleague/pkg/trading"
	"botleague/pkg/utils"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// BootstrapOption tweaks component construction, mostly for tests.
type BootstrapOption func(*bootstrapOptions)

type bootstrapOptions struct {
	tradingOpts []trading.Option
}

func WithTradingOptions(opts ...trading.Option) BootstrapOption {
	return func(o *bootstrapOptions) { o.tradingOpts = append(o.tradingOpts, opts...) }
}

func Bootstrap(cfg config.Config, opts ...BootstrapOption) (*Universe, error) {
	log.Info("🦾 Bootstrapping...")

	var o bootstrapOptions
	for _, opt := range opts {
		opt(&o)
	}

	// cache
	if cfg.Cache.Driver == cache.DriverRedis {
		cfg.Cache.RedisPassword = utils.LoadEnvWithDefault("REDIS_PASSWORD", "")
		cfg.Cache.TTL = cfg.PriceFeed.CacheTTL()
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	log.Infof("cache '%v' ready", orMemory(cfg.Cache.Driver))

	// trading
	tradingCfg := trading.Config{
		IsLiveMode: cfg.Trading.LiveMode || utils.LoadBoolEnvWithDefault("LIVE_MODE"),
		PrivateKey: utils.LoadEnvWithDefault(cfg.Trading.PrivateKeyEnv(), ""),
		Testnet:    cfg.Trading.Testnet,
		FillDelay:  cfg.Trading.FillDelay(),
		ApiUrl:     cfg.Trading.ApiUrl,
		WsUrl:      cfg.Trading.WsUrl,
	}
	tradingSvc := trading.New(tradingCfg, o.tradingOpts...)

	// price feeds
	prices := pricefeed.NewCryptoPrices(pricefeed.CryptoPricesConfig{
		Url:              cfg.PriceFeed.CoingeckoUrl,
		RateLimitBackoff: cfg.PriceFeed.RateLimitBackoff(),
		CacheTTL:         cfg.PriceFeed.CacheTTL(),
		HistorySize:      cfg.PriceFeed.HistorySize,
	}, c)
	solPrice := pricefeed.NewSolPrice(pricefeed.SolPriceConfig{
		HermesUrl:      cfg.Pyth.HermesUrl,
		Query:          cfg.Pyth.Query,
		Network:        cfg.Pyth.Network,
		CoinGeckoUrl:   cfg.PriceFeed.CoingeckoUrl,
		CacheTTL:       cfg.PriceFeed.CacheTTL(),
		BinanceBaseUrl: cfg.Pyth.BinanceBaseUrl,
	}, c)

	// ai
	generator := ai.NewGenerator(ai.Config{
		BaseUrl:     cfg.Ai.BaseUrl,
		ApiKey:      utils.LoadEnvWithDefault(cfg.Ai.ApiKeyEnv, ""),
		Model:       cfg.Ai.Model,
		Temperature: cfg.Ai.Temperature,
	})
	thinker := ai.NewThinker(generator, prices)

	return &Universe{
		Config:    cfg,
		Trading:   tradingSvc,
		Prices:    prices,
		SolPrice:  solPrice,
		Generator: generator,
		Thinker:   thinker,
		Cache:     c,
	}, nil
}

func orMemory(d cache.Driver) cache.Driver {
	if d == "" {
		return cache.DriverMemory
	}
	return d
}
