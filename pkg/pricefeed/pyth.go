package pricefeed

import (
	"botleague/pkg/cache"
	"botleague/pkg/http"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultHermesUrl     = "https://hermes.pyth.network/v2/price_feeds"
	DefaultPythQuery     = "SOL/USD"
	DefaultPythNetwork   = "devnet"
	DefaultPythInterval  = 5 * time.Second
	DefaultBinanceSymbol = "SOLUSDT"

	solPriceCacheKey = "pyth_sol_usd_price_cache"
)

type PriceSource string

const (
	SourcePyth     = PriceSource("pyth")
	SourceCache    = PriceSource("cache")
	SourceFallback = PriceSource("fallback")
)

type SolPricePoint struct {
	Price       *float64    `json:"price"`
	LastUpdated *time.Time  `json:"lastUpdated"`
	Source      PriceSource `json:"source"`
}

type cachedSolPrice struct {
	Price       float64 `json:"price"`
	LastUpdated int64   `json:"lastUpdated"` // unix ms
}

type SolPriceConfig struct {
	HermesUrl      string
	Query          string
	Network        string
	CoinGeckoUrl   string
	CacheTTL       time.Duration
	BinanceSymbol  string
	BinanceBaseUrl string // empty uses the public endpoint
}

// SolPrice tracks SOL/USD from Pyth Hermes with cache, CoinGecko and Binance
// fallbacks.
type SolPrice struct {
	cfg     SolPriceConfig
	http    *http.Client
	binance *binance.Client
	cache   cache.Cache
	now     func() time.Time

	mu    sync.RWMutex
	point SolPricePoint

	logger *log.Entry
}

func NewSolPrice(cfg SolPriceConfig, c cache.Cache) *SolPrice {
	if cfg.HermesUrl == "" {
		cfg.HermesUrl = DefaultHermesUrl
	}
	if cfg.Query == "" {
		cfg.Query = DefaultPythQuery
	}
	if cfg.Network == "" {
		cfg.Network = DefaultPythNetwork
	}
	if cfg.CoinGeckoUrl == "" {
		cfg.CoinGeckoUrl = DefaultCoinGeckoUrl
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.BinanceSymbol == "" {
		cfg.BinanceSymbol = DefaultBinanceSymbol
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	bnc := binance.NewClient("", "")
	if cfg.BinanceBaseUrl != "" {
		bnc.BaseURL = cfg.BinanceBaseUrl
	}
	return &SolPrice{
		cfg:     cfg,
		http:    http.NewClient(10 * time.Second),
		binance: bnc,
		cache:   c,
		now:     time.Now,
		logger:  log.WithFields(log.Fields{"feed": "pyth"}),
	}
}

// flexFloat accepts both JSON numbers and numeric strings; Hermes sends the
// integer price as a string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type hermesPriceFeed struct {
	Id    string `json:"id"`
	Price *struct {
		Price flexFloat `json:"price"`
		Expo  int       `json:"expo"`
	} `json:"price"`
}

func (s *SolPrice) fetchPyth(ctx context.Context) (float64, error) {
	status, resBody, err := s.http.GetRequest(ctx, s.cfg.HermesUrl, map[string]string{
		"query":   s.cfg.Query,
		"network": s.cfg.Network,
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("HTTP %v", status)
	}
	var feeds []hermesPriceFeed
	if err := json.Unmarshal(resBody, &feeds); err != nil {
		return 0, err
	}
	if len(feeds) == 0 || feeds[0].Price == nil {
		return 0, errors.New("invalid pyth payload")
	}
	price := float64(feeds[0].Price.Price) * math.Pow(10, float64(feeds[0].Price.Expo))
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, errors.New("invalid pyth payload")
	}
	return price, nil
}

func (s *SolPrice) fetchCoinGecko(ctx context.Context) (float64, error) {
	status, resBody, err := s.http.GetRequest(ctx, s.cfg.CoinGeckoUrl, map[string]string{
		"ids":           "solana",
		"vs_currencies": "usd",
	})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("HTTP %v", status)
	}
	var res struct {
		Solana *struct {
			Usd float64 `json:"usd"`
		} `json:"solana"`
	}
	if err := json.Unmarshal(resBody, &res); err != nil {
		return 0, err
	}
	if res.Solana == nil || res.Solana.Usd <= 0 {
		return 0, errors.New("solana price missing")
	}
	return res.Solana.Usd, nil
}

func (s *SolPrice) fetchBinance(ctx context.Context) (float64, error) {
	res, err := s.binance.NewListPricesService().Symbol(s.cfg.BinanceSymbol).Do(ctx)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.New("binance price missing")
	}
	return strconv.ParseFloat(res[0].Price, 64)
}

func (s *SolPrice) set(price float64, at time.Time, source PriceSource) SolPricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.point = SolPricePoint{Price: &price, LastUpdated: &at, Source: source}
	return s.point
}

// Refresh walks pyth, cache, CoinGecko and Binance in order. When every source
// fails the previous point is kept and an error returned.
func (s *SolPrice) Refresh(ctx context.Context) (SolPricePoint, error) {
	now := s.now()
	price, err := s.fetchPyth(ctx)
	if err == nil {
		if cerr := cache.SetJSON(ctx, s.cache, solPriceCacheKey, cachedSolPrice{Price: price, LastUpdated: now.UnixMilli()}); cerr != nil {
			s.logger.Warnf("fail to cache sol price: %v", cerr)
		}
		return s.set(price, now, SourcePyth), nil
	}
	s.logger.Debugf("pyth unavailable: %v", err)

	cached, ok, cerr := cache.GetJSON[cachedSolPrice](ctx, s.cache, solPriceCacheKey)
	if cerr != nil {
		s.logger.Warnf("fail to read cached sol price: %v", cerr)
	}
	if ok && cached.Price > 0 {
		at := time.UnixMilli(cached.LastUpdated)
		if now.Sub(at) < s.cfg.CacheTTL {
			return s.set(cached.Price, at, SourceCache), nil
		}
	}

	price, err = s.fetchCoinGecko(ctx)
	if err == nil {
		return s.set(price, now, SourceFallback), nil
	}
	s.logger.Debugf("coingecko fallback unavailable: %v", err)

	price, err = s.fetchBinance(ctx)
	if err == nil {
		return s.set(price, now, SourceFallback), nil
	}
	s.logger.Warnf("every sol price source failed, last error: %v", err)
	return s.Current(), fmt.Errorf("sol price unavailable: %w", err)
}

func (s *SolPrice) Current() SolPricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.point
}

func (s *SolPrice) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPythInterval
	}
	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
