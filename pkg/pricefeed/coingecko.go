package pricefeed

import (
	"botleague/pkg/cache"
	"botleague/pkg/http"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultCoinGeckoUrl     = "https://api.coingecko.com/api/v3/simple/price"
	DefaultPollInterval     = 10 * time.Second
	DefaultRateLimitBackoff = 60 * time.Second
	DefaultCacheTTL         = 5 * time.Minute
	DefaultHistorySize      = 20

	cryptoPricesCacheKey = "cached_crypto_prices"
)

var ErrRateLimited = errors.New("rate limited")

type Coin struct {
	Id        string  `json:"id"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// Coins tracked by the dashboard, in display order.
var Coins = []Coin{
	{Id: "bitcoin", Name: "Bitcoin", Symbol: "BTC"},
	{Id: "ethereum", Name: "Ethereum", Symbol: "ETH"},
	{Id: "solana", Name: "Solana", Symbol: "SOL"},
	{Id: "pepe", Name: "Pepe", Symbol: "PEPE"},
	{Id: "dogecoin", Name: "Dogecoin", Symbol: "DOGE"},
}

// CoinIdFromToken maps "SOL" to "solana"; unknown tokens return "".
func CoinIdFromToken(token string) string {
	for _, c := range Coins {
		if c.Symbol == strings.ToUpper(token) {
			return c.Id
		}
	}
	return ""
}

type Snapshot struct {
	Prices        map[string]Coin      `json:"prices"`
	History       map[string][]float64 `json:"history"`
	IsUsingCached bool                 `json:"isUsingCached"`
	RateLimited   bool                 `json:"rateLimited"`
	LastUpdate    *time.Time           `json:"lastUpdate"`
	Error         string               `json:"error,omitempty"`
}

type cachedPrices struct {
	Prices    map[string]Coin `json:"prices"`
	Timestamp int64           `json:"timestamp"` // unix ms
}

type CryptoPricesConfig struct {
	Url              string
	RateLimitBackoff time.Duration
	CacheTTL         time.Duration
	HistorySize      int
}

// CryptoPrices polls CoinGecko and falls back to the last cached snapshot when
// the upstream fails.
type CryptoPrices struct {
	cfg   CryptoPricesConfig
	http  *http.Client
	cache cache.Cache
	now   func() time.Time

	mu               sync.RWMutex
	prices           map[string]Coin
	history          map[string][]float64
	isUsingCached    bool
	rateLimitedUntil time.Time
	lastUpdate       time.Time
	lastErr          error

	logger *log.Entry
}

func NewCryptoPrices(cfg CryptoPricesConfig, c cache.Cache) *CryptoPrices {
	if cfg.Url == "" {
		cfg.Url = DefaultCoinGeckoUrl
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = DefaultRateLimitBackoff
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &CryptoPrices{
		cfg:     cfg,
		http:    http.NewClient(10 * time.Second),
		cache:   c,
		now:     time.Now,
		history: make(map[string][]float64),
		logger:  log.WithFields(log.Fields{"feed": "coingecko"}),
	}
}

func coinIds() string {
	ids := make([]string, len(Coins))
	for i, c := range Coins {
		ids[i] = c.Id
	}
	return strings.Join(ids, ",")
}

func (p *CryptoPrices) fetch(ctx context.Context) (map[string]Coin, error) {
	status, resBody, err := p.http.GetRequest(ctx, p.cfg.Url, map[string]string{
		"ids":                 coinIds(),
		"vs_currencies":       "usd",
		"include_24hr_change": "true",
	})
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP error! status: %v", status)
	}

	var res map[string]struct {
		Usd          float64 `json:"usd"`
		Usd24hChange float64 `json:"usd_24h_change"`
	}
	if err := json.Unmarshal(resBody, &res); err != nil {
		return nil, err
	}
	prices := make(map[string]Coin, len(Coins))
	for _, c := range Coins {
		quote, ok := res[c.Id]
		if !ok {
			continue
		}
		c.Price = quote.Usd
		c.Change24h = quote.Usd24hChange
		prices[c.Id] = c
	}
	if len(prices) == 0 {
		return nil, errors.New("no prices in response")
	}
	return prices, nil
}

// Refresh fetches once. On failure the error is recorded and a cached snapshot
// younger than the cache TTL is served instead.
func (p *CryptoPrices) Refresh(ctx context.Context) error {
	prices, err := p.fetch(ctx)
	now := p.now()
	if err == nil {
		p.mu.Lock()
		p.prices = prices
		p.isUsingCached = false
		p.rateLimitedUntil = time.Time{}
		p.lastUpdate = now
		p.lastErr = nil
		for id, c := range prices {
			h := append(p.history[id], c.Price)
			if len(h) > p.cfg.HistorySize {
				h = h[len(h)-p.cfg.HistorySize:]
			}
			p.history[id] = h
		}
		p.mu.Unlock()

		if err := cache.SetJSON(ctx, p.cache, cryptoPricesCacheKey, cachedPrices{Prices: prices, Timestamp: now.UnixMilli()}); err != nil {
			p.logger.Warnf("fail to cache prices: %v", err)
		}
		return nil
	}

	p.mu.Lock()
	p.lastErr = err
	p.isUsingCached = false
	if errors.Is(err, ErrRateLimited) {
		p.rateLimitedUntil = now.Add(p.cfg.RateLimitBackoff)
		p.logger.Warnf("rate limited, retrying in %v", p.cfg.RateLimitBackoff)
	}
	p.mu.Unlock()

	cached, ok, cerr := cache.GetJSON[cachedPrices](ctx, p.cache, cryptoPricesCacheKey)
	if cerr != nil {
		p.logger.Warnf("fail to read cached prices: %v", cerr)
	}
	if ok && now.Sub(time.UnixMilli(cached.Timestamp)) < p.cfg.CacheTTL {
		p.mu.Lock()
		p.prices = cached.Prices
		p.isUsingCached = true
		p.mu.Unlock()
		p.logger.Info("using cached price data")
	}
	return err
}

func (p *CryptoPrices) isRateLimited() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.now().Before(p.rateLimitedUntil)
}

// Run fetches immediately and then on every tick, skipping ticks inside a
// rate limit back-off.
func (p *CryptoPrices) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warnf("fail to fetch prices: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.isRateLimited() {
				p.logger.Debug("rate limited, skipping fetch...")
				continue
			}
			if err := p.Refresh(ctx); err != nil {
				p.logger.Warnf("fail to fetch prices: %v", err)
			}
		}
	}
}

func (p *CryptoPrices) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		Prices:        make(map[string]Coin, len(p.prices)),
		History:       make(map[string][]float64, len(p.history)),
		IsUsingCached: p.isUsingCached,
		RateLimited:   p.now().Before(p.rateLimitedUntil),
	}
	for id, c := range p.prices {
		snap.Prices[id] = c
	}
	for id, h := range p.history {
		snap.History[id] = append([]float64(nil), h...)
	}
	if !p.lastUpdate.IsZero() {
		t := p.lastUpdate
		snap.LastUpdate = &t
	}
	if p.lastErr != nil {
		snap.Error = p.lastErr.Error()
	}
	return snap
}

// Price returns 0 for unknown coins or before the first fetch.
func (p *CryptoPrices) Price(coinId string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prices[coinId].Price
}

func (p *CryptoPrices) PriceChange(coinId string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prices[coinId].Change24h
}
