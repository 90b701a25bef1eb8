package ai

import (
	"botleague/pkg/pricefeed"
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultThinkingInterval = 30 * time.Second
	maxThinkingLogs         = 5
)

type LogType string

const (
	LogTrade    = LogType("trade")
	LogAnalysis = LogType("analysis")
	LogAlert    = LogType("alert")
)

type ThinkingLog struct {
	Id        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
}

type Completer interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type scenario struct {
	strategy   string
	coinId     string
	marketData string // used when there is no live price
}

var thinkingScenarios = []scenario{
	{strategy: "Aggressive meme trading", coinId: "solana", marketData: "SOL price: $142.3, RSI: 28 (oversold), Volume: +340%"},
	{strategy: "Conservative DCA", coinId: "bitcoin", marketData: "BTC price: $67,800, RSI: 52 (neutral), Volume: normal"},
	{strategy: "Momentum scalping", coinId: "ethereum", marketData: "ETH price: $3,420, RSI: 72 (overbought), Volume: +180%"},
}

// Thinker periodically asks the generator for trading thoughts on the current
// market and keeps the latest few.
type Thinker struct {
	gen    Completer
	prices *pricefeed.CryptoPrices // optional

	mu   sync.RWMutex
	logs []ThinkingLog

	logger *log.Entry
}

func NewThinker(gen Completer, prices *pricefeed.CryptoPrices) *Thinker {
	return &Thinker{
		gen:    gen,
		prices: prices,
		logger: log.WithFields(log.Fields{"component": "thinker"}),
	}
}

func (t *Thinker) marketData(s scenario) string {
	if t.prices == nil {
		return s.marketData
	}
	snap := t.prices.Snapshot()
	coin, ok := snap.Prices[s.coinId]
	if !ok || coin.Price == 0 {
		return s.marketData
	}
	return fmt.Sprintf("%s price: %s, 24h change: %+.2f%%", coin.Symbol, pricefeed.FormatPrice(coin.Price, coin.Id), coin.Change24h)
}

// Think generates one thought per scenario concurrently. Failed generations
// become placeholder entries.
func (t *Thinker) Think(ctx context.Context) []ThinkingLog {
	now := time.Now()
	logs := make([]ThinkingLog, len(thinkingScenarios))

	var wg sync.WaitGroup
	for i, s := range thinkingScenarios {
		wg.Add(1)
		go func(i int, s scenario) {
			defer wg.Done()
			msg, err := t.gen.Generate(ctx, Request{
				Type:       TypeThinking,
				Prompt:     s.strategy,
				MarketData: t.marketData(s),
			})
			if err != nil {
				t.logger.Warnf("fail to generate thinking: %v", err)
				msg = Placeholder(TypeThinking)
			}
			logs[i] = ThinkingLog{
				Id:        now.UnixMilli() + int64(i),
				Timestamp: now,
				Type:      [...]LogType{LogTrade, LogAnalysis, LogAlert}[i%3],
				Message:   msg,
			}
		}(i, s)
	}
	wg.Wait()

	t.mu.Lock()
	t.logs = append(append(make([]ThinkingLog, 0, len(logs)+len(t.logs)), logs...), t.logs...)
	if len(t.logs) > maxThinkingLogs {
		t.logs = t.logs[:maxThinkingLogs]
	}
	t.mu.Unlock()
	return logs
}

// Logs returns the latest thoughts, newest first.
func (t *Thinker) Logs() []ThinkingLog {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]ThinkingLog{}, t.logs...)
}

func (t *Thinker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultThinkingInterval
	}
	t.Think(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Think(ctx)
		}
	}
}
