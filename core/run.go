package core

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Run drives the background loops until ctx is done.
func Run(ctx context.Context, u *Universe) error {
	log.Info("🦿 Running...")

	cfg := u.Config
	loops := []func(context.Context){
		func(ctx context.Context) { u.Trading.RunRefresher(ctx, cfg.Trading.RefreshInterval()) },
		func(ctx context.Context) { u.Prices.Run(ctx, cfg.PriceFeed.Interval()) },
		func(ctx context.Context) { u.SolPrice.Run(ctx, cfg.Pyth.Interval()) },
	}
	if cfg.Trading.StreamOrderUpdates {
		// idles in simulation and follows mode switches made through the API
		loops = append(loops, func(ctx context.Context) { u.Trading.RunOrderStream(ctx, cfg.Trading.RefreshInterval()) })
	}
	if u.Generator.Enabled() {
		loops = append(loops, func(ctx context.Context) { u.Thinker.Run(ctx, cfg.Ai.ThinkingInterval()) })
	} else {
		log.Warn("AI thinking loop disabled: no API key")
	}

	var wg sync.WaitGroup
	for _, loop := range loops {
		wg.Add(1)
		go func(loop func(context.Context)) {
			defer wg.Done()
			loop(ctx)
		}(loop)
	}
	wg.Wait()
	return nil
}
