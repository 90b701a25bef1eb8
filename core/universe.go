package core

import (
	"botleague/config"
	"botleague/pkg/ai"
	"botleague/pkg/cache"
	"botleague/pkg/pricefeed"
	"botleague/pkg/trading"
)

// Universe holds every long-lived component of a running service.
type Universe struct {
	Config    config.Config
	Trading   *trading.Service
	Prices    *pricefeed.CryptoPrices
	SolPrice  *pricefeed.SolPrice
	Generator *ai.Generator
	Thinker   *ai.Thinker
	Cache     cache.Cache
}

func (u *Universe) Close() error {
	if u.Cache == nil {
		return nil
	}
	return u.Cache.Close()
}
