package trading

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultStreamRetry     = 5 * time.Second
)

type orderStreamer interface {
	StreamOrderUpdates(ctx context.Context) (<-chan struct{}, error)
}

// RefreshPending re-queries every pending order in live mode and returns how
// many of them changed status.
func (s *Service) RefreshPending(ctx context.Context) (int, error) {
	if !s.IsLiveMode() {
		return 0, nil
	}
	ex, err := s.current()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, o := range s.store.Pending() {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}
		latest, err := ex.GetOrderStatus(ctx, o.Id)
		if err != nil {
			s.logger.Warnf("fail to refresh order %v: %v", o.Id, err)
			continue
		}
		if latest != nil && latest.Status != o.Status {
			changed++
		}
	}
	return changed, nil
}

// RunRefresher calls RefreshPending on every tick until ctx is done.
func (s *Service) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.RefreshPending(ctx)
			if err != nil {
				s.logger.Debugf("skip pending refresh: %v", err)
				continue
			}
			if n > 0 {
				s.logger.Infof("%v pending orders updated", n)
			}
		}
	}
}

// StreamOrderUpdates subscribes to live order pushes. The returned channel
// closes when the stream ends.
func (s *Service) StreamOrderUpdates(ctx context.Context) (<-chan struct{}, error) {
	if !s.IsLiveMode() {
		return nil, ErrNotLiveMode
	}
	ex, err := s.current()
	if err != nil {
		return nil, err
	}
	streamer, ok := ex.(orderStreamer)
	if !ok {
		return nil, ErrNotLiveMode
	}
	return streamer.StreamOrderUpdates(ctx)
}

// RunOrderStream keeps an order update subscription open whenever live mode is
// on. It resubscribes after every config update and retries failed or ended
// streams every retry interval until ctx is done.
func (s *Service) RunOrderStream(ctx context.Context, retry time.Duration) {
	if retry <= 0 {
		retry = DefaultStreamRetry
	}
	for {
		changed := s.configChanged()
		streamCtx, cancel := context.WithCancel(ctx)

		var retryC <-chan time.Time
		doneC, err := s.StreamOrderUpdates(streamCtx)
		switch {
		case errors.Is(err, ErrNotLiveMode):
			// idle until the mode changes
		case err != nil:
			s.logger.Warnf("fail to subscribe order updates, retry in %v: %v", retry, err)
			retryC = time.After(retry)
		default:
			s.logger.Info("📡 subscribed to live order updates")
		}

		select {
		case <-ctx.Done():
			cancel()
			return
		case <-changed:
			s.logger.Debug("config updated: resubscribing order updates")
		case <-retryC:
		case <-doneC:
			s.logger.Warnf("order update stream ended, resubscribe in %v", retry)
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-changed:
			case <-time.After(retry):
			}
		}
		cancel()
	}
}
