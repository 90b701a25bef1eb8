package trading

import (
	"botleague/pkg/exchange"
	"botleague/pkg/exchange/hpl"
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotLiveMode = errors.New("operation requires live mode")

// Config selects the execution mode. PrivateKey and Testnet only matter in live mode.
type Config struct {
	IsLiveMode bool          `json:"isLiveMode"`
	PrivateKey string        `json:"privateKey,omitempty"`
	Testnet    bool          `json:"testnet"`
	FillDelay  time.Duration `json:"fillDelay"`
	ApiUrl     string        `json:"apiUrl,omitempty"`
	WsUrl      string        `json:"wsUrl,omitempty"`
}

// ConfigUpdate is a partial Config; nil fields keep their current value.
type ConfigUpdate struct {
	IsLiveMode *bool
	PrivateKey *string
	Testnet    *bool
	FillDelay  *time.Duration
	ApiUrl     *string
	WsUrl      *string
}

type ClientFactory func(cfg Config) (hpl.Client, error)

func NewRestClient(cfg Config) (hpl.Client, error) {
	return hpl.NewRestClient(hpl.ClientConfig{
		PrivateKey: cfg.PrivateKey,
		Testnet:    cfg.Testnet,
		ApiUrl:     cfg.ApiUrl,
		WsUrl:      cfg.WsUrl,
	})
}

type Option func(*Service)

func WithClientFactory(f ClientFactory) Option {
	return func(s *Service) { s.newClient = f }
}

// Service is the single entry point for order operations. The execution
// strategy is chosen when the config is applied, never per call.
type Service struct {
	mu        sync.RWMutex
	config    Config
	exchange  exchange.Exchange // nil when live mode has no usable client
	store     *order.Store
	newClient ClientFactory
	changedC  chan struct{} // closed and replaced on every config update
	logger    *log.Entry
}

func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		config:    cfg,
		store:     order.NewStore(),
		newClient: NewRestClient,
		changedC:  make(chan struct{}),
		logger:    log.WithFields(log.Fields{"component": "trading"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.exchange = s.buildExchange(cfg)
	return s
}

func (s *Service) buildExchange(cfg Config) exchange.Exchange {
	if !cfg.IsLiveMode {
		ex, _ := exchange.NewExchange(types.ExchangeMock, s.store, exchange.Options{FillDelay: cfg.FillDelay})
		s.logger.Info("simulation mode: orders are filled locally")
		return ex
	}
	if cfg.PrivateKey == "" {
		s.logger.Warn("live mode without private key: hyperliquid client not initialized")
		return nil
	}
	client, err := s.newClient(cfg)
	if err != nil {
		s.logger.Errorf("fail to initialize hyperliquid client: %v", err)
		return nil
	}
	ex, err := exchange.NewExchange(types.ExchangeHpl, s.store, exchange.Options{Client: client})
	if err != nil {
		s.logger.Errorf("fail to initialize hyperliquid exchange: %v", err)
		return nil
	}
	s.logger.Infof("live mode: trading on hyperliquid (testnet: %v)", cfg.Testnet)
	return ex
}

// configChanged returns a channel closed by the next UpdateConfig.
func (s *Service) configChanged() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changedC
}

func (s *Service) current() (exchange.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.exchange == nil {
		return nil, order.ErrUninitializedClient
	}
	return s.exchange, nil
}

func (s *Service) IsLiveMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.IsLiveMode
}

// ╔═════════════╗
//      Order
// ╚═════════════╝

// PlaceOrder never fails in simulation. In live mode it returns a
// *order.ValidationError, order.ErrUninitializedClient or *order.SubmissionError.
func (s *Service) PlaceOrder(ctx context.Context, req order.Request) (*order.Order, error) {
	ex, err := s.current()
	if err != nil {
		return nil, err
	}
	return ex.PlaceOrder(ctx, req)
}

// GetOrderStatus returns nil when the order is unknown.
func (s *Service) GetOrderStatus(ctx context.Context, id string) (*order.Order, error) {
	ex, err := s.current()
	if err != nil {
		return nil, err
	}
	return ex.GetOrderStatus(ctx, id)
}

func (s *Service) GetPositions(ctx context.Context) ([]types.Position, error) {
	ex, err := s.current()
	if err != nil {
		return nil, err
	}
	return ex.GetPositions(ctx)
}

func (s *Service) GetAccountInfo(ctx context.Context) (*types.AccountInfo, error) {
	ex, err := s.current()
	if err != nil {
		return nil, err
	}
	return ex.GetAccountInfo(ctx)
}

func (s *Service) GetAllOrders() []*order.Order {
	return s.store.All()
}

func (s *Service) GetOrdersByToken(token string) []*order.Order {
	return s.store.ByToken(token)
}

// ╔═════════════╗
//     Config
// ╚═════════════╝

func (s *Service) GetConfig() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig merges the update and rebuilds the execution strategy. Recorded
// orders are kept.
func (s *Service) UpdateConfig(update ConfigUpdate) Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.config
	if update.IsLiveMode != nil {
		cfg.IsLiveMode = *update.IsLiveMode
	}
	if update.PrivateKey != nil {
		cfg.PrivateKey = *update.PrivateKey
	}
	if update.Testnet != nil {
		cfg.Testnet = *update.Testnet
	}
	if update.FillDelay != nil {
		cfg.FillDelay = *update.FillDelay
	}
	if update.ApiUrl != nil {
		cfg.ApiUrl = *update.ApiUrl
	}
	if update.WsUrl != nil {
		cfg.WsUrl = *update.WsUrl
	}
	s.config = cfg
	s.exchange = s.buildExchange(cfg)
	close(s.changedC)
	s.changedC = make(chan struct{})
	return cfg
}
