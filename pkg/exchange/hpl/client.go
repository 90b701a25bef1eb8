package hpl

import (
	"botleague/pkg/http"
	"botleague/pkg/types"
	"botleague/pkg/utils"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/sirupsen/logrus"
)

const (
	MainnetApiUrl = "https://api.hyperliquid.xyz"
	TestnetApiUrl = "https://api.hyperliquid-testnet.xyz"
	MainnetWsUrl  = "wss://api.hyperliquid.xyz/ws"
	TestnetWsUrl  = "wss://api.hyperliquid-testnet.xyz/ws"
)

// Client is the exchange surface the live adapter depends on. Every call can
// fail independently.
type Client interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error)
	GetOrderStatus(ctx context.Context, oid string) (*OrderStatusResult, error) // nil, nil when the oid is unknown
	GetPositions(ctx context.Context) ([]types.Position, error)
	GetAccountInfo(ctx context.Context) (*types.AccountInfo, error)
}

// OrderStreamer is implemented by clients that can push order status changes.
type OrderStreamer interface {
	SubscribeOrderUpdates(ctx context.Context, onUpdate func(OrderStatusResult)) (<-chan struct{}, error)
}

type PlaceOrderParams struct {
	Symbol     string // e.g. "SOL-USD"
	IsBuy      bool
	Size       float64
	LimitPx    float64 // ignored when IsMarket
	IsMarket   bool
	ReduceOnly bool
}

type PlaceOrderResult struct {
	Oid string
}

type OrderStatusResult struct {
	Oid        string
	Status     string // raw exchange status e.g. "open", "filled", "canceled"
	Coin       string
	IsBuy      bool
	Size       float64
	LimitPx    float64
	FilledSize float64
	Timestamp  time.Time
}

type ClientConfig struct {
	PrivateKey string
	Testnet    bool
	ApiUrl     string // overrides the network default
	WsUrl      string
	Timeout    time.Duration
}

// RestClient signs and sends actions to the Hyperliquid REST API.
type RestClient struct {
	apiUrl  string
	wsUrl   string
	address common.Address
	signer  *signer
	http    *http.Client

	mu      sync.Mutex
	markets map[string]assetMeta // lazily loaded from "meta"

	logger *log.Entry
}

func NewRestClient(cfg ClientConfig) (*RestClient, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("private key is required")
	}
	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("fail to parse private key: %w", err)
	}
	pubKey, ok := privKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("fail to parse private key to public key via ECDSA")
	}
	address := crypto.PubkeyToAddress(*pubKey)

	apiUrl, wsUrl := MainnetApiUrl, MainnetWsUrl
	if cfg.Testnet {
		apiUrl, wsUrl = TestnetApiUrl, TestnetWsUrl
	}
	if cfg.ApiUrl != "" {
		apiUrl = strings.TrimSuffix(cfg.ApiUrl, "/")
	}
	if cfg.WsUrl != "" {
		wsUrl = cfg.WsUrl
	}

	httpClient := http.Default
	if cfg.Timeout > 0 {
		httpClient = http.NewClient(cfg.Timeout)
	}

	return &RestClient{
		apiUrl:  apiUrl,
		wsUrl:   wsUrl,
		address: address,
		signer:  &signer{privKey: privKey, isMainnet: !cfg.Testnet},
		http:    httpClient,
		logger: log.WithFields(log.Fields{
			"exchange": types.ExchangeHpl,
			"testnet":  cfg.Testnet,
		}),
	}, nil
}

func (c *RestClient) Address() string {
	return c.address.Hex()
}

func (c *RestClient) WsUrl() string {
	return c.wsUrl
}

// ╔═════════════╗
//       Info
// ╚═════════════╝

func (c *RestClient) postInfo(ctx context.Context, req any) ([]byte, error) {
	status, resBody, err := c.http.PostRequest(ctx, c.apiUrl+"/info", "", req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status: %v: %v", status, string(resBody))
	}
	return resBody, nil
}

func (c *RestClient) getMarket(ctx context.Context, coin string) (assetMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.markets == nil {
		resBody, err := c.postInfo(ctx, map[string]string{"type": "meta"})
		if err != nil {
			return assetMeta{}, fmt.Errorf("fail to load markets: %w", err)
		}
		var res marketInfoResponse
		if err := json.Unmarshal(resBody, &res); err != nil {
			return assetMeta{}, err
		}
		c.markets = parseMarkets(res)
	}
	meta, ok := c.markets[coin]
	if !ok {
		return assetMeta{}, fmt.Errorf("market not found: %v", coin)
	}
	return meta, nil
}

func (c *RestClient) getMidPrice(ctx context.Context, coin string) (float64, error) {
	resBody, err := c.postInfo(ctx, map[string]string{"type": "allMids"})
	if err != nil {
		return 0, err
	}
	mids, err := parseMids(resBody)
	if err != nil {
		return 0, err
	}
	mid, ok := mids[coin]
	if !ok || mid <= 0 {
		return 0, fmt.Errorf("mid price not found: %v", coin)
	}
	return mid, nil
}

func (c *RestClient) GetOrderStatus(ctx context.Context, oid string) (*OrderStatusResult, error) {
	id, err := strconv.ParseInt(oid, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid oid: %v", oid)
	}
	resBody, err := c.postInfo(ctx, orderStatusRequest{
		Type: "orderStatus",
		User: c.address.Hex(),
		Oid:  id,
	})
	if err != nil {
		return nil, err
	}
	return parseOrderStatusResponse(resBody)
}

func (c *RestClient) clearinghouseState(ctx context.Context) (clearinghouseStateResponse, error) {
	resBody, err := c.postInfo(ctx, userInfoRequest{
		Type: "clearinghouseState",
		User: c.address.Hex(),
	})
	if err != nil {
		return clearinghouseStateResponse{}, err
	}
	return parseClearinghouseState(resBody)
}

func (c *RestClient) GetPositions(ctx context.Context) ([]types.Position, error) {
	res, err := c.clearinghouseState(ctx)
	if err != nil {
		return nil, err
	}
	return parsePositions(res)
}

func (c *RestClient) GetAccountInfo(ctx context.Context) (*types.AccountInfo, error) {
	res, err := c.clearinghouseState(ctx)
	if err != nil {
		return nil, err
	}
	return parseAccountInfo(res)
}

// ╔═════════════╗
//      Order
// ╚═════════════╝

func (c *RestClient) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error) {
	coin := convertSymbolToCoin(params.Symbol)
	meta, err := c.getMarket(ctx, coin)
	if err != nil {
		return nil, err
	}

	price := params.LimitPx
	if params.IsMarket {
		mid, err := c.getMidPrice(ctx, coin)
		if err != nil {
			return nil, err
		}
		price = aggressivePrice(mid, params.IsBuy)
	}
	if price <= 0 {
		return nil, errors.New("limit price is required")
	}

	size := meta.roundSize(params.Size)
	if size <= 0 {
		return nil, fmt.Errorf("size %v rounds to zero at %v decimals", params.Size, meta.SzDecimals)
	}

	nonce := getNonce()
	action := orderAction{
		Type: "order",
		Orders: []orderWire{{
			Asset:      meta.Index,
			IsBuy:      params.IsBuy,
			LimitPx:    utils.FloatToStr(meta.roundPrice(price)),
			SizePx:     utils.FloatToStr(size),
			ReduceOnly: params.ReduceOnly,
			OrderType:  orderTypeWire{Limit: &limit{Tif: convertOrderTif(params.IsMarket)}},
		}},
		Grouping: string(groupingNa),
	}
	signature, err := c.signer.signAction(action, "", nonce)
	if err != nil {
		return nil, fmt.Errorf("fail to get signature when placing order: %w", err)
	}

	status, resBody, err := c.http.PostRequest(ctx, c.apiUrl+"/exchange", "", orderActionRequest{
		Action:       action,
		Nonce:        nonce,
		Signature:    signature,
		VaultAddress: nil,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status: %v: %v", status, string(resBody))
	}

	oid, err := parsePlaceOrderResponse(resBody)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("order placed: %v %v %v @ %v (oid: %v)", coin, convertOrderSide(params.IsBuy), size, price, oid)
	return &PlaceOrderResult{Oid: oid}, nil
}

// ╔═════════════╗
//      Stream
// ╚═════════════╝

func (c *RestClient) SubscribeOrderUpdates(ctx context.Context, onUpdate func(OrderStatusResult)) (<-chan struct{}, error) {
	params := map[string]string{
		"type": "orderUpdates",
		"user": c.address.Hex(),
	}
	sm, err := NewStream(ctx, c.wsUrl, params, func(e []byte) {
		updates, err := parseOrderUpdates(e)
		if err != nil {
			c.logger.Warnf("fail to parse order updates: %v", err)
			return
		}
		for _, u := range updates {
			onUpdate(u)
		}
	})
	if err != nil {
		return nil, err
	}
	return sm.ConnectAndSubscribe()
}
