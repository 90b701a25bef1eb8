package core

import (
	"botleague/pkg/ai"
	"botleague/pkg/market"
	"botleague/pkg/order"
	"botleague/pkg/pricefeed"
	"botleague/pkg/trading"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

const (
	msgRateLimited    = "Rate limit exceeded. Please try again later."
	msgQuotaExhausted = "AI credits exhausted. Please add credits to your workspace."
)

// configView is the trading config as exposed over the API; the key never leaves the process.
type configView struct {
	IsLiveMode    bool   `json:"isLiveMode"`
	Testnet       bool   `json:"testnet"`
	HasPrivateKey bool   `json:"hasPrivateKey"`
	FillDelayMs   int64  `json:"fillDelayMs"`
	ApiUrl        string `json:"apiUrl,omitempty"`
	WsUrl         string `json:"wsUrl,omitempty"`
}

// configUpdateRequest mirrors configView on input; absent fields are kept.
type configUpdateRequest struct {
	IsLiveMode  *bool   `json:"isLiveMode"`
	PrivateKey  *string `json:"privateKey"`
	Testnet     *bool   `json:"testnet"`
	FillDelayMs *int64  `json:"fillDelayMs"`
	ApiUrl      *string `json:"apiUrl"`
	WsUrl       *string `json:"wsUrl"`
}

func (r configUpdateRequest) toUpdate() (trading.ConfigUpdate, error) {
	update := trading.ConfigUpdate{
		IsLiveMode: r.IsLiveMode,
		PrivateKey: r.PrivateKey,
		Testnet:    r.Testnet,
		ApiUrl:     r.ApiUrl,
		WsUrl:      r.WsUrl,
	}
	if r.FillDelayMs != nil {
		if *r.FillDelayMs < 0 {
			return update, errors.New("fillDelayMs must not be negative")
		}
		d := time.Duration(*r.FillDelayMs) * time.Millisecond
		update.FillDelay = &d
	}
	return update, nil
}

func newConfigView(cfg trading.Config) configView {
	return configView{
		IsLiveMode:    cfg.IsLiveMode,
		Testnet:       cfg.Testnet,
		HasPrivateKey: cfg.PrivateKey != "",
		FillDelayMs:   cfg.FillDelay.Milliseconds(),
		ApiUrl:        cfg.ApiUrl,
		WsUrl:         cfg.WsUrl,
	}
}

func SetupFiberApp(u *Universe) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "botleague",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	})

	h := &handler{u: u}

	app.Post("/orders", h.placeOrder)
	app.Get("/orders", h.listOrders)
	app.Get("/orders/:id", h.getOrder)
	app.Get("/positions", h.getPositions)
	app.Get("/account", h.getAccount)

	app.Get("/config", h.getConfig)
	app.Patch("/config", h.updateConfig)

	app.Get("/tokens", h.listTokens)
	app.Get("/tokens/:token", h.getToken)

	app.Get("/prices", h.getPrices)
	app.Get("/prices/sol", h.getSolPrice)

	app.Post("/generate-strategy", h.generate)
	app.Get("/ai/thinking", h.getThinking)

	return app
}

func ShutdownFiberApp(app *fiber.App) {
	_ = app.Shutdown()
}

type handler struct {
	u *Universe
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// tradingError maps order lifecycle errors to HTTP statuses.
func tradingError(c *fiber.Ctx, err error) error {
	var validationErr *order.ValidationError
	var submissionErr *order.SubmissionError
	switch {
	case errors.As(err, &validationErr):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrUninitializedClient):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &submissionErr):
		return fail(c, fiber.StatusBadGateway, err.Error())
	default:
		log.Errorf("trading request failed: %v", err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}

// ╔═════════════╗
//      Orders
// ╚═════════════╝

func checkOrderRequest(req order.Request) error {
	switch {
	case strings.TrimSpace(req.Token) == "":
		return errors.New("token is required")
	case !req.Side.IsValid():
		return errors.New("side must be 'buy' or 'sell'")
	case !req.OrderType.IsValid():
		return errors.New("orderType must be 'market' or 'limit'")
	case req.Size <= 0:
		return errors.New("size must be positive")
	case req.Price < 0:
		return errors.New("price must not be negative")
	}
	return nil
}

func (h *handler) placeOrder(c *fiber.Ctx) error {
	var req order.Request
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Token = strings.ToUpper(strings.TrimSpace(req.Token))
	if err := checkOrderRequest(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	o, err := h.u.Trading.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return tradingError(c, err)
	}
	c.Status(fiber.StatusCreated)
	return ok(c, o)
}

func (h *handler) listOrders(c *fiber.Ctx) error {
	if token := c.Query("token"); token != "" {
		return ok(c, h.u.Trading.GetOrdersByToken(strings.ToUpper(token)))
	}
	return ok(c, h.u.Trading.GetAllOrders())
}

func (h *handler) getOrder(c *fiber.Ctx) error {
	o, err := h.u.Trading.GetOrderStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return tradingError(c, err)
	}
	if o == nil {
		return fail(c, fiber.StatusNotFound, "order not found")
	}
	return ok(c, o)
}

func (h *handler) getPositions(c *fiber.Ctx) error {
	positions, err := h.u.Trading.GetPositions(c.UserContext())
	if err != nil {
		return tradingError(c, err)
	}
	return ok(c, positions)
}

func (h *handler) getAccount(c *fiber.Ctx) error {
	info, err := h.u.Trading.GetAccountInfo(c.UserContext())
	if err != nil {
		return tradingError(c, err)
	}
	return ok(c, info)
}

// ╔═════════════╗
//     Config
// ╚═════════════╝

func (h *handler) getConfig(c *fiber.Ctx) error {
	return ok(c, newConfigView(h.u.Trading.GetConfig()))
}

func (h *handler) updateConfig(c *fiber.Ctx) error {
	var req configUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	update, err := req.toUpdate()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	cfg := h.u.Trading.UpdateConfig(update)
	log.Infof("trading config updated (live: %v, testnet: %v)", cfg.IsLiveMode, cfg.Testnet)
	return ok(c, newConfigView(cfg))
}

// ╔═════════════╗
//     Markets
// ╚═════════════╝

func (h *handler) listTokens(c *fiber.Ctx) error {
	tokens := market.Tokens()
	markets := make([]market.Market, 0, len(tokens))
	for _, token := range tokens {
		markets = append(markets, market.Get(token))
	}
	return ok(c, markets)
}

func (h *handler) getToken(c *fiber.Ctx) error {
	return ok(c, market.Get(strings.ToUpper(c.Params("token"))))
}

func (h *handler) getPrices(c *fiber.Ctx) error {
	snap := h.u.Prices.Snapshot()
	formatted := make(map[string]string, len(snap.Prices))
	for id, coin := range snap.Prices {
		formatted[id] = pricefeed.FormatPrice(coin.Price, id)
	}
	return ok(c, fiber.Map{"snapshot": snap, "formatted": formatted})
}

func (h *handler) getSolPrice(c *fiber.Ctx) error {
	return ok(c, h.u.SolPrice.Current())
}

// ╔═════════════╗
//       AI
// ╚═════════════╝

func (h *handler) generate(c *fiber.Ctx) error {
	var req ai.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.u.Generator.Generate(c.UserContext(), req)
	if err != nil {
		status, msg := fiber.StatusInternalServerError, err.Error()
		switch {
		case errors.Is(err, ai.ErrRateLimited):
			status, msg = fiber.StatusTooManyRequests, msgRateLimited
		case errors.Is(err, ai.ErrQuotaExhausted):
			status, msg = fiber.StatusPaymentRequired, msgQuotaExhausted
		case errors.Is(err, ai.ErrUnknownType):
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"result": result})
}

func (h *handler) getThinking(c *fiber.Ctx) error {
	return ok(c, h.u.Thinker.Logs())
}
