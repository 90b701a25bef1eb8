package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	StatusOK              = http.StatusOK
	StatusPaymentRequired = http.StatusPaymentRequired
	StatusTooManyRequests = http.StatusTooManyRequests
)

const defaultTimeout = 30 * time.Second

type Client struct {
	client *resty.Client
}

// NewClient builds a JSON client. Retries are left to the callers since every
// upstream here has its own rate limit handling.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{client: client}
}

// Default is shared by components that do not need their own timeout.
var Default = NewClient(defaultTimeout)

func (c *Client) newRequest(ctx context.Context, token string) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

func (c *Client) GetRequest(ctx context.Context, url string, params map[string]string) (status int, resBody []byte, err error) {
	res, err := c.newRequest(ctx, "").
		SetQueryParams(params).
		Get(url)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode(), res.Body(), nil
}

// PostRequest sends reqBody as JSON; []byte bodies are sent verbatim.
func (c *Client) PostRequest(ctx context.Context, url string, token string, reqBody any) (status int, resBody []byte, err error) {
	res, err := c.newRequest(ctx, token).
		SetBody(reqBody).
		Post(url)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode(), res.Body(), nil
}
