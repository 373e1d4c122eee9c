package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/httpclient"
)

// Config holds carrier gateway configuration.
type Config struct {
	BaseURL string        `env:"CARRIER_BASE_URL" envDefault:"https://dev-online-gateway.ghn.vn/shiip/public-api"`
	Token   string        `env:"CARRIER_TOKEN"`
	ShopID  string        `env:"CARRIER_SHOP_ID"`
	Code    string        `env:"CARRIER_CODE" envDefault:"ghn"`
	Timeout time.Duration `env:"CARRIER_TIMEOUT" envDefault:"15s"`
}

// envelope is the carrier's standard response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the shipping carrier gateway. Lookups go through a retrying
// client; order creation is not idempotent at the carrier, so mutations go
// through a client that never retries. Each path has its own circuit breaker
// so a flood of failed creates does not block fee lookups.
type Client struct {
	baseURL string
	token   string
	shopID  string
	code    string
	read    *httpclient.CircuitBreakerClient
	write   *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a carrier gateway client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	readCfg := httpclient.DefaultConfig()
	readCfg.Timeout = cfg.Timeout

	writeCfg := httpclient.DefaultConfig()
	writeCfg.Timeout = cfg.Timeout
	writeCfg.MaxRetries = 0

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		shopID:  cfg.ShopID,
		code:    cfg.Code,
		read: httpclient.NewCircuitBreakerClient(
			httpclient.New(readCfg),
			httpclient.DefaultCircuitBreakerConfig("carrier-read"),
			logger,
		),
		write: httpclient.NewCircuitBreakerClient(
			httpclient.New(writeCfg),
			httpclient.DefaultCircuitBreakerConfig("carrier-write"),
			logger,
		),
		logger: logger,
	}
}

// Code returns the configured carrier code, stored on shipments.
func (c *Client) Code() string {
	return c.code
}

// Provinces lists the carrier's provinces.
func (c *Client) Provinces(ctx context.Context) ([]Province, error) {
	var provinces []Province
	if err := c.get(ctx, "/master-data/province", &provinces); err != nil {
		return nil, err
	}
	return provinces, nil
}

// Districts lists the districts of a province.
func (c *Client) Districts(ctx context.Context, provinceID int) ([]District, error) {
	var districts []District
	path := fmt.Sprintf("/master-data/district?province_id=%d", provinceID)
	if err := c.get(ctx, path, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// Wards lists the wards of a district.
func (c *Client) Wards(ctx context.Context, districtID int) ([]Ward, error) {
	var wards []Ward
	path := fmt.Sprintf("/master-data/ward?district_id=%d", districtID)
	if err := c.get(ctx, path, &wards); err != nil {
		return nil, err
	}
	return wards, nil
}

// CalculateFee asks the carrier to price a package.
func (c *Client) CalculateFee(ctx context.Context, req FeeRequest) (*FeeResponse, error) {
	var fee FeeResponse
	if err := c.post(ctx, c.read, "/v2/shipping-order/fee", req, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// PreviewOrder quotes an order without creating it. Safe to retry, so it goes
// through the read path.
func (c *Client) PreviewOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.post(ctx, c.read, "/v2/shipping-order/preview", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder places a carrier order. Not idempotent; never retried.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.post(ctx, c.write, "/v2/shipping-order/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelOrder cancels a carrier order by its order code.
func (c *Client) CancelOrder(ctx context.Context, orderCode string) error {
	body := map[string][]string{"order_codes": {orderCode}}
	return c.post(ctx, c.write, "/v2/switch-status/cancel", body, nil)
}

// TrackOrder retrieves the carrier's current status of an order.
func (c *Client) TrackOrder(ctx context.Context, orderCode string) (*TrackResponse, error) {
	body := map[string]string{"order_code": orderCode}

	var resp TrackResponse
	if err := c.post(ctx, c.read, "/v2/shipping-order/detail", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create carrier request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.read.Do(ctx, req)
	if err != nil {
		return c.mapTransportError(err)
	}

	return c.decode(resp, out)
}

func (c *Client) post(ctx context.Context, client *httpclient.CircuitBreakerClient, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal carrier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create carrier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := client.Do(ctx, req)
	if err != nil {
		return c.mapTransportError(err)
	}

	return c.decode(resp, out)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Token", c.token)
	}
	if c.shopID != "" {
		req.Header.Set("ShopId", c.shopID)
	}
}

func (c *Client) decode(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, "carrier")
	}

	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read carrier response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("decode carrier envelope: %w", err)
	}

	if env.Code != 200 {
		return apperrors.InvalidInput(fmt.Sprintf("carrier: %s", env.Message))
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode carrier data: %w", err)
		}
	}

	return nil
}

func (c *Client) mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Unavailable(fmt.Sprintf("carrier unreachable: %v", err))
}
