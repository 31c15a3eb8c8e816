package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/core/config"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the store API answers 404.
	ErrNotFound = errors.New("store api: resource not found")
	// ErrRejected is returned when the store API refuses an order (400).
	ErrRejected = errors.New("store api: order rejected")
)

// StatusError carries an unexpected HTTP status from the store API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store api returned status: %d", e.Code)
	}
	return fmt.Sprintf("store api returned status %d: %s", e.Code, e.Message)
}

// APIClient is the contract for talking to the remote store.
type APIClient interface {
	GetProducts(ctx context.Context) ([]ProductDTO, error)
	GetProductByID(ctx context.Context, id string) (*ProductDTO, error)
	SubmitOrder(ctx context.Context, order OrderRequest) (*OrderResult, error)
}

// ProductDTO is a product as served by the store API.
type ProductDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Image       string              `json:"image"`
	Category    string              `json:"category"`
}

// ProductList is the envelope of GET /product/.
type ProductList struct {
	Total int          `json:"total"`
	Items []ProductDTO `json:"items"`
}

// OrderRequest is the body of POST /order. Items holds one product ID per unit.
type OrderRequest struct {
	Payment string          `json:"payment"`
	Address string          `json:"address"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Total   decimal.Decimal `json:"total"`
	Items   []string        `json:"items"`
}

// OrderResult is the store API's confirmation of an accepted order.
type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

func init() {
	// The store API speaks plain JSON numbers for prices and totals.
	decimal.MarshalJSONWithoutQuotes = true
}

type errorBody struct {
	Error string `json:"error"`
}

// Client implements APIClient over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	cdnURL  string
	token   string
	logger  *zap.Logger
}

// NewClient creates a store API client from configuration.
func NewClient(cfg config.StoreAPIConfig, opts httpclient.Options) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid store api url: %w", err)
	}

	if opts.Timeout == 0 {
		opts.Timeout = cfg.Timeout()
	}
	hc, err := httpclient.NewClient(opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:  hc,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		cdnURL:  strings.TrimRight(cfg.CDNURL, "/"),
		token:   cfg.Token,
		logger:  logger.Named("storeapi"),
	}, nil
}

// GetProducts fetches the whole catalog.
func (c *Client) GetProducts(ctx context.Context) ([]ProductDTO, error) {
	var list ProductList
	if err := c.do(ctx, http.MethodGet, "/product/", nil, &list); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	for i := range list.Items {
		c.resolveImage(&list.Items[i])
	}
	return list.Items, nil
}

// GetProductByID fetches a single product.
func (c *Client) GetProductByID(ctx context.Context, id string) (*ProductDTO, error) {
	var p ProductDTO
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	c.resolveImage(&p)
	return &p, nil
}

// SubmitOrder posts an order and returns the store's confirmation.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (*OrderResult, error) {
	var res OrderResult
	if err := c.do(ctx, http.MethodPost, "/order", order, &res); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	c.logger.Info("Order accepted by store",
		zap.String("order_id", res.ID),
		zap.String("total", res.Total.String()),
		zap.Int("units", len(order.Items)),
	)
	return &res, nil
}

// HealthCheck verifies that the store API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/product/", nil, nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &eb); err != nil {
			c.logger.Debug("Non-JSON error body", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		if eb.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, eb.Error)
		}
		return ErrRejected
	default:
		return &StatusError{Code: resp.StatusCode, Message: eb.Error}
	}
}

// resolveImage turns a relative image path into an absolute CDN URL.
func (c *Client) resolveImage(p *ProductDTO) {
	if c.cdnURL == "" || p.Image == "" {
		return
	}
	if strings.HasPrefix(p.Image, "http://") || strings.HasPrefix(p.Image, "https://") {
		return
	}
	p.Image = c.cdnURL + "/" + strings.TrimLeft(p.Image, "/")
}
