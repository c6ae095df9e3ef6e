package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 10 * time.Second

type productDTO struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type stockDTO struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

// Client reads product metadata and stock levels from the storefront API.
// It serves both port.Catalog and port.StockService.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("baseURL[%s] must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var dto productDTO
	if err := c.get(ctx, "products", productID, &dto); err != nil {
		return domain.Product{}, fmt.Errorf("c.get: %w", err)
	}

	return domain.Product{
		ID:    dto.ID,
		Title: dto.Title,
		Price: dto.Price,
		Image: dto.Image,
	}, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var dto stockDTO
	if err := c.get(ctx, "stock", productID, &dto); err != nil {
		return domain.Stock{}, fmt.Errorf("c.get: %w", err)
	}

	return domain.Stock{
		ProductID: dto.ID,
		Amount:    dto.Amount,
	}, nil
}

func (c *Client) get(ctx context.Context, resource string, id int64, out any) error {
	u := c.baseURL.JoinPath(resource, strconv.FormatInt(id, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s[%d]: %w", resource, id, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s[%d]: unexpected status %d: %s", resource, id, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}
