package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nounrr/boukir-storefront/internal/domain"
)

// Client is the thin request layer over the commerce backend's REST API.
// Wire formats are owned by the backend; this client only knows the shapes
// the storefront core depends on.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) GetCart(ctx context.Context, token string) ([]domain.LineItem, error) {
	var resp struct {
		Items []domain.LineItem `json:"items"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/cart", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) AddCartItem(ctx context.Context, token string, productID int64, variantID *int64, quantity int) error {
	body := struct {
		ProductID int64  `json:"productId"`
		VariantID *int64 `json:"variantId,omitempty"`
		Quantity  int    `json:"quantity"`
	}{productID, variantID, quantity}
	return c.do(ctx, token, http.MethodPost, "/cart/items", nil, body, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, itemID int64, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	return c.do(ctx, token, http.MethodPatch, fmt.Sprintf("/cart/items/%d", itemID), nil, body, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, itemID int64) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, token, http.MethodDelete, "/cart", nil, nil, nil)
}

func (c *Client) RequestQuote(ctx context.Context, token string, req QuoteRequest) (*domain.ShippingQuote, error) {
	var resp struct {
		Totals struct {
			ShippingCost float64 `json:"shippingCost"`
		} `json:"totals"`
		Summary *struct {
			DistanceKm *float64 `json:"distanceKm"`
		} `json:"summary"`
	}
	if err := c.do(ctx, token, http.MethodPost, "/orders/quote", nil, req, &resp); err != nil {
		return nil, err
	}
	quote := &domain.ShippingQuote{ShippingCost: resp.Totals.ShippingCost}
	if resp.Summary != nil {
		quote.DistanceKm = resp.Summary.DistanceKm
	}
	return quote, nil
}

// CreateOrder submits the order. Failures come back as *OrderError carrying
// the backend's errorType discriminator and any numeric context.
func (c *Client) CreateOrder(ctx context.Context, token string, idempotencyKey string, req OrderRequest) (*domain.Order, error) {
	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	var order domain.Order
	if err := c.do(ctx, token, http.MethodPost, "/orders", headers, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, token, http.MethodGet, "/users/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) do(ctx context.Context, token, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		if path == "/orders" && method == http.MethodPost {
			return newOrderError(resp.StatusCode, respBody)
		}
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response failed: %w", err)
		}
	}
	return nil
}
