package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/guonaihong/gout"
)

// Client はセッションゲートウェイ（cmd/api）へのHTTPクライアント。
type Client struct {
	baseURL string
	http    *http.Client
}

// DI
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type createSessionRequest struct {
	Items []repo.CheckoutItem `json:"items"`
}

type createSessionResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// POST /create-checkout-session
// 4xx/5xx も応答として返す。届かなかったときだけ ErrNetwork。
func (c *Client) CreateCheckoutSession(ctx context.Context, items []repo.CheckoutItem) (repo.CheckoutReply, error) {
	var (
		body createSessionResponse
		code int
	)

	err := gout.New(c.http).
		POST(c.baseURL + "/create-checkout-session").
		WithContext(ctx).
		SetJSON(createSessionRequest{Items: items}).
		BindJSON(&body).
		Code(&code).
		Do()
	if err != nil {
		return repo.CheckoutReply{}, fmt.Errorf("%w: %v", repo.ErrNetwork, err)
	}

	return repo.CheckoutReply{
		StatusCode: code,
		URL:        body.URL,
		Error:      body.Error,
	}, nil
}

// GET /products.json（起動時に1回）
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var (
		products []model.Product
		code     int
	)

	err := gout.New(c.http).
		GET(c.baseURL + "/products.json").
		WithContext(ctx).
		BindJSON(&products).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repo.ErrNetwork, err)
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("fetch products: status %d", code)
	}
	return products, nil
}

var _ repo.CheckoutGateway = (*Client)(nil)
