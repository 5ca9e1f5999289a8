package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	repo "storefront/internal/repository"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type StripeOptions struct {
	SecretKey string
	Timeout   time.Duration

	// テスト用。空なら本番API
	BaseURL string
}

// StripeProvider は Stripe Checkout Sessions でホスト型決済ページを作る。
// SDKの自動リトライは切る（失敗したら利用者がやり直す）。
type StripeProvider struct {
	api *client.API
}

// DI
func NewStripeProvider(opts StripeOptions, log *zap.Logger) *StripeProvider {
	if log == nil {
		log = zap.NewNop()
	}

	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: opts.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     log.Named("stripe").Sugar(),
	}
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(opts.BaseURL)
	}

	api := &client.API{}
	api.Init(opts.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})

	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateSession(ctx context.Context, req repo.SessionRequest) (repo.SessionResult, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, it := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(it.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.ProductName),
				},
				UnitAmount: stripe.Int64(it.UnitAmountMinorUnits),
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return repo.SessionResult{}, fmt.Errorf("%w: stripe: %w", repo.ErrProvider, err)
	}

	return repo.SessionResult{ID: s.ID, URL: s.URL}, nil
}

var _ repo.PaymentProvider = (*StripeProvider)(nil)
