package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// 受け付ける決済手段（固定）
var PaymentMethodTypes = []string{"card", "upi", "netbanking", "wallet"}

const (
	SuccessPath = "/success.html"
	CancelPath  = "/cancel.html"

	msgEmptyCart      = "Cart is empty."
	msgInvalidItem    = "invalid item"
	msgSessionFailure = "Failed to create checkout session."
	msgListFailure    = "Failed to list checkout sessions."

	DefaultRecentLimit = 50
	MaxRecentLimit     = 200
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// CheckoutUsecase は POST /create-checkout-session の業務ロジックです。
// リクエスト間で状態を持たない。重複チェックもしない（呼ぶたびに別セッション）。
type CheckoutUsecase struct {
	provider repo.PaymentProvider
	sessions repo.CheckoutSessionRepository
	defaults LineItemDefaults
	idGen    IDGenerator
	clock    Clock
	log      *zap.Logger
}

// DI
func NewCheckoutUsecase(
	provider repo.PaymentProvider,
	sessions repo.CheckoutSessionRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
) *CheckoutUsecase {
	if sessions == nil {
		sessions = repo.NopCheckoutSessionRepository{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutUsecase{
		provider: provider,
		sessions: sessions,
		defaults: DefaultLineItemDefaults,
		idGen:    idGen,
		clock:    clock,
		log:      log,
	}
}

type CreateSessionInput struct {
	Items []RawItem

	//リダイレクト先の組み立てに使う（例: https://shop.example.com）
	Scheme string
	Host   string
}

type CreateSessionOutput struct {
	URL string `json:"url"`
}

// CreateSession は明細をサーバー側で計算し直してセッションを作る。
func (u *CheckoutUsecase) CreateSession(ctx context.Context, in CreateSessionInput) (CreateSessionOutput, error) {
	lineItems, err := u.defaults.MapItems(in.Items)
	if errors.Is(err, ErrEmptyCart) {
		return CreateSessionOutput{}, NewHTTPError(http.StatusBadRequest, msgEmptyCart)
	}
	if err != nil {
		return CreateSessionOutput{}, NewHTTPError(http.StatusBadRequest, msgInvalidItem)
	}

	base := redirectBase(in.Scheme, in.Host)
	res, err := u.provider.CreateSession(ctx, repo.SessionRequest{
		LineItems:          lineItems,
		PaymentMethodTypes: PaymentMethodTypes,
		SuccessURL:         base + SuccessPath,
		CancelURL:          base + CancelPath,
	})
	if err == nil && res.URL == "" {
		err = errors.New("provider returned empty session url")
	}
	if err != nil {
		//詳細はログだけ
		u.log.Error("checkout session error",
			zap.Error(err),
			zap.Int("lines", len(lineItems)),
			zap.String("host", in.Host),
		)
		return CreateSessionOutput{}, NewHTTPError(http.StatusInternalServerError, msgSessionFailure)
	}

	u.record(ctx, res, lineItems, in.Host)

	return CreateSessionOutput{URL: res.URL}, nil
}

// 記録の失敗はレスポンスに影響させない。
func (u *CheckoutUsecase) record(ctx context.Context, res repo.SessionResult, items []model.LineItem, host string) {
	var count int64
	for _, it := range items {
		count += it.Quantity
	}
	//MapItems で桁あふれは弾いている
	total, _ := model.TotalMinorUnits(items)

	s := model.CheckoutSession{
		ID:                u.idGen.NewID(),
		ProviderSessionID: res.ID,
		URL:               res.URL,
		Currency:          items[0].Currency,
		AmountTotal:       total,
		LineCount:         len(items),
		ItemCount:         count,
		Host:              host,
		CreatedAt:         u.clock.Now(),
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		u.log.Warn("checkout session record error", zap.Error(err), zap.String("provider_session_id", res.ID))
	}
}

// RecentSessions は記録済みセッションを新しい順に返す。
// limit が0以下なら DefaultRecentLimit、上限は MaxRecentLimit。
func (u *CheckoutUsecase) RecentSessions(ctx context.Context, limit int) ([]model.CheckoutSession, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	sessions, err := u.sessions.ListRecent(ctx, limit)
	if err != nil {
		u.log.Error("checkout session list error", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, msgListFailure)
	}
	if sessions == nil {
		sessions = []model.CheckoutSession{}
	}
	return sessions, nil
}

func redirectBase(scheme, host string) string {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + host
}
