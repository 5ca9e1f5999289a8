package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	repo "storefront/internal/repository"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerOptions struct {
	MaxFailures uint32        // 連続失敗でopen
	OpenFor     time.Duration // openのまま待つ時間
}

// BreakerProvider はプロバイダ障害時にすぐ失敗を返す。リトライはしない。
type BreakerProvider struct {
	next repo.PaymentProvider
	cb   *gobreaker.CircuitBreaker[repo.SessionResult]
}

// DI
func NewBreakerProvider(next repo.PaymentProvider, opts BreakerOptions, log *zap.Logger) *BreakerProvider {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[repo.SessionResult](gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: 1,
		Timeout:     opts.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= opts.MaxFailures
		},
		// 呼び出し側のキャンセルはプロバイダ障害に数えない
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerProvider{next: next, cb: cb}
}

func (b *BreakerProvider) CreateSession(ctx context.Context, req repo.SessionRequest) (repo.SessionResult, error) {
	res, err := b.cb.Execute(func() (repo.SessionResult, error) {
		return b.next.CreateSession(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return repo.SessionResult{}, fmt.Errorf("%w: %v", repo.ErrProvider, err)
	}
	return res, err
}

func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

var _ repo.PaymentProvider = (*BreakerProvider)(nil)
