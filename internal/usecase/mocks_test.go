package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreateSession(ctx context.Context, req repo.SessionRequest) (repo.SessionResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(repo.SessionResult)
	return res, args.Error(1)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, s model.CheckoutSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepoMock) ListRecent(ctx context.Context, limit int) ([]model.CheckoutSession, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]model.CheckoutSession)
	return out, args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateCheckoutSession(ctx context.Context, items []repo.CheckoutItem) (repo.CheckoutReply, error) {
	args := m.Called(ctx, items)
	r, _ := args.Get(0).(repo.CheckoutReply)
	return r, args.Error(1)
}

// Saveだけ失敗させられるスナップショット保存先
type flakyStore struct {
	data    map[string][]byte
	saveErr error
	delErr  error
}

func newFlakyStore() *flakyStore {
	return &flakyStore{data: map[string][]byte{}}
}

func (s *flakyStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *flakyStore) Save(_ context.Context, key string, data []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[key] = append([]byte{}, data...)
	return nil
}

func (s *flakyStore) Delete(_ context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

func (s *flakyStore) Close() error { return nil }

type staticFeed struct {
	products []model.Product
}

func (f staticFeed) List(context.Context) ([]model.Product, error) {
	return append([]model.Product{}, f.products...), nil
}

func (f staticFeed) FindByID(_ context.Context, id string) (model.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

type fixedID struct{ id string }

func (g fixedID) NewID() string { return g.id }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// Helpers
// =====================

var errBoom = errors.New("boom")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testFeed() staticFeed {
	return staticFeed{products: []model.Product{
		{ID: "p1", Name: "Kurta", Price: dec("1999"), Category: "clothing", Image: "/img/kurta.jpg"},
		{ID: "p2", Name: "Chai Mug", Price: dec("299"), Category: "kitchen", Image: "/img/mug.jpg"},
		{ID: "p3", Name: "Saree", Price: dec("4999.99"), Category: "clothing", Image: "/img/saree.jpg"},
		{ID: "p4", Name: "ankle bells", Price: dec("199.5"), Category: "accessories"},
	}}
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
