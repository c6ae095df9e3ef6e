package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
	"github.com/nikolayk812/rocketcart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var errTransport = errors.New("connection refused")

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	err      error
	calls    int
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[int64]domain.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.err != nil {
		return domain.Product{}, c.err
	}
	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

type fakeStock struct {
	mu     sync.Mutex
	amount map[int64]int64
	err    error
	calls  int
}

func newFakeStock(amounts map[int64]int64) *fakeStock {
	return &fakeStock{amount: amounts}
}

func (s *fakeStock) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return domain.Stock{}, s.err
	}
	amount, ok := s.amount[productID]
	if !ok {
		return domain.Stock{}, domain.ErrNotFound
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, notification)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var result []string
	for _, item := range n.items {
		result = append(result, item.Message)
	}
	return result
}

// flakyStorage wraps memory storage and fails writes on demand.
type flakyStorage struct {
	port.Storage
	setErr error
	getErr error
	sets   int
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{Storage: repository.NewMemory()}
}

func (s *flakyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Storage.Get(ctx, key)
}

func (s *flakyStorage) Set(ctx context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	return s.Storage.Set(ctx, key, value)
}

func randomProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Image: gofakeit.URL(),
	}
}

func assertProducts(t *testing.T, expected, actual []domain.Product) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, decimalComparer, cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}
