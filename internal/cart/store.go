package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
)

const (
	DefaultKey = "@RocketShoes:cart"

	tracerName = "github.com/nikolayk812/rocketcart/internal/cart"
)

type Options struct {
	// Key is the storage key holding the serialized cart. Defaults to DefaultKey.
	Key string
	// Currency of catalog prices, used for totals. Defaults to BRL.
	Currency       currency.Unit
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	Now            func() time.Time
}

// Store owns the cart of one storefront session. Mutations are serialized;
// each one computes the next cart as a copy, persists it and only then makes
// it visible to readers.
type Store struct {
	// writeMu is held for a whole operation, remote calls included.
	writeMu sync.Mutex

	mu    sync.RWMutex
	items []domain.Product

	key      string
	unit     currency.Unit
	storage  port.Storage
	catalog  port.Catalog
	stock    port.StockService
	notifier port.Notifier
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewStore(
	ctx context.Context,
	storage port.Storage,
	catalog port.Catalog,
	stock port.StockService,
	notifier port.Notifier,
	opts Options,
) (*Store, error) {
	if storage == nil || catalog == nil || stock == nil || notifier == nil {
		return nil, fmt.Errorf("storage, catalog, stock and notifier are required")
	}

	s := &Store{
		key:      opts.Key,
		unit:     opts.Currency,
		storage:  storage,
		catalog:  catalog,
		stock:    stock,
		notifier: notifier,
		logger:   opts.Logger,
		now:      opts.Now,
	}

	if s.key == "" {
		s.key = DefaultKey
	}
	if s.unit == (currency.Unit{}) {
		s.unit = currency.BRL
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	s.tracer = tp.Tracer(tracerName)

	items, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.load: %w", err)
	}
	s.items = items

	return s, nil
}

func (s *Store) load(ctx context.Context) ([]domain.Product, error) {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("storage.Get: %w", err)
	}

	items, err := decodeCart(data)
	if err != nil {
		s.logger.WarnContext(ctx, "stored cart is malformed, starting empty",
			"key", s.key, "err", err)
		return []domain.Product{}, nil
	}

	items, dropped := normalize(items)
	if dropped > 0 {
		s.logger.WarnContext(ctx, "dropped invalid stored cart entries",
			"key", s.key, "dropped", dropped)
	}

	return items, nil
}

// Cart returns a copy of the current line items in insertion order.
func (s *Store) Cart() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *Store) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.CalculateTotals(s.items, s.unit)
}

func (s *Store) AddProduct(ctx context.Context, productID int64) {
	ctx, span := s.startSpan(ctx, "cart.AddProduct", productID)
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.snapshot()
	if idx := indexOf(current, productID); idx >= 0 {
		s.updateProductAmount(ctx, span, domain.AmountUpdate{
			ProductID: productID,
			Amount:    current[idx].Amount + 1,
		})
		return
	}

	if err := s.addNew(ctx, current, productID); err != nil {
		s.fail(ctx, span, domain.MsgAddFailed, err)
	}
}

func (s *Store) addNew(ctx context.Context, current []domain.Product, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("productID[%d]: %w", productID, domain.ErrInvalidProductID)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.GetProduct: %w", err)
	}
	if product.ID != productID {
		return fmt.Errorf("catalog returned product[%d] for productID[%d]", product.ID, productID)
	}

	next := append(slices.Clone(current), domain.Product{
		ID:     product.ID,
		Title:  product.Title,
		Price:  product.Price,
		Image:  product.Image,
		Amount: 1,
	})

	return s.commit(ctx, next)
}

func (s *Store) RemoveProduct(ctx context.Context, productID int64) {
	ctx, span := s.startSpan(ctx, "cart.RemoveProduct", productID)
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.snapshot()
	if indexOf(current, productID) < 0 {
		s.fail(ctx, span, domain.MsgRemoveFailed,
			fmt.Errorf("productID[%d]: %w", productID, domain.ErrNotInCart))
		return
	}

	next := slices.DeleteFunc(slices.Clone(current), func(p domain.Product) bool {
		return p.ID == productID
	})

	if err := s.commit(ctx, next); err != nil {
		s.fail(ctx, span, domain.MsgRemoveFailed, err)
	}
}

// UpdateProductAmount sets the amount of a line item after checking stock.
// Non-positive amounts are ignored without notification.
func (s *Store) UpdateProductAmount(ctx context.Context, update domain.AmountUpdate) {
	ctx, span := s.startSpan(ctx, "cart.UpdateProductAmount", update.ProductID)
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.updateProductAmount(ctx, span, update)
}

// updateProductAmount expects writeMu to be held.
func (s *Store) updateProductAmount(ctx context.Context, span trace.Span, update domain.AmountUpdate) {
	span.SetAttributes(attribute.Int64("cart.amount", update.Amount))

	if update.Amount <= 0 {
		return
	}

	err := s.setAmount(ctx, update)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStockExceeded):
		s.fail(ctx, span, domain.MsgStockExceeded, err)
	default:
		s.fail(ctx, span, domain.MsgQuantityFailed, err)
	}
}

func (s *Store) setAmount(ctx context.Context, update domain.AmountUpdate) error {
	current := s.snapshot()

	idx := indexOf(current, update.ProductID)
	if idx < 0 {
		return fmt.Errorf("productID[%d]: %w", update.ProductID, domain.ErrNotInCart)
	}

	stock, err := s.stock.GetStock(ctx, update.ProductID)
	if err != nil {
		return fmt.Errorf("stock.GetStock: %w", err)
	}

	if stock.Amount < update.Amount {
		return fmt.Errorf("requested[%d] available[%d]: %w", update.Amount, stock.Amount, domain.ErrStockExceeded)
	}

	next := slices.Clone(current)
	next[idx].Amount = update.Amount

	return s.commit(ctx, next)
}

// commit writes the whole cart to storage and, only if that succeeds,
// replaces the in-memory cart.
func (s *Store) commit(ctx context.Context, next []domain.Product) error {
	data, err := encodeCart(next)
	if err != nil {
		return fmt.Errorf("encodeCart: %w", err)
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("storage.Set: %w", err)
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	return nil
}

func (s *Store) snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.items
}

func (s *Store) fail(ctx context.Context, span trace.Span, message string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)

	s.logger.WarnContext(ctx, message, "key", s.key, "err", err)
	s.notifier.Notify(ctx, domain.NewErrorNotification(message, s.now()))
}

func (s *Store) startSpan(ctx context.Context, name string, productID int64) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("product.id", productID)))
}

func indexOf(items []domain.Product, productID int64) int {
	return slices.IndexFunc(items, func(p domain.Product) bool {
		return p.ID == productID
	})
}
