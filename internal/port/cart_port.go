package port

import (
	"context"

	"github.com/nikolayk812/rocketcart/internal/domain"
)

// Storage is a durable key-value store. Get returns an error wrapping
// domain.ErrNotFound when the key is absent; Set overwrites the whole value.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Catalog interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type StockService interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
