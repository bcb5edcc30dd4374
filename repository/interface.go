package repository

import (
	"context"
	"errors"
	"time"

	"github.com/veekshithcb/Qkartbackend/models"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrConflict     = errors.New("document was modified concurrently")
	ErrDuplicate    = errors.New("document already exists")
	ErrNegativeCost = errors.New("cost is negative")
)

// ProductCatalog is a read-only view of the products collection.
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// CartRepository persists one cart per user. Save is a compare-and-swap on
// Cart.Version and returns ErrConflict when the stored version moved on.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
}

// AccountRepository persists user accounts. Save follows the same
// compare-and-swap contract as CartRepository.Save.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Save(ctx context.Context, account *models.Account) error
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits together or not at all. fn may be invoked more than once
// when the store retries a transient failure.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore remembers the outcome of requests carrying an
// Idempotency-Key.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request. It returns false when the
	// key is already claimed or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, key, value string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
