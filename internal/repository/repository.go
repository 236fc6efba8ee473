package repository

import (
	"context"
	"errors"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrDuplicateKey    = errors.New("duplicate key")

	// ErrVersionConflict means the cart was replaced with a stale
	// version token; the caller should re-read and retry.
	ErrVersionConflict = errors.New("cart version conflict")
)

// CartRepository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Insert(ctx context.Context, cart *domain.Cart) error
	// Replace writes the cart only if the stored document still holds
	// expectedVersion. ErrVersionConflict otherwise.
	Replace(ctx context.Context, cart *domain.Cart, expectedVersion int64) error
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Search   string
	Featured *bool
	Status   string
	Sort     string
	Page     int64
	Limit    int64
}

type ProductRepository interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	Insert(ctx context.Context, admin *domain.Admin) error
	UpdateLastLogin(ctx context.Context, id string) error
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates indexes for every repository that declares them.
func EnsureIndexes(ctx context.Context, repos ...interface{}) error {
	for _, r := range repos {
		if e, ok := r.(indexEnsurer); ok {
			if err := e.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
