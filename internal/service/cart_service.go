package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abelprasad/SathikaBoutique/internal/cache"
	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/repository"
)

// conflictRetries bounds how often a mutation is replayed after losing a
// version race against a concurrent writer on the same session.
const conflictRetries = 3

// CartService is the authoritative cart store. Mutations validate against
// the catalog, bump the cart version and replace the whole document;
// reads come through a Redis cache guarded by singleflight.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
	log      *zap.SugaredLogger
	ttl      time.Duration
}

func NewCartService(
	repo repository.CartRepository,
	products repository.ProductRepository,
	cartCache cache.CartCache,
	log *zap.SugaredLogger,
	ttl time.Duration,
) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cartCache,
		log:      log,
		ttl:      ttl,
	}
}

// Get returns the cart for a session, creating an empty one for a session
// that has never been seen.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warnw("cache get failed", "session_id", sessionID, "error", err)
		}

		cart, err = s.getOrCreate(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if err := s.resolve(ctx, cart); err != nil {
			return nil, err
		}

		// The async set can land after a concurrent mutation's cache
		// invalidation and pin a stale cart until the TTL expires. The
		// cache is a read accelerator, not the source of truth, and the
		// window is bounded by the jittered TTL.
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, sessionID, cart); errSet != nil {
				s.log.Warnw("cache set failed", "session_id", sessionID, "error", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem adds quantity of a product variant to the session's cart. A line
// already holding the same (product, variant) pair is incremented, never
// duplicated.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID, variantID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variant := product.FindVariant(variantID)
	if variant == nil {
		return nil, ErrVariantNotFound
	}

	return s.mutate(ctx, sessionID, true, func(cart *domain.Cart) error {
		requested := quantity
		if i := cart.FindLine(productID, variantID); i >= 0 {
			requested += cart.Items[i].Quantity
		}
		if requested > variant.Stock {
			return &InsufficientStockError{Available: variant.Stock}
		}

		if i := cart.FindLine(productID, variantID); i >= 0 {
			cart.Items[i].Quantity = requested
			return nil
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
		return nil
	})
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return s.mutate(ctx, sessionID, false, func(cart *domain.Cart) error {
		i := cart.FindItem(itemID)
		if i < 0 {
			return ErrItemNotFound
		}

		item := &cart.Items[i]
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		// A product removed from the catalog no longer constrains the
		// quantity; the line just stops resolving at read time.
		if product != nil {
			if variant := product.FindVariant(item.VariantID); variant != nil && quantity > variant.Stock {
				return &InsufficientStockError{Available: variant.Stock}
			}
		}

		item.Quantity = quantity
		return nil
	})
}

// RemoveItem drops a line from the cart. Removing an id that is not in the
// cart is a no-op; only an absent cart is an error.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, false, func(cart *domain.Cart) error {
		if i := cart.FindItem(itemID); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
		return nil
	})
}

// ClearCart empties the item list but keeps the document.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, false, func(cart *domain.Cart) error {
		cart.Items = []domain.CartItem{}
		return nil
	})
}

// mutate runs a read-modify-replace cycle with optimistic concurrency.
// createIfMissing makes a fresh cart for a never-seen session (add path);
// the other mutations require the cart to exist. A lost version race is
// replayed against fresh state up to conflictRetries times.
func (s *CartService) mutate(ctx context.Context, sessionID string, createIfMissing bool, apply func(cart *domain.Cart) error) (*domain.Cart, error) {
	var lastErr error

	for attempt := 0; attempt < conflictRetries; attempt++ {
		cart, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, repository.ErrCartNotFound) {
				return nil, err
			}
			if !createIfMissing {
				return nil, ErrCartNotFound
			}
			cart = s.newCart(sessionID)
		}

		if err := apply(cart); err != nil {
			return nil, err
		}

		now := time.Now()
		cart.LastActivity = now
		cart.ExpiresAt = now.Add(s.ttl) // rolling expiry window

		if cart.ID == "" {
			cart.Version = 1
			err = s.repo.Insert(ctx, cart)
			if errors.Is(err, repository.ErrDuplicateKey) {
				// Lost the creation race; replay against the winner.
				lastErr = err
				continue
			}
		} else {
			expected := cart.Version
			cart.Version++
			err = s.repo.Replace(ctx, cart, expected)
			if errors.Is(err, repository.ErrVersionConflict) {
				s.log.Debugw("cart version conflict, retrying", "session_id", sessionID, "attempt", attempt+1)
				lastErr = err
				continue
			}
			if errors.Is(err, repository.ErrCartNotFound) {
				return nil, ErrCartNotFound
			}
		}
		if err != nil {
			return nil, err
		}

		s.invalidateCache(sessionID)

		if err := s.resolve(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	return nil, lastErr
}

func (s *CartService) newCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID:    sessionID,
		Items:        []domain.CartItem{},
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
	}
}

func (s *CartService) getOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	cart = s.newCart(sessionID)
	cart.Version = 1
	if err := s.repo.Insert(ctx, cart); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return s.repo.Get(ctx, sessionID)
		}
		return nil, err
	}
	return cart, nil
}

// resolve joins every item to its catalog projection. Items whose product
// is gone keep a nil projection rather than failing the read.
func (s *CartService) resolve(ctx context.Context, cart *domain.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(cart.Items))
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if product, ok := products[cart.Items[i].ProductID]; ok {
			cart.Items[i].Product = product.Summary()
		}
	}
	return nil
}

func (s *CartService) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.log.Warnw("cache invalidate failed", "session_id", sessionID, "error", err)
	}
}
