package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/repository"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ProductPage is one page of a filtered catalog listing.
type ProductPage struct {
	Products []domain.Product
	Total    int64
	Page     int64
	Pages    int64
}

// CatalogService serves the storefront read side and the admin write side
// of the product catalog.
type CatalogService struct {
	repo repository.ProductRepository
	log  *zap.SugaredLogger
}

func NewCatalogService(repo repository.ProductRepository, log *zap.SugaredLogger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// List returns published products matching the filter. The storefront
// never sees drafts or archived products.
func (s *CatalogService) List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error) {
	filter.Status = domain.StatusPublished
	if filter.Limit <= 0 {
		filter.Limit = 12
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		Pages:    pages,
	}, nil
}

func (s *CatalogService) Featured(ctx context.Context, limit int64) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	featured := true
	products, _, err := s.repo.List(ctx, repository.ProductFilter{
		Status:   domain.StatusPublished,
		Featured: &featured,
		Limit:    limit,
		Page:     1,
	})
	return products, err
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Create inserts a new product. Missing slugs are derived from the name,
// variants get ids, and the status defaults to draft.
func (s *CatalogService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	if product.Status == "" {
		product.Status = domain.StatusDraft
	}
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.log.Infow("product created", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

func (s *CatalogService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	existing, err := s.repo.Get(ctx, product.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.CreatedAt = existing.CreatedAt
	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return ErrProductNotFound
	}
	return err
}

// Slugify lowercases a name and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
