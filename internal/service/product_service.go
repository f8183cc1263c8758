package service

import (
	"context"

	"github.com/DovranA/zara-app/internal/cache"
	"github.com/DovranA/zara-app/internal/model"
	"github.com/DovranA/zara-app/internal/repository"
	"github.com/DovranA/zara-app/pkg/validator"
)

type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Cache
}

func NewProductService(repo repository.ProductRepository, c *cache.Cache) ProductService {
	return &productService{repo: repo, cache: c}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return cache.Fetch(ctx, s.cache, cache.List(KindProducts), func(context.Context) ([]model.Product, error) {
		return s.repo.FindAll()
	})
}

func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, ok, err := cache.FetchIf(ctx, s.cache, id > 0, cache.ByID(KindProducts, id), func(context.Context) (*model.Product, error) {
		return s.repo.FindByID(id)
	})
	if !ok {
		return nil, nil
	}
	return product, err
}

func (s *productService) Create(ctx context.Context, product *model.Product) (int64, error) {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return 0, validationError(errs)
	}
	id, err := s.repo.Create(product)
	if err != nil {
		return 0, err
	}
	s.invalidate()
	return id, nil
}

// Update replaces the product's image set with exactly what the caller
// passed; there is no merge.
func (s *productService) Update(ctx context.Context, product *model.Product) error {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Product mutations also touch the dashboard figures.
func (s *productService) invalidate() {
	s.cache.InvalidateKind(KindProducts)
	s.cache.InvalidateKind(KindDashboard)
}
