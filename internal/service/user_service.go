package service

import (
	"context"
	"fmt"

	"github.com/DovranA/zara-app/internal/cache"
	"github.com/DovranA/zara-app/internal/model"
	"github.com/DovranA/zara-app/internal/repository"
	"github.com/DovranA/zara-app/pkg/validator"
)

// Cache key kinds, shared with the invalidation side of every mutation.
const (
	KindUsers         = "users"
	KindProducts      = "products"
	KindDeliveries    = "deliveries"
	KindDeliveryItems = "delivery_items"
	KindDashboard     = "dashboard"
)

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Cache
}

func NewUserService(repo repository.UserRepository, c *cache.Cache) UserService {
	return &userService{repo: repo, cache: c}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return cache.Fetch(ctx, s.cache, cache.List(KindUsers), func(context.Context) ([]model.User, error) {
		return s.repo.FindAll()
	})
}

// Get with a zero id is a disabled read: no store access, no error, no data.
func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, ok, err := cache.FetchIf(ctx, s.cache, id > 0, cache.ByID(KindUsers, id), func(context.Context) (*model.User, error) {
		return s.repo.FindByID(id)
	})
	if !ok {
		return nil, nil
	}
	return user, err
}

func (s *userService) Create(ctx context.Context, user *model.User) (int64, error) {
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return 0, validationError(errs)
	}
	id, err := s.repo.Create(user)
	if err != nil {
		return 0, err
	}
	s.invalidate()
	return id, nil
}

func (s *userService) Update(ctx context.Context, user *model.User) error {
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.repo.Update(user); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// User mutations also touch the dashboard figures.
func (s *userService) invalidate() {
	s.cache.InvalidateKind(KindUsers)
	s.cache.InvalidateKind(KindDashboard)
}
