package service

import (
	"context"
	"errors"

	"github.com/DovranA/zara-app/internal/cache"
	"github.com/DovranA/zara-app/internal/model"
	"github.com/DovranA/zara-app/internal/repository"
	"github.com/DovranA/zara-app/pkg/validator"
)

var ErrNoItems = errors.New("delivery needs at least one item")

// DeliveryWithItems is the hydrated read shape for a single delivery.
type DeliveryWithItems struct {
	model.Delivery
	Items []model.DeliveryItem `json:"items"`
}

type DeliveryService interface {
	List(ctx context.Context) ([]model.Delivery, error)
	Get(ctx context.Context, id int64) (*DeliveryWithItems, error)
	Items(ctx context.Context, deliveryID int64) ([]model.DeliveryItem, error)
	Create(ctx context.Context, delivery *model.Delivery, items []model.DeliveryItem) (int64, error)
	Update(ctx context.Context, delivery *model.Delivery) error
	Delete(ctx context.Context, id int64) error
}

type deliveryService struct {
	deliveries repository.DeliveryRepository
	items      repository.DeliveryItemRepository
	cache      *cache.Cache
}

func NewDeliveryService(d repository.DeliveryRepository, i repository.DeliveryItemRepository, c *cache.Cache) DeliveryService {
	return &deliveryService{deliveries: d, items: i, cache: c}
}

func (s *deliveryService) List(ctx context.Context) ([]model.Delivery, error) {
	return cache.Fetch(ctx, s.cache, cache.List(KindDeliveries), func(context.Context) ([]model.Delivery, error) {
		return s.deliveries.FindAll()
	})
}

func (s *deliveryService) Get(ctx context.Context, id int64) (*DeliveryWithItems, error) {
	result, ok, err := cache.FetchIf(ctx, s.cache, id > 0, cache.ByID(KindDeliveries, id), func(context.Context) (*DeliveryWithItems, error) {
		delivery, err := s.deliveries.FindByID(id)
		if err != nil || delivery == nil {
			return nil, err
		}
		items, err := s.items.FindByDelivery(id)
		if err != nil {
			return nil, err
		}
		return &DeliveryWithItems{Delivery: *delivery, Items: items}, nil
	})
	if !ok {
		return nil, nil
	}
	return result, err
}

// Items lists the lines of one delivery, cached under the owning delivery's
// item-list key.
func (s *deliveryService) Items(ctx context.Context, deliveryID int64) ([]model.DeliveryItem, error) {
	items, ok, err := cache.FetchIf(ctx, s.cache, deliveryID > 0, cache.ByID(KindDeliveryItems, deliveryID), func(context.Context) ([]model.DeliveryItem, error) {
		return s.items.FindByDelivery(deliveryID)
	})
	if !ok {
		return nil, nil
	}
	return items, err
}

// Create persists the delivery and all of its lines atomically. When the
// caller leaves TotalAmount zero it is computed once here, from the item
// price snapshots; after that the total is never recomputed.
func (s *deliveryService) Create(ctx context.Context, delivery *model.Delivery, items []model.DeliveryItem) (int64, error) {
	if errs := validator.ValidateStruct(delivery); len(errs) > 0 {
		return 0, validationError(errs)
	}
	if len(items) == 0 {
		return 0, ErrNoItems
	}
	for i := range items {
		if errs := validator.ValidateStruct(&items[i]); len(errs) > 0 {
			return 0, validationError(errs)
		}
	}

	if delivery.TotalAmount == 0 {
		var total float64
		for _, item := range items {
			total += item.UnitPrice * float64(item.Quantity)
		}
		delivery.TotalAmount = total
	}

	id, err := s.deliveries.CreateWithItems(delivery, items)
	if err != nil {
		return 0, err
	}

	s.cache.InvalidateKind(KindDeliveries)
	s.cache.Invalidate(cache.ByID(KindDeliveryItems, id))
	s.cache.InvalidateKind(KindDashboard)
	return id, nil
}

func (s *deliveryService) Update(ctx context.Context, delivery *model.Delivery) error {
	if errs := validator.ValidateStruct(delivery); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.deliveries.Update(delivery); err != nil {
		return err
	}
	s.cache.InvalidateKind(KindDeliveries)
	s.cache.InvalidateKind(KindDashboard)
	return nil
}

func (s *deliveryService) Delete(ctx context.Context, id int64) error {
	if err := s.deliveries.Delete(id); err != nil {
		return err
	}
	s.cache.InvalidateKind(KindDeliveries)
	s.cache.Invalidate(cache.ByID(KindDeliveryItems, id))
	s.cache.InvalidateKind(KindDashboard)
	return nil
}
