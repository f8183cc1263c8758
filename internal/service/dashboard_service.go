package service

import (
	"context"

	"github.com/DovranA/zara-app/internal/cache"
	"github.com/DovranA/zara-app/internal/model"
	"github.com/DovranA/zara-app/internal/repository"
)

// DashboardStats is the overview block shown on the home screen.
type DashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	TotalProducts     int64   `json:"total_products"`
	PendingDeliveries int64   `json:"pending_deliveries"`
	DeliveredAmount   float64 `json:"delivered_amount"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	deliveries repository.DeliveryRepository
	cache      *cache.Cache
}

func NewDashboardService(u repository.UserRepository, p repository.ProductRepository, d repository.DeliveryRepository, c *cache.Cache) DashboardService {
	return &dashboardService{users: u, products: p, deliveries: d, cache: c}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	return cache.Fetch(ctx, s.cache, cache.List(KindDashboard), func(context.Context) (*DashboardStats, error) {
		var (
			stats DashboardStats
			err   error
		)
		if stats.TotalUsers, err = s.users.Count(); err != nil {
			return nil, err
		}
		if stats.TotalProducts, err = s.products.Count(); err != nil {
			return nil, err
		}
		if stats.PendingDeliveries, err = s.deliveries.CountByStatus(model.StatusPending); err != nil {
			return nil, err
		}
		if stats.DeliveredAmount, err = s.deliveries.DeliveredTotal(); err != nil {
			return nil, err
		}
		return &stats, nil
	})
}
