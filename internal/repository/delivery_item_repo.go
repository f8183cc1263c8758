package repository

import (
	"github.com/DovranA/zara-app/internal/model"

	"gorm.io/gorm"
)

type DeliveryItemRepository interface {
	FindByDelivery(deliveryID int64) ([]model.DeliveryItem, error)
	Create(item *model.DeliveryItem) (int64, error)
	DeleteByDelivery(deliveryID int64) error
}

type deliveryItemRepo struct {
	db *gorm.DB
}

func NewDeliveryItemRepo(db *gorm.DB) DeliveryItemRepository {
	return &deliveryItemRepo{db}
}

func (r *deliveryItemRepo) FindByDelivery(deliveryID int64) ([]model.DeliveryItem, error) {
	var items []model.DeliveryItem
	if err := r.db.Where("delivery_id = ?", deliveryID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *deliveryItemRepo) Create(item *model.DeliveryItem) (int64, error) {
	if err := r.db.Create(item).Error; err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (r *deliveryItemRepo) DeleteByDelivery(deliveryID int64) error {
	return r.db.Where("delivery_id = ?", deliveryID).Delete(&model.DeliveryItem{}).Error
}
