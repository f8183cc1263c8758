package repository

import (
	"errors"

	"github.com/DovranA/zara-app/internal/model"

	"gorm.io/gorm"
)

type DeliveryRepository interface {
	FindAll() ([]model.Delivery, error)
	FindByID(id int64) (*model.Delivery, error)
	Create(delivery *model.Delivery) (int64, error)
	CreateWithItems(delivery *model.Delivery, items []model.DeliveryItem) (int64, error)
	Update(delivery *model.Delivery) error
	Delete(id int64) error
	CountByStatus(status string) (int64, error)
	DeliveredTotal() (float64, error)
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepository {
	return &deliveryRepo{db}
}

func (r *deliveryRepo) FindAll() ([]model.Delivery, error) {
	var deliveries []model.Delivery
	if err := r.db.Order("date DESC").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *deliveryRepo) FindByID(id int64) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepo) Create(delivery *model.Delivery) (int64, error) {
	if delivery.Status == "" {
		delivery.Status = model.StatusPending
	}
	if err := r.db.Create(delivery).Error; err != nil {
		return 0, err
	}
	return delivery.ID, nil
}

// CreateWithItems writes the delivery and all of its lines in a single
// transaction: either every row lands or none does. TotalAmount is persisted
// exactly as passed, a snapshot the repository never recomputes.
func (r *deliveryRepo) CreateWithItems(delivery *model.Delivery, items []model.DeliveryItem) (int64, error) {
	if delivery.Status == "" {
		delivery.Status = model.StatusPending
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].DeliveryID = delivery.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return delivery.ID, nil
}

func (r *deliveryRepo) Update(delivery *model.Delivery) error {
	if delivery.ID == 0 {
		return ErrMissingID
	}
	return r.db.Save(delivery).Error
}

// Delete removes the delivery together with its lines.
func (r *deliveryRepo) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ?", id).Delete(&model.DeliveryItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Delivery{}, "id = ?", id).Error
	})
}

func (r *deliveryRepo) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Delivery{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *deliveryRepo) DeliveredTotal() (float64, error) {
	var total float64
	err := r.db.Model(&model.Delivery{}).
		Where("status = ?", model.StatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
