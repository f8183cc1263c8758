package model

type DeliveryStatus = string

const (
	StatusPending   DeliveryStatus = "Pending"
	StatusDelivered DeliveryStatus = "Delivered"
)

// Delivery is one delivery note addressed to a user. TotalAmount is a
// snapshot computed from the items at creation time; it is never recomputed,
// even if item rows or live product prices change afterwards.
type Delivery struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64   `gorm:"not null" json:"user_id" validate:"required"`
	Date          string  `gorm:"not null" json:"date" validate:"required,isodate"`
	Status        string  `gorm:"default:Pending" json:"status" validate:"omitempty,oneof=Pending Delivered"`
	TotalAmount   float64 `gorm:"default:0" json:"total_amount"`
	SignaturePath string  `json:"signature_path"`
	Notes         string  `json:"notes"`
}

func (Delivery) TableName() string { return "deliveries" }

// DeliveryItem is one line of a delivery. UnitPrice is the product price at
// the time the delivery was created, deliberately decoupled from the live
// Product.Price.
type DeliveryItem struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	DeliveryID int64   `gorm:"not null" json:"delivery_id"`
	ProductID  int64   `gorm:"not null" json:"product_id" validate:"required"`
	Quantity   int     `gorm:"default:1" json:"quantity" validate:"gte=1"`
	UnitPrice  float64 `gorm:"default:0" json:"unit_price"`
}

func (DeliveryItem) TableName() string { return "delivery_items" }
