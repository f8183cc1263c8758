package model

// Product is a catalog entry. Images live in their own table
// (product_images) and are loaded eagerly on every read, in insertion
// order; on update the whole set is replaced, never diffed.
type Product struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null" json:"name" validate:"required"`
	Price        float64 `gorm:"default:0" json:"price" validate:"gte=0"`
	Note         string  `json:"note,omitempty"`
	UserID       *int64  `json:"user_id,omitempty"`
	DeliveryDate string  `json:"delivery_date,omitempty" validate:"omitempty,isodate"`

	// Hydrated from product_images, not a column.
	Images []string `gorm:"-" json:"images"`
}

func (Product) TableName() string { return "products" }

// ProductImage is one image reference owned by a product. Rows keep
// insertion order via the surrogate id so the parent's image list order
// survives a round trip.
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	ImagePath string `gorm:"not null" json:"image_path"`
}

func (ProductImage) TableName() string { return "product_images" }
