package repository

import (
	"errors"

	"github.com/DovranA/zara-app/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByID(id int64) (*model.Product, error)
	Create(product *model.Product) (int64, error)
	Update(product *model.Product) error
	Delete(id int64) error
	Count() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	if err := r.loadImages(products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) FindByID(id int64) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	single := []model.Product{product}
	if err := r.loadImages(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// loadImages hydrates Images for every product in one query. Rows come back
// ordered by surrogate id, which is insertion order.
func (r *productRepo) loadImages(products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	var rows []model.ProductImage
	if err := r.db.Where("product_id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return err
	}

	byProduct := make(map[int64][]string, len(products))
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.ImagePath)
	}
	for i := range products {
		images := byProduct[products[i].ID]
		if images == nil {
			images = []string{}
		}
		products[i].Images = images
	}
	return nil
}

// Create inserts the product and its image rows in one transaction, so a
// failed image insert cannot leave a half-created product behind.
func (r *productRepo) Create(product *model.Product) (int64, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return insertImages(tx, product.ID, product.Images)
	})
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

// Update replaces the image set wholesale: all existing child rows are
// deleted and the provided list reinserted. Callers must always pass the
// complete desired set — an empty slice clears all images. The parent write
// and both image steps share one transaction.
func (r *productRepo) Update(product *model.Product) error {
	if product.ID == 0 {
		return ErrMissingID
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		return insertImages(tx, product.ID, product.Images)
	})
}

func (r *productRepo) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Product{}).Count(&n).Error
	return n, err
}

// insertImages writes one row per image, in list order.
func insertImages(tx *gorm.DB, productID int64, images []string) error {
	for _, path := range images {
		img := model.ProductImage{ProductID: productID, ImagePath: path}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}
