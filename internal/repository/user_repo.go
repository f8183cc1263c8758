package repository

import (
	"errors"

	"github.com/DovranA/zara-app/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindAll() ([]model.User, error)
	FindByID(id int64) (*model.User, error)
	Create(user *model.User) (int64, error)
	Update(user *model.User) error
	Delete(id int64) error
	Count() (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID returns (nil, nil) for a missing row; absence is a result, not
// an error.
func (r *userRepo) FindByID(id int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(user *model.User) (int64, error) {
	if err := r.db.Create(user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *userRepo) Update(user *model.User) error {
	if user.ID == 0 {
		return ErrMissingID
	}
	return r.db.Save(user).Error
}

// Delete removes the user row only. Products and deliveries referencing the
// user keep their foreign key; whether to null or cascade is an open product
// call and is deliberately left unenforced.
func (r *userRepo) Delete(id int64) error {
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}
