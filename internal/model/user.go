package model

// User is a delivery recipient. Products can optionally be assigned to a
// user, and every delivery is addressed to one.
type User struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null" json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

func (User) TableName() string { return "users" }
