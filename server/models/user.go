package models

// User is immutable after registration, there is no update or delete path.
type User struct {
	BaseModel
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required" gorm:"not null;unique"`
	Email          string `json:"email" validate:"required,email" gorm:"not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	Salt           string `json:"-" gorm:"not null"`
}
