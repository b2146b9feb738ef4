package models

// User represents a registered storefront customer.
type User struct {
	BaseModel
	Username     string `json:"username"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
}
