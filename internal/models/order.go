package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order is an immutable snapshot of a cart taken at checkout. It is never
// updated after creation; reorder copies its items back into the cart
// without touching the order itself.
type Order struct {
	BaseModel
	UserID   uuid.UUID                     `gorm:"type:uuid;index" json:"user_id"`
	Items    datatypes.JSONSlice[LineItem] `json:"items"`
	SubTotal decimal.Decimal               `gorm:"type:numeric" json:"sub_total"`
}
