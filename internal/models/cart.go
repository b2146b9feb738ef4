package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is one catalog product plus a quantity, held inside a cart or an
// order snapshot. Name, price, image and category are copied from the catalog
// when the line is created; later catalog edits never touch them.
type LineItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// Cart is the single mutable pending-purchase document per user. The line
// items live in one jsonb column so every mutation is a single-row update.
// Version backs the optimistic check in the cart service.
type Cart struct {
	BaseModel
	UserID  uuid.UUID                     `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items   datatypes.JSONSlice[LineItem] `json:"items"`
	Version int                           `json:"-"`
}
