package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

var (
	// ErrEmptyCart rejects a checkout on an absent or empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound covers both an unknown order id and an order owned
	// by someone else; callers cannot tell the two apart.
	ErrOrderNotFound = errors.New("order not found")
)

// OrderService turns carts into immutable orders and reads them back.
type OrderService struct {
	db    *gorm.DB
	carts *CartService
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, carts *CartService) *OrderService {
	return &OrderService{db: db, carts: carts}
}

// Checkout snapshots the user's cart into a new order and empties the cart.
// The order is committed before the cart is touched: a failed clear leaves
// the order in place and is reported to the caller rather than swallowed.
func (s *OrderService) Checkout(userID uuid.UUID) (*models.Order, error) {
	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subTotal := decimal.Zero
	for _, item := range cart.Items {
		subTotal = subTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := models.Order{
		UserID:   userID,
		Items:    append(datatypes.JSONSlice[models.LineItem]{}, cart.Items...),
		SubTotal: subTotal,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	// The clear skips the version check on purpose: the order already holds
	// the snapshot, so the emptied state wins over any concurrent add.
	res := s.db.Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"items":   datatypes.JSONSlice[models.LineItem]{},
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		log.Printf("checkout: order %s created but cart %s not cleared: %v", order.ID, cart.ID, res.Error)
		return &order, fmt.Errorf("order placed but cart not cleared: %w", res.Error)
	}

	return &order, nil
}

// List returns every order owned by the user, oldest first.
func (s *OrderService) List(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns a single order if it exists and belongs to the user.
func (s *OrderService) Get(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Reorder merges a past order's lines back into the user's cart, by product
// id: matching lines gain the ordered quantity, the rest are appended as
// they were snapshotted. The order itself is never modified.
func (s *OrderService) Reorder(userID, orderID uuid.UUID) (*models.Cart, error) {
	order, err := s.Get(userID, orderID)
	if err != nil {
		return nil, err
	}

	return s.carts.mutate(userID, true, func(cart *models.Cart) error {
	merge:
		for _, ordered := range order.Items {
			for i := range cart.Items {
				if cart.Items[i].ProductID == ordered.ProductID {
					cart.Items[i].Quantity += ordered.Quantity
					continue merge
				}
			}
			cart.Items = append(cart.Items, ordered)
		}
		return nil
	})
}
