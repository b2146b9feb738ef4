package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/models"
)

var (
	// ErrItemNotFound means the product id is not in the catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrCartNotFound means the user has no cart document yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotInCart means the cart has no line for the product id.
	ErrItemNotInCart = errors.New("item not in cart")

	errVersionConflict = errors.New("cart modified concurrently")
)

// UpdateAction selects the direction of a quantity change.
type UpdateAction string

const (
	ActionIncrement UpdateAction = "increment"
	ActionDecrement UpdateAction = "decrement"
)

// maxMutateAttempts bounds retries when concurrent requests race on the
// same user's cart.
const maxMutateAttempts = 3

// CartService owns the per-user cart document. All mutations run as a
// load-modify-store cycle guarded by an optimistic version check, so two
// concurrent requests for the same user cannot lose an update.
type CartService struct {
	db      *gorm.DB
	catalog *catalog.Catalog
}

// NewCartService constructs a CartService.
func NewCartService(db *gorm.DB, cat *catalog.Catalog) *CartService {
	return &CartService{db: db, catalog: cat}
}

// Get returns the user's cart, or nil if none has been created yet.
func (s *CartService) Get(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem puts one unit of a catalog product into the user's cart, creating
// the cart on first use. An existing line for the product gains quantity 1;
// otherwise a new line snapshots the product's name, price, image and
// category as they are right now.
func (s *CartService) AddItem(userID uuid.UUID, productID int) (*models.Cart, error) {
	item, ok := s.catalog.Item(productID)
	if !ok {
		return nil, ErrItemNotFound
	}

	return s.mutate(userID, true, func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity++
				return nil
			}
		}
		cart.Items = append(cart.Items, models.LineItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Category:  item.Category,
			Quantity:  1,
		})
		return nil
	})
}

// UpdateItem increments or decrements a line's quantity. Decrement floors at
// quantity 1: decrementing a quantity-1 line is a no-op, never a removal.
func (s *CartService) UpdateItem(userID uuid.UUID, productID int, action UpdateAction) (*models.Cart, error) {
	return s.mutate(userID, false, func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].ProductID != productID {
				continue
			}
			switch action {
			case ActionIncrement:
				cart.Items[i].Quantity++
			case ActionDecrement:
				if cart.Items[i].Quantity > 1 {
					cart.Items[i].Quantity--
				}
			}
			return nil
		}
		return ErrItemNotInCart
	})
}

// mutate runs fn against the user's loaded (or, when create is set, lazily
// created) cart and persists the result, retrying the whole cycle when a
// concurrent writer invalidated the loaded version.
func (s *CartService) mutate(userID uuid.UUID, create bool, fn func(cart *models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		cart, err := s.Get(userID)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			if !create {
				return nil, ErrCartNotFound
			}
			cart = &models.Cart{UserID: userID}
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		if err := s.save(cart); err != nil {
			if errors.Is(err, errVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return cart, nil
	}
	return nil, fmt.Errorf("update cart for user %s: %w", userID, lastErr)
}

func (s *CartService) save(cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		return s.db.Create(cart).Error
	}

	res := s.db.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{
			"items":   cart.Items,
			"version": cart.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errVersionConflict
	}
	cart.Version++
	return nil
}
