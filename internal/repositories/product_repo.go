package repositories

import (
	"errors"

	"github.com/shopspring/decimal"

	"products/internal/models"
)

var (
	// ErrProductNotFound is returned when a referenced product id does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrPriceConflict is returned when a compare-and-swap price update loses
	// against a concurrent writer.
	ErrPriceConflict = errors.New("product price changed concurrently")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns products matching the filter in store-native order.
	List(filter models.ProductFilter) ([]models.Product, error)
	// GetByID returns the product or ErrProductNotFound.
	GetByID(id uint) (*models.Product, error)
	// Create persists a new product and assigns its id.
	Create(product *models.Product) error
	// Update fully replaces name, description and price of the product with
	// the given id. Returns ErrProductNotFound if the id does not exist.
	Update(product *models.Product) error
	// UpdatePrice sets the price of the product with the given id, but only
	// if its stored price still equals current. Returns ErrProductNotFound
	// if the id does not exist and ErrPriceConflict if the price moved.
	UpdatePrice(id uint, current, next decimal.Decimal) error
	// DeleteByID removes a product. Deleting an absent id is not an error.
	DeleteByID(id uint) error
	// DeleteByName removes every product whose name matches exactly and
	// returns how many were removed. Zero matches is not an error.
	DeleteByName(name string) (int64, error)
}
