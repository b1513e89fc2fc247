package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"products/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products matching the filter from the database.
func (r *GORMProductRepository) List(filter models.ProductFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. The store assigns the ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces name, description and price of an existing product as a
// single statement keyed on the ID, so a concurrent writer cannot interleave.
func (r *GORMProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"description": product.Description,
				"price":       product.Price,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

// UpdatePrice performs a compare-and-swap on the product's price. The WHERE
// clause keys on both id and the expected current price, so a lost update
// surfaces as ErrPriceConflict instead of silently overwriting.
func (r *GORMProductRepository) UpdatePrice(id uint, current, next decimal.Decimal) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND price = ?", id, current).
		Update("price", next)
	if res.Error != nil {
		return fmt.Errorf("failed to update price for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product %d: %w", id, err)
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrPriceConflict
	}
	return nil
}

// DeleteByID deletes a product by its ID. Absence is not an error.
func (r *GORMProductRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// DeleteByName deletes all products whose name matches exactly and reports
// how many rows went away.
func (r *GORMProductRepository) DeleteByName(name string) (int64, error) {
	res := r.db.Where("name = ?", name).Delete(&models.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete products named %q: %w", name, res.Error)
	}
	return res.RowsAffected, nil
}
