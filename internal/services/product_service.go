package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"products/internal/models"
	"products/internal/repositories"
)

var oneHundred = decimal.NewFromInt(100)

// ProductService owns the business rules for products: input validation,
// CRUD, filtered listing and discount arithmetic. Persistence goes through
// the ProductRepository passed in by the caller.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateProduct validates the input, persists a new product and returns it
// with its store-assigned id.
func (s *ProductService) CreateProduct(input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, &StorageError{Op: "create product", Err: err}
	}
	return product, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, s.wrapStorage("get product", err)
	}
	return product, nil
}

// FindProductsByName returns every product whose name contains the given
// text, ignoring case. The result may be empty.
func (s *ProductService) FindProductsByName(name string) ([]models.Product, error) {
	return s.ListProducts(models.ProductFilter{Name: name})
}

// ListProducts returns products matching the filter in store-native order.
func (s *ProductService) ListProducts(filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.List(filter)
	if err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// UpdateProduct fully replaces name, description and price of the product
// with the given id. Partial updates are not supported: every mutable field
// is validated and written on each call.
func (s *ProductService) UpdateProduct(id uint, input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
	}
	if err := s.repo.Update(product); err != nil {
		return nil, s.wrapStorage("update product", err)
	}
	return product, nil
}

// DeleteProductByID deletes a product. Deleting an absent id succeeds.
func (s *ProductService) DeleteProductByID(id uint) error {
	if err := s.repo.DeleteByID(id); err != nil {
		return &StorageError{Op: "delete product", Err: err}
	}
	return nil
}

// DeleteProductsByName deletes every product whose name matches exactly and
// returns how many were removed. Zero matches is success.
func (s *ProductService) DeleteProductsByName(name string) (int64, error) {
	if name == "" {
		return 0, newValidationError("name", "name is required for deletion")
	}
	count, err := s.repo.DeleteByName(name)
	if err != nil {
		return 0, &StorageError{Op: "delete products by name", Err: err}
	}
	return count, nil
}

// ApplyDiscount reduces the product's price by the given percentage. The
// arithmetic is exact decimal, rounded to 2 places half away from zero, and
// the result must keep the price strictly positive. The write is a
// compare-and-swap on the price read here, so a concurrent writer cannot
// cause a lost update.
func (s *ProductService) ApplyDiscount(id uint, input models.DiscountInput) (*models.Product, error) {
	pct := input.DiscountPercentage
	if pct == nil {
		return nil, newValidationError("discount_percentage", "discount percentage must be provided")
	}
	if pct.IsNegative() || pct.GreaterThan(oneHundred) {
		return nil, newValidationError("discount_percentage", "discount percentage must be between 0 and 100")
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, s.wrapStorage("apply discount", err)
	}

	discounted := product.Price.Sub(product.Price.Mul(*pct).Div(oneHundred)).Round(2)
	if !discounted.IsPositive() {
		return nil, newValidationError("discount_percentage",
			fmt.Sprintf("a %s%% discount would reduce the price to %s; price must stay above zero",
				pct.String(), discounted.String()))
	}

	if err := s.repo.UpdatePrice(id, product.Price, discounted); err != nil {
		return nil, s.wrapStorage("apply discount", err)
	}
	product.Price = discounted
	return product, nil
}

// validateInput applies the create/update rules: name required and at most
// 63 characters, description at most 256, price present and strictly
// positive.
func (s *ProductService) validateInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string, len(validationErrors))
			for _, e := range validationErrors {
				fields[e.Field()] = fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag())
			}
			return &ValidationError{Fields: fields}
		}
		return newValidationError("input", err.Error())
	}
	if input.Price == nil {
		return newValidationError("price", "price must be provided")
	}
	if !input.Price.IsPositive() {
		return newValidationError("price", "price must be greater than zero")
	}
	return nil
}

// wrapStorage keeps the not-found and conflict sentinels intact and wraps
// everything else as a StorageError.
func (s *ProductService) wrapStorage(op string, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) || errors.Is(err, repositories.ErrPriceConflict) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
