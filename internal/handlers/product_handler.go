package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"products/internal/models"
	"products/internal/repositories"
	"products/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Delete("/", h.HandleDeleteProductsByName)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProductByID)
	productRoutes.Post("/:id/discount", h.HandleApplyDiscount)
}

// HandleListProducts returns filtered or all products. Recognized query
// parameters: name (case-insensitive substring), min_price and max_price
// (inclusive bounds).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var filter models.ProductFilter
	filter.Name = c.Query("name")

	if raw := c.Query("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid min_price query parameter",
				"error":   err.Error(),
			})
		}
		filter.MinPrice = &min
	}
	if raw := c.Query("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid max_price query parameter",
				"error":   err.Error(),
			})
		}
		filter.MaxPrice = &max
	}

	products, err := h.service.ListProducts(filter)
	if err != nil {
		return h.errorResponse(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return h.errorResponse(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product and answers 201 with a Location
// header pointing at the new resource.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return h.errorResponse(c, err, "Could not create product")
	}

	c.Location(fmt.Sprintf("/api/v1/products/%d", product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct fully replaces a product's mutable fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(id, input)
	if err != nil {
		return h.errorResponse(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProductByID deletes a product by its ID. The operation is
// idempotent: an absent id still answers 204.
func (h *ProductHandler) HandleDeleteProductByID(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}
	if err := h.service.DeleteProductByID(id); err != nil {
		return h.errorResponse(c, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteProductsByName deletes every product whose name matches the
// required name query parameter exactly. Always answers 204, zero matches
// included.
func (h *ProductHandler) HandleDeleteProductsByName(c *fiber.Ctx) error {
	name := c.Query("name")
	count, err := h.service.DeleteProductsByName(name)
	if err != nil {
		return h.errorResponse(c, err, "Could not delete products by name")
	}
	log.Printf("Deleted %d product(s) named %q", count, name)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleApplyDiscount applies a 0-100 percentage discount to a product's
// price and returns the updated record.
func (h *ProductHandler) HandleApplyDiscount(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	var input models.DiscountInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing discount body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.ApplyDiscount(id, input)
	if err != nil {
		return h.errorResponse(c, err, "Could not apply discount")
	}
	return c.JSON(product)
}

// parseID reads the :id path parameter. On failure it writes the 400
// response itself and reports false.
func (h *ProductHandler) parseID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Product id '%s' is not a valid integer", c.Params("id")),
		})
		return 0, false
	}
	return uint(id), true
}

// errorResponse maps the service error taxonomy onto HTTP status codes.
func (h *ProductHandler) errorResponse(c *fiber.Ctx, err error, message string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product was not found",
		})
	case errors.Is(err, repositories.ErrPriceConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product was modified concurrently, retry the request",
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
