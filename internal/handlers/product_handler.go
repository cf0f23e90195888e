package handlers

import (
	"errors"
	"log"

	"pasar/internal/models"
	"pasar/internal/services"
	"pasar/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	files    storage.FileStore
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, files storage.FileStore) *ProductHandler {
	return &ProductHandler{
		service:  service,
		files:    files,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. All routes
// assume the auth middleware has already placed user_id in the context.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
	productRoutes.Post("/:id/like", h.HandleToggleLike)
}

// ProductForm carries the user-editable product fields of a create or update
// request. The image arrives as a separate multipart file part.
type ProductForm struct {
	Name  string  `json:"name" form:"name" validate:"required,min=1,max=100"`
	Price float64 `json:"price" form:"price" validate:"gte=0"`
}

// HandleList returns one page of the catalog, filtered by the optional
// `search` query and ranked with the viewer's own products first.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	viewerID := actingUserID(c)
	searchTerm := c.Query("search")
	page := c.QueryInt("page", 1)

	result, err := h.service.ListProducts(searchTerm, viewerID, page)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleGetByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleCreate creates a product from a multipart form (name, price, image).
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	if _, err := c.FormFile("image"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
		})
	}
	imageName, err := h.saveImage(c)
	if err != nil {
		if errors.Is(err, storage.ErrDisallowedExtension) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid file type. Allowed types are: png, jpg, jpeg, gif",
			})
		}
		log.Printf("Error storing product image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not store product image",
		})
	}

	product := models.Product{
		Name:      form.Name,
		Price:     form.Price,
		UserID:    actingUserID(c),
		ImageFile: imageName,
	}
	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates a product's name, price and, when a new file is
// uploaded, its image. An absent image part keeps the existing file.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s for update: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	if _, err := c.FormFile("image"); err == nil {
		imageName, err := h.saveImage(c)
		if err != nil {
			if errors.Is(err, storage.ErrDisallowedExtension) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Invalid file type. Allowed types are: png, jpg, jpeg, gif",
				})
			}
			log.Printf("Error storing product image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not store product image",
			})
		}
		product.ImageFile = imageName
	}

	product.Name = form.Name
	product.Price = form.Price
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDelete deletes a product and its stored image.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s for deletion: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}

	// The stored image is orphaned once the product row is gone.
	if product.ImageFile != "" {
		if err := h.files.Remove(product.ImageFile); err != nil {
			log.Printf("Warning: failed to remove image for product %s: %v", productID, err)
		}
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// HandleToggleLike flips the acting user's like on a product and returns the
// updated like count and like-set.
func (h *ProductHandler) HandleToggleLike(c *fiber.Ctx) error {
	productID := c.Params("id")
	result, err := h.service.ToggleLike(productID, actingUserID(c))
	if err != nil {
		log.Printf("Error toggling like on product %s: %v", productID, err)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not toggle like",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// saveImage streams the "image" multipart part into the file store.
func (h *ProductHandler) saveImage(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.files.Save(fileHeader.Filename, f)
}

// actingUserID returns the authenticated user's ID placed in the request
// context by the auth middleware.
func actingUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
