package repositories

import (
	"pasar/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Search returns one page of products matching term (case-insensitive
	// substring on name; empty term matches everything), with products owned
	// by viewerID ordered before all others, plus the total match count.
	Search(term, viewerID string, page, pageSize int) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// ToggleLike removes userID from the product's like-set if present,
	// inserts it otherwise, and reports the resulting membership.
	ToggleLike(productID, userID string) (*models.Product, bool, error)
}
