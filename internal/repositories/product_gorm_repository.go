package repositories

import (
	"errors"
	"fmt"
	"strings"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// Search filters products by name, ranks the viewer's own products first and
// returns the requested page. A page past the last match yields an empty slice.
func (r *GORMProductRepository) Search(term, viewerID string, page, pageSize int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}

	query := r.db.Model(&models.Product{})
	term = strings.TrimSpace(term)
	if term != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := query.
		Preload("Likes").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			// Own products first; creation order (newest first) within each group,
			// with id as the tie-breaker to keep pages deterministic.
			SQL:                "CASE WHEN user_id = ? THEN 0 ELSE 1 END, created_at DESC, id",
			Vars:               []interface{}{viewerID},
			WithoutParentheses: true,
		}}).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its like-set from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Likes").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Omit("Likes").Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product and its like-set from the database.
func (r *GORMProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		if err := tx.Delete(&models.Like{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete likes for product %s: %w", id, err)
		}
		return nil
	})
}

// ToggleLike flips userID's membership in the product's like-set. The read and
// the write run in one transaction so concurrent toggles never duplicate an entry.
func (r *GORMProductRepository) ToggleLike(productID, userID string) (*models.Product, bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %s: %w", productID, models.ErrNotFound)
			}
			return fmt.Errorf("failed to get product by ID %s: %w", productID, err)
		}

		var like models.Like
		err := tx.First(&like, "product_id = ? AND user_id = ?", productID, userID).Error
		switch {
		case err == nil:
			if err := tx.Delete(&models.Like{}, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{ProductID: productID, UserID: userID}).Error; err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			liked = true
		default:
			return fmt.Errorf("failed to check like membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	product, err := r.GetByID(productID)
	if err != nil {
		return nil, false, err
	}
	return product, liked, nil
}
