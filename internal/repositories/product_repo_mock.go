package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// The like-set is a real set (map keyed by user ID) so membership is O(1) and
// duplicates are impossible.
type MockProductRepository struct {
	products map[string]models.Product
	likes    map[string]map[string]time.Time // product ID -> user ID -> liked at
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		likes:    make(map[string]map[string]time.Time),
	}
}

// Search filters, ranks and paginates products the same way the GORM
// implementation does: name substring match, viewer's products first,
// newest first within each group, id as tie-breaker.
func (r *MockProductRepository) Search(term, viewerID string, page, pageSize int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}

	term = strings.ToLower(strings.TrimSpace(term))
	matches := make([]models.Product, 0, len(r.products))
	for id, p := range r.products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		matches = append(matches, r.withLikes(id, p))
	}

	sort.Slice(matches, func(i, j int) bool {
		ownI, ownJ := matches[i].UserID == viewerID, matches[j].UserID == viewerID
		if ownI != ownJ {
			return ownI
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	total := int64(len(matches))
	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []models.Product{}, total, nil
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

// GetByID returns a product with its like-set by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	product = r.withLikes(id, product)
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product and its like-set.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	delete(r.products, id)
	delete(r.likes, id)
	return nil
}

// ToggleLike flips userID's membership in the product's like-set under the
// repository lock, mirroring the transactional GORM implementation.
func (r *MockProductRepository) ToggleLike(productID, userID string) (*models.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, false, fmt.Errorf("product with ID %s: %w", productID, models.ErrNotFound)
	}

	set := r.likes[productID]
	if set == nil {
		set = make(map[string]time.Time)
		r.likes[productID] = set
	}

	var liked bool
	if _, member := set[userID]; member {
		delete(set, userID)
		liked = false
	} else {
		set[userID] = time.Now()
		liked = true
	}

	product = r.withLikes(productID, product)
	return &product, liked, nil
}

// withLikes attaches a sorted copy of the like-set to a product value.
// Caller must hold at least a read lock.
func (r *MockProductRepository) withLikes(id string, product models.Product) models.Product {
	set := r.likes[id]
	likes := make([]models.Like, 0, len(set))
	for userID, at := range set {
		likes = append(likes, models.Like{ProductID: id, UserID: userID, CreatedAt: at})
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].UserID < likes[j].UserID })
	product.Likes = likes
	return product
}
