package services

import (
	"encoding/json"
	"log"
	"math"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// EventPublisher publishes catalog events to a message broker. A nil publisher
// disables publishing.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductCard is the listing shape for a single product. LikedBy carries the
// full like-set so callers can compute per-viewer membership.
type ProductCard struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	LikeCount int      `json:"like_count"`
	LikedBy   []string `json:"liked_by"`
	Image     string   `json:"image"`
	OwnerID   string   `json:"owner_id"`
}

// PageResult is one page of a filtered, ranked product listing.
type PageResult struct {
	Items      []ProductCard `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalItems int64         `json:"total_items"`
	TotalPages int           `json:"total_pages"`
	SearchTerm string        `json:"search_term,omitempty"`
}

// LikeResult is the observable outcome of a like toggle.
type LikeResult struct {
	ProductID string   `json:"product_id"`
	Liked     bool     `json:"liked"`
	LikeCount int      `json:"like_count"`
	LikedBy   []string `json:"liked_by"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // may be nil
	pageSize  int
}

// NewProductService creates a new ProductService. pageSize is the fixed
// listing page size for this deployment.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, pageSize int) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		pageSize:  pageSize,
	}
}

// ListProducts returns one page of products matching searchTerm, with the
// viewer's own products ranked first. Pages are 1-indexed; a page past the
// last match yields an empty page rather than an error.
func (s *ProductService) ListProducts(searchTerm, viewerID string, page int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}

	products, total, err := s.repo.Search(searchTerm, viewerID, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]ProductCard, 0, len(products))
	for i := range products {
		items = append(items, toCard(&products[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(s.pageSize)))
	return &PageResult{
		Items:      items,
		Page:       page,
		PageSize:   s.pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		SearchTerm: searchTerm,
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product owned by the acting user.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.Price = roundPrice(product.Price)
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish("product.created", map[string]interface{}{
		"productID": product.ID,
		"ownerID":   product.UserID,
		"name":      product.Name,
		"price":     product.Price,
	})
	return nil
}

// UpdateProduct updates an existing product's name, price and image reference.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	product.Price = roundPrice(product.Price)
	return s.repo.Update(product)
}

// DeleteProduct deletes a product and its like-set by the product's ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish("product.deleted", map[string]interface{}{"productID": id})
	return nil
}

// ToggleLike flips the acting user's membership in the product's like-set.
// Two consecutive toggles by the same user restore the original set.
func (s *ProductService) ToggleLike(productID, actingUserID string) (*LikeResult, error) {
	product, liked, err := s.repo.ToggleLike(productID, actingUserID)
	if err != nil {
		return nil, err
	}

	event := "product.unliked"
	if liked {
		event = "product.liked"
	}
	s.publish(event, map[string]interface{}{
		"productID": productID,
		"userID":    actingUserID,
		"likeCount": len(product.Likes),
	})

	return &LikeResult{
		ProductID: product.ID,
		Liked:     liked,
		LikeCount: len(product.Likes),
		LikedBy:   product.LikedBy(),
	}, nil
}

// publish sends a catalog event, logging instead of failing the request when
// the broker is unavailable.
func (s *ProductService) publish(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// roundPrice normalizes a price to 2-decimal precision.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// toCard maps a product row to its listing shape.
func toCard(p *models.Product) ProductCard {
	return ProductCard{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		LikeCount: len(p.Likes),
		LikedBy:   p.LikedBy(),
		Image:     p.ImageFile,
		OwnerID:   p.UserID,
	}
}
