package services_test

import (
	"fmt"
	"testing"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Search(term, viewerID string, page, pageSize int) ([]models.Product, int64, error) {
	args := m.Called(term, viewerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) ToggleLike(productID, userID string) (*models.Product, bool, error) {
	args := m.Called(productID, userID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Product), args.Bool(1), args.Error(2)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 8)

	rows := []models.Product{
		{ID: "p1", Name: "Red Mug", Price: 9.99, UserID: "u1", ImageFile: "a.png",
			Likes: []models.Like{{ProductID: "p1", UserID: "u2"}, {ProductID: "p1", UserID: "u3"}}},
		{ID: "p2", Name: "Blue Mug", Price: 12.50, UserID: "u2", ImageFile: "b.png"},
	}
	mockRepo.On("Search", "mug", "u1", 1, 8).Return(rows, int64(20), nil).Once()

	result, err := service.ListProducts("mug", "u1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 8, result.PageSize)
	assert.Equal(t, int64(20), result.TotalItems)
	assert.Equal(t, 3, result.TotalPages) // ceil(20/8)
	assert.Equal(t, "mug", result.SearchTerm)
	assert.Len(t, result.Items, 2)

	// Each item exposes like-count and the full like-set
	assert.Equal(t, "p1", result.Items[0].ID)
	assert.Equal(t, 2, result.Items[0].LikeCount)
	assert.ElementsMatch(t, []string{"u2", "u3"}, result.Items[0].LikedBy)
	assert.Equal(t, "u1", result.Items[0].OwnerID)
	assert.Equal(t, 0, result.Items[1].LikeCount)
	assert.NotNil(t, result.Items[1].LikedBy)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsClampsPage(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 8)

	mockRepo.On("Search", "", "u1", 1, 8).Return([]models.Product{}, int64(0), nil).Once()

	result, err := service.ListProducts("", "u1", -3)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPub, 8)

	product := &models.Product{Name: "Mug", Price: 9.999, UserID: "u1", ImageFile: "mug.png"}

	mockRepo.On("Create", product).Return(nil).Once()
	mockPub.On("Publish", "catalog", "product.created", mock.Anything).Return(nil).Once()

	err := service.CreateProduct(product)
	assert.NoError(t, err)
	// Prices are normalized to 2-decimal precision on write
	assert.InDelta(t, 10.0, product.Price, 0.0001)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)

	// Repository failure propagates and publishes nothing
	mockRepo.On("Create", product).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(product)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 8)

	product := &models.Product{ID: "p1", Name: "Mug", Price: 12.349, UserID: "u1"}
	mockRepo.On("Update", product).Return(nil).Once()

	err := service.UpdateProduct(product)
	assert.NoError(t, err)
	assert.InDelta(t, 12.35, product.Price, 0.0001)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPub, 8)

	mockRepo.On("Delete", "p1").Return(nil).Once()
	mockPub.On("Publish", "catalog", "product.deleted", mock.Anything).Return(nil).Once()
	err := service.DeleteProduct("p1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)

	mockRepo.On("Delete", "p9").Return(fmt.Errorf("product with ID p9: %w", models.ErrNotFound)).Once()
	err = service.DeleteProduct("p9")
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_ToggleLike(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPub, 8)

	liked := &models.Product{ID: "p1", Name: "Mug", UserID: "u1",
		Likes: []models.Like{{ProductID: "p1", UserID: "u7"}}}
	unliked := &models.Product{ID: "p1", Name: "Mug", UserID: "u1"}

	// First toggle inserts u7 into the like-set
	mockRepo.On("ToggleLike", "p1", "u7").Return(liked, true, nil).Once()
	mockPub.On("Publish", "catalog", "product.liked", mock.Anything).Return(nil).Once()

	result, err := service.ToggleLike("p1", "u7")
	assert.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikeCount)
	assert.Equal(t, []string{"u7"}, result.LikedBy)

	// Second toggle removes it again
	mockRepo.On("ToggleLike", "p1", "u7").Return(unliked, false, nil).Once()
	mockPub.On("Publish", "catalog", "product.unliked", mock.Anything).Return(nil).Once()

	result, err = service.ToggleLike("p1", "u7")
	assert.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikeCount)
	assert.Empty(t, result.LikedBy)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_ToggleLikeUnknownProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 8)

	mockRepo.On("ToggleLike", "missing", "u1").
		Return(nil, false, fmt.Errorf("product with ID missing: %w", models.ErrNotFound)).Once()

	result, err := service.ToggleLike("missing", "u1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
