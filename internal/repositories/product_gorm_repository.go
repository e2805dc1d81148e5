package repositories

import (
	"errors"
	"fmt"

	"horologe/internal/apperrors"
	"horologe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
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

// GetAll retrieves all products with their categories preloaded.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Categories").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Categories").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	// Categories are linked explicitly through join rows, never via the
	// association so the resolver stays the only category write path.
	if err := r.db.Omit("Categories").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translateStoreError(err))
	}
	return nil
}

// Save persists all fields of an existing product.
func (r *GORMProductRepository) Save(product *models.Product) error {
	res := r.db.Omit("Categories").Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", translateStoreError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a product together with its category join rows, so no
// orphan links survive the parent.
func (r *GORMProductRepository) Delete(id string) error {
	if err := r.db.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
		return fmt.Errorf("failed to delete category links for product %s: %w", id, err)
	}
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// CreateLink inserts a product/category join row.
func (r *GORMProductRepository) CreateLink(link *models.ProductCategory) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to link product %s to category %s: %w",
			link.ProductID, link.CategoryID, translateStoreError(err))
	}
	return nil
}
