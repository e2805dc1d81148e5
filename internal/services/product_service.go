package services

import (
	"log"

	"horologe/internal/models"
	"horologe/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductService handles business logic for the catalog: products, their
// categories and the links between them. Reads go straight to the
// repositories; every mutation runs through the write gateway.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	gateway    repositories.Gateway
	resolver   *CategoryResolver
	events     EventPublisher
	validate   *validator.Validate
}

// NewProductService creates a new ProductService. The event publisher may
// be nil, in which case catalog events are skipped.
func NewProductService(
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	gateway repositories.Gateway,
	events EventPublisher,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		gateway:    gateway,
		resolver:   NewCategoryResolver(),
		events:     events,
		validate:   validator.New(),
	}
}

// CreateProductInput carries the fields for a new product. Price and
// item_quantity are pointers so a missing field is distinguishable from
// a legitimate zero. The alt text is accepted under two keys:
// image_alt_text, and imageAlt as the storefront clients send it.
type CreateProductInput struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Price        *float64 `json:"price" validate:"required"`
	ItemQuantity *int     `json:"item_quantity" validate:"required,gte=0"`
	ImageURL     string   `json:"image_url" validate:"required"`
	ImageAltText string   `json:"image_alt_text" validate:"required_without=ImageAlt"`
	ImageAlt     string   `json:"imageAlt"`
	Categories   []string `json:"categories"`
}

// UpdateProductInput is the allow-list of patchable product fields. Only
// non-nil fields are applied; unknown JSON keys are rejected by the
// handler before this type is ever populated.
type UpdateProductInput struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	ItemQuantity *int     `json:"item_quantity" validate:"omitempty,gte=0"`
	ImageURL     *string  `json:"image_url"`
	ImageAltText *string  `json:"image_alt_text"`
	ImageAlt     *string  `json:"imageAlt"`
}

func (in UpdateProductInput) apply(product *models.Product) {
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ItemQuantity != nil {
		product.ItemQuantity = *in.ItemQuantity
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.ImageAltText != nil {
		product.ImageAltText = *in.ImageAltText
	} else if in.ImageAlt != nil {
		product.ImageAltText = *in.ImageAlt
	}
}

// GetAllProducts retrieves all products with their categories.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.products.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.products.GetByID(id)
}

// GetAllCategories retrieves all categories.
func (s *ProductService) GetAllCategories() ([]models.Category, error) {
	return s.categories.GetAll()
}

// CreateProduct validates the input, then creates the product and all of
// its category links in one transaction. If any link fails, the product
// row and any category created along the way are rolled back together.
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	altText := input.ImageAltText
	if altText == "" {
		altText = input.ImageAlt
	}
	product := &models.Product{
		Name:         input.Name,
		Description:  input.Description,
		Price:        *input.Price,
		ItemQuantity: *input.ItemQuantity,
		ImageURL:     input.ImageURL,
		ImageAltText: altText,
	}

	err := s.gateway.Commit(func(tx repositories.Tx) error {
		if err := tx.Products.Create(product); err != nil {
			return err
		}
		return s.linkCategories(tx, product, input.Categories)
	})
	if err != nil {
		return nil, err
	}

	s.publish("product.created", product)
	return product, nil
}

// UpdateProduct applies a partial patch to an existing product,
// re-validates it and saves it, all inside one transaction.
func (s *ProductService) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	var updated *models.Product
	err := s.gateway.Commit(func(tx repositories.Tx) error {
		product, err := tx.Products.GetByID(id)
		if err != nil {
			return err
		}
		input.apply(product)
		if err := s.validate.Struct(product); err != nil {
			return toValidationError(err)
		}
		if err := tx.Products.Save(product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("product.updated", updated)
	return updated, nil
}

// DeleteProduct removes a product and cascades to its category links.
// The linked categories themselves are left intact.
func (s *ProductService) DeleteProduct(id string) error {
	err := s.gateway.Commit(func(tx repositories.Tx) error {
		return tx.Products.Delete(id)
	})
	if err != nil {
		return err
	}
	s.publish("product.deleted", map[string]string{"id": id})
	return nil
}

// LinkProductToCategories resolves each category name and creates a join
// row for it, atomically for the whole batch.
func (s *ProductService) LinkProductToCategories(productID string, names []string) error {
	return s.gateway.Commit(func(tx repositories.Tx) error {
		product, err := tx.Products.GetByID(productID)
		if err != nil {
			return err
		}
		return s.linkCategories(tx, product, names)
	})
}

func (s *ProductService) linkCategories(tx repositories.Tx, product *models.Product, names []string) error {
	for _, name := range names {
		category, err := s.resolver.Resolve(tx, name)
		if err != nil {
			return err
		}
		link := &models.ProductCategory{ProductID: product.ID, CategoryID: category.ID}
		if err := tx.Products.CreateLink(link); err != nil {
			return err
		}
		product.Categories = append(product.Categories, *category)
	}
	return nil
}

func (s *ProductService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
