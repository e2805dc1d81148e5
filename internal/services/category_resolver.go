package services

import (
	"errors"

	"horologe/internal/apperrors"
	"horologe/internal/models"
	"horologe/internal/repositories"
)

// CategoryResolver maps a category name to its persistent identity,
// creating the category on first use. It always operates inside the
// caller's transaction so a failed product creation takes its freshly
// created categories down with it.
type CategoryResolver struct{}

// NewCategoryResolver creates a new CategoryResolver.
func NewCategoryResolver() *CategoryResolver {
	return &CategoryResolver{}
}

// Resolve looks a category up by exact name and creates it if absent.
// A concurrent creator winning the race surfaces as a duplicate-name
// constraint; the loser re-fetches the winner's row instead of failing.
func (r *CategoryResolver) Resolve(tx repositories.Tx, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("category", "name must not be blank")
	}

	category, err := tx.Categories.GetByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	category = &models.Category{Name: name}
	if err := tx.Categories.Create(category); err != nil {
		if errors.Is(err, apperrors.ErrConstraint) {
			return tx.Categories.GetByName(name)
		}
		return nil, err
	}
	return category, nil
}
