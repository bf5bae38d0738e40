package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CategoryService serves categories through the Redis cache.
type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := cache.Aside(ctx, cache.CategoryListKey(), &list, cache.CategoryTTL, func() error {
		var err error
		list, err = s.categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := cache.Aside(ctx, cache.CategoryKey(id), &category, cache.CategoryTTL, func() error {
		found, err := s.categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		category = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CategoryListKey())
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	category := &models.Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	cache.InvalidateCategory(ctx, id)
	return category, nil
}

// Delete detaches the category from its posts and removes it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCategory(ctx, id)
	return nil
}
