package category

import (
	"context"
	"fmt"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName      = "name"
	fieldImageKey  = "image_key"
	fieldSortOrder = "sort_order"
	fieldEnable    = "enable"
)

type Service interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, categoryID string, input domain.CategoryInput) (*domain.Category, error)
	// Delete refuses to remove a category while subcategories still reference it.
	Delete(ctx context.Context, categoryID string) error

	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, input domain.SubcategoryInput) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, subcategoryID string, input domain.SubcategoryInput) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, subcategoryID string) error
}

type categoryStore interface {
	Scan(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	Put(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, categoryID string) error
}

type subcategoryStore interface {
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	Get(ctx context.Context, subcategoryID string) (*domain.Subcategory, error)
	Put(ctx context.Context, s *domain.Subcategory) error
	Update(ctx context.Context, subcategoryID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, subcategoryID string) error
}

type service struct {
	repo    categoryStore
	subRepo subcategoryStore
}

func NewService(repo categoryStore, subRepo subcategoryStore) Service {
	return &service{repo: repo, subRepo: subRepo}
}

func (s *service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.repo.Get(ctx, categoryID)
}

func (s *service) Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	now := time.Now().UTC()
	c := &domain.Category{
		CategoryID: id.New(),
		Name:       input.Name,
		ImageKey:   input.ImageKey,
		SortOrder:  input.SortOrder,
		Enable:     input.Enable == nil || *input.Enable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, categoryID string, input domain.CategoryInput) (*domain.Category, error) {
	updates := map[string]interface{}{
		fieldName:      input.Name,
		fieldImageKey:  input.ImageKey,
		fieldSortOrder: input.SortOrder,
	}
	if input.Enable != nil {
		updates[fieldEnable] = *input.Enable
	}
	if err := s.repo.Update(ctx, categoryID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, categoryID)
}

func (s *service) Delete(ctx context.Context, categoryID string) error {
	subs, err := s.subRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(subs) > 0 {
		return fmt.Errorf("category has %d subcategories: %w", len(subs), domain.ErrConflict)
	}
	return s.repo.HardDelete(ctx, categoryID)
}

func (s *service) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	return s.subRepo.ListByCategory(ctx, categoryID)
}

func (s *service) CreateSubcategory(ctx context.Context, input domain.SubcategoryInput) (*domain.Subcategory, error) {
	if _, err := s.repo.Get(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sub := &domain.Subcategory{
		SubcategoryID: id.New(),
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		SortOrder:     input.SortOrder,
		Enable:        input.Enable == nil || *input.Enable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.subRepo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) UpdateSubcategory(ctx context.Context, subcategoryID string, input domain.SubcategoryInput) (*domain.Subcategory, error) {
	updates := map[string]interface{}{
		fieldName:      input.Name,
		fieldSortOrder: input.SortOrder,
	}
	if input.Enable != nil {
		updates[fieldEnable] = *input.Enable
	}
	if err := s.subRepo.Update(ctx, subcategoryID, updates); err != nil {
		return nil, err
	}
	return s.subRepo.Get(ctx, subcategoryID)
}

func (s *service) DeleteSubcategory(ctx context.Context, subcategoryID string) error {
	return s.subRepo.HardDelete(ctx, subcategoryID)
}
