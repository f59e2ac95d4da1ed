package category

import (
	"context"
	"errors"
	"testing"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) Scan(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *mockCategoryStore) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if c, _ := args.Get(0).(*domain.Category); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCategoryStore) Put(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCategoryStore) Update(ctx context.Context, categoryID string, updates map[string]interface{}) error {
	return m.Called(ctx, categoryID, updates).Error(0)
}
func (m *mockCategoryStore) HardDelete(ctx context.Context, categoryID string) error {
	return m.Called(ctx, categoryID).Error(0)
}

type mockSubcategoryStore struct{ mock.Mock }

func (m *mockSubcategoryStore) ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]domain.Subcategory), args.Error(1)
}
func (m *mockSubcategoryStore) Get(ctx context.Context, subcategoryID string) (*domain.Subcategory, error) {
	args := m.Called(ctx, subcategoryID)
	if s, _ := args.Get(0).(*domain.Subcategory); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubcategoryStore) Put(ctx context.Context, s *domain.Subcategory) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSubcategoryStore) Update(ctx context.Context, subcategoryID string, updates map[string]interface{}) error {
	return m.Called(ctx, subcategoryID, updates).Error(0)
}
func (m *mockSubcategoryStore) HardDelete(ctx context.Context, subcategoryID string) error {
	return m.Called(ctx, subcategoryID).Error(0)
}

// --- tests ---

func TestDelete_RefusedWhileSubcategoriesExist(t *testing.T) {
	repo, subRepo := &mockCategoryStore{}, &mockSubcategoryStore{}
	subRepo.On("ListByCategory", mock.Anything, "cat-1").
		Return([]domain.Subcategory{{SubcategoryID: "sub-1", CategoryID: "cat-1"}}, nil)

	err := NewService(repo, subRepo).Delete(context.Background(), "cat-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	repo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestDelete_EmptyCategoryRemoved(t *testing.T) {
	repo, subRepo := &mockCategoryStore{}, &mockSubcategoryStore{}
	subRepo.On("ListByCategory", mock.Anything, "cat-1").Return([]domain.Subcategory{}, nil)
	repo.On("HardDelete", mock.Anything, "cat-1").Return(nil)

	require.NoError(t, NewService(repo, subRepo).Delete(context.Background(), "cat-1"))
	repo.AssertCalled(t, "HardDelete", mock.Anything, "cat-1")
}

func TestCreate_DefaultsToEnabled(t *testing.T) {
	repo, subRepo := &mockCategoryStore{}, &mockSubcategoryStore{}

	var stored *domain.Category
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Category) }).
		Return(nil)

	c, err := NewService(repo, subRepo).Create(context.Background(), domain.CategoryInput{Name: "Portraits"})

	require.NoError(t, err)
	assert.True(t, c.Enable)
	assert.NotEmpty(t, c.CategoryID)
	require.NotNil(t, stored)
	assert.Equal(t, "Portraits", stored.Name)
}

func TestCreateSubcategory_UnknownCategoryRejected(t *testing.T) {
	repo, subRepo := &mockCategoryStore{}, &mockSubcategoryStore{}
	repo.On("Get", mock.Anything, "cat-404").Return(nil, domain.ErrNotFound)

	_, err := NewService(repo, subRepo).CreateSubcategory(context.Background(), domain.SubcategoryInput{
		CategoryID: "cat-404",
		Name:       "Headshots",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	subRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}
