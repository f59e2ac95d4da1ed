package user

import (
	"context"
	"errors"
	"testing"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- tests ---

func TestCreate_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, domain.ErrNotFound)

	var stored *domain.User
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)

	u, err := NewService(repo).Create(context.Background(), domain.CreateUserRequest{
		Email:    "bob@example.com",
		Password: "hunter2secret",
		Name:     "Bob",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.Enable)
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2secret")))
}

func TestCreate_DuplicateEmailConflicts(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(&domain.User{UserID: "existing"}, nil)

	_, err := NewService(repo).Create(context.Background(), domain.CreateUserRequest{
		Email:    "bob@example.com",
		Password: "hunter2secret",
		Name:     "Bob",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestUpdate_OnlyChangedFieldsSent(t *testing.T) {
	repo := &mockUserStore{}
	name := "New Name"

	var updates map[string]interface{}
	repo.On("Update", mock.Anything, "user-1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	repo.On("Get", mock.Anything, "user-1").Return(&domain.User{UserID: "user-1", Name: name}, nil)

	_, err := NewService(repo).Update(context.Background(), "user-1", domain.UpdateUserRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{fieldName: "New Name"}, updates)
}

func TestUpdate_NoFieldsIsReadOnly(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "user-1").Return(&domain.User{UserID: "user-1"}, nil)

	_, err := NewService(repo).Update(context.Background(), "user-1", domain.UpdateUserRequest{})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_SoftDeletes(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("SoftDelete", mock.Anything, "user-1").Return(nil)

	require.NoError(t, NewService(repo).Delete(context.Background(), "user-1"))
	repo.AssertCalled(t, "SoftDelete", mock.Anything, "user-1")
}
