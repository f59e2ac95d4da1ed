package country

import (
	"context"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName    = "name"
	fieldCode    = "code"
	fieldFlagKey = "flag_key"
	fieldEnable  = "enable"
)

type Service interface {
	List(ctx context.Context) ([]domain.Country, error)
	Get(ctx context.Context, countryID string) (*domain.Country, error)
	Create(ctx context.Context, input domain.CountryInput) (*domain.Country, error)
	Update(ctx context.Context, countryID string, input domain.CountryInput) (*domain.Country, error)
	Delete(ctx context.Context, countryID string) error
}

type countryStore interface {
	Scan(ctx context.Context) ([]domain.Country, error)
	Get(ctx context.Context, countryID string) (*domain.Country, error)
	Put(ctx context.Context, c *domain.Country) error
	Update(ctx context.Context, countryID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, countryID string) error
}

type service struct {
	repo countryStore
}

func NewService(repo countryStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.Country, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, countryID string) (*domain.Country, error) {
	return s.repo.Get(ctx, countryID)
}

func (s *service) Create(ctx context.Context, input domain.CountryInput) (*domain.Country, error) {
	now := time.Now().UTC()
	c := &domain.Country{
		CountryID: id.New(),
		Name:      input.Name,
		Code:      input.Code,
		FlagKey:   input.FlagKey,
		Enable:    input.Enable == nil || *input.Enable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, countryID string, input domain.CountryInput) (*domain.Country, error) {
	updates := map[string]interface{}{
		fieldName:    input.Name,
		fieldCode:    input.Code,
		fieldFlagKey: input.FlagKey,
	}
	if input.Enable != nil {
		updates[fieldEnable] = *input.Enable
	}
	if err := s.repo.Update(ctx, countryID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, countryID)
}

func (s *service) Delete(ctx context.Context, countryID string) error {
	return s.repo.HardDelete(ctx, countryID)
}
