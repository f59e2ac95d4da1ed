package plan

import (
	"context"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName      = "name"
	fieldProductID = "product_id"
	fieldPrice     = "price"
	fieldCurrency  = "currency"
	fieldPeriod    = "period"
	fieldFeatures  = "features"
	fieldEnable    = "enable"
)

type Service interface {
	List(ctx context.Context) ([]domain.Plan, error)
	Get(ctx context.Context, planID string) (*domain.Plan, error)
	Create(ctx context.Context, input domain.PlanInput) (*domain.Plan, error)
	Update(ctx context.Context, planID string, input domain.PlanInput) (*domain.Plan, error)
	Delete(ctx context.Context, planID string) error
}

type planStore interface {
	Scan(ctx context.Context) ([]domain.Plan, error)
	Get(ctx context.Context, planID string) (*domain.Plan, error)
	Put(ctx context.Context, p *domain.Plan) error
	Update(ctx context.Context, planID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, planID string) error
}

type service struct {
	repo planStore
}

func NewService(repo planStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.repo.Get(ctx, planID)
}

func (s *service) Create(ctx context.Context, input domain.PlanInput) (*domain.Plan, error) {
	now := time.Now().UTC()
	p := &domain.Plan{
		PlanID:    id.New(),
		Name:      input.Name,
		ProductID: input.ProductID,
		Price:     input.Price,
		Currency:  input.Currency,
		Period:    input.Period,
		Features:  input.Features,
		Enable:    input.Enable == nil || *input.Enable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, planID string, input domain.PlanInput) (*domain.Plan, error) {
	updates := map[string]interface{}{
		fieldName:      input.Name,
		fieldProductID: input.ProductID,
		fieldPrice:     input.Price,
		fieldCurrency:  input.Currency,
		fieldPeriod:    input.Period,
		fieldFeatures:  input.Features,
	}
	if input.Enable != nil {
		updates[fieldEnable] = *input.Enable
	}
	if err := s.repo.Update(ctx, planID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, planID)
}

// Delete disables the plan rather than removing it. Existing subscriptions
// keep referencing the plan document.
func (s *service) Delete(ctx context.Context, planID string) error {
	return s.repo.SoftDelete(ctx, planID)
}
