package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldPlanID    = "plan_id"
	fieldStatus    = "status"
	fieldExpiresAt = "expires_at"
)

type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.Subscription, string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	Create(ctx context.Context, input domain.SubscriptionInput) (*domain.Subscription, error)
	Update(ctx context.Context, subscriptionID string, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error)
	Cancel(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
}

type subscriptionStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Subscription, string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	Put(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, subscriptionID string, updates map[string]interface{}) error
}

type planStore interface {
	Get(ctx context.Context, planID string) (*domain.Plan, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo     subscriptionStore
	planRepo planStore
	userRepo userStore
}

func NewService(repo subscriptionStore, planRepo planStore, userRepo userStore) Service {
	return &service{repo: repo, planRepo: planRepo, userRepo: userRepo}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Subscription, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return s.repo.Get(ctx, subscriptionID)
}

func (s *service) Create(ctx context.Context, input domain.SubscriptionInput) (*domain.Subscription, error) {
	if _, err := s.userRepo.Get(ctx, input.UserID); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.Get(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var expiresAt time.Time
	if input.ExpiresAt != "" {
		expiresAt, err = time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expires_at: %w", domain.ErrBadRequest)
		}
	} else if plan.Period != "lifetime" {
		return nil, fmt.Errorf("expires_at required for %s plans: %w", plan.Period, domain.ErrBadRequest)
	}

	sub := &domain.Subscription{
		SubscriptionID: id.New(),
		UserID:         input.UserID,
		PlanID:         input.PlanID,
		Status:         domain.SubscriptionActive,
		Store:          input.Store,
		StartedAt:      now,
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Update(ctx context.Context, subscriptionID string, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	updates := map[string]interface{}{}
	if req.PlanID != nil {
		if _, err := s.planRepo.Get(ctx, *req.PlanID); err != nil {
			return nil, err
		}
		updates[fieldPlanID] = *req.PlanID
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expires_at: %w", domain.ErrBadRequest)
		}
		updates[fieldExpiresAt] = t.Format(time.RFC3339)
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, subscriptionID)
	}
	if err := s.repo.Update(ctx, subscriptionID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, subscriptionID)
}

func (s *service) Cancel(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	if _, err := s.repo.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, subscriptionID, map[string]interface{}{fieldStatus: domain.SubscriptionCanceled}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, subscriptionID)
}
