package feedback

import (
	"context"
	"log/slog"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/infrastructure/sns"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

const fieldStatus = "status"

type Service interface {
	Create(ctx context.Context, input domain.FeedbackInput) (*domain.Feedback, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Feedback, error)
	Get(ctx context.Context, feedbackID string) (*domain.Feedback, error)
	Resolve(ctx context.Context, feedbackID string) (*domain.Feedback, error)
	Delete(ctx context.Context, feedbackID string) error
}

type feedbackStore interface {
	Put(ctx context.Context, f *domain.Feedback) error
	Get(ctx context.Context, feedbackID string) (*domain.Feedback, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Feedback, error)
	Update(ctx context.Context, feedbackID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, feedbackID string) error
}

type service struct {
	repo      feedbackStore
	publisher sns.EventPublisher
}

// NewService builds the feedback service. publisher may be nil when no SNS
// topic is configured; creation then skips the notification.
func NewService(repo feedbackStore, publisher sns.EventPublisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Create(ctx context.Context, input domain.FeedbackInput) (*domain.Feedback, error) {
	now := time.Now().UTC()
	f := &domain.Feedback{
		FeedbackID: id.New(),
		UserID:     input.UserID,
		Email:      input.Email,
		Message:    input.Message,
		Rating:     input.Rating,
		Status:     domain.FeedbackOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "feedback.created", f); err != nil {
			slog.Warn("failed to publish feedback event", "feedback_id", f.FeedbackID, "err", err)
		}
	}
	return f, nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]domain.Feedback, error) {
	if status == "" {
		status = domain.FeedbackOpen
	}
	return s.repo.ListByStatus(ctx, status)
}

func (s *service) Get(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	return s.repo.Get(ctx, feedbackID)
}

func (s *service) Resolve(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	if _, err := s.repo.Get(ctx, feedbackID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, feedbackID, map[string]interface{}{fieldStatus: domain.FeedbackResolved}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, feedbackID)
}

func (s *service) Delete(ctx context.Context, feedbackID string) error {
	return s.repo.HardDelete(ctx, feedbackID)
}
