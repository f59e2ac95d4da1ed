package prompt

import (
	"context"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldCategoryID    = "category_id"
	fieldSubcategoryID = "subcategory_id"
	fieldTitle         = "title"
	fieldText          = "text"
	fieldImageKey      = "image_key"
	fieldPremium       = "premium"
	fieldEnable        = "enable"
)

type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.Prompt, string, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error)
	Get(ctx context.Context, promptID string) (*domain.Prompt, error)
	Create(ctx context.Context, input domain.PromptInput) (*domain.Prompt, error)
	Update(ctx context.Context, promptID string, req domain.UpdatePromptRequest) (*domain.Prompt, error)
	Delete(ctx context.Context, promptID string) error
}

type promptStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Prompt, string, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error)
	Get(ctx context.Context, promptID string) (*domain.Prompt, error)
	Put(ctx context.Context, p *domain.Prompt) error
	Update(ctx context.Context, promptID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, promptID string) error
}

type categoryStore interface {
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
}

type service struct {
	repo         promptStore
	categoryRepo categoryStore
}

func NewService(repo promptStore, categoryRepo categoryStore) Service {
	return &service{repo: repo, categoryRepo: categoryRepo}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Prompt, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}

func (s *service) Get(ctx context.Context, promptID string) (*domain.Prompt, error) {
	return s.repo.Get(ctx, promptID)
}

func (s *service) Create(ctx context.Context, input domain.PromptInput) (*domain.Prompt, error) {
	if _, err := s.categoryRepo.Get(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Prompt{
		PromptID:      id.New(),
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		Title:         input.Title,
		Text:          input.Text,
		ImageKey:      input.ImageKey,
		Premium:       input.Premium != nil && *input.Premium,
		Enable:        input.Enable == nil || *input.Enable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, promptID string, req domain.UpdatePromptRequest) (*domain.Prompt, error) {
	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.Get(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates[fieldCategoryID] = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		updates[fieldSubcategoryID] = *req.SubcategoryID
	}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Text != nil {
		updates[fieldText] = *req.Text
	}
	if req.ImageKey != nil {
		updates[fieldImageKey] = *req.ImageKey
	}
	if req.Premium != nil {
		updates[fieldPremium] = *req.Premium
	}
	if req.Enable != nil {
		updates[fieldEnable] = *req.Enable
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, promptID)
	}
	if err := s.repo.Update(ctx, promptID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, promptID)
}

func (s *service) Delete(ctx context.Context, promptID string) error {
	return s.repo.HardDelete(ctx, promptID)
}
