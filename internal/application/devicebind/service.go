package devicebind

import (
	"context"
	"errors"
	"fmt"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/pkg/clock"
)

// maxBindAttempts bounds the internal retry loop when a concurrent login to
// the same device wins the conditional write first.
const maxBindAttempts = 3

// limitReason is the user-facing denial message. The existing account list is
// returned alongside so the client can offer to free a slot.
const limitReason = "device limit reached: this device already has the maximum number of accounts"

type Service interface {
	// CheckLimit decides whether accountID may log in on deviceID. An unseen
	// device and a re-login by an already-bound account are always allowed.
	// Storage failures propagate — the check fails closed.
	CheckLimit(ctx context.Context, deviceID, accountID string, maxLimit int) (*domain.DeviceLimitCheckResult, error)
	// BindAccount records a successful login on the device: it creates the
	// device document, appends the account, or refreshes the existing entry
	// in place. Callers must have passed CheckLimit first; the limit is still
	// revalidated inside the conditional write, so a concurrent login racing
	// past the check cannot overshoot it.
	BindAccount(ctx context.Context, deviceID string, account domain.AccountInfo, info domain.DeviceInfo, maxLimit int) (*domain.Device, error)

	// Admin dashboard views.
	List(ctx context.Context, limit int, cursor string) ([]domain.Device, string, error)
	Get(ctx context.Context, deviceID string) (*domain.Device, error)
	Purge(ctx context.Context, deviceID string) error
}

type deviceStore interface {
	Get(ctx context.Context, deviceID string) (*domain.Device, error)
	AtomicUpsert(ctx context.Context, deviceID string, fn func(current *domain.Device) (*domain.Device, error)) (*domain.Device, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Device, string, error)
	HardDelete(ctx context.Context, deviceID string) error
}

type service struct {
	repo deviceStore
	now  clock.Clock
}

func NewService(repo deviceStore, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.Real()
	}
	return &service{repo: repo, now: clk}
}

func (s *service) CheckLimit(ctx context.Context, deviceID, accountID string, maxLimit int) (*domain.DeviceLimitCheckResult, error) {
	d, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unseen device: zero bound accounts so far.
			return &domain.DeviceLimitCheckResult{Allowed: true, CurrentCount: 0, MaxLimit: maxLimit}, nil
		}
		return nil, err
	}

	if d.Account(accountID) != nil {
		// Re-login by an already-bound account never counts against the limit.
		return &domain.DeviceLimitCheckResult{Allowed: true, CurrentCount: d.AccountCount, MaxLimit: maxLimit}, nil
	}

	if d.AccountCount < maxLimit {
		return &domain.DeviceLimitCheckResult{Allowed: true, CurrentCount: d.AccountCount, MaxLimit: maxLimit}, nil
	}

	existing := make([]domain.BoundAccount, len(d.Accounts))
	copy(existing, d.Accounts)
	return &domain.DeviceLimitCheckResult{
		Allowed:          false,
		Reason:           limitReason,
		CurrentCount:     d.AccountCount,
		MaxLimit:         maxLimit,
		ExistingAccounts: existing,
	}, nil
}

func (s *service) BindAccount(ctx context.Context, deviceID string, account domain.AccountInfo, info domain.DeviceInfo, maxLimit int) (*domain.Device, error) {
	var lastErr error
	for attempt := 0; attempt < maxBindAttempts; attempt++ {
		d, err := s.repo.AtomicUpsert(ctx, deviceID, func(current *domain.Device) (*domain.Device, error) {
			return s.apply(current, deviceID, account, info, maxLimit)
		})
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("bind retries exhausted: %v: %w", lastErr, domain.ErrStorageUnavailable)
}

// apply computes the replacement device document for one login. It never
// mutates current: the store may hand the same snapshot to a retry.
func (s *service) apply(current *domain.Device, deviceID string, account domain.AccountInfo, info domain.DeviceInfo, maxLimit int) (*domain.Device, error) {
	now := s.now.Now()

	if current == nil {
		return &domain.Device{
			DeviceID: deviceID,
			Accounts: []domain.BoundAccount{{
				AccountID:    account.AccountID,
				Email:        account.Email,
				Name:         account.Name,
				PhotoURL:     account.PhotoURL,
				FirstLoginAt: now,
				LastLoginAt:  now,
			}},
			AccountCount: 1,
			Info:         info,
			FirstLoginAt: now,
			LastLoginAt:  now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}, nil
	}

	next := *current
	next.Accounts = make([]domain.BoundAccount, len(current.Accounts))
	copy(next.Accounts, current.Accounts)
	next.Info = info
	next.LastLoginAt = now
	next.UpdatedAt = now

	for i := range next.Accounts {
		if next.Accounts[i].AccountID == account.AccountID {
			// Refresh in place: order, count and FirstLoginAt are preserved.
			next.Accounts[i].Email = account.Email
			next.Accounts[i].Name = account.Name
			next.Accounts[i].PhotoURL = account.PhotoURL
			next.Accounts[i].LastLoginAt = now
			return &next, nil
		}
	}

	// New account on an existing device. The limit already passed CheckLimit,
	// but a concurrent bind may have filled the last slot since then.
	if next.AccountCount >= maxLimit {
		return nil, fmt.Errorf("%s: %w", limitReason, domain.ErrDeviceLimitExceeded)
	}

	next.Accounts = append(next.Accounts, domain.BoundAccount{
		AccountID:    account.AccountID,
		Email:        account.Email,
		Name:         account.Name,
		PhotoURL:     account.PhotoURL,
		FirstLoginAt: now,
		LastLoginAt:  now,
	})
	// Count and list change together; the conditional write makes the pair atomic.
	next.AccountCount = current.AccountCount + 1
	return &next, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Device, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, deviceID string) (*domain.Device, error) {
	return s.repo.Get(ctx, deviceID)
}

// Purge removes a device record entirely. This is the administrative escape
// hatch for freeing a device whose limit is exhausted; normal logins never
// delete devices.
func (s *service) Purge(ctx context.Context, deviceID string) error {
	return s.repo.HardDelete(ctx, deviceID)
}
