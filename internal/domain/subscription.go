package domain

import "time"

// Subscription status values.
const (
	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionCanceled = "canceled"
)

type Subscription struct {
	SubscriptionID string    `json:"id" dynamodbav:"subscription_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	PlanID         string    `json:"plan_id" dynamodbav:"plan_id"`
	Status         string    `json:"status" dynamodbav:"status"`
	Store          string    `json:"store" dynamodbav:"store"` // "app_store" | "play_store" | "manual"
	StartedAt      time.Time `json:"started_at" dynamodbav:"started_at"`
	ExpiresAt      time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SubscriptionInput struct {
	UserID    string `json:"user_id" validate:"required"`
	PlanID    string `json:"plan_id" validate:"required"`
	Store     string `json:"store" validate:"required,oneof=app_store play_store manual"`
	ExpiresAt string `json:"expires_at"` // RFC 3339; empty for lifetime plans
}

type UpdateSubscriptionRequest struct {
	PlanID    *string `json:"plan_id"`
	Status    *string `json:"status" validate:"omitempty,oneof=active expired canceled"`
	ExpiresAt *string `json:"expires_at"`
}
