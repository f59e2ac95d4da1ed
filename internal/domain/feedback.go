package domain

import "time"

// Feedback status values.
const (
	FeedbackOpen     = "open"
	FeedbackResolved = "resolved"
)

type Feedback struct {
	FeedbackID string    `json:"id" dynamodbav:"feedback_id"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	Email      string    `json:"email" dynamodbav:"email"`
	Message    string    `json:"message" dynamodbav:"message"`
	Rating     int       `json:"rating" dynamodbav:"rating"`
	Status     string    `json:"status" dynamodbav:"status"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type FeedbackInput struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required"`
	Rating  int    `json:"rating" validate:"min=0,max=5"`
}
