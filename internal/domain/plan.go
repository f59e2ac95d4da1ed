package domain

import "time"

// Plan is one entry in the subscription plan catalog. ProductID is the store
// product identifier (App Store / Play Store).
type Plan struct {
	PlanID    string    `json:"id" dynamodbav:"plan_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	ProductID string    `json:"product_id" dynamodbav:"product_id"`
	Price     float64   `json:"price" dynamodbav:"price"`
	Currency  string    `json:"currency" dynamodbav:"currency"`
	Period    string    `json:"period" dynamodbav:"period"` // "monthly" | "yearly" | "lifetime"
	Features  []string  `json:"features" dynamodbav:"features"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type PlanInput struct {
	Name      string   `json:"name" validate:"required"`
	ProductID string   `json:"product_id" validate:"required"`
	Price     float64  `json:"price" validate:"min=0"`
	Currency  string   `json:"currency" validate:"required,len=3,uppercase"`
	Period    string   `json:"period" validate:"required,oneof=monthly yearly lifetime"`
	Features  []string `json:"features"`
	Enable    *bool    `json:"enable"`
}
