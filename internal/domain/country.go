package domain

import "time"

type Country struct {
	CountryID string    `json:"id" dynamodbav:"country_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Code      string    `json:"code" dynamodbav:"code"` // ISO 3166-1 alpha-2
	FlagKey   string    `json:"flag_key,omitempty" dynamodbav:"flag_key"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CountryInput struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,len=2,uppercase"`
	FlagKey string `json:"flag_key"`
	Enable  *bool  `json:"enable"`
}
