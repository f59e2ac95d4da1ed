package domain

import "time"

// Role names carried in session tokens. The set is closed; anything else is
// rejected at validation time.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Name         string     `json:"name" dynamodbav:"name"`
	Role         string     `json:"role" dynamodbav:"role"`
	Language     string     `json:"language" dynamodbav:"language"`
	PhotoURL     string     `json:"photo_url,omitempty" dynamodbav:"photo_url"`
	Enable       bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
	Language string `json:"language"`
	PhotoURL string `json:"photo_url"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
	Language *string `json:"language"`
	PhotoURL *string `json:"photo_url"`
	Enable   *bool   `json:"enable"`
}
