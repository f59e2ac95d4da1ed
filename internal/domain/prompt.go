package domain

import "time"

// Prompt is one content item shown in the app, grouped by category and
// optionally a subcategory.
type Prompt struct {
	PromptID      string    `json:"id" dynamodbav:"prompt_id"`
	CategoryID    string    `json:"category_id" dynamodbav:"category_id"`
	SubcategoryID string    `json:"subcategory_id,omitempty" dynamodbav:"subcategory_id"`
	Title         string    `json:"title" dynamodbav:"title"`
	Text          string    `json:"text" dynamodbav:"text"`
	ImageKey      string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	Premium       bool      `json:"premium" dynamodbav:"premium"`
	Enable        bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type PromptInput struct {
	CategoryID    string `json:"category_id" validate:"required"`
	SubcategoryID string `json:"subcategory_id"`
	Title         string `json:"title" validate:"required"`
	Text          string `json:"text" validate:"required"`
	ImageKey      string `json:"image_key"`
	Premium       *bool  `json:"premium"`
	Enable        *bool  `json:"enable"`
}

type UpdatePromptRequest struct {
	CategoryID    *string `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	Title         *string `json:"title"`
	Text          *string `json:"text"`
	ImageKey      *string `json:"image_key"`
	Premium       *bool   `json:"premium"`
	Enable        *bool   `json:"enable"`
}
