package domain

import "time"

type Category struct {
	CategoryID string    `json:"id" dynamodbav:"category_id"`
	Name       string    `json:"name" dynamodbav:"name"`
	ImageKey   string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	SortOrder  int       `json:"sort_order" dynamodbav:"sort_order"`
	Enable     bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CategoryInput struct {
	Name      string `json:"name" validate:"required"`
	ImageKey  string `json:"image_key"`
	SortOrder int    `json:"sort_order"`
	Enable    *bool  `json:"enable"`
}

type Subcategory struct {
	SubcategoryID string    `json:"id" dynamodbav:"subcategory_id"`
	CategoryID    string    `json:"category_id" dynamodbav:"category_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	SortOrder     int       `json:"sort_order" dynamodbav:"sort_order"`
	Enable        bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SubcategoryInput struct {
	CategoryID string `json:"category_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	SortOrder  int    `json:"sort_order"`
	Enable     *bool  `json:"enable"`
}
