package domain

import "time"

type File struct {
	FileID           string    `json:"id" dynamodbav:"file_id"`
	Object           string    `json:"object" dynamodbav:"object"`
	Size             int64     `json:"size" dynamodbav:"size"`
	Type             string    `json:"type" dynamodbav:"type"`
	Name             string    `json:"name" dynamodbav:"name"`
	URL              *string   `json:"url" dynamodbav:"url"`
	UploadedByUserID string    `json:"uploaded_by_user_id" dynamodbav:"uploaded_by_user_id"`
	Enable           bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}
