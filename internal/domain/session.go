package domain

import "time"

// Session is the persisted revocation record behind a bearer token. The token
// itself is a signed JWT; this row exists so logout can invalidate it before
// expiry. Sessions are re-issued, never patched: the only mutation allowed
// after creation is flipping Enable off.
type Session struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Role      string    `json:"role" dynamodbav:"role"`
	DeviceID  string    `json:"device_id" dynamodbav:"device_id"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	IssuedAt  time.Time `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, DynamoDB TTL
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
	User      *User     `json:"user,omitempty" dynamodbav:"-"`
}
