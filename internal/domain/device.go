package domain

import "time"

// BoundAccount is one user account tracked against a device's account limit.
// Entries keep first-bound-first order; a re-login refreshes the entry in
// place without moving it.
type BoundAccount struct {
	AccountID    string    `json:"account_id" dynamodbav:"account_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Name         string    `json:"name" dynamodbav:"name"`
	PhotoURL     string    `json:"photo_url,omitempty" dynamodbav:"photo_url"`
	FirstLoginAt time.Time `json:"first_login_at" dynamodbav:"first_login_at"`
	LastLoginAt  time.Time `json:"last_login_at" dynamodbav:"last_login_at"`
}

// DeviceInfo is client-reported device metadata, refreshed on every login.
type DeviceInfo struct {
	Model      string `json:"model" dynamodbav:"model"`
	OS         string `json:"os" dynamodbav:"os"`
	AppVersion string `json:"app_version" dynamodbav:"app_version"`
}

// Device is one physical/install identity, keyed by the client-supplied
// fingerprint. AccountCount is a redundant cache of len(Accounts); the two
// must never diverge, so both only change inside the device store's
// conditional write. Version backs that write's optimistic lock.
type Device struct {
	DeviceID     string         `json:"id" dynamodbav:"device_id"`
	Accounts     []BoundAccount `json:"accounts" dynamodbav:"accounts"`
	AccountCount int            `json:"account_count" dynamodbav:"account_count"`
	Info         DeviceInfo     `json:"info" dynamodbav:"info"`
	FirstLoginAt time.Time      `json:"first_login_at" dynamodbav:"first_login_at"`
	LastLoginAt  time.Time      `json:"last_login_at" dynamodbav:"last_login_at"`
	CreatedAt    time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time      `json:"updated" dynamodbav:"updated_at"`
	Version      int64          `json:"-" dynamodbav:"version"`
}

// Account returns the bound account with the given id, or nil.
func (d *Device) Account(accountID string) *BoundAccount {
	for i := range d.Accounts {
		if d.Accounts[i].AccountID == accountID {
			return &d.Accounts[i]
		}
	}
	return nil
}

// AccountInfo is the identity snapshot bound to a device on login.
type AccountInfo struct {
	AccountID string
	Email     string
	Name      string
	PhotoURL  string
}

// DeviceLimitCheckResult is the decision artifact produced by a limit check.
// Computed fresh on every login attempt, never persisted.
type DeviceLimitCheckResult struct {
	Allowed          bool           `json:"allowed"`
	Reason           string         `json:"reason,omitempty"`
	CurrentCount     int            `json:"current_count"`
	MaxLimit         int            `json:"max_limit"`
	ExistingAccounts []BoundAccount `json:"existing_accounts,omitempty"`
}
