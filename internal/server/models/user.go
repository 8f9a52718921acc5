// Package models holds the row types shared by repositories and services.
package models

import "time"

// Subscription tiers. New accounts start on the trial tier.
const (
	TierTrial = "trial"
	TierBasic = "basic"
	TierPro   = "pro"
)

// User is an end-user account. PasswordHash is the bcrypt hash of the
// password; the raw password is never stored or returned.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	CompanyName      string    `json:"companyName,omitempty"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	SubscriptionTier string    `json:"subscriptionTier"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ValidTier reports whether s names a known subscription tier.
func ValidTier(s string) bool {
	return s == TierTrial || s == TierBasic || s == TierPro
}
