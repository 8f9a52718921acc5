package models

import "time"

// Activity is one append-only audit record of an administrative action.
// AdminEmail is denormalized into the row so the trail survives admin
// deletion.
type Activity struct {
	ID         int64     `json:"id"`
	AdminEmail string    `json:"adminEmail"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
