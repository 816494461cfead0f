// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is the identity anchor for snapshot ownership. Accounts are created on
// the first successful OAuth exchange and never deleted by the API; name and
// avatar are refreshed on re-login.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Provider   string    `gorm:"not null;default:google;uniqueIndex:idx_provider_identity" json:"provider"`
	ProviderID string    `gorm:"not null;uniqueIndex:idx_provider_identity" json:"provider_id"`
	Name       string    `json:"name"`
	Email      string    `gorm:"not null;index" json:"email"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
