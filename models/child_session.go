package models

import "time"

// ChildSession backs an issued child token. Only the token hash is stored.
type ChildSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChildID   uint      `json:"child_id" gorm:"index"`
	TokenHash string    `json:"-" gorm:"uniqueIndex;size:64"`
	DeviceID  string    `json:"device_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (s ChildSession) IsValid(now time.Time) bool {
	return s.Active && s.ExpiresAt.After(now)
}
