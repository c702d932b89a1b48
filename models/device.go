package models

import "time"

type Device struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ChildID    uint      `json:"child_id" gorm:"uniqueIndex:idx_child_device"`
	DeviceID   string    `json:"device_id" gorm:"uniqueIndex:idx_child_device"`
	Name       string    `json:"name"`
	Platform   string    `json:"platform"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeviceDescriptor is what a device reports about itself on registration.
type DeviceDescriptor struct {
	DeviceID string `json:"device_id" binding:"required"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

// SessionSync is the single "now watching" pointer per child. Last writer wins.
type SessionSync struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ChildID         uint      `json:"child_id" gorm:"uniqueIndex"`
	VideoID         string    `json:"video_id"`
	PositionSeconds int       `json:"position_seconds"`
	DeviceID        string    `json:"device_id"`
	LastSyncedAt    time.Time `json:"last_synced_at"`
}
