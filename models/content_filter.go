package models

import "time"

type ContentFilter struct {
	ID                      uint      `json:"id" gorm:"primaryKey"`
	ChildID                 uint      `json:"child_id" gorm:"uniqueIndex"`
	StrictMode              bool      `json:"strict_mode"`
	BlockedKeywords         []string  `json:"blocked_keywords" gorm:"serializer:json"`
	MaxVideoDurationMinutes *int      `json:"max_video_duration_minutes,omitempty"`
	BlockedCategories       []string  `json:"blocked_categories" gorm:"serializer:json"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func DefaultContentFilter(childID uint) ContentFilter {
	return ContentFilter{
		ChildID:           childID,
		BlockedKeywords:   []string{},
		BlockedCategories: []string{},
	}
}

// ApprovedChannel whitelists a whole channel for a child.
type ApprovedChannel struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChildID      uint      `json:"child_id" gorm:"uniqueIndex:idx_child_channel"`
	ChannelID    string    `json:"channel_id" gorm:"uniqueIndex:idx_child_channel"`
	ChannelTitle string    `json:"channel_title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ApprovedBy   uint      `json:"approved_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApprovedVideo whitelists a single video for a child.
type ApprovedVideo struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChildID      uint      `json:"child_id" gorm:"uniqueIndex:idx_child_video"`
	VideoID      string    `json:"video_id" gorm:"uniqueIndex:idx_child_video"`
	ChannelID    string    `json:"channel_id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ApprovedBy   uint      `json:"approved_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BlockedContent denies a video, a channel or both for a child.
type BlockedContent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChildID   uint      `json:"child_id" gorm:"index"`
	VideoID   *string   `json:"video_id,omitempty" gorm:"index"`
	ChannelID *string   `json:"channel_id,omitempty" gorm:"index"`
	Title     string    `json:"title"`
	Reason    string    `json:"reason"`
	BlockedBy uint      `json:"blocked_by"`
	CreatedAt time.Time `json:"created_at"`
}
