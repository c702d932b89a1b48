package models

import "time"

const (
	RequestTypeVideo   = "video"
	RequestTypeChannel = "channel"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ApprovalSubject describes the video or channel a child asks for.
type ApprovalSubject struct {
	Type         string `json:"type" binding:"required,oneof=video channel"`
	VideoID      string `json:"video_id"`
	ChannelID    string `json:"channel_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Key identifies the subject for duplicate detection.
func (s ApprovalSubject) Key() string {
	if s.Type == RequestTypeChannel {
		return s.ChannelID
	}
	return s.VideoID
}

type ApprovalRequest struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ChildID      uint       `json:"child_id" gorm:"index"`
	ParentID     uint       `json:"parent_id" gorm:"index"`
	RequestType  string     `json:"request_type"`
	VideoID      string     `json:"video_id,omitempty"`
	ChannelID    string     `json:"channel_id,omitempty"`
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channel_title"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Status       string     `json:"status" gorm:"index"`
	ChildMessage string     `json:"child_message"`
	ParentNotes  string     `json:"parent_notes"`
	RequestedAt  time.Time  `json:"requested_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"`
}

func (r ApprovalRequest) Subject() ApprovalSubject {
	return ApprovalSubject{
		Type:         r.RequestType,
		VideoID:      r.VideoID,
		ChannelID:    r.ChannelID,
		Title:        r.Title,
		ChannelTitle: r.ChannelTitle,
		ThumbnailURL: r.ThumbnailURL,
	}
}
