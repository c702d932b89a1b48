package models

import "time"

const (
	RecipientParent = "parent"
	RecipientChild  = "child"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"

	NotificationSecurity         = "security_alert"
	NotificationApprovalRequest  = "approval_request"
	NotificationApprovalDecision = "approval_decision"
	NotificationTimeExhausted    = "time_exhausted"
)

type Notification struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ParentID  uint              `json:"parent_id" gorm:"index"`
	ChildID   *uint             `json:"child_id,omitempty" gorm:"index"`
	Recipient string            `json:"recipient"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Priority  string            `json:"priority"`
	Data      map[string]string `json:"data" gorm:"serializer:json"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}

// ApiQuota tracks catalog API units spent per day.
type ApiQuota struct {
	Day       string `json:"day" gorm:"primaryKey;size:10"`
	UnitsUsed int    `json:"units_used"`
}
