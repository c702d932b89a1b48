package models

import "time"

const (
	ActivityLoginSuccess      = "login_success"
	ActivityLoginFailed       = "login_failed"
	ActivityLoginLocked       = "login_locked"
	ActivityLoginDenied       = "login_denied"
	ActivityContentBlocked    = "content_blocked"
	ActivityApprovalRequested = "approval_requested"
	ActivityTimeExhausted     = "time_exhausted"
)

type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChildID   uint      `json:"child_id" gorm:"index"`
	Action    string    `json:"action" gorm:"index"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
