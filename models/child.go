package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BracketPreschool       = "preschool"
	BracketEarlyElementary = "early_elementary"
	BracketLateElementary  = "late_elementary"
	BracketTeen            = "teen"
)

type Child struct {
	ID                uint           `json:"id" gorm:"primary_key"`
	ParentID          uint           `json:"parent_id" gorm:"index"`
	Name              string         `json:"name"`
	PinHash           string         `json:"-"`
	Age               int            `json:"age"`
	AgeBracket        string         `json:"age_bracket"`
	Lang              string         `json:"lang"`
	DeviceToken       string         `json:"-"`
	Active            bool           `json:"active" gorm:"default:true"`
	PauseReason       string         `json:"pause_reason,omitempty"`
	PausedUntil       *time.Time     `json:"paused_until,omitempty"`
	FailedPinAttempts int            `json:"-"`
	LockoutUntil      *time.Time     `json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeSave keeps the age bracket in step with the age.
func (c *Child) BeforeSave(tx *gorm.DB) error {
	c.AgeBracket = BracketForAge(c.Age)
	return nil
}

// IsPaused reports whether the child is paused at now. A PausedUntil in the past means
// "not paused" even though the row still carries it; a nil PausedUntil with Active=false
// means paused indefinitely.
func (c Child) IsPaused(now time.Time) bool {
	if c.PausedUntil != nil {
		return c.PausedUntil.After(now)
	}
	return !c.Active
}

// IsLockedOut reports whether a PIN lockout is in force at now.
func (c Child) IsLockedOut(now time.Time) bool {
	return c.LockoutUntil != nil && c.LockoutUntil.After(now)
}

func BracketForAge(age int) string {
	switch {
	case age <= 5:
		return BracketPreschool
	case age <= 8:
		return BracketEarlyElementary
	case age <= 12:
		return BracketLateElementary
	default:
		return BracketTeen
	}
}

// MaxVideoMinutes returns the duration ceiling for an age bracket, 0 meaning no ceiling.
func MaxVideoMinutes(bracket string) int {
	switch bracket {
	case BracketPreschool:
		return 10
	case BracketEarlyElementary:
		return 15
	case BracketLateElementary:
		return 30
	default:
		return 0
	}
}

// ChildSummary is the part of a child returned to devices after login.
type ChildSummary struct {
	ID         uint   `json:"id"`
	ParentID   uint   `json:"parent_id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	AgeBracket string `json:"age_bracket"`
	Lang       string `json:"lang"`
}

func (c Child) Summary() ChildSummary {
	return ChildSummary{
		ID:         c.ID,
		ParentID:   c.ParentID,
		Name:       c.Name,
		Age:        c.Age,
		AgeBracket: BracketForAge(c.Age),
		Lang:       c.Lang,
	}
}
