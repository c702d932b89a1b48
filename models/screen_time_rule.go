package models

import (
	"fmt"
	"time"
)

const (
	DefaultDailyLimitMinutes = 120
	DateLayout               = "2006-01-02"
)

// Bedtime is a daily recurring window during which access is always denied.
type Bedtime struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // HH:MM
	End     string `json:"end"`   // HH:MM, may be before Start when crossing midnight
}

// AllowedWindow restricts access on DayOfWeek (0 = Sunday) to [Start, End).
type AllowedWindow struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type ScreenTimeRule struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	ChildID             uint            `json:"child_id" gorm:"uniqueIndex"`
	DailyLimitMinutes   int             `json:"daily_limit_minutes"`
	WeekdayLimitMinutes *int            `json:"weekday_limit_minutes,omitempty"`
	WeekendLimitMinutes *int            `json:"weekend_limit_minutes,omitempty"`
	TodayUsageMinutes   int             `json:"today_usage_minutes"`
	ExtraMinutesToday   int             `json:"extra_minutes_today"`
	LastResetDate       string          `json:"last_reset_date"`
	Bedtime             Bedtime         `json:"bedtime" gorm:"serializer:json"`
	AllowedWindows      []AllowedWindow `json:"allowed_windows" gorm:"serializer:json"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func DefaultScreenTimeRule(childID uint) ScreenTimeRule {
	return ScreenTimeRule{
		ChildID:           childID,
		DailyLimitMinutes: DefaultDailyLimitMinutes,
		AllowedWindows:    []AllowedWindow{},
	}
}

// LimitFor picks the limit that applies on the weekday of now.
func (r ScreenTimeRule) LimitFor(now time.Time) int {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		if r.WeekendLimitMinutes != nil {
			return *r.WeekendLimitMinutes
		}
	default:
		if r.WeekdayLimitMinutes != nil {
			return *r.WeekdayLimitMinutes
		}
	}
	return r.DailyLimitMinutes
}

// NeedsReset reports whether the stored usage belongs to a day other than now's.
func (r ScreenTimeRule) NeedsReset(now time.Time) bool {
	return r.LastResetDate != now.Format(DateLayout)
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
