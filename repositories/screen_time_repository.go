package repositories

import "SafeTube/models"

type ScreenTimeRuleRepository interface {
	FindByChildID(childID uint) (models.ScreenTimeRule, error)
	// Upsert inserts the rule or overwrites the existing row for the same child.
	Upsert(rule *models.ScreenTimeRule) error
	// AddMinutes adds minutes to one of the daily counters (today_usage_minutes or
	// extra_minutes_today). A row still dated before today is reset first. Policy columns
	// are never written.
	AddMinutes(childID uint, today, column string, minutes int) (models.ScreenTimeRule, error)
	// UpdatePolicy writes only the limits, bedtime and allowed windows of an existing row.
	UpdatePolicy(rule *models.ScreenTimeRule) error
}
