package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"fmt"
	"log"
	"time"
)

const maxLimitMinutes = 24 * 60

// ScreenTimeStatus combines quota, pause state and the policy clock into one verdict.
type ScreenTimeStatus struct {
	RemainingMinutes    int        `json:"remaining_minutes"`
	QuotaRemaining      int        `json:"quota_remaining_minutes"`
	UsedMinutes         int        `json:"used_minutes"`
	LimitMinutes        int        `json:"limit_minutes"`
	ExtraMinutes        int        `json:"extra_minutes"`
	IsPaused            bool       `json:"is_paused"`
	PauseReason         string     `json:"pause_reason,omitempty"`
	PausedUntil         *time.Time `json:"paused_until,omitempty"`
	WithinBedtime       bool       `json:"within_bedtime"`
	WithinAllowedWindow bool       `json:"within_allowed_window"`
	IsBlocked           bool       `json:"is_blocked"`
	BlockReason         string     `json:"block_reason,omitempty"`
}

// RuleUpdate is a partial update of a screen-time rule. A negative weekday or weekend
// limit removes that override.
type RuleUpdate struct {
	DailyLimitMinutes   *int                    `json:"daily_limit_minutes"`
	WeekdayLimitMinutes *int                    `json:"weekday_limit_minutes"`
	WeekendLimitMinutes *int                    `json:"weekend_limit_minutes"`
	Bedtime             *models.Bedtime         `json:"bedtime"`
	AllowedWindows      *[]models.AllowedWindow `json:"allowed_windows"`
}

type ScreenTimeService struct {
	RuleRepo     repositories.ScreenTimeRuleRepository
	ChildRepo    repositories.ChildRepository
	SessionRepo  repositories.SessionRepository
	ActivityRepo repositories.ActivityLogRepository
	Hub          interfaces.Broadcaster
	Notifier     interfaces.Notifier
	Now          Clock
}

func NewScreenTimeService(
	ruleRepo repositories.ScreenTimeRuleRepository,
	childRepo repositories.ChildRepository,
	sessionRepo repositories.SessionRepository,
	activityRepo repositories.ActivityLogRepository,
	hub interfaces.Broadcaster,
	notifier interfaces.Notifier,
	clock Clock,
) *ScreenTimeService {
	return &ScreenTimeService{
		RuleRepo:     ruleRepo,
		ChildRepo:    childRepo,
		SessionRepo:  sessionRepo,
		ActivityRepo: activityRepo,
		Hub:          hub,
		Notifier:     notifier,
		Now:          clock,
	}
}

// Remaining returns today's unused quota in minutes, never below zero.
func (s *ScreenTimeService) Remaining(childID uint) (int, error) {
	if _, err := s.loadChild(childID); err != nil {
		return 0, err
	}
	now := s.Now()
	rule, err := s.loadRule(childID, now)
	if err != nil {
		return 0, err
	}
	return quotaRemaining(rule, now), nil
}

// Increment adds watched minutes to today's usage and returns the remaining quota.
func (s *ScreenTimeService) Increment(childID uint, minutes int) (int, error) {
	if minutes <= 0 {
		return 0, InvalidInput("minutes must be positive")
	}
	child, err := s.loadChild(childID)
	if err != nil {
		return 0, err
	}

	now := s.Now()
	rule, err := s.loadStoredRule(childID, now)
	if err != nil {
		return 0, err
	}

	before := quotaRemaining(rollover(rule, now), now)
	rule, err = s.RuleRepo.AddMinutes(childID, now.Format(models.DateLayout), "today_usage_minutes", minutes)
	if err != nil {
		return 0, Internal("save screen time usage", err)
	}

	remaining := quotaRemaining(rule, now)
	s.emit(childID, interfaces.EventUsageUpdated, map[string]interface{}{
		"used_minutes":      rule.TodayUsageMinutes,
		"remaining_minutes": remaining,
	})

	if before > 0 && remaining == 0 {
		s.emit(childID, interfaces.EventTimeExhausted, map[string]interface{}{"used_minutes": rule.TodayUsageMinutes})
		recordActivity(s.ActivityRepo, childID, models.ActivityTimeExhausted, fmt.Sprintf("%d minutes used", rule.TodayUsageMinutes))
		s.notifyParent(child, models.NotificationTimeExhausted, "Screen time used up",
			fmt.Sprintf("%s has used all %d minutes of today's screen time.", child.Name, rule.LimitFor(now)+rule.ExtraMinutesToday),
			models.PriorityNormal)
	}
	return remaining, nil
}

// GrantExtra gives the child extra minutes for today and lifts any pause.
// The grant is tied to the current date and disappears at the next rollover.
func (s *ScreenTimeService) GrantExtra(childID uint, minutes int) (int, error) {
	if minutes <= 0 || minutes > maxLimitMinutes {
		return 0, InvalidInput("minutes must be between 1 and %d", maxLimitMinutes)
	}
	child, err := s.loadChild(childID)
	if err != nil {
		return 0, err
	}

	now := s.Now()
	if _, err := s.loadStoredRule(childID, now); err != nil {
		return 0, err
	}
	rule, err := s.RuleRepo.AddMinutes(childID, now.Format(models.DateLayout), "extra_minutes_today", minutes)
	if err != nil {
		return 0, Internal("save time grant", err)
	}

	if child.IsPaused(now) || !child.Active {
		if err := s.resume(child); err != nil {
			return 0, err
		}
	}

	remaining := quotaRemaining(rule, now)
	s.emit(childID, interfaces.EventTimeGranted, map[string]interface{}{
		"granted_minutes":   minutes,
		"remaining_minutes": remaining,
	})
	return remaining, nil
}

// SetPaused pauses the child indefinitely or resumes it.
func (s *ScreenTimeService) SetPaused(childID uint, paused bool) error {
	if paused {
		return s.Pause(childID, "", 0)
	}
	return s.Resume(childID)
}

// Pause blocks the child for duration (0 = until resumed) and ends every open session.
func (s *ScreenTimeService) Pause(childID uint, reason string, duration time.Duration) error {
	if duration < 0 {
		return InvalidInput("pause duration cannot be negative")
	}
	child, err := s.loadChild(childID)
	if err != nil {
		return err
	}
	return s.pause(child, reason, duration)
}

func (s *ScreenTimeService) Resume(childID uint) error {
	child, err := s.loadChild(childID)
	if err != nil {
		return err
	}
	return s.resume(child)
}

// PanicPause pauses every child of the parent indefinitely. It returns how many were paused.
func (s *ScreenTimeService) PanicPause(parentID uint, reason string) (int, error) {
	children, err := s.ChildRepo.FindByParentID(parentID)
	if err != nil {
		return 0, Internal("list children for panic pause", err)
	}
	if reason == "" {
		reason = "panic"
	}

	paused := 0
	for _, child := range children {
		if err := s.pause(child, reason, 0); err != nil {
			return paused, err
		}
		paused++
	}
	log.Printf("[SCREEN_TIME] Panic pause by parent %d: %d children paused", parentID, paused)
	return paused, nil
}

func (s *ScreenTimeService) Status(childID uint) (ScreenTimeStatus, error) {
	child, err := s.loadChild(childID)
	if err != nil {
		return ScreenTimeStatus{}, err
	}
	return s.StatusForChild(child)
}

// StatusForChild evaluates an already loaded child.
func (s *ScreenTimeService) StatusForChild(child models.Child) (ScreenTimeStatus, error) {
	now := s.Now()
	rule, err := s.loadRule(child.ID, now)
	if err != nil {
		return ScreenTimeStatus{}, err
	}

	clock := EvaluatePolicy(now, rule)
	quota := quotaRemaining(rule, now)
	status := ScreenTimeStatus{
		QuotaRemaining:      quota,
		RemainingMinutes:    quota,
		UsedMinutes:         rule.TodayUsageMinutes,
		LimitMinutes:        rule.LimitFor(now),
		ExtraMinutes:        rule.ExtraMinutesToday,
		IsPaused:            child.IsPaused(now),
		WithinBedtime:       clock.WithinBedtime,
		WithinAllowedWindow: clock.WithinAllowedWindow,
	}
	if clock.Bounded && clock.MinutesRemaining < status.RemainingMinutes {
		status.RemainingMinutes = clock.MinutesRemaining
	}
	if status.IsPaused {
		status.PauseReason = child.PauseReason
		status.PausedUntil = child.PausedUntil
		status.RemainingMinutes = 0
	}

	switch {
	case status.IsPaused:
		status.BlockReason = "paused"
	case quota <= 0:
		status.BlockReason = "time exhausted"
	case clock.WithinBedtime:
		status.BlockReason = "bedtime"
	case !clock.WithinAllowedWindow:
		status.BlockReason = "outside allowed hours"
	}
	status.IsBlocked = status.BlockReason != ""
	return status, nil
}

// GetRule returns the child's rule as it applies today.
func (s *ScreenTimeService) GetRule(childID uint) (models.ScreenTimeRule, error) {
	if _, err := s.loadChild(childID); err != nil {
		return models.ScreenTimeRule{}, err
	}
	return s.loadRule(childID, s.Now())
}

func (s *ScreenTimeService) UpdateRule(childID uint, update RuleUpdate) (models.ScreenTimeRule, error) {
	if err := validateRuleUpdate(update); err != nil {
		return models.ScreenTimeRule{}, err
	}
	if _, err := s.loadChild(childID); err != nil {
		return models.ScreenTimeRule{}, err
	}

	now := s.Now()
	rule, err := s.loadStoredRule(childID, now)
	if err != nil {
		return models.ScreenTimeRule{}, err
	}
	rule = rollover(rule, now)

	if update.DailyLimitMinutes != nil {
		rule.DailyLimitMinutes = *update.DailyLimitMinutes
	}
	if update.WeekdayLimitMinutes != nil {
		rule.WeekdayLimitMinutes = optionalLimit(*update.WeekdayLimitMinutes)
	}
	if update.WeekendLimitMinutes != nil {
		rule.WeekendLimitMinutes = optionalLimit(*update.WeekendLimitMinutes)
	}
	if update.Bedtime != nil {
		rule.Bedtime = *update.Bedtime
	}
	if update.AllowedWindows != nil {
		rule.AllowedWindows = *update.AllowedWindows
	}

	if err := s.RuleRepo.UpdatePolicy(&rule); err != nil {
		return models.ScreenTimeRule{}, Internal("save screen time rule", err)
	}
	// usage may have moved while the update was being applied
	if stored, err := s.RuleRepo.FindByChildID(childID); err == nil {
		rule = rollover(stored, now)
	}

	s.emit(childID, interfaces.EventLimitsUpdated, map[string]interface{}{
		"rule":              rule,
		"remaining_minutes": quotaRemaining(rule, now),
	})
	return rule, nil
}

func (s *ScreenTimeService) pause(child models.Child, reason string, duration time.Duration) error {
	now := s.Now()
	child.Active = false
	child.PauseReason = reason
	child.PausedUntil = nil
	if duration > 0 {
		until := now.Add(duration)
		child.PausedUntil = &until
	}
	if err := s.ChildRepo.Save(child); err != nil {
		return Internal("save pause", err)
	}

	closed, err := s.SessionRepo.DeactivateAllForChild(child.ID)
	if err != nil {
		return Internal("deactivate sessions", err)
	}
	log.Printf("[SCREEN_TIME] Child %d paused (%s), %d sessions closed", child.ID, reason, closed)

	s.emit(child.ID, interfaces.EventPaused, map[string]interface{}{
		"reason":       reason,
		"paused_until": child.PausedUntil,
	})
	return nil
}

func (s *ScreenTimeService) resume(child models.Child) error {
	child.Active = true
	child.PauseReason = ""
	child.PausedUntil = nil
	if err := s.ChildRepo.Save(child); err != nil {
		return Internal("save resume", err)
	}
	s.emit(child.ID, interfaces.EventResumed, map[string]interface{}{})
	return nil
}

func (s *ScreenTimeService) loadChild(childID uint) (models.Child, error) {
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		return models.Child{}, storeError("load child", "child", err)
	}
	return child, nil
}

// loadRule returns the rule as seen today: a stale day reads as zero usage.
func (s *ScreenTimeService) loadRule(childID uint, now time.Time) (models.ScreenTimeRule, error) {
	rule, err := s.loadStoredRule(childID, now)
	if err != nil {
		return models.ScreenTimeRule{}, err
	}
	return rollover(rule, now), nil
}

// loadStoredRule returns the persisted rule, creating the default one on first access.
func (s *ScreenTimeService) loadStoredRule(childID uint, now time.Time) (models.ScreenTimeRule, error) {
	rule, err := s.RuleRepo.FindByChildID(childID)
	if err == nil {
		return rule, nil
	}
	if !isNotFound(err) {
		return models.ScreenTimeRule{}, Internal("load screen time rule", err)
	}

	rule = models.DefaultScreenTimeRule(childID)
	rule.LastResetDate = now.Format(models.DateLayout)
	if err := s.RuleRepo.Upsert(&rule); err != nil {
		return models.ScreenTimeRule{}, Internal("create screen time rule", err)
	}
	return rule, nil
}

func (s *ScreenTimeService) emit(childID uint, event string, payload interface{}) {
	if s.Hub != nil {
		s.Hub.EmitToChild(childID, event, payload)
	}
}

func (s *ScreenTimeService) notifyParent(child models.Child, kind, title, message, priority string) {
	if s.Notifier == nil {
		return
	}
	childID := child.ID
	s.Notifier.Notify(interfaces.NotificationInput{
		ParentID:  child.ParentID,
		ChildID:   &childID,
		Recipient: models.RecipientParent,
		Type:      kind,
		Title:     title,
		Message:   message,
		Priority:  priority,
	})
}

// rollover returns the rule with usage and grants cleared when its date is not today.
func rollover(rule models.ScreenTimeRule, now time.Time) models.ScreenTimeRule {
	if rule.NeedsReset(now) {
		rule.TodayUsageMinutes = 0
		rule.ExtraMinutesToday = 0
		rule.LastResetDate = now.Format(models.DateLayout)
	}
	return rule
}

func quotaRemaining(rule models.ScreenTimeRule, now time.Time) int {
	remaining := rule.LimitFor(now) + rule.ExtraMinutesToday - rule.TodayUsageMinutes
	if remaining < 0 {
		return 0
	}
	return remaining
}

func optionalLimit(value int) *int {
	if value < 0 {
		return nil
	}
	return &value
}

func validateRuleUpdate(update RuleUpdate) error {
	for name, limit := range map[string]*int{
		"daily_limit_minutes":   update.DailyLimitMinutes,
		"weekday_limit_minutes": update.WeekdayLimitMinutes,
		"weekend_limit_minutes": update.WeekendLimitMinutes,
	} {
		if limit != nil && *limit > maxLimitMinutes {
			return InvalidInput("%s cannot exceed %d", name, maxLimitMinutes)
		}
	}
	if update.DailyLimitMinutes != nil && *update.DailyLimitMinutes < 0 {
		return InvalidInput("daily_limit_minutes cannot be negative")
	}
	if update.Bedtime != nil && update.Bedtime.Enabled {
		if err := validateClockRange(update.Bedtime.Start, update.Bedtime.End); err != nil {
			return err
		}
	}
	if update.AllowedWindows != nil {
		for _, window := range *update.AllowedWindows {
			if window.DayOfWeek < 0 || window.DayOfWeek > 6 {
				return InvalidInput("day_of_week must be between 0 and 6")
			}
			if err := validateClockRange(window.Start, window.End); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateClockRange(start, end string) error {
	if _, err := models.ParseClock(start); err != nil {
		return InvalidInput("start must be HH:MM")
	}
	if _, err := models.ParseClock(end); err != nil {
		return InvalidInput("end must be HH:MM")
	}
	return nil
}
