package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingCreatesDefaultRule(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")

	remaining, err := env.screenTime().Remaining(child.ID)

	require.NoError(t, err)
	assert.Equal(t, models.DefaultDailyLimitMinutes, remaining)

	rule, err := env.Rules.FindByChildID(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", rule.LastResetDate)
}

func TestRemainingUnknownChild(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.screenTime().Remaining(42)

	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestIncrementIsMonotonicWithinDay(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	previous := models.DefaultDailyLimitMinutes
	for _, minutes := range []int{10, 25, 5, 40} {
		env.Clock.Advance(30 * time.Minute)
		remaining, err := service.Increment(child.ID, minutes)
		require.NoError(t, err)
		assert.LessOrEqual(t, remaining, previous)
		previous = remaining
	}
	assert.Equal(t, 40, previous)
	assert.Equal(t, 4, env.Hub.count(interfaces.EventUsageUpdated))
}

func TestIncrementRejectsNonPositiveMinutes(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")

	_, err := env.screenTime().Increment(child.ID, 0)

	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestIncrementExhaustionNotifiesOnce(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	remaining, err := service.Increment(child.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, remaining)

	remaining, err = service.Increment(child.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// usage past the limit stays at zero and does not alert again
	remaining, err = service.Increment(child.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	assert.Equal(t, 1, env.Hub.count(interfaces.EventTimeExhausted))
	alerts := env.Notifier.ofType(models.NotificationTimeExhausted)
	require.Len(t, alerts, 1)
	assert.Equal(t, parent.ID, alerts[0].ParentID)
	assert.Equal(t, models.RecipientParent, alerts[0].Recipient)
}

func TestRolloverResetsUsageAndGrantsOnce(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	_, err := service.Increment(child.ID, 90)
	require.NoError(t, err)
	remaining, err := service.GrantExtra(child.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 45, remaining)

	// next day
	env.Clock.Set(at(14, 8, 0))
	remaining, err = service.Remaining(child.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDailyLimitMinutes, remaining)

	remaining, err = service.Increment(child.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 100, remaining)

	// later the same day the reset does not happen again
	env.Clock.Set(at(14, 18, 0))
	remaining, err = service.Increment(child.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 90, remaining)

	rule, err := env.Rules.FindByChildID(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", rule.LastResetDate)
	assert.Equal(t, 30, rule.TodayUsageMinutes)
	assert.Equal(t, 0, rule.ExtraMinutesToday)
}

func TestGrantExtraValidatesAndResumes(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	_, err := service.GrantExtra(child.ID, 0)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	require.NoError(t, service.Pause(child.ID, "dinner", 0))
	remaining, err := service.GrantExtra(child.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 150, remaining)

	status, err := service.Status(child.ID)
	require.NoError(t, err)
	assert.False(t, status.IsPaused)
	assert.Equal(t, 1, env.Hub.count(interfaces.EventTimeGranted))
}

func TestPauseEndsSessionsAndBlocks(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	session := &models.ChildSession{ChildID: child.ID, TokenHash: "abc", ExpiresAt: env.Clock.Now().Add(time.Hour), Active: true}
	require.NoError(t, env.Sessions.Create(session))

	require.NoError(t, service.Pause(child.ID, "homework", 0))

	stored, err := env.Sessions.FindByTokenHash("abc")
	require.NoError(t, err)
	assert.False(t, stored.Active)

	status, err := service.Status(child.ID)
	require.NoError(t, err)
	assert.True(t, status.IsBlocked)
	assert.Equal(t, "paused", status.BlockReason)
	assert.Equal(t, "homework", status.PauseReason)
	assert.Equal(t, 0, status.RemainingMinutes)

	require.NoError(t, service.Resume(child.ID))
	status, err = service.Status(child.ID)
	require.NoError(t, err)
	assert.False(t, status.IsBlocked)
}

func TestTimedPauseExpires(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	require.NoError(t, service.Pause(child.ID, "", 30*time.Minute))
	status, err := service.Status(child.ID)
	require.NoError(t, err)
	assert.True(t, status.IsPaused)

	env.Clock.Advance(31 * time.Minute)
	status, err = service.Status(child.ID)
	require.NoError(t, err)
	assert.False(t, status.IsPaused)
}

func TestPanicPausePausesEveryChild(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	other := env.createParent(t, "p2")
	first := env.createChild(t, parent.ID, "Ann", 7, "1234")
	second := env.createChild(t, parent.ID, "Ben", 10, "1234")
	untouched := env.createChild(t, other.ID, "Cid", 9, "1234")

	paused, err := env.screenTime().PanicPause(parent.ID, "")

	require.NoError(t, err)
	assert.Equal(t, 2, paused)
	for _, id := range []uint{first.ID, second.ID} {
		child, err := env.Children.FindByID(id)
		require.NoError(t, err)
		assert.True(t, child.IsPaused(env.Clock.Now()))
		assert.Equal(t, "panic", child.PauseReason)
	}
	child, err := env.Children.FindByID(untouched.ID)
	require.NoError(t, err)
	assert.False(t, child.IsPaused(env.Clock.Now()))
}

func TestStatusBoundsRemainingByBedtime(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	_, err := service.UpdateRule(child.ID, RuleUpdate{
		Bedtime: &models.Bedtime{Enabled: true, Start: "21:00", End: "07:00"},
	})
	require.NoError(t, err)

	env.Clock.Set(at(13, 20, 30))
	status, err := service.Status(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, status.RemainingMinutes)
	assert.Equal(t, models.DefaultDailyLimitMinutes, status.QuotaRemaining)
	assert.False(t, status.IsBlocked)

	env.Clock.Set(at(13, 23, 30))
	status, err = service.Status(child.ID)
	require.NoError(t, err)
	assert.True(t, status.IsBlocked)
	assert.Equal(t, "bedtime", status.BlockReason)
}

func TestUpdateRuleValidation(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	tests := []struct {
		name   string
		update RuleUpdate
	}{
		{"limit over a day", RuleUpdate{DailyLimitMinutes: intPtr(maxLimitMinutes + 1)}},
		{"negative limit", RuleUpdate{DailyLimitMinutes: intPtr(-5)}},
		{"bad bedtime", RuleUpdate{Bedtime: &models.Bedtime{Enabled: true, Start: "9pm", End: "07:00"}}},
		{"bad weekday", RuleUpdate{AllowedWindows: &[]models.AllowedWindow{{DayOfWeek: 7, Start: "10:00", End: "11:00"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateRule(child.ID, tt.update)
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
}

func TestUpdateRuleWeekendOverride(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	service := env.screenTime()

	rule, err := service.UpdateRule(child.ID, RuleUpdate{
		DailyLimitMinutes:   intPtr(60),
		WeekendLimitMinutes: intPtr(180),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, rule.DailyLimitMinutes)
	assert.Equal(t, 1, env.Hub.count(interfaces.EventLimitsUpdated))

	remaining, err := service.Remaining(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, remaining)

	// 2024-03-16 is a Saturday
	env.Clock.Set(at(16, 10, 0))
	remaining, err = service.Remaining(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, remaining)

	// a negative override removes it
	_, err = service.UpdateRule(child.ID, RuleUpdate{WeekendLimitMinutes: intPtr(-1)})
	require.NoError(t, err)
	remaining, err = service.Remaining(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, remaining)
}

// editOnLoad runs a parent edit between a service's read of the rule and its write.
type editOnLoad struct {
	repositories.ScreenTimeRuleRepository
	afterLoad func()
}

func (r *editOnLoad) FindByChildID(childID uint) (models.ScreenTimeRule, error) {
	rule, err := r.ScreenTimeRuleRepository.FindByChildID(childID)
	if r.afterLoad != nil {
		hook := r.afterLoad
		r.afterLoad = nil
		hook()
	}
	return rule, err
}

func TestIncrementKeepsConcurrentRuleUpdate(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	_, err := env.screenTime().Increment(child.ID, 5)
	require.NoError(t, err)

	bedtime := models.Bedtime{Enabled: true, Start: "21:00", End: "07:00"}
	rules := &editOnLoad{ScreenTimeRuleRepository: env.Rules}
	rules.afterLoad = func() {
		_, err := env.screenTime().UpdateRule(child.ID, RuleUpdate{DailyLimitMinutes: intPtr(90), Bedtime: &bedtime})
		require.NoError(t, err)
	}
	stale := NewScreenTimeService(rules, env.Children, env.Sessions, env.Activity, env.Hub, env.Notifier, env.Clock.Now)

	remaining, err := stale.Increment(child.ID, 10)

	require.NoError(t, err)
	assert.Equal(t, 75, remaining)
	stored, err := env.Rules.FindByChildID(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, stored.DailyLimitMinutes)
	assert.Equal(t, bedtime, stored.Bedtime)
	assert.Equal(t, 15, stored.TodayUsageMinutes)
}

func TestRuleUpdateKeepsConcurrentUsage(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 7, "1234")
	_, err := env.screenTime().Increment(child.ID, 5)
	require.NoError(t, err)

	rules := &editOnLoad{ScreenTimeRuleRepository: env.Rules}
	rules.afterLoad = func() {
		_, err := env.screenTime().Increment(child.ID, 20)
		require.NoError(t, err)
	}
	stale := NewScreenTimeService(rules, env.Children, env.Sessions, env.Activity, env.Hub, env.Notifier, env.Clock.Now)

	rule, err := stale.UpdateRule(child.ID, RuleUpdate{DailyLimitMinutes: intPtr(90)})

	require.NoError(t, err)
	assert.Equal(t, 25, rule.TodayUsageMinutes)
	stored, err := env.Rules.FindByChildID(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, stored.DailyLimitMinutes)
	assert.Equal(t, 25, stored.TodayUsageMinutes)
}
