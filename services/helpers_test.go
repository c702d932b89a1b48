package services

import (
	"SafeTube/config"
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"SafeTube/repositories/impl"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedEvent struct {
	ChildID uint
	Event   string
	Payload interface{}
}

type recordingHub struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (h *recordingHub) EmitToChild(childID uint, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{ChildID: childID, Event: event, Payload: payload})
}

func (h *recordingHub) count(event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu     sync.Mutex
	inputs []interfaces.NotificationInput
}

func (n *recordingNotifier) Notify(input interfaces.NotificationInput) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inputs = append(n.inputs, input)
}

func (n *recordingNotifier) ofType(kind string) []interfaces.NotificationInput {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []interfaces.NotificationInput
	for _, input := range n.inputs {
		if input.Type == kind {
			out = append(out, input)
		}
	}
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// at builds a wall-clock time in UTC. 2024-03-13 is a Wednesday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

// testEnv wires every service over one in-memory database.
type testEnv struct {
	DB       *gorm.DB
	Clock    *testClock
	Hub      *recordingHub
	Notifier *recordingNotifier

	Parents       repositories.ParentRepository
	Children      repositories.ChildRepository
	Rules         repositories.ScreenTimeRuleRepository
	Filters       repositories.ContentFilterRepository
	Whitelist     repositories.WhitelistRepository
	Blacklist     repositories.BlacklistRepository
	Requests      repositories.ApprovalRequestRepository
	Sessions      repositories.SessionRepository
	Devices       repositories.DeviceRepository
	Activity      repositories.ActivityLogRepository
	Notifications repositories.NotificationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	return &testEnv{
		DB:            db,
		Clock:         &testClock{now: at(13, 12, 0)},
		Hub:           &recordingHub{},
		Notifier:      &recordingNotifier{},
		Parents:       impl.NewParentRepository(db),
		Children:      impl.NewChildRepository(db),
		Rules:         impl.NewScreenTimeRuleRepository(db),
		Filters:       impl.NewContentFilterRepository(db),
		Whitelist:     impl.NewWhitelistRepository(db),
		Blacklist:     impl.NewBlacklistRepository(db),
		Requests:      impl.NewApprovalRequestRepository(db),
		Sessions:      impl.NewSessionRepository(db),
		Devices:       impl.NewDeviceRepository(db),
		Activity:      impl.NewActivityLogRepository(db),
		Notifications: impl.NewNotificationRepository(db),
	}
}

func (e *testEnv) screenTime() *ScreenTimeService {
	return NewScreenTimeService(e.Rules, e.Children, e.Sessions, e.Activity, e.Hub, e.Notifier, e.Clock.Now)
}

func (e *testEnv) auth() *AuthService {
	return NewAuthService(e.Children, e.Sessions, e.Activity, e.screenTime(), e.Notifier, e.Clock.Now, "test-secret", time.Hour)
}

func (e *testEnv) contentSafety(catalog interfaces.CatalogClient) *ContentSafetyService {
	return NewContentSafetyService(e.Children, e.Filters, e.Whitelist, e.Blacklist, e.Activity, catalog, e.Hub)
}

func (e *testEnv) approvals() *ApprovalService {
	return NewApprovalService(e.Requests, e.Children, e.Whitelist, e.Activity, e.Hub, e.Notifier, e.Clock.Now)
}

func (e *testEnv) devices() *DeviceService {
	return NewDeviceService(e.Devices, e.Children, e.Parents, e.Hub, e.Clock.Now)
}

func (e *testEnv) childService() *ChildService {
	return NewChildService(e.Children, e.Rules, e.Filters, e.Sessions, e.Hub, e.Clock.Now)
}

func (e *testEnv) createParent(t *testing.T, uid string) models.Parent {
	t.Helper()
	require.NoError(t, e.Parents.Save(models.Parent{FirebaseUID: uid, Name: "Parent " + uid, Email: uid + "@example.com", Lang: "en", SubscriptionTier: models.TierFree}))
	parent, err := e.Parents.FindByFirebaseUID(uid)
	require.NoError(t, err)
	return parent
}

func (e *testEnv) createChild(t *testing.T, parentID uint, name string, age int, pin string) models.Child {
	t.Helper()
	child := models.Child{ParentID: parentID, Name: name, Age: age, Lang: "en", Active: true}
	if pin != "" {
		hash, err := HashPIN(pin)
		require.NoError(t, err)
		child.PinHash = hash
	}
	require.NoError(t, e.Children.Create(&child))
	return child
}

func intPtr(v int) *int {
	return &v
}
