package interfaces

import "SafeTube/models"

// NotificationInput is the notify-parent (or notify-child) call contract.
type NotificationInput struct {
	ParentID  uint
	ChildID   *uint
	Recipient string
	Type      string
	Title     string
	Message   string
	Priority  string
	Data      map[string]string
}

// Notifier delivers notifications. Implementations never fail the caller.
type Notifier interface {
	Notify(input NotificationInput)
}

// Broadcaster pushes realtime events to every device joined to a child's topic.
// Delivery is best effort: no ordering and no retries.
type Broadcaster interface {
	EmitToChild(childID uint, event string, payload interface{})
}

// ProgressRecorder persists the "now watching" pointer relayed between a child's devices.
type ProgressRecorder interface {
	SyncProgress(childID uint, deviceID, videoID string, positionSeconds int) (models.SessionSync, error)
}
