package interfaces

// Realtime event names sent on a child's topic.
const (
	EventSettingsChanged   = "settings_changed"
	EventLimitsUpdated     = "limits_updated"
	EventUsageUpdated      = "usage_updated"
	EventTimeExhausted     = "time_exhausted"
	EventTimeGranted       = "time_granted"
	EventPaused            = "paused"
	EventResumed           = "resumed"
	EventContentBlocked    = "content_blocked"
	EventApprovalRequested = "approval_requested"
	EventApprovalDecided   = "approval_decided"
	EventWatchProgress     = "watch_progress"
	EventDeviceRegistered  = "device_registered"
)
