package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEnforcesDeviceCap(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.devices()

	for i := 0; i < parent.DeviceCap(); i++ {
		_, err := service.Register(child.ID, models.DeviceDescriptor{DeviceID: fmt.Sprintf("device-%d", i), Platform: "android"})
		require.NoError(t, err)
	}

	allowed, err := service.CheckLimit(child.ID)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = service.Register(child.ID, models.DeviceDescriptor{DeviceID: "one-too-many"})
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Contains(t, err.Error(), "device limit of 2")

	// a known device re-registers without counting again
	env.Clock.Advance(time.Hour)
	device, err := service.Register(child.ID, models.DeviceDescriptor{DeviceID: "device-0"})
	require.NoError(t, err)
	assert.Equal(t, env.Clock.Now(), device.LastSeenAt)

	devices, err := service.ListDevices(child.ID)
	require.NoError(t, err)
	assert.Len(t, devices, 2)
	assert.Equal(t, 2, env.Hub.count(interfaces.EventDeviceRegistered))
}

func TestDeviceCapFollowsTier(t *testing.T) {
	assert.Equal(t, 2, models.Parent{SubscriptionTier: models.TierFree}.DeviceCap())
	assert.Equal(t, 3, models.Parent{SubscriptionTier: models.TierBasic}.DeviceCap())
	assert.Equal(t, 5, models.Parent{SubscriptionTier: models.TierPremium}.DeviceCap())
	assert.Equal(t, 10, models.Parent{SubscriptionTier: models.TierFamily}.DeviceCap())
	assert.Equal(t, 2, models.Parent{SubscriptionTier: "gold"}.DeviceCap())
}

func TestRegisterRequiresDeviceID(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")

	_, err := env.devices().Register(child.ID, models.DeviceDescriptor{DeviceID: "  "})

	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRemoveDeviceFreesSlot(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	stranger := env.createParent(t, "p2")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.devices()

	for _, id := range []string{"a", "b"} {
		_, err := service.Register(child.ID, models.DeviceDescriptor{DeviceID: id})
		require.NoError(t, err)
	}

	err := service.RemoveDevice(stranger.ID, child.ID, "a")
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, service.RemoveDevice(parent.ID, child.ID, "a"))
	err = service.RemoveDevice(parent.ID, child.ID, "a")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = service.Register(child.ID, models.DeviceDescriptor{DeviceID: "c"})
	require.NoError(t, err)
}

func TestSyncProgressLastWriterWins(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createParent(t, "p1")
	child := env.createChild(t, parent.ID, "Ann", 9, "1234")
	service := env.devices()

	_, err := service.NowWatching(child.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = service.SyncProgress(child.ID, "tablet", "v1", 30)
	require.NoError(t, err)
	env.Clock.Advance(time.Minute)
	_, err = service.SyncProgress(child.ID, "phone", "v2", -5)
	require.NoError(t, err)

	sync, err := service.NowWatching(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", sync.VideoID)
	assert.Equal(t, "phone", sync.DeviceID)
	assert.Equal(t, 0, sync.PositionSeconds)

	_, err = service.SyncProgress(child.ID, "phone", "", 10)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}
