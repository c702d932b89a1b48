package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"log"
	"strings"
)

type DeviceService struct {
	DeviceRepo repositories.DeviceRepository
	ChildRepo  repositories.ChildRepository
	ParentRepo repositories.ParentRepository
	Hub        interfaces.Broadcaster
	Now        Clock
}

func NewDeviceService(
	deviceRepo repositories.DeviceRepository,
	childRepo repositories.ChildRepository,
	parentRepo repositories.ParentRepository,
	hub interfaces.Broadcaster,
	clock Clock,
) *DeviceService {
	return &DeviceService{
		DeviceRepo: deviceRepo,
		ChildRepo:  childRepo,
		ParentRepo: parentRepo,
		Hub:        hub,
		Now:        clock,
	}
}

// Register records a device for the child. A device that is already registered only has
// its last-seen time refreshed and never counts against the cap.
func (s *DeviceService) Register(childID uint, descriptor models.DeviceDescriptor) (models.Device, error) {
	deviceID := strings.TrimSpace(descriptor.DeviceID)
	if deviceID == "" {
		return models.Device{}, InvalidInput("device_id is required")
	}
	now := s.Now()

	existing, err := s.DeviceRepo.Find(childID, deviceID)
	if err == nil {
		if err := s.DeviceRepo.Touch(existing.ID, now); err != nil {
			log.Printf("[DEVICE] Failed to refresh device %s of child %d: %v", deviceID, childID, err)
		}
		existing.LastSeenAt = now
		return existing, nil
	}
	if !isNotFound(err) {
		return models.Device{}, Internal("load device", err)
	}

	allowed, limit, err := s.checkLimit(childID)
	if err != nil {
		return models.Device{}, err
	}
	if !allowed {
		return models.Device{}, Forbidden("device limit of %d reached for this plan", limit)
	}

	device := models.Device{
		ChildID:    childID,
		DeviceID:   deviceID,
		Name:       descriptor.Name,
		Platform:   descriptor.Platform,
		LastSeenAt: now,
	}
	if err := s.DeviceRepo.Create(&device); err != nil {
		return models.Device{}, Internal("create device", err)
	}

	log.Printf("[DEVICE] Registered device %s for child %d", deviceID, childID)
	if s.Hub != nil {
		s.Hub.EmitToChild(childID, interfaces.EventDeviceRegistered, device)
	}
	return device, nil
}

// CheckLimit reports whether the child may register one more device.
func (s *DeviceService) CheckLimit(childID uint) (bool, error) {
	allowed, _, err := s.checkLimit(childID)
	return allowed, err
}

func (s *DeviceService) ListDevices(childID uint) ([]models.Device, error) {
	devices, err := s.DeviceRepo.ListByChild(childID)
	if err != nil {
		return nil, Internal("list devices", err)
	}
	return devices, nil
}

func (s *DeviceService) RemoveDevice(parentID, childID uint, deviceID string) error {
	if _, err := ownedChild(s.ChildRepo, parentID, childID); err != nil {
		return err
	}
	if err := s.DeviceRepo.Delete(childID, deviceID); err != nil {
		return storeError("remove device", "device", err)
	}
	log.Printf("[DEVICE] Parent %d removed device %s of child %d", parentID, deviceID, childID)
	return nil
}

// SyncProgress stores the child's current playback position. The last writer wins.
func (s *DeviceService) SyncProgress(childID uint, deviceID, videoID string, positionSeconds int) (models.SessionSync, error) {
	if strings.TrimSpace(videoID) == "" {
		return models.SessionSync{}, InvalidInput("video_id is required")
	}
	if positionSeconds < 0 {
		positionSeconds = 0
	}

	sync := models.SessionSync{
		ChildID:         childID,
		VideoID:         videoID,
		PositionSeconds: positionSeconds,
		DeviceID:        deviceID,
		LastSyncedAt:    s.Now(),
	}
	if err := s.DeviceRepo.UpsertSync(&sync); err != nil {
		return models.SessionSync{}, Internal("sync progress", err)
	}
	return sync, nil
}

func (s *DeviceService) NowWatching(childID uint) (models.SessionSync, error) {
	sync, err := s.DeviceRepo.FindSync(childID)
	if err != nil {
		return models.SessionSync{}, storeError("load now watching", "playback", err)
	}
	return sync, nil
}

func (s *DeviceService) checkLimit(childID uint) (bool, int, error) {
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		return false, 0, storeError("load child", "child", err)
	}
	parent, err := s.ParentRepo.FindByID(child.ParentID)
	if err != nil {
		return false, 0, storeError("load parent", "parent", err)
	}

	limit := parent.DeviceCap()
	count, err := s.DeviceRepo.CountByChild(childID)
	if err != nil {
		return false, limit, Internal("count devices", err)
	}
	return count < int64(limit), limit, nil
}
