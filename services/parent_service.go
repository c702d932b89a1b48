package services

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"log"
	"strings"
	"time"
)

type ParentInput struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

type ParentService struct {
	ParentRepo       repositories.ParentRepository
	ChildRepo        repositories.ChildRepository
	NotificationRepo repositories.NotificationRepository
	ActivityRepo     repositories.ActivityLogRepository
}

func NewParentService(
	parentRepo repositories.ParentRepository,
	childRepo repositories.ChildRepository,
	notificationRepo repositories.NotificationRepository,
	activityRepo repositories.ActivityLogRepository,
) *ParentService {
	return &ParentService{
		ParentRepo:       parentRepo,
		ChildRepo:        childRepo,
		NotificationRepo: notificationRepo,
		ActivityRepo:     activityRepo,
	}
}

func (s *ParentService) ReadParent(parentID uint) (models.Parent, error) {
	parent, err := s.ParentRepo.FindByID(parentID)
	if err != nil {
		return models.Parent{}, storeError("read parent", "parent", err)
	}
	return parent, nil
}

// ResolveFirebaseUID maps a verified Firebase identity to a parent account.
func (s *ParentService) ResolveFirebaseUID(firebaseUID string) (models.Parent, error) {
	parent, err := s.ParentRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		if isNotFound(err) {
			return models.Parent{}, Unauthorized("no parent account for this identity")
		}
		return models.Parent{}, Internal("resolve parent", err)
	}
	return parent, nil
}

// RegisterParent creates the parent account for a verified Firebase identity. Registering an
// identity that already has an account returns that account.
func (s *ParentService) RegisterParent(firebaseUID, email string, input ParentInput) (models.Parent, error) {
	if firebaseUID == "" {
		return models.Parent{}, Unauthorized("missing identity")
	}
	existing, err := s.ParentRepo.FindByFirebaseUID(firebaseUID)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return models.Parent{}, Internal("load parent", err)
	}

	parent := models.Parent{
		FirebaseUID:      firebaseUID,
		Name:             strings.TrimSpace(input.Name),
		Email:            email,
		Lang:             input.Lang,
		SubscriptionTier: models.TierFree,
	}
	if parent.Lang == "" {
		parent.Lang = "en"
	}
	if err := s.ParentRepo.Save(parent); err != nil {
		return models.Parent{}, Internal("create parent", err)
	}

	created, err := s.ParentRepo.FindByFirebaseUID(firebaseUID)
	if err != nil {
		return models.Parent{}, Internal("reload parent", err)
	}
	log.Printf("[PARENT] Registered parent %d", created.ID)
	return created, nil
}

// UpdateProfile changes the name and language. Empty fields are left as they are.
func (s *ParentService) UpdateProfile(parentID uint, input ParentInput) (models.Parent, error) {
	parent, err := s.ReadParent(parentID)
	if err != nil {
		return models.Parent{}, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		parent.Name = name
	}
	if input.Lang != "" {
		parent.Lang = input.Lang
	}
	if err := s.ParentRepo.Save(parent); err != nil {
		return models.Parent{}, Internal("save parent", err)
	}
	return parent, nil
}

func (s *ParentService) UpdateDeviceToken(parentID uint, deviceToken string) error {
	parent, err := s.ReadParent(parentID)
	if err != nil {
		return err
	}
	parent.DeviceToken = deviceToken
	if err := s.ParentRepo.Save(parent); err != nil {
		return Internal("save parent device token", err)
	}
	return nil
}

func (s *ParentService) ListChildren(parentID uint) ([]models.Child, error) {
	children, err := s.ChildRepo.FindByParentID(parentID)
	if err != nil {
		return nil, Internal("list children", err)
	}
	return children, nil
}

// OwnedChild loads a child and checks that it belongs to the parent.
func (s *ParentService) OwnedChild(parentID, childID uint) (models.Child, error) {
	return ownedChild(s.ChildRepo, parentID, childID)
}

func (s *ParentService) ListNotifications(parentID uint, unreadOnly bool) ([]models.Notification, error) {
	notifications, err := s.NotificationRepo.ListForParent(parentID, unreadOnly)
	if err != nil {
		return nil, Internal("list notifications", err)
	}
	return notifications, nil
}

func (s *ParentService) MarkNotificationRead(parentID, notificationID uint) error {
	if err := s.NotificationRepo.MarkRead(parentID, notificationID); err != nil {
		return storeError("mark notification read", "notification", err)
	}
	return nil
}

// ChildActivity returns the activity log of an owned child since the given time.
func (s *ParentService) ChildActivity(parentID, childID uint, since time.Time) ([]models.ActivityLog, error) {
	if _, err := s.OwnedChild(parentID, childID); err != nil {
		return nil, err
	}
	entries, err := s.ActivityRepo.ListByChild(childID, since)
	if err != nil {
		return nil, Internal("list activity", err)
	}
	return entries, nil
}

func ownedChild(childRepo repositories.ChildRepository, parentID, childID uint) (models.Child, error) {
	child, err := childRepo.FindByID(childID)
	if err != nil {
		return models.Child{}, storeError("load child", "child", err)
	}
	if child.ParentID != parentID {
		return models.Child{}, Forbidden("child does not belong to this parent")
	}
	return child, nil
}

// recordActivity writes an activity row. Failures are logged and swallowed.
func recordActivity(repo repositories.ActivityLogRepository, childID uint, action, detail string) {
	if repo == nil {
		return
	}
	entry := &models.ActivityLog{ChildID: childID, Action: action, Detail: detail}
	if err := repo.Create(entry); err != nil {
		log.Printf("[ACTIVITY] failed to record %s for child %d: %v", action, childID, err)
	}
}
