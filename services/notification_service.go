package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"firebase.google.com/go/v4/messaging"
)

const pushTimeout = 10 * time.Second

// PushSender is the part of the FCM client used here.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService persists notifications and fans them out to push and email.
// It implements interfaces.Notifier.
type NotificationService struct {
	NotificationRepo repositories.NotificationRepository
	ParentRepo       repositories.ParentRepository
	ChildRepo        repositories.ChildRepository
	TranslationSrv   *TranslationService
	Push             PushSender
	Email            EmailSender

	deliveries sync.WaitGroup
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	parentRepo repositories.ParentRepository,
	childRepo repositories.ChildRepository,
	translationSrv *TranslationService,
	push PushSender,
	email EmailSender,
) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		ParentRepo:       parentRepo,
		ChildRepo:        childRepo,
		TranslationSrv:   translationSrv,
		Push:             push,
		Email:            email,
	}
}

// Notify never fails the caller. The row is stored before Notify returns; push and email run
// in the background, and each logs its own failure without stopping the other.
func (s *NotificationService) Notify(input interfaces.NotificationInput) {
	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}
	if input.Recipient == "" {
		input.Recipient = models.RecipientParent
	}

	target := s.resolveTarget(input)
	title := s.translate(input.Title, target.lang)
	body := s.translate(input.Message, target.lang)

	notification := &models.Notification{
		ParentID:  input.ParentID,
		ChildID:   input.ChildID,
		Recipient: input.Recipient,
		Type:      input.Type,
		Title:     title,
		Message:   body,
		Priority:  input.Priority,
		Data:      input.Data,
	}
	if err := s.NotificationRepo.Create(notification); err != nil {
		log.Printf("[NOTIFY] Failed to store %s notification for parent %d: %v", input.Type, input.ParentID, err)
	}

	sendPush := target.deviceToken != "" && s.Push != nil
	sendEmail := input.Recipient == models.RecipientParent && input.Priority == models.PriorityHigh &&
		target.email != "" && s.Email != nil
	if !sendPush && !sendEmail {
		return
	}

	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		if sendPush {
			s.push(target.deviceToken, title, body, input, notification.ID)
		}
		if sendEmail {
			if err := s.Email.SendAlert(target.email, title, body); err != nil {
				log.Printf("[NOTIFY] Failed to email parent %d: %v", input.ParentID, err)
			}
		}
	}()
}

// Wait blocks until every background delivery started so far has finished.
func (s *NotificationService) Wait() {
	s.deliveries.Wait()
}

type notifyTarget struct {
	lang        string
	deviceToken string
	email       string
}

func (s *NotificationService) resolveTarget(input interfaces.NotificationInput) notifyTarget {
	if input.Recipient == models.RecipientChild {
		if input.ChildID == nil {
			return notifyTarget{}
		}
		child, err := s.ChildRepo.FindByID(*input.ChildID)
		if err != nil {
			log.Printf("[NOTIFY] Child %d not found for notification: %v", *input.ChildID, err)
			return notifyTarget{}
		}
		return notifyTarget{lang: child.Lang, deviceToken: child.DeviceToken}
	}

	parent, err := s.ParentRepo.FindByID(input.ParentID)
	if err != nil {
		log.Printf("[NOTIFY] Parent %d not found for notification: %v", input.ParentID, err)
		return notifyTarget{}
	}
	return notifyTarget{lang: parent.Lang, deviceToken: parent.DeviceToken, email: parent.Email}
}

func (s *NotificationService) translate(text, lang string) string {
	if s.TranslationSrv == nil {
		return text
	}
	return s.TranslationSrv.Translate(text, lang)
}

func (s *NotificationService) push(deviceToken, title, body string, input interfaces.NotificationInput, notificationID uint) {
	data := make(map[string]string, len(input.Data)+3)
	for k, v := range input.Data {
		data[k] = v
	}
	data["type"] = input.Type
	data["priority"] = input.Priority
	if notificationID != 0 {
		data["notification_id"] = strconv.FormatUint(uint64(notificationID), 10)
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: deviceToken,
	}
	if input.Priority == models.PriorityHigh {
		message.Android = &messaging.AndroidConfig{Priority: "high"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	resp, err := s.Push.Send(ctx, message)
	if err != nil {
		log.Printf("[FCM] Failed to send %s notification: %v", input.Type, err)
		return
	}
	log.Printf("[FCM] Notification sent. ID: %s, Type: %s", resp, input.Type)
}
