package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"fmt"
	"log"
	"strconv"
	"strings"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ApprovalService struct {
	RequestRepo  repositories.ApprovalRequestRepository
	ChildRepo    repositories.ChildRepository
	Whitelist    repositories.WhitelistRepository
	ActivityRepo repositories.ActivityLogRepository
	Hub          interfaces.Broadcaster
	Notifier     interfaces.Notifier
	Now          Clock
}

func NewApprovalService(
	requestRepo repositories.ApprovalRequestRepository,
	childRepo repositories.ChildRepository,
	whitelist repositories.WhitelistRepository,
	activityRepo repositories.ActivityLogRepository,
	hub interfaces.Broadcaster,
	notifier interfaces.Notifier,
	clock Clock,
) *ApprovalService {
	return &ApprovalService{
		RequestRepo:  requestRepo,
		ChildRepo:    childRepo,
		Whitelist:    whitelist,
		ActivityRepo: activityRepo,
		Hub:          hub,
		Notifier:     notifier,
		Now:          clock,
	}
}

// Request files a pending request. Only one pending request may exist per subject and child.
func (s *ApprovalService) Request(childID uint, subject models.ApprovalSubject, message string) (models.ApprovalRequest, error) {
	if err := validateSubject(subject); err != nil {
		return models.ApprovalRequest{}, err
	}
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		return models.ApprovalRequest{}, storeError("load child", "child", err)
	}

	pending, err := s.RequestRepo.HasPending(childID, subject)
	if err != nil {
		return models.ApprovalRequest{}, Internal("check pending requests", err)
	}
	if pending {
		return models.ApprovalRequest{}, Conflict("a request for this %s is already pending", subject.Type)
	}

	request := models.ApprovalRequest{
		ChildID:      childID,
		ParentID:     child.ParentID,
		RequestType:  subject.Type,
		VideoID:      subject.VideoID,
		ChannelID:    subject.ChannelID,
		Title:        subject.Title,
		ChannelTitle: subject.ChannelTitle,
		ThumbnailURL: subject.ThumbnailURL,
		Status:       models.RequestStatusPending,
		ChildMessage: strings.TrimSpace(message),
		RequestedAt:  s.Now(),
	}
	if err := s.RequestRepo.Create(&request); err != nil {
		return models.ApprovalRequest{}, Internal("create approval request", err)
	}

	log.Printf("[APPROVAL] Child %d requested %s %s", childID, subject.Type, subject.Key())
	recordActivity(s.ActivityRepo, childID, models.ActivityApprovalRequested,
		fmt.Sprintf("%s %s: %s", subject.Type, subject.Key(), subject.Title))

	if s.Notifier != nil {
		s.Notifier.Notify(interfaces.NotificationInput{
			ParentID:  child.ParentID,
			ChildID:   &child.ID,
			Recipient: models.RecipientParent,
			Type:      models.NotificationApprovalRequest,
			Title:     "New approval request",
			Message:   fmt.Sprintf("%s wants to watch %q", child.Name, displayTitle(request)),
			Priority:  models.PriorityNormal,
			Data: map[string]string{
				"request_id": strconv.FormatUint(uint64(request.ID), 10),
				"child_id":   strconv.FormatUint(uint64(child.ID), 10),
			},
		})
	}
	s.emit(childID, interfaces.EventApprovalRequested, request)
	return request, nil
}

// Review approves or rejects a pending request owned by parentID.
func (s *ApprovalService) Review(requestID uint, decision string, parentID uint, notes string) (models.ApprovalRequest, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return models.ApprovalRequest{}, InvalidInput("decision must be %q or %q", DecisionApprove, DecisionReject)
	}
	request, err := s.ownedRequest(requestID, parentID)
	if err != nil {
		return models.ApprovalRequest{}, err
	}
	return s.review(request, decision, parentID, notes, false)
}

// QuickApprove approves a video request and also whitelists its channel.
func (s *ApprovalService) QuickApprove(requestID, parentID uint) (models.ApprovalRequest, error) {
	request, err := s.ownedRequest(requestID, parentID)
	if err != nil {
		return models.ApprovalRequest{}, err
	}
	if request.RequestType != models.RequestTypeVideo {
		return models.ApprovalRequest{}, InvalidInput("quick approve only applies to video requests")
	}
	return s.review(request, DecisionApprove, parentID, "", true)
}

// Dismiss deletes a request without a decision.
func (s *ApprovalService) Dismiss(requestID, parentID uint) error {
	if _, err := s.ownedRequest(requestID, parentID); err != nil {
		return err
	}
	if err := s.RequestRepo.Delete(requestID); err != nil {
		return storeError("dismiss approval request", "approval request", err)
	}
	return nil
}

func (s *ApprovalService) ListPending(parentID uint) ([]models.ApprovalRequest, error) {
	requests, err := s.RequestRepo.ListByParent(parentID, models.RequestStatusPending)
	if err != nil {
		return nil, Internal("list pending requests", err)
	}
	return requests, nil
}

func (s *ApprovalService) ListForChild(childID uint) ([]models.ApprovalRequest, error) {
	requests, err := s.RequestRepo.ListByChild(childID)
	if err != nil {
		return nil, Internal("list child requests", err)
	}
	return requests, nil
}

func (s *ApprovalService) review(request models.ApprovalRequest, decision string, parentID uint, notes string, withChannel bool) (models.ApprovalRequest, error) {
	if request.Status != models.RequestStatusPending {
		return models.ApprovalRequest{}, Conflict("request was already %s", request.Status)
	}

	now := s.Now()
	reviewer := parentID
	request.ParentNotes = strings.TrimSpace(notes)
	request.ReviewedAt = &now
	request.ReviewedBy = &reviewer
	request.Status = models.RequestStatusRejected
	if decision == DecisionApprove {
		request.Status = models.RequestStatusApproved
	}
	if err := s.RequestRepo.Save(request); err != nil {
		return models.ApprovalRequest{}, Internal("save approval request", err)
	}

	if request.Status == models.RequestStatusApproved {
		if err := s.whitelist(request, parentID, withChannel); err != nil {
			return models.ApprovalRequest{}, err
		}
	}

	log.Printf("[APPROVAL] Request %d %s by parent %d", request.ID, request.Status, parentID)
	s.notifyChild(request)
	s.emit(request.ChildID, interfaces.EventApprovalDecided, request)
	return request, nil
}

func (s *ApprovalService) whitelist(request models.ApprovalRequest, parentID uint, withChannel bool) error {
	if request.RequestType == models.RequestTypeVideo {
		video := models.ApprovedVideo{
			ChildID:      request.ChildID,
			VideoID:      request.VideoID,
			ChannelID:    request.ChannelID,
			Title:        request.Title,
			ThumbnailURL: request.ThumbnailURL,
			ApprovedBy:   parentID,
		}
		if err := s.Whitelist.UpsertApprovedVideo(&video); err != nil {
			return Internal("approve video", err)
		}
		if !withChannel || request.ChannelID == "" {
			return nil
		}
	}

	channel := models.ApprovedChannel{
		ChildID:      request.ChildID,
		ChannelID:    request.ChannelID,
		ChannelTitle: request.ChannelTitle,
		ThumbnailURL: request.ThumbnailURL,
		ApprovedBy:   parentID,
	}
	if err := s.Whitelist.UpsertApprovedChannel(&channel); err != nil {
		return Internal("approve channel", err)
	}
	return nil
}

func (s *ApprovalService) ownedRequest(requestID, parentID uint) (models.ApprovalRequest, error) {
	request, err := s.RequestRepo.FindByID(requestID)
	if err != nil {
		return models.ApprovalRequest{}, storeError("load approval request", "approval request", err)
	}
	if _, err := ownedChild(s.ChildRepo, parentID, request.ChildID); err != nil {
		return models.ApprovalRequest{}, err
	}
	return request, nil
}

func (s *ApprovalService) notifyChild(request models.ApprovalRequest) {
	if s.Notifier == nil {
		return
	}
	title := "Your request was declined"
	if request.Status == models.RequestStatusApproved {
		title = "Your request was approved"
	}
	childID := request.ChildID
	s.Notifier.Notify(interfaces.NotificationInput{
		ParentID:  request.ParentID,
		ChildID:   &childID,
		Recipient: models.RecipientChild,
		Type:      models.NotificationApprovalDecision,
		Title:     title,
		Message:   displayTitle(request),
		Priority:  models.PriorityNormal,
		Data: map[string]string{
			"request_id": strconv.FormatUint(uint64(request.ID), 10),
			"status":     request.Status,
		},
	})
}

func (s *ApprovalService) emit(childID uint, event string, payload interface{}) {
	if s.Hub != nil {
		s.Hub.EmitToChild(childID, event, payload)
	}
}

func validateSubject(subject models.ApprovalSubject) error {
	switch subject.Type {
	case models.RequestTypeVideo:
		if strings.TrimSpace(subject.VideoID) == "" {
			return InvalidInput("video_id is required for video requests")
		}
	case models.RequestTypeChannel:
		if strings.TrimSpace(subject.ChannelID) == "" {
			return InvalidInput("channel_id is required for channel requests")
		}
	default:
		return InvalidInput("type must be video or channel")
	}
	return nil
}

func displayTitle(request models.ApprovalRequest) string {
	if request.Title != "" {
		return request.Title
	}
	if request.ChannelTitle != "" {
		return request.ChannelTitle
	}
	return request.Subject().Key()
}
