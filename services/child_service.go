package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"log"
	"strings"
)

type ChildInput struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
	Lang string `json:"lang"`
	PIN  string `json:"pin"`
}

type ChildService struct {
	ChildRepo   repositories.ChildRepository
	RuleRepo    repositories.ScreenTimeRuleRepository
	FilterRepo  repositories.ContentFilterRepository
	SessionRepo repositories.SessionRepository
	Hub         interfaces.Broadcaster
	Now         Clock
}

func NewChildService(
	childRepo repositories.ChildRepository,
	ruleRepo repositories.ScreenTimeRuleRepository,
	filterRepo repositories.ContentFilterRepository,
	sessionRepo repositories.SessionRepository,
	hub interfaces.Broadcaster,
	clock Clock,
) *ChildService {
	return &ChildService{
		ChildRepo:   childRepo,
		RuleRepo:    ruleRepo,
		FilterRepo:  filterRepo,
		SessionRepo: sessionRepo,
		Hub:         hub,
		Now:         clock,
	}
}

// CreateChild adds a child under the parent together with its default rule and filter.
func (s *ChildService) CreateChild(parentID uint, input ChildInput) (models.Child, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Child{}, InvalidInput("name is required")
	}
	if input.Age == nil || *input.Age < 0 || *input.Age > 18 {
		return models.Child{}, InvalidInput("age must be between 0 and 18")
	}
	if err := ValidatePIN(input.PIN); err != nil {
		return models.Child{}, err
	}
	pinHash, err := HashPIN(input.PIN)
	if err != nil {
		return models.Child{}, Internal("hash PIN", err)
	}

	child := models.Child{
		ParentID: parentID,
		Name:     name,
		Age:      *input.Age,
		Lang:     input.Lang,
		PinHash:  pinHash,
		Active:   true,
	}
	if child.Lang == "" {
		child.Lang = "en"
	}
	if err := s.ChildRepo.Create(&child); err != nil {
		return models.Child{}, Internal("create child", err)
	}

	// missing defaults are recreated lazily on first read, so failures here are not fatal
	rule := models.DefaultScreenTimeRule(child.ID)
	rule.LastResetDate = s.Now().Format(models.DateLayout)
	if err := s.RuleRepo.Upsert(&rule); err != nil {
		log.Printf("[CHILD] Failed to create default rule for child %d: %v", child.ID, err)
	}
	filter := models.DefaultContentFilter(child.ID)
	if err := s.FilterRepo.Upsert(&filter); err != nil {
		log.Printf("[CHILD] Failed to create default filter for child %d: %v", child.ID, err)
	}

	log.Printf("[CHILD] Parent %d created child %d", parentID, child.ID)
	return child, nil
}

func (s *ChildService) UpdateChild(parentID, childID uint, input ChildInput) (models.Child, error) {
	child, err := ownedChild(s.ChildRepo, parentID, childID)
	if err != nil {
		return models.Child{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		child.Name = name
	}
	if input.Age != nil {
		if *input.Age < 0 || *input.Age > 18 {
			return models.Child{}, InvalidInput("age must be between 0 and 18")
		}
		child.Age = *input.Age
	}
	if input.Lang != "" {
		child.Lang = input.Lang
	}
	child.AgeBracket = models.BracketForAge(child.Age)

	if err := s.ChildRepo.Save(child); err != nil {
		return models.Child{}, Internal("save child", err)
	}
	if s.Hub != nil {
		s.Hub.EmitToChild(child.ID, interfaces.EventSettingsChanged, map[string]interface{}{"child": child.Summary()})
	}
	return child, nil
}

// SetPIN replaces the child's PIN and lifts any lockout.
func (s *ChildService) SetPIN(parentID, childID uint, pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	child, err := ownedChild(s.ChildRepo, parentID, childID)
	if err != nil {
		return err
	}
	pinHash, err := HashPIN(pin)
	if err != nil {
		return Internal("hash PIN", err)
	}

	child.PinHash = pinHash
	child.FailedPinAttempts = 0
	child.LockoutUntil = nil
	if err := s.ChildRepo.Save(child); err != nil {
		return Internal("save child PIN", err)
	}
	log.Printf("[CHILD] PIN changed for child %d", childID)
	return nil
}

// DeleteChild soft-deletes the child and revokes its sessions.
func (s *ChildService) DeleteChild(parentID, childID uint) error {
	child, err := ownedChild(s.ChildRepo, parentID, childID)
	if err != nil {
		return err
	}

	child.Active = false
	if err := s.ChildRepo.Save(child); err != nil {
		return Internal("deactivate child", err)
	}
	if err := s.ChildRepo.Delete(child); err != nil {
		return Internal("delete child", err)
	}
	if _, err := s.SessionRepo.DeactivateAllForChild(childID); err != nil {
		log.Printf("[CHILD] Failed to revoke sessions for child %d: %v", childID, err)
	}
	log.Printf("[CHILD] Parent %d deleted child %d", parentID, childID)
	return nil
}
