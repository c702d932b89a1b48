package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxFailedPinAttempts = 3
	PinLockoutDuration   = 15 * time.Minute
	DefaultChildTokenTTL = 2 * time.Hour

	childTokenType = "child"
)

type ChildClaims struct {
	ChildID  uint   `json:"child_id"`
	ParentID uint   `json:"parent_id"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// ChildIdentity is what a verified child token resolves to.
type ChildIdentity struct {
	ChildID   uint
	ParentID  uint
	SessionID uint
	DeviceID  string
}

type LoginResult struct {
	Child            models.ChildSummary `json:"child"`
	Token            string              `json:"token"`
	RemainingMinutes int                 `json:"remaining_minutes"`
	ExpiresAt        time.Time           `json:"expires_at"`
}

type AuthService struct {
	ChildRepo    repositories.ChildRepository
	SessionRepo  repositories.SessionRepository
	ActivityRepo repositories.ActivityLogRepository
	ScreenTime   *ScreenTimeService
	Notifier     interfaces.Notifier
	Now          Clock

	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(
	childRepo repositories.ChildRepository,
	sessionRepo repositories.SessionRepository,
	activityRepo repositories.ActivityLogRepository,
	screenTime *ScreenTimeService,
	notifier interfaces.Notifier,
	clock Clock,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultChildTokenTTL
	}
	return &AuthService{
		ChildRepo:    childRepo,
		SessionRepo:  sessionRepo,
		ActivityRepo: activityRepo,
		ScreenTime:   screenTime,
		Notifier:     notifier,
		Now:          clock,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

// Login authenticates a child by PIN. The gates run in a fixed order: existence, lockout,
// PIN, pause, quota, then the policy clock. Only a child that passes all of them gets a token.
func (s *AuthService) Login(childID uint, pin, deviceID string) (LoginResult, error) {
	now := s.Now()

	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		loginAttemptsTotal.WithLabelValues("unknown_child").Inc()
		return LoginResult{}, storeError("load child", "child", err)
	}

	if child.IsLockedOut(now) {
		loginAttemptsTotal.WithLabelValues("locked").Inc()
		return LoginResult{}, TooManyAttempts("too many failed attempts, try again after %s",
			child.LockoutUntil.In(now.Location()).Format("15:04"))
	}
	expired := child.LockoutUntil != nil
	if expired {
		// the child starts over with a full set of attempts
		child.LockoutUntil = nil
		child.FailedPinAttempts = 0
	}

	if child.PinHash == "" || bcrypt.CompareHashAndPassword([]byte(child.PinHash), []byte(pin)) != nil {
		return LoginResult{}, s.failedPin(child, now)
	}
	if expired || child.FailedPinAttempts > 0 {
		child.FailedPinAttempts = 0
		child.LockoutUntil = nil
		s.saveChild(child)
	}

	// the parent may have paused the child while the PIN was being compared
	child, err = s.ChildRepo.FindByID(childID)
	if err != nil {
		return LoginResult{}, storeError("load child", "child", err)
	}

	status, err := s.ScreenTime.StatusForChild(child)
	if err != nil {
		return LoginResult{}, err
	}
	if denied := loginDenial(status); denied != nil {
		loginAttemptsTotal.WithLabelValues("denied").Inc()
		recordActivity(s.ActivityRepo, child.ID, models.ActivityLoginDenied, status.BlockReason)
		return LoginResult{}, denied
	}

	token, expiresAt, err := s.issueToken(child, deviceID, now)
	if err != nil {
		return LoginResult{}, err
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	recordActivity(s.ActivityRepo, child.ID, models.ActivityLoginSuccess, "device "+deviceID)
	log.Printf("[AUTH] Child %d logged in on device %q", child.ID, deviceID)

	return LoginResult{
		Child:            child.Summary(),
		Token:            token,
		RemainingMinutes: status.RemainingMinutes,
		ExpiresAt:        expiresAt,
	}, nil
}

// VerifyChildToken checks the signature and type of a child token and that its session row
// is still active and unexpired.
func (s *AuthService) VerifyChildToken(tokenString string) (ChildIdentity, error) {
	claims := &ChildClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil || !token.Valid {
		return ChildIdentity{}, Unauthorized("invalid or expired token")
	}
	if claims.Type != childTokenType {
		return ChildIdentity{}, Unauthorized("not a child token")
	}

	session, err := s.SessionRepo.FindByTokenHash(hashToken(tokenString))
	if err != nil {
		if isNotFound(err) {
			return ChildIdentity{}, Unauthorized("session not found")
		}
		return ChildIdentity{}, Internal("load session", err)
	}
	if !session.IsValid(s.Now()) || session.ChildID != claims.ChildID {
		return ChildIdentity{}, Unauthorized("session is no longer active")
	}

	return ChildIdentity{
		ChildID:   claims.ChildID,
		ParentID:  claims.ParentID,
		SessionID: session.ID,
		DeviceID:  session.DeviceID,
	}, nil
}

// Logout deactivates the session behind the token.
func (s *AuthService) Logout(tokenString string) error {
	session, err := s.SessionRepo.FindByTokenHash(hashToken(tokenString))
	if err != nil {
		if isNotFound(err) {
			return Unauthorized("session not found")
		}
		return Internal("load session", err)
	}
	if err := s.SessionRepo.Deactivate(session.ID); err != nil {
		return Internal("deactivate session", err)
	}
	log.Printf("[AUTH] Child %d logged out of session %d", session.ChildID, session.ID)
	return nil
}

func (s *AuthService) failedPin(child models.Child, now time.Time) error {
	child.FailedPinAttempts++
	if child.FailedPinAttempts < MaxFailedPinAttempts {
		s.saveChild(child)
		loginAttemptsTotal.WithLabelValues("invalid_pin").Inc()
		recordActivity(s.ActivityRepo, child.ID, models.ActivityLoginFailed,
			fmt.Sprintf("attempt %d", child.FailedPinAttempts))
		return InvalidCredentials("incorrect PIN")
	}

	lockoutUntil := now.Add(PinLockoutDuration)
	child.LockoutUntil = &lockoutUntil
	s.saveChild(child)

	loginAttemptsTotal.WithLabelValues("lockout").Inc()
	recordActivity(s.ActivityRepo, child.ID, models.ActivityLoginLocked,
		"locked until "+lockoutUntil.Format(time.RFC3339))
	log.Printf("[AUTH] Child %d locked out until %s", child.ID, lockoutUntil.Format(time.RFC3339))

	if s.Notifier != nil {
		s.Notifier.Notify(interfaces.NotificationInput{
			ParentID:  child.ParentID,
			ChildID:   &child.ID,
			Recipient: models.RecipientParent,
			Type:      models.NotificationSecurity,
			Title:     "Too many PIN attempts",
			Message:   fmt.Sprintf("%s entered a wrong PIN %d times. Login is locked until %s.", child.Name, child.FailedPinAttempts, lockoutUntil.Format("15:04")),
			Priority:  models.PriorityHigh,
			Data: map[string]string{
				"child_id":      strconv.FormatUint(uint64(child.ID), 10),
				"lockout_until": lockoutUntil.Format(time.RFC3339),
			},
		})
	}
	return InvalidCredentials("incorrect PIN")
}

// saveChild persists counter changes. A failure here must not change the login outcome.
// saveChild persists only the PIN counter and lockout so a concurrent pause is never undone.
func (s *AuthService) saveChild(child models.Child) {
	if err := s.ChildRepo.UpdateLoginState(child.ID, child.FailedPinAttempts, child.LockoutUntil); err != nil {
		log.Printf("[AUTH] Failed to save login state for child %d: %v", child.ID, err)
	}
}

func (s *AuthService) issueToken(child models.Child, deviceID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.tokenTTL)
	claims := ChildClaims{
		ChildID:  child.ID,
		ParentID: child.ParentID,
		Type:     childTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(child.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, Internal("sign child token", err)
	}

	session := &models.ChildSession{
		ChildID:   child.ID,
		TokenHash: hashToken(signed),
		DeviceID:  strings.TrimSpace(deviceID),
		ExpiresAt: expiresAt,
		Active:    true,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return "", time.Time{}, Internal("create session", err)
	}
	return signed, expiresAt, nil
}

func loginDenial(status ScreenTimeStatus) error {
	switch {
	case status.IsPaused:
		return Forbidden("access is paused by a parent")
	case status.QuotaRemaining <= 0:
		return Forbidden("screen time for today is used up")
	case status.WithinBedtime:
		return Forbidden("it is bedtime, access is not allowed")
	case !status.WithinAllowedWindow:
		return Forbidden("access is not allowed at this time")
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePIN accepts 4 to 6 digits.
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return InvalidInput("PIN must be 4 to 6 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return InvalidInput("PIN must contain digits only")
		}
	}
	return nil
}

var errEmptyPIN = errors.New("empty PIN")

// HashPIN bcrypts a validated PIN.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", errEmptyPIN
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
