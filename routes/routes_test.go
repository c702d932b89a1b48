package routes

import (
	"SafeTube/config"
	"SafeTube/controllers"
	"SafeTube/repositories/impl"
	"SafeTube/services"
	"SafeTube/websocket"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeVerifier treats the bearer token as the Firebase UID.
type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" || idToken == "expired" {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{UID: idToken, Claims: map[string]interface{}{"email": idToken + "@example.com"}}, nil
}

type response struct {
	Code int
	Body map[string]interface{}
}

func (r response) data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func (r response) list() []interface{} {
	list, _ := r.Body["data"].([]interface{})
	return list
}

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	// Wednesday noon, outside any default restriction
	now := time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	parentRepo := impl.NewParentRepository(db)
	childRepo := impl.NewChildRepository(db)
	ruleRepo := impl.NewScreenTimeRuleRepository(db)
	filterRepo := impl.NewContentFilterRepository(db)
	whitelistRepo := impl.NewWhitelistRepository(db)
	blacklistRepo := impl.NewBlacklistRepository(db)
	approvalRepo := impl.NewApprovalRequestRepository(db)
	sessionRepo := impl.NewSessionRepository(db)
	deviceRepo := impl.NewDeviceRepository(db)
	activityRepo := impl.NewActivityLogRepository(db)
	notificationRepo := impl.NewNotificationRepository(db)
	translationRepo := impl.NewTranslationRepository(db)

	hub := websocket.NewHub(nil)
	translationService := services.NewTranslationService(translationRepo)
	notificationService := services.NewNotificationService(notificationRepo, parentRepo, childRepo, translationService, nil, nil)
	parentService := services.NewParentService(parentRepo, childRepo, notificationRepo, activityRepo)
	screenTimeService := services.NewScreenTimeService(ruleRepo, childRepo, sessionRepo, activityRepo, hub, notificationService, clock)
	contentSafetyService := services.NewContentSafetyService(childRepo, filterRepo, whitelistRepo, blacklistRepo, activityRepo, nil, hub)
	approvalService := services.NewApprovalService(approvalRepo, childRepo, whitelistRepo, activityRepo, hub, notificationService, clock)
	authService := services.NewAuthService(childRepo, sessionRepo, activityRepo, screenTimeService, notificationService, clock, "test-secret", time.Hour)
	childService := services.NewChildService(childRepo, ruleRepo, filterRepo, sessionRepo, hub, clock)
	deviceService := services.NewDeviceService(deviceRepo, childRepo, parentRepo, hub, clock)
	hub.Progress = deviceService

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	controllers.SetAuthService(authService)
	controllers.SetParentService(parentService)
	controllers.SetChildService(childService)
	controllers.SetTranslationService(translationService)
	controllers.SetScreenTimeService(screenTimeService)
	controllers.SetContentSafetyService(contentSafetyService)
	controllers.SetApprovalService(approvalService)
	controllers.SetDeviceService(deviceService)
	controllers.SetWebSocketHub(hub)

	r := gin.New()
	RegisterRoutes(r, authService, parentService, fakeVerifier{})
	return &testServer{router: r}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := response{Code: w.Code}
	json.Unmarshal(w.Body.Bytes(), &out.Body)
	return out
}

// setupFamily registers a parent with one child and logs the child in.
func (s *testServer) setupFamily(t *testing.T, uid string) (childID uint, childToken string) {
	t.Helper()
	res := s.do(t, http.MethodPost, "/register/parent", uid, map[string]string{"name": "Parent"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)

	res = s.do(t, http.MethodPost, "/parents/children", uid, map[string]interface{}{"name": "Ann", "age": 7, "pin": "1234"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	childID = uint(res.data()["id"].(float64))

	res = s.do(t, http.MethodPost, "/auth/child/login", "", map[string]interface{}{"child_id": childID, "pin": "1234", "device_id": "tablet"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	childToken = res.data()["token"].(string)
	require.NotEmpty(t, childToken)
	return childID, childToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.Body["status"])
}

func TestParentRoutesRequireAccount(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/parents/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/parents/me", "expired", nil).Code)
	// a valid identity without a registered account
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/parents/me", "stranger", nil).Code)

	s.do(t, http.MethodPost, "/register/parent", "uid-1", map[string]string{"name": "Dana"})
	res := s.do(t, http.MethodGet, "/parents/me", "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "uid-1@example.com", res.data()["email"])
}

func TestChildLoginErrors(t *testing.T) {
	s := newTestServer(t)
	childID, _ := s.setupFamily(t, "uid-1")

	res := s.do(t, http.MethodPost, "/auth/child/login", "", map[string]interface{}{"child_id": childID, "pin": "9999"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, string(services.KindInvalidCredentials), res.Body["code"])

	res = s.do(t, http.MethodPost, "/auth/child/login", "", map[string]interface{}{"child_id": 999, "pin": "1234"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(t, http.MethodPost, "/auth/child/login", "", map[string]interface{}{"pin": "1234"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, string(services.KindInvalidInput), res.Body["code"])
}

func TestChildScreenTimeAndUsage(t *testing.T) {
	s := newTestServer(t)
	_, token := s.setupFamily(t, "uid-1")

	res := s.do(t, http.MethodGet, "/child/screen-time", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	limit := res.data()["limit_minutes"].(float64)

	res = s.do(t, http.MethodPost, "/child/usage", token, map[string]int{"minutes": 10})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, limit-10, res.data()["remaining_minutes"])

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/child/screen-time", "", nil).Code)
}

func TestPauseEndsChildSession(t *testing.T) {
	s := newTestServer(t)
	childID, token := s.setupFamily(t, "uid-1")
	base := fmt.Sprintf("/parents/children/%d", childID)

	res := s.do(t, http.MethodPost, base+"/pause", "uid-1", map[string]interface{}{"reason": "dinner"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/child/screen-time", token, nil).Code)

	res = s.do(t, http.MethodGet, base+"/screen-time", "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	status := res.data()["status"].(map[string]interface{})
	assert.Equal(t, true, status["is_paused"])
	assert.Equal(t, "dinner", status["pause_reason"])

	res = s.do(t, http.MethodPost, base+"/pause", "uid-1", map[string]interface{}{"duration_minutes": -5})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, base+"/resume", "uid-1", nil).Code)
	res = s.do(t, http.MethodPost, "/auth/child/login", "", map[string]interface{}{"child_id": childID, "pin": "1234"})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestParentsCannotReachOtherFamilies(t *testing.T) {
	s := newTestServer(t)
	childID, _ := s.setupFamily(t, "uid-1")
	s.do(t, http.MethodPost, "/register/parent", "uid-2", map[string]string{"name": "Other"})
	base := fmt.Sprintf("/parents/children/%d", childID)

	for _, path := range []string{base + "/screen-time", base + "/filter", base + "/devices", base + "/activity"} {
		res := s.do(t, http.MethodGet, path, "uid-2", nil)
		assert.Equal(t, http.StatusForbidden, res.Code, path)
	}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, base, "uid-2", nil).Code)

	res := s.do(t, http.MethodGet, "/parents/children/abc/screen-time", "uid-2", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestApprovalFlow(t *testing.T) {
	s := newTestServer(t)
	childID, token := s.setupFamily(t, "uid-1")

	subject := map[string]string{"type": "video", "video_id": "v1", "channel_id": "c1", "title": "Volcano"}
	res := s.do(t, http.MethodPost, "/child/requests", token, subject)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	requestID := uint(res.data()["id"].(float64))

	// the same pending subject cannot be requested twice
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/child/requests", token, subject).Code)

	res = s.do(t, http.MethodGet, "/parents/approvals", "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.list(), 1)

	review := fmt.Sprintf("/parents/approvals/%d/review", requestID)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, review, "uid-1", map[string]string{"decision": "maybe"}).Code)

	res = s.do(t, http.MethodPost, review, "uid-1", map[string]string{"decision": "approve"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "approved", res.data()["status"])

	res = s.do(t, http.MethodGet, fmt.Sprintf("/parents/children/%d/content", childID), "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodGet, "/child/requests", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.list(), 1)
}

func TestCheckVideoWithoutCatalogDenies(t *testing.T) {
	s := newTestServer(t)
	_, token := s.setupFamily(t, "uid-1")

	res := s.do(t, http.MethodGet, "/child/videos/v1/check", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, res.data()["allowed"])
}

func TestDevicesAndProgress(t *testing.T) {
	s := newTestServer(t)
	childID, token := s.setupFamily(t, "uid-1")

	res := s.do(t, http.MethodPost, "/child/devices", token, map[string]string{"device_id": "tablet", "name": "Kitchen tablet"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	res = s.do(t, http.MethodPost, "/child/progress", token, map[string]interface{}{"video_id": "v1", "position_seconds": 30})
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	res = s.do(t, http.MethodGet, fmt.Sprintf("/parents/children/%d/now-watching", childID), "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "v1", res.data()["video_id"])
	assert.Equal(t, float64(30), res.data()["position_seconds"])

	res = s.do(t, http.MethodGet, fmt.Sprintf("/parents/children/%d/devices", childID), "uid-1", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.list(), 1)
}
