package middlewares

import (
	"SafeTube/interfaces"
	"SafeTube/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	KeyChildID     = "child_id"
	KeyParentID    = "parent_id"
	KeyDeviceID    = "device_id"
	KeySessionID   = "session_id"
	KeyFirebaseUID = "firebase_uid"
	KeyEmail       = "email"
	KeyToken       = "token"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:           http.StatusNotFound,
	services.KindInvalidCredentials: http.StatusUnauthorized,
	services.KindUnauthorized:       http.StatusUnauthorized,
	services.KindTooManyAttempts:    http.StatusTooManyRequests,
	services.KindForbidden:          http.StatusForbidden,
	services.KindConflict:           http.StatusConflict,
	services.KindInvalidInput:       http.StatusBadRequest,
	services.KindServiceUnavailable: http.StatusServiceUnavailable,
	services.KindInternal:           http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind services.ErrorKind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AbortWithError renders err as {"error", "code"} and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	c.AbortWithStatusJSON(StatusFor(kind), gin.H{"error": err.Error(), "code": kind})
}

// ChildAuthMiddleware accepts a child session token from the Authorization header, or from
// the token query parameter for websocket upgrades.
func ChildAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			AbortWithError(c, services.Unauthorized("unauthorized"))
			return
		}

		identity, err := authService.VerifyChildToken(tokenString)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(KeyChildID, identity.ChildID)
		c.Set(KeyParentID, identity.ParentID)
		c.Set(KeyDeviceID, identity.DeviceID)
		c.Set(KeySessionID, identity.SessionID)
		c.Set(KeyToken, tokenString)
		c.Next()
	}
}

// FirebaseAuthMiddleware verifies a Firebase ID token and exposes the identity. It does not
// require a parent account, so it also guards registration.
func FirebaseAuthMiddleware(verifier interfaces.ParentTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifyFirebase(c, verifier) {
			return
		}
		c.Next()
	}
}

// ParentAuthMiddleware verifies a Firebase ID token and resolves it to a parent account.
func ParentAuthMiddleware(verifier interfaces.ParentTokenVerifier, parentService *services.ParentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifyFirebase(c, verifier) {
			return
		}

		parent, err := parentService.ResolveFirebaseUID(c.GetString(KeyFirebaseUID))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(KeyParentID, parent.ID)
		c.Next()
	}
}

func verifyFirebase(c *gin.Context, verifier interfaces.ParentTokenVerifier) bool {
	if verifier == nil {
		AbortWithError(c, services.ServiceUnavailable("parent authentication is not configured"))
		return false
	}
	tokenString := bearerToken(c)
	if tokenString == "" {
		AbortWithError(c, services.Unauthorized("unauthorized"))
		return false
	}

	token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
	if err != nil {
		AbortWithError(c, services.Unauthorized("invalid token"))
		return false
	}

	c.Set(KeyFirebaseUID, token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		c.Set(KeyEmail, email)
	}
	return true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Query("token")
}
