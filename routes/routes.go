package routes

import (
	"SafeTube/controllers"
	"SafeTube/interfaces"
	"SafeTube/middlewares"
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, authService *services.AuthService, parentService *services.ParentService, verifier interfaces.ParentTokenVerifier) {
	childAuth := middlewares.ChildAuthMiddleware(authService)
	parentAuth := middlewares.ParentAuthMiddleware(verifier, parentService)

	// Public routes
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/translations", controllers.GetTranslations)
	r.POST("/auth/child/login", controllers.LoginChild)
	r.POST("/register/parent", middlewares.FirebaseAuthMiddleware(verifier), controllers.RegisterParent)

	// Child device routes
	child := r.Group("/child")
	child.Use(childAuth)
	{
		child.POST("/logout", controllers.LogoutChild)
		child.GET("/ws", controllers.ServeChildWs)
		child.GET("/screen-time", controllers.GetMyScreenTime)
		child.POST("/usage", controllers.ReportUsage)
		child.GET("/search", controllers.SearchVideos)
		child.GET("/videos/:video_id/check", controllers.CheckVideo)
		child.POST("/requests", controllers.RequestApproval)
		child.GET("/requests", controllers.ListMyRequests)
		child.POST("/devices", controllers.RegisterDevice)
		child.POST("/progress", controllers.SyncProgress)
		child.GET("/now-watching", controllers.NowWatching)
	}

	// Parent routes
	parents := r.Group("/parents")
	parents.Use(parentAuth)
	{
		parents.GET("/me", controllers.ReadParent)
		parents.PUT("/me", controllers.UpdateParent)
		parents.PUT("/me/device-token", controllers.UpdateParentDeviceToken)
		parents.GET("/notifications", controllers.ListNotifications)
		parents.PUT("/notifications/:notification_id/read", controllers.MarkNotificationRead)
		parents.POST("/panic-pause", controllers.PanicPause)

		parents.GET("/approvals", controllers.ListPendingApprovals)
		parents.POST("/approvals/:request_id/review", controllers.ReviewApproval)
		parents.POST("/approvals/:request_id/quick-approve", controllers.QuickApprove)
		parents.DELETE("/approvals/:request_id", controllers.DismissApproval)

		parents.GET("/children", controllers.ListChildren)
		parents.POST("/children", controllers.CreateChild)
		parents.PUT("/children/:child_id", controllers.UpdateChild)
		parents.DELETE("/children/:child_id", controllers.DeleteChild)
		parents.PUT("/children/:child_id/pin", controllers.SetChildPIN)
		parents.GET("/children/:child_id/activity", controllers.ChildActivity)
		parents.GET("/children/:child_id/ws", controllers.ServeParentWs)

		parents.GET("/children/:child_id/screen-time", controllers.GetScreenTime)
		parents.PUT("/children/:child_id/screen-time", controllers.UpdateScreenTimeRule)
		parents.POST("/children/:child_id/screen-time/grant", controllers.GrantExtraTime)
		parents.POST("/children/:child_id/pause", controllers.PauseChild)
		parents.POST("/children/:child_id/resume", controllers.ResumeChild)

		parents.GET("/children/:child_id/filter", controllers.GetContentFilter)
		parents.PUT("/children/:child_id/filter", controllers.UpdateContentFilter)
		parents.GET("/children/:child_id/content", controllers.ListChildContent)
		parents.POST("/children/:child_id/blocked", controllers.BlockContent)
		parents.DELETE("/children/:child_id/blocked/:block_id", controllers.UnblockContent)
		parents.POST("/children/:child_id/channels", controllers.ApproveChannel)
		parents.DELETE("/children/:child_id/channels/:channel_id", controllers.RemoveApprovedChannel)
		parents.DELETE("/children/:child_id/videos/:video_id", controllers.RemoveApprovedVideo)

		parents.GET("/children/:child_id/devices", controllers.ListChildDevices)
		parents.DELETE("/children/:child_id/devices/:device_id", controllers.RemoveChildDevice)
		parents.GET("/children/:child_id/now-watching", controllers.ChildNowWatching)
	}
}
