package controllers

import (
	"SafeTube/middlewares"
	"SafeTube/websocket"

	"github.com/gin-gonic/gin"
)

var WebSocketHub *websocket.Hub

func SetWebSocketHub(hub *websocket.Hub) {
	WebSocketHub = hub
}

// ServeChildWs joins an authenticated child device to its own topic.
func ServeChildWs(c *gin.Context) {
	websocket.ServeWs(WebSocketHub, c.Writer, c.Request,
		currentChildID(c), websocket.RoleChild, c.GetString(middlewares.KeyDeviceID))
}

// ServeParentWs joins a parent to one of their children's topics.
func ServeParentWs(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	websocket.ServeWs(WebSocketHub, c.Writer, c.Request, childID, websocket.RoleParent, "")
}
