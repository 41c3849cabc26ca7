package handlers

import (
	"log"
	"net/http"
	"strings"

	httpHandler "lifeops-server/handlers/http"
	"lifeops-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades authenticated clients to a live event stream.
type WSHandler struct {
	mgr      *ws.Manager
	origins  []string
	upgrader websocket.Upgrader
}

func NewWSHandler(mgr *ws.Manager) *WSHandler {
	h := &WSHandler{mgr: mgr}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// WithAllowedOrigins restricts browser upgrades to the given origins. With
// none set, any origin is accepted.
func (h *WSHandler) WithAllowedOrigins(origins []string) *WSHandler {
	h.origins = origins
	return h
}

// checkOrigin lets through requests without an Origin header (native
// clients); browsers always send one.
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(h.origins) == 0 || origin == "" {
		return true
	}
	for _, o := range h.origins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// HandleUserWS handles GET /ws. The route must sit behind RequireUser.
// Clients only listen; anything they send is discarded.
func (h *WSHandler) HandleUserWS(c *gin.Context) {
	user := httpHandler.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.mgr.Register(user.ID, conn)
	log.Printf("user connected: %s", user.ID)

	defer func() {
		h.mgr.Unregister(user.ID, conn)
		log.Printf("user disconnected: %s", user.ID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from %s: %v", user.ID, err)
			}
			return
		}
	}
}

// GetConnectedUsers GET /api/web/ws/connected
func (h *WSHandler) GetConnectedUsers(c *gin.Context) {
	users := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
