package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type KitchenController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKitchenController accepts upgrades from the given origins; an empty
// list or "*" accepts any origin.
func NewKitchenController(hub *kds.Hub, origins []string) *KitchenController {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &KitchenController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// KitchenFeed upgrades to a websocket and streams kitchen events until the
// client disconnects.
func (kc *KitchenController) KitchenFeed(c *gin.Context) {
	role := currentRole(c)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	kc.Hub.Register(ws, string(role))
	utils.InfoLogger.Printf("Kitchen display connected (role=%s)", role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
}

