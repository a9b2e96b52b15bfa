package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rently/config"
	"rently/internal/auth"
	"rently/internal/repository"
	"rently/internal/service"
	"rently/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for a conversation; query: token,
// conversation_id. The user must be the renter or owner of that conversation.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.ChatHub, convRepo *repository.ConversationRepository, notifSvc *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		convIDStr := c.Query("conversation_id")
		if token == "" || convIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and conversation_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var convID uint
		if _, err := fmt.Sscanf(convIDStr, "%d", &convID); err != nil || convID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_id"})
			return
		}
		conv, err := convRepo.GetByID(convID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		if !conv.Party(claims.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not part of this conversation"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(conv.ID, conv.RenterID, conv.OwnerID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		recipient := conv.OwnerID
		if claims.UserID == conv.OwnerID {
			recipient = conv.RenterID
		}
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type     string `json:"type"`
				Body     string `json:"body"`
				MediaURL string `json:"media_url"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" {
				continue
			}
			if msg.Body == "" && msg.MediaURL == "" {
				continue
			}
			saved, err := persistMessage(convRepo, conv.ID, claims.UserID, msg.Body, msg.MediaURL)
			if err != nil {
				continue
			}
			room.Broadcast(client, saved)
			// Only push when the other side is not already watching the room.
			if notifSvc != nil && !room.MemberOnline(recipient) {
				_ = notifSvc.NotifyNewMessage(recipient, conv.ID, "")
			}
		}
	}
}
