package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GeethaPardheev/MedicalVoiceAI/config"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// SessionRequest is the front end's ask for a room access token.
type SessionRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=64"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	RoomName    string `json:"room_name"`
}

// SessionResponse carries everything the front end needs to join the room.
type SessionResponse struct {
	RoomName   string `json:"room_name"`
	Identity   string `json:"identity"`
	Token      string `json:"token"`
	ExpiresAt  int64  `json:"expires_at"`
	LiveKitURL string `json:"livekit_url"`
}

// CreateSessionHandler issues a signed room access token for one call.
func CreateSessionHandler(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid session request", err.Error())
		return
	}

	roomName := req.RoomName
	if roomName == "" {
		roomName = "room-" + randomHex(6)
	}
	identity := "user-" + randomHex(8)
	ttl := time.Duration(config.AppConfig.LiveKitTokenTTL) * time.Second

	utils.GetLogger().Info("issuing session token",
		zap.String("roomName", roomName),
		zap.String("displayName", req.DisplayName))

	token, err := utils.GenerateRoomToken(identity, req.DisplayName, roomName, ttl)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue session token", err.Error())
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		RoomName:   roomName,
		Identity:   identity,
		Token:      token,
		ExpiresAt:  time.Now().Add(ttl).Unix(),
		LiveKitURL: config.AppConfig.LiveKitURL,
	})
}

// GetConfigHandler serves the public connection settings for the front end.
func GetConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"livekit_url":      config.AppConfig.LiveKitURL,
		"default_timezone": config.AppConfig.DefaultTimezone,
	})
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:n*2]
	}
	return hex.EncodeToString(buf)
}
