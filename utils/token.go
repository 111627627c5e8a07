package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/GeethaPardheev/MedicalVoiceAI/config"
)

// videoGrant mirrors the LiveKit access token grant shape. The token is a
// plain HS256 JWT signed with the transport API secret; the transport itself
// stays external.
type videoGrant struct {
	RoomJoin bool   `json:"roomJoin"`
	Room     string `json:"room"`
}

// GenerateRoomToken creates a signed access token allowing the given identity
// to join a room. The token expires after the specified duration.
func GenerateRoomToken(identity, name, room string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   config.AppConfig.LiveKitAPIKey,
		"sub":   identity,
		"name":  name,
		"nbf":   now.Unix(),
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
		"video": videoGrant{RoomJoin: true, Room: room},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.LiveKitAPISecret))
}
