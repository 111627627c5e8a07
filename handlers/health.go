package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GeethaPardheev/MedicalVoiceAI/database"
)

// HealthHandler reports service liveness and database reachability.
func HealthHandler(c *gin.Context) {
	if !database.Ping(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
