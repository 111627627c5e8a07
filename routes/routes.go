package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GeethaPardheev/MedicalVoiceAI/config"
	"github.com/GeethaPardheev/MedicalVoiceAI/handlers"
)

// RegisterSessionRoutes registers room access endpoints.
func RegisterSessionRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/session", handlers.CreateSessionHandler)
		api.GET("/config", handlers.GetConfigHandler)
	}
}

// RegisterSchedulingRoutes registers the dashboard read endpoints.
func RegisterSchedulingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/slots", hb.Slots.ListSlotsHandler)
		api.GET("/appointments", hb.Appointments.ListAppointmentsHandler)
		api.GET("/summaries", hb.Summaries.ListSummariesHandler)
	}
}

// RegisterCallRoutes registers the realtime call bridge endpoints.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calls")
	{
		api.POST("", hb.Calls.StartCallHandler)
		api.POST("/:id/transcript", hb.Calls.AppendTranscriptHandler)
		api.POST("/:id/tools", hb.Calls.DispatchToolHandler)
		api.POST("/:id/end", hb.Calls.EndCallHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/api/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSessionRoutes(r)
	RegisterSchedulingRoutes(r, hb)
	RegisterCallRoutes(r, hb)
}
