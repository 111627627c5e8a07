package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/config"
	"github.com/GeethaPardheev/MedicalVoiceAI/database"
	appointmentRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/appointment"
	summaryRepo "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/summary"
	userRepoPkg "github.com/GeethaPardheev/MedicalVoiceAI/database/repository/user"
	"github.com/GeethaPardheev/MedicalVoiceAI/handlers"
	"github.com/GeethaPardheev/MedicalVoiceAI/middleware"
	"github.com/GeethaPardheev/MedicalVoiceAI/routes"
	"github.com/GeethaPardheev/MedicalVoiceAI/services/call"
	ai "github.com/GeethaPardheev/MedicalVoiceAI/services/intelligence"
	"github.com/GeethaPardheev/MedicalVoiceAI/services/scheduling"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	callSummaryRepo := summaryRepo.NewMongoSummaryRepo()

	// services.
	slotGenerator := scheduling.NewSlotGenerator(
		config.AppConfig.DefaultTimezone,
		config.AppConfig.WorkdayStartHour,
		config.AppConfig.WorkdayEndHour,
		config.AppConfig.SlotIntervalMinutes,
	)
	schedulingService := &scheduling.DefaultSchedulingService{
		Users:        userRepo,
		Appointments: apptRepo,
		Slots:        slotGenerator,
	}

	summarizer := buildSummarizer(logger)
	finalizer := &call.Finalizer{
		Summarizer: summarizer,
		Summaries:  callSummaryRepo,
		Users:      userRepo,
	}
	callManager := call.NewManager(finalizer)
	toolRegistry := call.NewToolRegistry(schedulingService, finalizer)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(apptRepo),
		Slots:        handlers.NewSlotsHandler(schedulingService, utils.GetCacheClient()),
		Summaries:    handlers.NewSummaryHandler(callSummaryRepo),
		Calls:        handlers.NewCallHandler(callManager, toolRegistry),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	// Pending call summaries are worth the wait; drain before dropping the
	// database connection.
	callManager.Drain(ctx)

	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to close database: %v", err)
	}
	logger.Sugar().Info("main: server stopped gracefully")
}

// buildSummarizer assembles the summary chain from whichever providers are
// configured. With no API keys at all the service still runs; finalize will
// surface provider errors and retry on the next trigger.
func buildSummarizer(logger *zap.Logger) ai.Summarizer {
	providers := make([]ai.Summarizer, 0, 2)
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := ai.NewGeminiSummarizer(key)
		if err != nil {
			logger.Sugar().Errorf("main: failed to initialize gemini summarizer: %v", err)
		} else {
			providers = append(providers, gemini)
		}
	}
	if key := config.AppConfig.OpenAIAPIKey; key != "" {
		providers = append(providers, ai.NewOpenAISummarizer(key))
	}
	if len(providers) == 0 {
		logger.Sugar().Warn("main: no summarization provider configured; call summaries will not be generated")
	}
	return ai.NewFallbackSummarizer(providers...)
}
