package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"
	"github.com/GeethaPardheev/MedicalVoiceAI/services/scheduling"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

const slotsCachePrefix = "slots:"
const slotsCacheTTL = 30 * time.Second

// SlotsHandler serves availability to the dashboard. Responses are cached
// briefly in Redis; availability is a best-effort read either way, so a
// slightly stale snapshot is acceptable.
type SlotsHandler struct {
	Scheduler scheduling.SchedulingService
	Cache     *redis.Client
}

// NewSlotsHandler constructs the handler.
func NewSlotsHandler(scheduler scheduling.SchedulingService, cache *redis.Client) *SlotsHandler {
	return &SlotsHandler{Scheduler: scheduler, Cache: cache}
}

// ListSlotsHandler returns available slots for a date (default today).
func (h *SlotsHandler) ListSlotsHandler(c *gin.Context) {
	rawDate := c.Query("date")
	serviceType := c.Query("service_type")

	cacheKey := slotsCachePrefix + rawDate + ":" + serviceType
	if cached := h.cachedSlots(c.Request.Context(), cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var date time.Time
	if rawDate != "" {
		// Interpret the calendar date in the scheduling zone so the
		// generated day matches the requested one.
		parsed, err := time.ParseInLocation("2006-01-02", rawDate, h.Scheduler.Zone())
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	slots, err := h.Scheduler.FetchAvailability(c.Request.Context(), date, serviceType)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch availability", err.Error())
		return
	}

	h.storeSlots(c.Request.Context(), cacheKey, slots)
	c.JSON(http.StatusOK, slots)
}

func (h *SlotsHandler) cachedSlots(ctx context.Context, key string) []models.Slot {
	if h.Cache == nil {
		return nil
	}
	data, err := h.Cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil
	}
	return slots
}

func (h *SlotsHandler) storeSlots(ctx context.Context, key string, slots []models.Slot) {
	if h.Cache == nil {
		return
	}
	if data, err := json.Marshal(slots); err == nil {
		h.Cache.Set(ctx, key, data, slotsCacheTTL)
	}
}
