package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GeethaPardheev/MedicalVoiceAI/services/call"
	"github.com/GeethaPardheev/MedicalVoiceAI/services/scheduling"
	"github.com/GeethaPardheev/MedicalVoiceAI/utils"
)

// CallHandler is the bridge between the realtime conversational layer and the
// backend: it tracks live call sessions, appends transcript turns, dispatches
// tool invocations and ends calls.
type CallHandler struct {
	Manager *call.Manager
	Tools   *call.ToolRegistry
}

// NewCallHandler constructs the handler.
func NewCallHandler(manager *call.Manager, tools *call.ToolRegistry) *CallHandler {
	return &CallHandler{Manager: manager, Tools: tools}
}

// StartCallRequest opens a session for one room.
type StartCallRequest struct {
	RoomName string `json:"room_name" binding:"required"`
}

// StartCallHandler registers a fresh session and returns its id.
func (h *CallHandler) StartCallHandler(c *gin.Context) {
	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	session := h.Manager.Start(req.RoomName)
	c.JSON(http.StatusCreated, gin.H{
		"call_id":   session.ID,
		"room_name": req.RoomName,
		"status":    session.Status(),
	})
}

// TranscriptRequest appends one conversation turn.
type TranscriptRequest struct {
	Speaker string `json:"speaker" binding:"required"`
	Text    string `json:"text" binding:"required"`
	ItemID  string `json:"item_id"`
}

// AppendTranscriptHandler records a turn on the session timeline.
func (h *CallHandler) AppendTranscriptHandler(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	session.AddTranscript(req.Speaker, req.Text, req.ItemID, time.Now().UTC())
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

// ToolRequest names one tool invocation and its arguments.
type ToolRequest struct {
	Tool   string         `json:"tool" binding:"required"`
	CallID string         `json:"call_id"`
	Args   map[string]any `json:"args"`
}

// DispatchToolHandler runs a tool against the session. Scheduling conflicts
// come back as 409 with the coded error so the conversational layer can
// phrase them to the caller.
func (h *CallHandler) DispatchToolHandler(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	output, err := h.Tools.Dispatch(c.Request.Context(), session, req.Tool, req.Args, req.CallID)
	if err != nil {
		status, code := toolErrorStatus(err)
		c.JSON(status, gin.H{"error": code, "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": output})
}

// EndCallHandler finalizes and forgets the session.
func (h *CallHandler) EndCallHandler(c *gin.Context) {
	h.Manager.End(c.Request.Context(), c.Param("id"), "disconnect")
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

func (h *CallHandler) session(c *gin.Context) *call.Session {
	session := h.Manager.Get(c.Param("id"))
	if session == nil {
		utils.JSONError(c, http.StatusNotFound, "unknown call", "no live session with that id")
	}
	return session
}

func toolErrorStatus(err error) (int, string) {
	var schedErr *scheduling.SchedulingError
	if errors.As(err, &schedErr) {
		switch schedErr.Code {
		case scheduling.ErrNotFound.Code:
			return http.StatusNotFound, schedErr.Code
		case scheduling.ErrInvalidPhone.Code:
			return http.StatusBadRequest, schedErr.Code
		default:
			return http.StatusConflict, schedErr.Code
		}
	}
	if errors.Is(err, call.ErrUnknownTool) {
		return http.StatusBadRequest, "unknownTool"
	}
	return http.StatusInternalServerError, "internal"
}
