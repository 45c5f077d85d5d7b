package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zee-1/TheSnitchBot-sub001/internal/leak"
	"github.com/zee-1/TheSnitchBot-sub001/internal/usage"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

// MessageStore is the persistence surface the handlers need.
type MessageStore interface {
	Recent(ctx context.Context, communityID, channelID string, limit int) ([]leak.Message, error)
	Insert(ctx context.Context, communityID string, messages []leak.Message) error
}

// LeakHandler exposes leak generation over HTTP.
type LeakHandler struct {
	Orchestrator   *leak.Orchestrator
	Messages       MessageStore
	Usage          *usage.Publisher
	Logger         logging.Logger
	DefaultPersona leak.Persona
	WindowSize     int
}

type GenerateLeakRequest struct {
	CommunityID    string            `json:"community_id" binding:"required"`
	ChannelID      string            `json:"channel_id,omitempty"`
	InvokingUserID string            `json:"invoking_user_id"`
	Persona        string            `json:"persona,omitempty"`
	Guidelines     map[string]string `json:"guidelines,omitempty"`
	Window         []leak.Message    `json:"window,omitempty"`
}

type IngestMessagesRequest struct {
	CommunityID string         `json:"community_id" binding:"required"`
	Messages    []leak.Message `json:"messages" binding:"required"`
}

// Register wires the leak endpoints onto the router.
func (h *LeakHandler) Register(r gin.IRouter) {
	api := r.Group("/api/snitch")
	api.POST("/leak", h.GenerateLeak)
	api.POST("/messages", h.IngestMessages)
	api.GET("/stats/:community_id", h.SelectionStats)
}

// GenerateLeak runs the full pipeline for a community. The message window
// may be supplied inline; otherwise it is read from the message store.
func (h *LeakHandler) GenerateLeak(c *gin.Context) {
	var req GenerateLeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	c.Set("community_id", req.CommunityID)

	window := req.Window
	if len(window) == 0 && h.Messages != nil {
		var err error
		window, err = h.Messages.Recent(c.Request.Context(), req.CommunityID, req.ChannelID, h.WindowSize)
		if err != nil {
			if h.Logger != nil {
				h.Logger.WithFields(logging.Fields{
					"community_id": req.CommunityID,
					"error":        err.Error(),
				}).Error("Handlers: failed to load message window")
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message window"})
			return
		}
	}

	persona := h.DefaultPersona
	if req.Persona != "" {
		persona = leak.ParsePersona(req.Persona)
	}

	result, err := h.Orchestrator.Generate(c.Request.Context(), leak.GenerateRequest{
		CommunityID:    req.CommunityID,
		InvokingUserID: req.InvokingUserID,
		Persona:        persona,
		Window:         window,
		Guidelines:     req.Guidelines,
	})
	if err != nil {
		if errors.Is(err, leak.ErrNoCandidates) {
			c.JSON(http.StatusNotFound, gin.H{
				"no_target":    true,
				"community_id": req.CommunityID,
			})
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leak generation failed"})
		return
	}

	h.Usage.PublishLeakGenerated(req.CommunityID, persona, result.Strategy, result.Leak)

	c.JSON(http.StatusOK, result)
}

// IngestMessages stores a batch of community messages for later windows.
func (h *LeakHandler) IngestMessages(c *gin.Context) {
	var req IngestMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	c.Set("community_id", req.CommunityID)

	if h.Messages == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "message store not configured"})
		return
	}

	if err := h.Messages.Insert(c.Request.Context(), req.CommunityID, req.Messages); err != nil {
		if h.Logger != nil {
			h.Logger.WithFields(logging.Fields{
				"community_id": req.CommunityID,
				"count":        len(req.Messages),
				"error":        err.Error(),
			}).Error("Handlers: failed to store messages")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store messages"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"stored": len(req.Messages)})
}

// SelectionStats reports the recent-target registry for a community.
func (h *LeakHandler) SelectionStats(c *gin.Context) {
	communityID := c.Param("community_id")
	c.Set("community_id", communityID)
	c.JSON(http.StatusOK, h.Orchestrator.Stats(communityID))
}
