package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/service/history"
)

type HistoryService interface {
	Log(ctx context.Context, kind domain.EventKind, extra *string) (*history.LogResult, error)
	Recent(ctx context.Context) ([]domain.Event, error)
	All(ctx context.Context) ([]domain.Event, error)
	Clear(ctx context.Context) error
}

type EventsHandler struct {
	history HistoryService
}

func NewEventsHandler(historyService HistoryService) *EventsHandler {
	return &EventsHandler{
		history: historyService,
	}
}

type LogEventRequest struct {
	Kind  string  `json:"kind" binding:"required"`
	Extra *string `json:"extra"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Extra     *string   `json:"extra,omitempty"`
}

type LogEventResponse struct {
	Event        EventResponse `json:"event"`
	PendingCount int           `json:"pending_count"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	Queued       bool          `json:"queued"`
}

func (h *EventsHandler) HandleLog(c *gin.Context) {
	ctx := c.Request.Context()

	var req LogEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "log event request invalid",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	kind, err := domain.ParseEventKind(req.Kind)
	if err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	result, err := h.history.Log(ctx, kind, req.Extra)
	if result == nil {
		slog.ErrorContext(ctx, "failed to log event",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeStorage, "failed to store event")
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "event stored with follow-up failures",
			slog.String("event_id", result.Event.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusCreated, LogEventResponse{
		Event:        toEventResponse(result.Event),
		PendingCount: result.PendingCount,
		Deadline:     result.Deadline,
		Queued:       result.PendingCount > 0,
	})
}

// HandleList returns recent events, or the full history with ?scope=all.
func (h *EventsHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		events []domain.Event
		err    error
	)
	switch c.DefaultQuery("scope", "recent") {
	case "recent":
		events, err = h.history.Recent(ctx)
	case "all":
		events, err = h.history.All(ctx)
	default:
		respondError(c, http.StatusBadRequest, errTypeValidation, "scope must be recent or all")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to list events", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeStorage, "failed to list events")
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *EventsHandler) HandleClear(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.history.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear history", slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrRemoteTransport) {
			respondError(c, http.StatusBadGateway, errTypeRemote, "local history cleared, remote records not deleted")
			return
		}
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to clear history")
		return
	}

	c.Status(http.StatusNoContent)
}

func toEventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:        e.ID.String(),
		Kind:      e.Kind.String(),
		Timestamp: e.Timestamp,
		Extra:     e.Extra,
	}
}
