package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/service/background"
)

type SyncQueue interface {
	Drain(ctx context.Context) error
	Pending(ctx context.Context) ([]domain.Event, error)
	InFlight() bool
	LastError() error
}

type WakeHandler interface {
	HandleWake(ctx context.Context) (*background.WakeResult, error)
}

type SyncHandler struct {
	queue SyncQueue
	wake  WakeHandler
}

func NewSyncHandler(queue SyncQueue, wake WakeHandler) *SyncHandler {
	return &SyncHandler{
		queue: queue,
		wake:  wake,
	}
}

type SyncStatusResponse struct {
	Pending   int     `json:"pending"`
	InFlight  bool    `json:"in_flight"`
	LastError *string `json:"last_error"`
}

type WakeResponse struct {
	NextWake   time.Time `json:"next_wake"`
	Scheduled  bool      `json:"scheduled"`
	DrainError *string   `json:"drain_error,omitempty"`
}

// HandleFlush drains the queue in the request and reports what is left.
func (h *SyncHandler) HandleFlush(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.queue.Drain(ctx); err != nil {
		slog.InfoContext(ctx, "foreground drain incomplete", slog.String("error", err.Error()))
	}
	h.respondStatus(c)
}

func (h *SyncHandler) HandleStatus(c *gin.Context) {
	h.respondStatus(c)
}

// HandleWake serves the background task callback. A non-2xx response makes
// the task queue retry the callback.
func (h *SyncHandler) HandleWake(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.wake.HandleWake(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle background wake", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to schedule next wake")
		return
	}

	resp := WakeResponse{
		NextWake:  result.NextWake,
		Scheduled: result.Scheduled,
	}
	if result.DrainErr != nil {
		msg := result.DrainErr.Error()
		resp.DrainError = &msg
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) respondStatus(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.queue.Pending(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read pending events", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, errTypeStorage, "failed to read pending events")
		return
	}

	resp := SyncStatusResponse{
		Pending:  len(pending),
		InFlight: h.queue.InFlight(),
	}
	if lastErr := h.queue.LastError(); lastErr != nil {
		msg := lastErr.Error()
		resp.LastError = &msg
	}
	c.JSON(http.StatusOK, resp)
}
