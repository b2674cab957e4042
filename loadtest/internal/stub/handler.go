package stub

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/infra/recordstore"
)

const (
	batchSaveAction = "records:batchSave"
	runIDHeader     = "X-Run-ID"
	defaultRunID    = "default"
)

type Handler struct {
	storage *RecordStorage
}

func NewHandler(storage *RecordStorage) *Handler {
	return &Handler{storage: storage}
}

// Register mounts the record store API under /api/v1 and the stub controls
// under /stub.
func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/:action", h.HandleAction)
		v1.DELETE("/records", h.HandleDeleteAll)
		v1.GET("/records/:id", h.HandleGet)
	}

	s := r.Group("/stub")
	{
		s.POST("/reset", h.HandleReset)
		s.PUT("/failures", h.HandleSetFailures)
		s.GET("/failures", h.HandleGetFailures)
		s.GET("/stats", h.HandleStats)
	}
}

func runID(c *gin.Context) string {
	if v := c.Query("run_id"); v != "" {
		return v
	}
	if v := c.GetHeader(runIDHeader); v != "" {
		return v
	}
	return defaultRunID
}

// HandleAction serves POST /api/v1/records:batchSave. The colon form cannot
// be registered as a static gin route.
func (h *Handler) HandleAction(c *gin.Context) {
	if c.Param("action") != batchSaveAction {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req recordstore.BatchSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := runID(c)
	results, ok := h.storage.SaveBatch(id, req.Records)
	if !ok {
		slog.Debug("injected outage", slog.String("run_id", id))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "injected outage"})
		return
	}

	slog.Debug("batch saved",
		slog.String("run_id", id),
		slog.Int("record_count", len(req.Records)),
	)

	c.JSON(http.StatusOK, recordstore.BatchSaveResponse{Results: results})
}

func (h *Handler) HandleDeleteAll(c *gin.Context) {
	id := runID(c)
	h.storage.DeleteAll(id)

	slog.Info("records deleted", slog.String("run_id", id))
	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleGet(c *gin.Context) {
	record, ok := h.storage.Get(runID(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) HandleReset(c *gin.Context) {
	id := runID(c)
	h.storage.Reset(id)

	slog.Info("reset data", slog.String("run_id", id))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": id,
	})
}

func (h *Handler) HandleSetFailures(c *gin.Context) {
	var req FailureConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FailureRate < 0 || req.FailureRate > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failure_rate must be within 0-1"})
		return
	}

	h.storage.SetFailures(req)

	slog.Info("failure injection updated",
		slog.String("reject_prefix", req.RejectPrefix),
		slog.Float64("failure_rate", req.FailureRate),
		slog.Bool("outage", req.Outage),
	)

	c.JSON(http.StatusOK, req)
}

func (h *Handler) HandleGetFailures(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.Failures())
}

func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.Stats(runID(c)))
}
