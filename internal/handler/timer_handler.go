package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/service/timer"
)

type TimerService interface {
	Reset(ctx context.Context) (time.Time, error)
	Snooze(ctx context.Context) (time.Time, error)
	Settings(ctx context.Context) timer.Settings
	UpdateSettings(ctx context.Context, settings timer.Settings) (time.Time, error)
	SetInterval(ctx context.Context, minutes int) (time.Time, error)
	SetQuietWindow(ctx context.Context, enabled bool, startHour, endHour int) (time.Time, error)
	Snapshot(ctx context.Context, now time.Time) timer.Display
	Timeline(ctx context.Context, from time.Time) []timer.TimelineEntry
}

type TimerHandler struct {
	timer TimerService
	clock timer.Clock
}

func NewTimerHandler(timerService TimerService, clock timer.Clock) *TimerHandler {
	return &TimerHandler{
		timer: timerService,
		clock: clock,
	}
}

type SnapshotResponse struct {
	State            string    `json:"state"`
	Text             string    `json:"text"`
	CompactText      string    `json:"compact_text"`
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Progress         float64   `json:"progress"`
}

type DeadlineResponse struct {
	Deadline  time.Time `json:"deadline"`
	Persisted bool      `json:"persisted"`
}

type QuietWindowBody struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
}

type SettingsBody struct {
	IntervalMinutes int             `json:"interval_minutes"`
	QuietWindow     QuietWindowBody `json:"quiet_window"`
}

// SettingsUpdateRequest changes only the fields present in the body.
type SettingsUpdateRequest struct {
	IntervalMinutes *int             `json:"interval_minutes"`
	QuietWindow     *QuietWindowBody `json:"quiet_window"`
}

var errEmptySettingsUpdate = errors.New("interval_minutes or quiet_window is required")

type TimelineEntryResponse struct {
	At      time.Time `json:"at"`
	Text    string    `json:"text"`
	Overdue bool      `json:"overdue"`
}

func (h *TimerHandler) HandleSnapshot(c *gin.Context) {
	display := h.timer.Snapshot(c.Request.Context(), h.clock.Now())
	c.JSON(http.StatusOK, toSnapshotResponse(display))
}

func (h *TimerHandler) HandleReset(c *gin.Context) {
	deadline, err := h.timer.Reset(c.Request.Context())
	h.respondDeadline(c, deadline, err)
}

func (h *TimerHandler) HandleSnooze(c *gin.Context) {
	deadline, err := h.timer.Snooze(c.Request.Context())
	h.respondDeadline(c, deadline, err)
}

func (h *TimerHandler) HandleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, toSettingsBody(h.timer.Settings(c.Request.Context())))
}

func (h *TimerHandler) HandleUpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var body SettingsUpdateRequest
	err := c.ShouldBindJSON(&body)
	if err == nil && body.IntervalMinutes == nil && body.QuietWindow == nil {
		err = errEmptySettingsUpdate
	}
	if err != nil {
		slog.WarnContext(ctx, "settings request invalid",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	var deadline time.Time
	switch {
	case body.QuietWindow == nil:
		deadline, err = h.timer.SetInterval(ctx, *body.IntervalMinutes)
	case body.IntervalMinutes == nil:
		w := body.QuietWindow
		deadline, err = h.timer.SetQuietWindow(ctx, w.Enabled, w.StartHour, w.EndHour)
	default:
		deadline, err = h.timer.UpdateSettings(ctx, timer.Settings{
			Interval: time.Duration(*body.IntervalMinutes) * time.Minute,
			QuietWindow: domain.QuietWindow{
				Enabled:   body.QuietWindow.Enabled,
				StartHour: body.QuietWindow.StartHour,
				EndHour:   body.QuietWindow.EndHour,
			},
		})
	}

	if errors.Is(err, domain.ErrInvalidInterval) || errors.Is(err, domain.ErrInvalidQuietWindow) {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}
	h.respondDeadline(c, deadline, err)
}

func (h *TimerHandler) HandleTimeline(c *gin.Context) {
	entries := h.timer.Timeline(c.Request.Context(), h.clock.Now())

	resp := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, TimelineEntryResponse{
			At:      e.At,
			Text:    e.Text,
			Overdue: e.Overdue,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": resp})
}

// respondDeadline reports the new deadline. A persistence failure does not
// undo the change, so it is surfaced as persisted=false.
func (h *TimerHandler) respondDeadline(c *gin.Context, deadline time.Time, err error) {
	if err != nil {
		slog.WarnContext(c.Request.Context(), "deadline changed without persisting",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, DeadlineResponse{
		Deadline:  deadline,
		Persisted: err == nil,
	})
}

func toSnapshotResponse(d timer.Display) SnapshotResponse {
	return SnapshotResponse{
		State:            d.State.String(),
		Text:             d.Text,
		CompactText:      d.CompactText,
		Deadline:         d.Deadline,
		RemainingSeconds: int64(d.Remaining / time.Second),
		Progress:         d.Progress,
	}
}

func toSettingsBody(s timer.Settings) SettingsBody {
	return SettingsBody{
		IntervalMinutes: int(s.Interval / time.Minute),
		QuietWindow: QuietWindowBody{
			Enabled:   s.QuietWindow.Enabled,
			StartHour: s.QuietWindow.StartHour,
			EndHour:   s.QuietWindow.EndHour,
		},
	}
}
