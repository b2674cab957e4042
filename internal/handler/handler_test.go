package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/service/background"
	"github.com/KasumiMercury/primind-void-timer/internal/service/history"
	"github.com/KasumiMercury/primind-void-timer/internal/service/timer"
	"github.com/KasumiMercury/primind-void-timer/internal/testutil"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return v
}

type fakeTimer struct {
	deadline time.Time
	err      error
	settings timer.Settings
	updated  *timer.Settings
	op       string
}

func (f *fakeTimer) Reset(context.Context) (time.Time, error)  { return f.deadline, f.err }
func (f *fakeTimer) Snooze(context.Context) (time.Time, error) { return f.deadline, f.err }
func (f *fakeTimer) Settings(context.Context) timer.Settings   { return f.settings }

func (f *fakeTimer) UpdateSettings(_ context.Context, s timer.Settings) (time.Time, error) {
	if err := s.Validate(); err != nil {
		return time.Time{}, err
	}
	f.updated = &s
	f.op = "update"
	return f.deadline, f.err
}

func (f *fakeTimer) SetInterval(_ context.Context, minutes int) (time.Time, error) {
	if minutes <= 0 {
		return time.Time{}, domain.ErrInvalidInterval
	}
	s := f.settings
	s.Interval = time.Duration(minutes) * time.Minute
	f.updated = &s
	f.op = "interval"
	return f.deadline, f.err
}

func (f *fakeTimer) SetQuietWindow(_ context.Context, enabled bool, startHour, endHour int) (time.Time, error) {
	window := domain.QuietWindow{Enabled: enabled, StartHour: startHour, EndHour: endHour}
	if err := window.Validate(); err != nil {
		return time.Time{}, err
	}
	s := f.settings
	s.QuietWindow = window
	f.updated = &s
	f.op = "quiet_window"
	return f.deadline, f.err
}

func (f *fakeTimer) Snapshot(_ context.Context, at time.Time) timer.Display {
	return timer.Evaluate(at, f.deadline, f.settings)
}

func (f *fakeTimer) Timeline(_ context.Context, from time.Time) []timer.TimelineEntry {
	return timer.BuildTimeline(from, f.deadline, f.settings)
}

func newTimerRouter(f *fakeTimer) *gin.Engine {
	h := NewTimerHandler(f, testutil.NewFakeClock(now))

	r := gin.New()
	r.GET("/api/v1/timer", h.HandleSnapshot)
	r.POST("/api/v1/timer/reset", h.HandleReset)
	r.POST("/api/v1/timer/snooze", h.HandleSnooze)
	r.GET("/api/v1/timer/settings", h.HandleGetSettings)
	r.PUT("/api/v1/timer/settings", h.HandleUpdateSettings)
	r.GET("/api/v1/timer/timeline", h.HandleTimeline)
	return r
}

func TestTimerHandlerSnapshot(t *testing.T) {
	disabled := timer.Settings{Interval: 150 * time.Minute}

	tests := []struct {
		name     string
		deadline time.Time
		want     SnapshotResponse
	}{
		{
			name:     "active",
			deadline: now.Add(90*time.Minute + 5*time.Second),
			want: SnapshotResponse{
				State:            "active",
				Text:             "1:30:05",
				CompactText:      "1h 30m",
				RemainingSeconds: 5405,
			},
		},
		{
			name:     "overdue",
			deadline: now.Add(-time.Minute),
			want: SnapshotResponse{
				State:       "overdue",
				Text:        timer.OverdueText,
				CompactText: timer.OverdueCompactText,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTimerRouter(&fakeTimer{deadline: tt.deadline, settings: disabled})

			w := serve(t, r, http.MethodGet, "/api/v1/timer", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			got := decode[SnapshotResponse](t, w)
			if got.State != tt.want.State || got.Text != tt.want.Text || got.CompactText != tt.want.CompactText {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.RemainingSeconds != tt.want.RemainingSeconds {
				t.Errorf("RemainingSeconds = %d, want %d", got.RemainingSeconds, tt.want.RemainingSeconds)
			}
			if !got.Deadline.Equal(tt.deadline) {
				t.Errorf("Deadline = %v, want %v", got.Deadline, tt.deadline)
			}
		})
	}
}

func TestTimerHandlerReset(t *testing.T) {
	deadline := now.Add(150 * time.Minute)

	tests := []struct {
		name          string
		path          string
		err           error
		wantPersisted bool
	}{
		{name: "reset", path: "/api/v1/timer/reset", wantPersisted: true},
		{name: "snooze", path: "/api/v1/timer/snooze", wantPersisted: true},
		{name: "reset without storage", path: "/api/v1/timer/reset", err: domain.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTimerRouter(&fakeTimer{deadline: deadline, err: tt.err})

			w := serve(t, r, http.MethodPost, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			got := decode[DeadlineResponse](t, w)
			if !got.Deadline.Equal(deadline) || got.Persisted != tt.wantPersisted {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestTimerHandlerSettings(t *testing.T) {
	f := &fakeTimer{
		deadline: now.Add(time.Hour),
		settings: timer.DefaultSettings(),
	}
	r := newTimerRouter(f)

	w := serve(t, r, http.MethodGet, "/api/v1/timer/settings", "")
	got := decode[SettingsBody](t, w)
	if got.IntervalMinutes != 150 || !got.QuietWindow.Enabled || got.QuietWindow.StartHour != 20 || got.QuietWindow.EndHour != 8 {
		t.Errorf("GET settings = %+v", got)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOp     string
		want       timer.Settings
	}{
		{
			name:       "both fields",
			body:       `{"interval_minutes":60,"quiet_window":{"enabled":true,"start_hour":22,"end_hour":6}}`,
			wantStatus: http.StatusOK,
			wantOp:     "update",
			want: timer.Settings{
				Interval:    time.Hour,
				QuietWindow: domain.QuietWindow{Enabled: true, StartHour: 22, EndHour: 6},
			},
		},
		{
			name:       "interval only keeps quiet window",
			body:       `{"interval_minutes":45}`,
			wantStatus: http.StatusOK,
			wantOp:     "interval",
			want: timer.Settings{
				Interval:    45 * time.Minute,
				QuietWindow: timer.DefaultSettings().QuietWindow,
			},
		},
		{
			name:       "quiet window only keeps interval",
			body:       `{"quiet_window":{"enabled":false}}`,
			wantStatus: http.StatusOK,
			wantOp:     "quiet_window",
			want: timer.Settings{
				Interval: timer.DefaultSettings().Interval,
			},
		},
		{
			name:       "empty body",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative interval",
			body:       `{"interval_minutes":-5}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "hour out of range",
			body:       `{"interval_minutes":60,"quiet_window":{"enabled":true,"start_hour":25,"end_hour":6}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "quiet window only out of range",
			body:       `{"quiet_window":{"enabled":true,"start_hour":8,"end_hour":24}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"interval_minutes":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.updated, f.op = nil, ""

			w := serve(t, r, http.MethodPut, "/api/v1/timer/settings", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest {
				if resp := decode[ErrorResponse](t, w); resp.Error != errTypeValidation {
					t.Errorf("error = %q, want %q", resp.Error, errTypeValidation)
				}
				if f.updated != nil {
					t.Errorf("settings changed on invalid request: %+v", f.updated)
				}
				return
			}

			if f.op != tt.wantOp {
				t.Errorf("op = %q, want %q", f.op, tt.wantOp)
			}
			if f.updated == nil || *f.updated != tt.want {
				t.Errorf("updated = %+v, want %+v", f.updated, tt.want)
			}
		})
	}
}

func TestTimerHandlerTimeline(t *testing.T) {
	r := newTimerRouter(&fakeTimer{
		deadline: now.Add(2 * time.Minute),
		settings: timer.Settings{Interval: time.Hour},
	})

	w := serve(t, r, http.MethodGet, "/api/v1/timer/timeline", "")
	got := decode[struct {
		Entries []TimelineEntryResponse `json:"entries"`
	}](t, w)

	if len(got.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(got.Entries))
	}
	if !got.Entries[2].Overdue || got.Entries[0].Overdue {
		t.Errorf("entries = %+v", got.Entries)
	}
}

type fakeHistory struct {
	result   *history.LogResult
	logErr   error
	events   []domain.Event
	all      bool
	clearErr error
}

func (f *fakeHistory) Log(_ context.Context, kind domain.EventKind, extra *string) (*history.LogResult, error) {
	if f.result != nil {
		f.result.Event.Kind = kind
		f.result.Event.Extra = extra
	}
	return f.result, f.logErr
}

func (f *fakeHistory) Recent(context.Context) ([]domain.Event, error) { return f.events, nil }

func (f *fakeHistory) All(context.Context) ([]domain.Event, error) {
	f.all = true
	return f.events, nil
}

func (f *fakeHistory) Clear(context.Context) error { return f.clearErr }

func newEventsRouter(f *fakeHistory) *gin.Engine {
	h := NewEventsHandler(f)

	r := gin.New()
	r.POST("/api/v1/events", h.HandleLog)
	r.GET("/api/v1/events", h.HandleList)
	r.DELETE("/api/v1/events", h.HandleClear)
	return r
}

func TestEventsHandlerLog(t *testing.T) {
	deadline := now.Add(150 * time.Minute)

	tests := []struct {
		name       string
		body       string
		history    *fakeHistory
		wantStatus int
		wantQueued bool
	}{
		{
			name:       "pee resets",
			body:       `{"kind":"pee"}`,
			history:    &fakeHistory{result: &history.LogResult{Event: domain.NewEvent(domain.EventKindPee, now, nil), PendingCount: 1, Deadline: &deadline}},
			wantStatus: http.StatusCreated,
			wantQueued: true,
		},
		{
			name:       "queue failure still created",
			body:       `{"kind":"poop","extra":"Type 4"}`,
			history:    &fakeHistory{result: &history.LogResult{Event: domain.NewEvent(domain.EventKindPoop, now, nil)}, logErr: domain.ErrStorageUnavailable},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown kind",
			body:       `{"kind":"nap"}`,
			history:    &fakeHistory{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing kind",
			body:       `{}`,
			history:    &fakeHistory{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       `{"kind":"medication"}`,
			history:    &fakeHistory{logErr: errors.New("disk full")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newEventsRouter(tt.history), http.MethodPost, "/api/v1/events", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			got := decode[LogEventResponse](t, w)
			if got.Queued != tt.wantQueued {
				t.Errorf("Queued = %v, want %v", got.Queued, tt.wantQueued)
			}
			if got.Event.ID != tt.history.result.Event.ID.String() {
				t.Errorf("Event.ID = %q", got.Event.ID)
			}
		})
	}
}

func TestEventsHandlerList(t *testing.T) {
	events := []domain.Event{
		domain.NewEvent(domain.EventKindPee, now, nil),
		domain.NewEvent(domain.EventKindPoop, now.Add(-time.Hour), nil),
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantAll    bool
	}{
		{name: "recent by default", query: "", wantStatus: http.StatusOK},
		{name: "all", query: "?scope=all", wantStatus: http.StatusOK, wantAll: true},
		{name: "unknown scope", query: "?scope=week", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeHistory{events: events}
			w := serve(t, newEventsRouter(f), http.MethodGet, "/api/v1/events"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if f.all != tt.wantAll {
				t.Errorf("All called = %v, want %v", f.all, tt.wantAll)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[struct {
				Events []EventResponse `json:"events"`
			}](t, w)
			if len(got.Events) != 2 || got.Events[0].Kind != "pee" {
				t.Errorf("events = %+v", got.Events)
			}
		})
	}
}

func TestEventsHandlerClear(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "cleared", wantStatus: http.StatusNoContent},
		{name: "remote failure", err: errors.Join(errors.New("delete"), domain.ErrRemoteTransport), wantStatus: http.StatusBadGateway},
		{name: "local failure", err: errors.New("disk"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newEventsRouter(&fakeHistory{clearErr: tt.err}), http.MethodDelete, "/api/v1/events", "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

type fakeQueue struct {
	pending    []domain.Event
	pendingErr error
	drains     int
	lastErr    error
}

func (q *fakeQueue) Drain(context.Context) error {
	q.drains++
	return q.lastErr
}

func (q *fakeQueue) Pending(context.Context) ([]domain.Event, error) { return q.pending, q.pendingErr }
func (q *fakeQueue) InFlight() bool                                  { return false }
func (q *fakeQueue) LastError() error                                { return q.lastErr }

type fakeWake struct {
	result *background.WakeResult
	err    error
}

func (f *fakeWake) HandleWake(context.Context) (*background.WakeResult, error) {
	return f.result, f.err
}

func newSyncRouter(q *fakeQueue, wake *fakeWake) *gin.Engine {
	h := NewSyncHandler(q, wake)

	r := gin.New()
	r.POST("/api/v1/sync/flush", h.HandleFlush)
	r.POST("/api/v1/sync/wake", h.HandleWake)
	r.GET("/api/v1/sync/status", h.HandleStatus)
	return r
}

func TestSyncHandlerFlush(t *testing.T) {
	q := &fakeQueue{
		pending: []domain.Event{domain.NewEvent(domain.EventKindPee, now, nil)},
		lastErr: domain.ErrPartialBatchFailure,
	}

	w := serve(t, newSyncRouter(q, &fakeWake{}), http.MethodPost, "/api/v1/sync/flush", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if q.drains != 1 {
		t.Errorf("drains = %d, want 1", q.drains)
	}

	got := decode[SyncStatusResponse](t, w)
	if got.Pending != 1 || got.LastError == nil || *got.LastError != domain.ErrPartialBatchFailure.Error() {
		t.Errorf("got %+v", got)
	}
}

func TestSyncHandlerStatus(t *testing.T) {
	tests := []struct {
		name       string
		queue      *fakeQueue
		wantStatus int
	}{
		{name: "empty", queue: &fakeQueue{}, wantStatus: http.StatusOK},
		{name: "storage failure", queue: &fakeQueue{pendingErr: domain.ErrStorageUnavailable}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newSyncRouter(tt.queue, &fakeWake{}), http.MethodGet, "/api/v1/sync/status", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if got := decode[SyncStatusResponse](t, w); got.Pending != 0 || got.LastError != nil {
					t.Errorf("got %+v", got)
				}
			}
		})
	}
}

func TestSyncHandlerWake(t *testing.T) {
	next := now.Add(15 * time.Minute)

	tests := []struct {
		name       string
		wake       *fakeWake
		wantStatus int
	}{
		{
			name:       "scheduled",
			wake:       &fakeWake{result: &background.WakeResult{NextWake: next, Scheduled: true}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "drain failure acknowledged",
			wake:       &fakeWake{result: &background.WakeResult{NextWake: next, Scheduled: true, DrainErr: domain.ErrRemoteTransport}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "schedule failure",
			wake:       &fakeWake{result: &background.WakeResult{NextWake: next}, err: errors.New("queue")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newSyncRouter(&fakeQueue{}, tt.wake), http.MethodPost, "/api/v1/sync/wake", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[WakeResponse](t, w)
			if !got.NextWake.Equal(next) || !got.Scheduled {
				t.Errorf("got %+v", got)
			}
			if (got.DrainError != nil) != (tt.wake.result.DrainErr != nil) {
				t.Errorf("DrainError = %v", got.DrainError)
			}
		})
	}
}
