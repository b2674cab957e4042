package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/kvstore"
	"github.com/KasumiMercury/primind-void-timer/internal/testutil"
)

type serviceFixture struct {
	clock     *testutil.FakeClock
	kv        *kvstore.MemoryStore
	store     *SettingsStore
	notifier  *domain.MockNotificationScheduler
	refresher *domain.MockDisplayRefresher
	alerter   *domain.MockOverdueAlerter
	service   *Service
}

func awakeSettings() Settings {
	return Settings{
		Interval:    DefaultInterval,
		QuietWindow: domain.QuietWindow{Enabled: false, StartHour: 20, EndHour: 8},
	}
}

func newServiceFixture(t *testing.T, now time.Time, defaults Settings) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &serviceFixture{
		clock:     testutil.NewFakeClock(now),
		kv:        kvstore.NewMemoryStore(),
		notifier:  domain.NewMockNotificationScheduler(ctrl),
		refresher: domain.NewMockDisplayRefresher(ctrl),
		alerter:   domain.NewMockOverdueAlerter(ctrl),
	}
	f.store = NewSettingsStore(f.kv, defaults)
	f.service = NewService(f.clock, f.store, f.notifier, f.refresher, f.alerter, nil, Config{Snooze: DefaultSnooze})
	return f
}

type instantMatcher struct {
	want time.Time
}

func sameInstant(want time.Time) gomock.Matcher {
	return instantMatcher{want: want}
}

func (m instantMatcher) Matches(x any) bool {
	t, ok := x.(time.Time)
	return ok && t.Equal(m.want)
}

func (m instantMatcher) String() string {
	return "is the instant " + m.want.Format(time.RFC3339Nano)
}

func (f *serviceFixture) expectReschedule(at time.Time) {
	gomock.InOrder(
		f.notifier.EXPECT().CancelAll(gomock.Any()).Return(nil),
		f.notifier.EXPECT().ScheduleOneShot(gomock.Any(), sameInstant(at), gomock.Any(), gomock.Any()).Return(nil),
	)
	f.refresher.EXPECT().RefreshTimelines(gomock.Any())
}

func TestServiceReset(t *testing.T) {
	now := at(10, 10, 0)
	f := newServiceFixture(t, now, awakeSettings())
	want := now.Add(150 * time.Minute)
	f.expectReschedule(want)

	got, err := f.service.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Reset() = %v, want %v", got, want)
	}

	persisted, err := f.store.LoadDeadline(context.Background())
	if err != nil {
		t.Fatalf("LoadDeadline() error = %v", err)
	}
	if !persisted.Equal(want) {
		t.Errorf("persisted deadline = %v, want %v", persisted, want)
	}
}

func TestServiceResetHonorsQuietWindow(t *testing.T) {
	now := at(10, 19, 0)
	f := newServiceFixture(t, now, DefaultSettings())
	want := at(11, 9, 30)
	f.expectReschedule(want)

	got, err := f.service.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Reset() = %v, want %v", got, want)
	}
}

func TestServiceSnooze(t *testing.T) {
	now := at(10, 10, 0)

	tests := []struct {
		name     string
		deadline time.Time
		want     time.Time
	}{
		{
			name:     "overdue restarts from now",
			deadline: now.Add(-60 * time.Second),
			want:     now.Add(10 * time.Minute),
		},
		{
			name:     "exactly at deadline restarts from now",
			deadline: now,
			want:     now.Add(10 * time.Minute),
		},
		{
			name:     "active extends deadline",
			deadline: now.Add(3600 * time.Second),
			want:     now.Add(3600*time.Second + 10*time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, now, awakeSettings())
			if err := f.store.SaveDeadline(context.Background(), tt.deadline); err != nil {
				t.Fatalf("SaveDeadline() error = %v", err)
			}
			f.expectReschedule(tt.want)

			got, err := f.service.Snooze(context.Background())
			if err != nil {
				t.Fatalf("Snooze() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Snooze() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceSnoozeIntoQuietWindow(t *testing.T) {
	now := at(10, 19, 0)
	f := newServiceFixture(t, now, DefaultSettings())
	if err := f.store.SaveDeadline(context.Background(), at(10, 19, 55)); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}
	want := at(11, 8, 5)
	f.expectReschedule(want)

	got, err := f.service.Snooze(context.Background())
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Snooze() = %v, want %v", got, want)
	}
}

func TestServiceSetInterval(t *testing.T) {
	now := at(10, 10, 0)

	t.Run("rejects non positive", func(t *testing.T) {
		f := newServiceFixture(t, now, awakeSettings())
		if _, err := f.service.SetInterval(context.Background(), 0); !errors.Is(err, domain.ErrInvalidInterval) {
			t.Errorf("SetInterval() error = %v, want ErrInvalidInterval", err)
		}
	})

	t.Run("persists and resets", func(t *testing.T) {
		f := newServiceFixture(t, now, awakeSettings())
		want := now.Add(45 * time.Minute)
		f.expectReschedule(want)

		got, err := f.service.SetInterval(context.Background(), 45)
		if err != nil {
			t.Fatalf("SetInterval() error = %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("SetInterval() = %v, want %v", got, want)
		}
		if s := f.service.Settings(context.Background()); s.Interval != 45*time.Minute {
			t.Errorf("Interval = %v, want 45m", s.Interval)
		}
	})
}

func TestServiceSetQuietWindow(t *testing.T) {
	now := at(10, 19, 0)

	t.Run("rejects out of range hour", func(t *testing.T) {
		f := newServiceFixture(t, now, awakeSettings())
		if _, err := f.service.SetQuietWindow(context.Background(), true, 24, 8); !errors.Is(err, domain.ErrInvalidQuietWindow) {
			t.Errorf("SetQuietWindow() error = %v, want ErrInvalidQuietWindow", err)
		}
	})

	t.Run("enabling shifts the deadline", func(t *testing.T) {
		f := newServiceFixture(t, now, awakeSettings())
		want := at(11, 9, 30)
		f.expectReschedule(want)

		got, err := f.service.SetQuietWindow(context.Background(), true, 20, 8)
		if err != nil {
			t.Fatalf("SetQuietWindow() error = %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("SetQuietWindow() = %v, want %v", got, want)
		}

		window := f.service.Settings(context.Background()).QuietWindow
		if window != (domain.QuietWindow{Enabled: true, StartHour: 20, EndHour: 8}) {
			t.Errorf("QuietWindow = %+v", window)
		}
	})
}

func TestServiceSnapshotInitializesDeadline(t *testing.T) {
	now := at(10, 10, 0)
	f := newServiceFixture(t, now, awakeSettings())

	got := f.service.Snapshot(context.Background(), now)
	want := now.Add(150 * time.Minute)
	if got.State != domain.TimerStateActive || !got.Deadline.Equal(want) {
		t.Errorf("Snapshot() = %+v, want active until %v", got, want)
	}

	persisted, err := f.store.LoadDeadline(context.Background())
	if err != nil {
		t.Fatalf("LoadDeadline() error = %v", err)
	}
	if !persisted.Equal(want) {
		t.Errorf("persisted deadline = %v, want %v", persisted, want)
	}
}

func TestServiceTickIsIdempotent(t *testing.T) {
	now := at(10, 10, 0)
	f := newServiceFixture(t, now, awakeSettings())
	if err := f.store.SaveDeadline(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}

	first := f.service.Tick(context.Background())
	second := f.service.Tick(context.Background())
	if first != second {
		t.Errorf("Tick() = %+v then %+v", first, second)
	}
	if first.Text != "1:00:00" {
		t.Errorf("Text = %q, want %q", first.Text, "1:00:00")
	}
}

func TestServiceTickAlertsOncePerCrossing(t *testing.T) {
	now := at(10, 10, 0)
	f := newServiceFixture(t, now, awakeSettings())
	deadline := now.Add(2 * time.Second)
	if err := f.store.SaveDeadline(context.Background(), deadline); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}

	if d := f.service.Tick(context.Background()); d.State != domain.TimerStateActive {
		t.Fatalf("State = %v, want active", d.State)
	}

	f.alerter.EXPECT().Alert(gomock.Any(), sameInstant(deadline)).Times(1)
	f.clock.Advance(3 * time.Second)
	for range 3 {
		if d := f.service.Tick(context.Background()); d.State != domain.TimerStateOverdue {
			t.Fatalf("State = %v, want overdue", d.State)
		}
	}

	next := f.clock.Now().Add(150 * time.Minute)
	f.expectReschedule(next)
	if _, err := f.service.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	f.service.Tick(context.Background())

	f.alerter.EXPECT().Alert(gomock.Any(), sameInstant(next)).Times(1)
	f.clock.Set(next)
	f.service.Tick(context.Background())
	f.service.Tick(context.Background())
}

func TestServiceTickAlertsWhenLeavingQuietWindowOverdue(t *testing.T) {
	f := newServiceFixture(t, at(10, 22, 0), DefaultSettings())
	deadline := at(10, 21, 0)
	if err := f.store.SaveDeadline(context.Background(), deadline); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}

	if d := f.service.Tick(context.Background()); d.State != domain.TimerStateSleeping {
		t.Fatalf("State = %v, want sleeping", d.State)
	}

	f.alerter.EXPECT().Alert(gomock.Any(), sameInstant(deadline)).Times(1)
	f.clock.Set(at(11, 8, 0))
	if d := f.service.Tick(context.Background()); d.State != domain.TimerStateOverdue {
		t.Fatalf("State = %v, want overdue", d.State)
	}
}

func TestServiceStorageUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := domain.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrStorageUnavailable).AnyTimes()
	kv.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrStorageUnavailable).AnyTimes()

	now := at(10, 10, 0)
	clock := testutil.NewFakeClock(now)
	notifier := domain.NewMockNotificationScheduler(ctrl)
	refresher := domain.NewMockDisplayRefresher(ctrl)
	notifier.EXPECT().CancelAll(gomock.Any()).Return(nil)
	notifier.EXPECT().ScheduleOneShot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	refresher.EXPECT().RefreshTimelines(gomock.Any())

	service := NewService(clock, NewSettingsStore(kv, awakeSettings()), notifier, refresher,
		domain.NewMockOverdueAlerter(ctrl), nil, Config{})

	deadline, err := service.Reset(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("Reset() error = %v, want ErrStorageUnavailable", err)
	}

	clock.Advance(time.Hour)
	got := service.Snapshot(context.Background(), clock.Now())
	if !got.Deadline.Equal(deadline) {
		t.Errorf("Snapshot().Deadline = %v, want in-memory %v", got.Deadline, deadline)
	}
	if got.Text != "1:30:00" {
		t.Errorf("Text = %q, want %q", got.Text, "1:30:00")
	}
}

type countingNotifier struct {
	mu        sync.Mutex
	live      int
	maxLive   int
	scheduled int
}

func (n *countingNotifier) CancelAll(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.live = 0
	return nil
}

func (n *countingNotifier) ScheduleOneShot(context.Context, time.Time, string, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.live++
	n.scheduled++
	n.maxLive = max(n.maxLive, n.live)
	return nil
}

func TestServiceConcurrentMutations(t *testing.T) {
	ctrl := gomock.NewController(t)
	refresher := domain.NewMockDisplayRefresher(ctrl)
	refresher.EXPECT().RefreshTimelines(gomock.Any()).AnyTimes()

	now := at(10, 10, 0)
	store := NewSettingsStore(kvstore.NewMemoryStore(), awakeSettings())
	notifier := &countingNotifier{}
	service := NewService(testutil.NewFakeClock(now), store, notifier, refresher,
		domain.NewMockOverdueAlerter(ctrl), nil, Config{})

	const workers = 20
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			if i%2 == 0 {
				_, _ = service.Reset(context.Background())
			} else {
				_, _ = service.Snooze(context.Background())
			}
		})
	}
	wg.Wait()

	if notifier.scheduled != workers {
		t.Errorf("scheduled = %d, want %d", notifier.scheduled, workers)
	}
	if notifier.maxLive != 1 {
		t.Errorf("max live notifications = %d, want 1", notifier.maxLive)
	}

	persisted, err := store.LoadDeadline(context.Background())
	if err != nil {
		t.Fatalf("LoadDeadline() error = %v", err)
	}
	if got := service.Snapshot(context.Background(), now).Deadline; !got.Equal(persisted) {
		t.Errorf("Snapshot().Deadline = %v, persisted %v", got, persisted)
	}
}
