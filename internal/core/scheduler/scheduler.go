package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"deskwell/internal/core/model"
	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
)

// Notifier receives side effects. Implementations must not block the caller
// for long and must swallow their own failures.
type Notifier interface {
	NotifyReminder(alert reminder.Alert)
	NotifyPomodoro(notification pomodoro.Notification)
	Notify(title, description string)
}

// Config contains runtime options for the Scheduler.
type Config struct {
	TickInterval time.Duration
	Clock        func() time.Time
}

// Scheduler drives every reminder and the pomodoro from a single ticker.
// All state changes, whether from the ticker or the UI, go through the same
// mutex so they are applied one at a time.
type Scheduler struct {
	mu       sync.Mutex
	options  Config
	state    reminder.State
	timer    pomodoro.Timer
	quotes   pomodoro.QuotePicker
	notifier Notifier
	logger   *slog.Logger
	events   []chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a Scheduler with every reminder starting now.
func New(definitions []model.ReminderDefinition, pomodoroConfig model.PomodoroConfig, quotes pomodoro.QuotePicker, notifier Notifier, logger *slog.Logger, options Config) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = model.TickInterval
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		options:  options,
		state:    reminder.New(definitions, options.Clock()),
		timer:    pomodoro.New(pomodoroConfig),
		quotes:   quotes,
		notifier: notifier,
		logger:   logger.With("component", "scheduler"),
	}
}

// Subscribe registers a new observer channel.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.mu.Lock()
	scheduler.events = append(scheduler.events, ch)
	scheduler.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	if scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	scheduler.running = true
	scheduler.stopCh = make(chan struct{})
	scheduler.doneCh = make(chan struct{})
	stopCh, doneCh := scheduler.stopCh, scheduler.doneCh
	scheduler.mu.Unlock()

	scheduler.logger.Info("scheduler started", "tick", scheduler.options.TickInterval)
	go scheduler.run(stopCh, doneCh)
}

// Stop terminates the ticking loop and closes observers. It returns once
// the loop has exited, so no tick reaches the notifier afterwards.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	if !scheduler.running {
		scheduler.mu.Unlock()
		return
	}
	close(scheduler.stopCh)
	doneCh := scheduler.doneCh
	scheduler.running = false
	scheduler.mu.Unlock()

	<-doneCh

	scheduler.mu.Lock()
	events := scheduler.events
	scheduler.events = nil
	scheduler.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	scheduler.logger.Info("scheduler stopped")
}

// Snapshot returns a copy of the current state.
func (scheduler *Scheduler) Snapshot() Snapshot {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.snapshotLocked(scheduler.options.Clock())
}

// SetEnabled toggles a reminder and restarts its countdown.
func (scheduler *Scheduler) SetEnabled(key model.ReminderKey, enabled bool) {
	scheduler.mu.Lock()
	now := scheduler.options.Clock()
	scheduler.state = reminder.SetEnabled(scheduler.state, key, enabled, now)
	scheduler.emitLocked(Event{Type: EventRemindersChanged, At: now})
	scheduler.mu.Unlock()

	scheduler.logger.Info("reminder toggled", "reminder", key, "enabled", enabled)
}

// SetFrequency changes a reminder period and restarts its countdown.
func (scheduler *Scheduler) SetFrequency(key model.ReminderKey, minutes int) error {
	scheduler.mu.Lock()
	now := scheduler.options.Clock()
	next, err := reminder.SetFrequency(scheduler.state, key, minutes, now)
	if err != nil {
		scheduler.mu.Unlock()
		return err
	}
	scheduler.state = next
	scheduler.emitLocked(Event{Type: EventRemindersChanged, At: now})
	scheduler.mu.Unlock()

	scheduler.logger.Info("reminder frequency changed", "reminder", key, "minutes", minutes)
	return nil
}

// ResetAll restarts every reminder and confirms with a notification.
func (scheduler *Scheduler) ResetAll() {
	scheduler.mu.Lock()
	now := scheduler.options.Clock()
	scheduler.state = reminder.ResetAll(scheduler.state, now)
	scheduler.emitLocked(Event{Type: EventRemindersReset, At: now})
	scheduler.mu.Unlock()

	scheduler.logger.Info("reminders reset")
	if scheduler.notifier != nil {
		scheduler.notifier.Notify("Reminders reset", "All reminder timers have been restarted.")
	}
}

// Trigger fires a reminder immediately. It reports false when the reminder
// is unknown or disabled.
func (scheduler *Scheduler) Trigger(key model.ReminderKey) bool {
	scheduler.mu.Lock()
	now := scheduler.options.Clock()
	next, alert, ok := reminder.Trigger(scheduler.state, key, now)
	if !ok {
		scheduler.mu.Unlock()
		return false
	}
	scheduler.state = next
	id := scheduler.emitLocked(Event{Type: EventReminderFired, Alert: &alert, At: now})
	scheduler.mu.Unlock()

	scheduler.dispatchReminders([]reminder.Alert{alert}, []string{id})
	return true
}

// StartPomodoro begins a work phase when the pomodoro is idle.
func (scheduler *Scheduler) StartPomodoro() {
	scheduler.mu.Lock()
	now := scheduler.options.Clock()
	next, notification, ok := scheduler.timer.Start()
	if !ok {
		scheduler.mu.Unlock()
		return
	}
	scheduler.timer = next
	id := scheduler.emitLocked(Event{Type: EventPomodoroChanged, Pomodoro: &notification, At: now})
	scheduler.mu.Unlock()

	scheduler.logger.Info("pomodoro started")
	scheduler.dispatchPomodoro(&notification, id)
}

// StopPomodoro returns the pomodoro to idle without a notification.
func (scheduler *Scheduler) StopPomodoro() {
	scheduler.updatePomodoro(pomodoro.Timer.Stop, "pomodoro stopped")
}

// ResetPomodoro returns the pomodoro to idle without a notification.
func (scheduler *Scheduler) ResetPomodoro() {
	scheduler.updatePomodoro(pomodoro.Timer.Reset, "pomodoro reset")
}

// Step applies a single tick at now. The ticker loop calls it once per
// interval; tests call it directly.
func (scheduler *Scheduler) Step(now time.Time) {
	scheduler.mu.Lock()
	next, alerts := reminder.Tick(scheduler.state, now)
	scheduler.state = next

	var flip *pomodoro.Notification
	timer, notification, flipped := scheduler.timer.Tick(scheduler.quotes)
	scheduler.timer = timer
	if flipped {
		flip = &notification
	}

	ids := make([]string, len(alerts))
	for index := range alerts {
		ids[index] = scheduler.emitLocked(Event{Type: EventReminderFired, Alert: &alerts[index], At: now})
	}
	var flipID string
	if flip != nil {
		flipID = scheduler.emitLocked(Event{Type: EventPomodoroChanged, Pomodoro: flip, At: now})
	}
	scheduler.emitLocked(Event{Type: EventTick, At: now})
	scheduler.mu.Unlock()

	scheduler.dispatchReminders(alerts, ids)
	scheduler.dispatchPomodoro(flip, flipID)
}

func (scheduler *Scheduler) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(scheduler.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Wall clock, not the ticker timestamp, so a suspend is noticed.
			scheduler.Step(scheduler.options.Clock())
		}
	}
}

func (scheduler *Scheduler) updatePomodoro(transition func(pomodoro.Timer) pomodoro.Timer, message string) {
	scheduler.mu.Lock()
	if !scheduler.timer.Running() {
		scheduler.mu.Unlock()
		return
	}
	now := scheduler.options.Clock()
	scheduler.timer = transition(scheduler.timer)
	scheduler.emitLocked(Event{Type: EventPomodoroChanged, At: now})
	scheduler.mu.Unlock()

	scheduler.logger.Info(message)
}

// dispatchReminders hands alerts to the notifier. ids holds the matching
// observer event IDs so the log lines can be joined with the UI side.
func (scheduler *Scheduler) dispatchReminders(alerts []reminder.Alert, ids []string) {
	for index, alert := range alerts {
		scheduler.logger.Info("reminder fired", "reminder", alert.Key, "at", alert.At, "event_id", ids[index])
		if scheduler.notifier != nil {
			scheduler.notifier.NotifyReminder(alert)
		}
	}
}

func (scheduler *Scheduler) dispatchPomodoro(notification *pomodoro.Notification, id string) {
	if notification == nil {
		return
	}
	scheduler.logger.Info("pomodoro phase", "phase", notification.Phase, "event_id", id)
	if scheduler.notifier != nil {
		scheduler.notifier.NotifyPomodoro(*notification)
	}
}

func (scheduler *Scheduler) snapshotLocked(now time.Time) Snapshot {
	return Snapshot{
		Reminders: scheduler.state.Clone().Reminders,
		Pomodoro:  scheduler.timer,
		At:        now,
	}
}

// emitLocked fans the event out to observers and returns its ID. The ID is
// assigned even without observers so dispatch logs always carry one.
func (scheduler *Scheduler) emitLocked(event Event) string {
	event.ID = uuid.NewString()
	if len(scheduler.events) == 0 {
		return event.ID
	}
	event.Snapshot = scheduler.snapshotLocked(event.At)
	for _, ch := range scheduler.events {
		select {
		case ch <- event:
		default:
		}
	}
	return event.ID
}
