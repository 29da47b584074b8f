package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"deskwell/internal/ai"
	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
)

const defaultAlertTimeout = 30 * time.Second

// Toaster shows a desktop notification.
type Toaster interface {
	Toast(title, description string)
}

// Synthesizer turns a phrase into playable audio.
type Synthesizer interface {
	TextToSpeech(ctx context.Context, text string) (ai.Speech, error)
}

// Player plays the notification sound or a synthesized clip.
type Player interface {
	PlaySound(ctx context.Context) error
	PlayDataURI(ctx context.Context, dataURI string) error
}

// Config contains runtime options for the Sink.
type Config struct {
	SpokenAlerts bool
	AlertTimeout time.Duration
}

// Sink performs notification side effects. Audio runs on its own goroutines;
// failures are logged and never returned to the caller.
type Sink struct {
	toaster     Toaster
	synthesizer Synthesizer
	player      Player
	logger      *slog.Logger
	timeout     time.Duration
	spoken      atomic.Bool

	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Sink. synthesizer may be nil, in which case alerts always use the sound.
func New(toaster Toaster, synthesizer Synthesizer, player Player, logger *slog.Logger, options Config) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if options.AlertTimeout <= 0 {
		options.AlertTimeout = defaultAlertTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	sink := &Sink{
		toaster:     toaster,
		synthesizer: synthesizer,
		player:      player,
		logger:      logger.With("component", "notify"),
		timeout:     options.AlertTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
	sink.spoken.Store(options.SpokenAlerts)
	return sink
}

// SetSpokenAlerts switches between spoken phrases and the plain sound.
func (sink *Sink) SetSpokenAlerts(enabled bool) {
	sink.spoken.Store(enabled)
}

// SpokenAlerts reports whether spoken alerts are on.
func (sink *Sink) SpokenAlerts() bool {
	return sink.spoken.Load()
}

// NotifyReminder plays the alert and shows the reminder toast.
func (sink *Sink) NotifyReminder(alert reminder.Alert) {
	sink.logger.Info("reminder fired", "reminder", alert.Key)
	phrase := ""
	if sink.spoken.Load() {
		phrase = alert.SpokenPhrase
	}
	sink.goAudio(func(ctx context.Context) {
		sink.alert(ctx, phrase)
	})
	sink.toast(alert.Title, alert.Description)
}

// NotifyPomodoro announces a pomodoro phase change.
func (sink *Sink) NotifyPomodoro(notification pomodoro.Notification) {
	sink.logger.Info("pomodoro phase changed", "phase", notification.Phase)
	sink.goAudio(sink.playSound)
	sink.toast(notification.Title, notification.Description)
}

// Notify shows a plain toast.
func (sink *Sink) Notify(title, description string) {
	sink.toast(title, description)
}

// Close cancels pending audio and waits for it to stop. Alerts that arrive
// afterwards only show their toast.
func (sink *Sink) Close() {
	sink.mu.Lock()
	sink.closed = true
	sink.cancel()
	sink.mu.Unlock()
	sink.wg.Wait()
}

func (sink *Sink) alert(ctx context.Context, phrase string) {
	if phrase == "" || sink.synthesizer == nil {
		sink.playSound(ctx)
		return
	}

	speech, err := sink.synthesizer.TextToSpeech(ctx, phrase)
	if err != nil {
		sink.logger.Warn("spoken alert unavailable, playing sound", "error", err)
		sink.playSound(ctx)
		return
	}
	if err := sink.player.PlayDataURI(ctx, speech.AudioDataURI); err != nil {
		sink.logger.Warn("spoken alert playback failed, playing sound", "error", err)
		sink.playSound(ctx)
	}
}

func (sink *Sink) playSound(ctx context.Context) {
	if err := sink.player.PlaySound(ctx); err != nil {
		sink.logger.Warn("notification sound failed", "error", err)
	}
}

func (sink *Sink) goAudio(play func(ctx context.Context)) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.closed {
		return
	}
	sink.wg.Add(1)
	go func() {
		defer sink.wg.Done()
		ctx, cancel := context.WithTimeout(sink.ctx, sink.timeout)
		defer cancel()
		play(ctx)
	}()
}

func (sink *Sink) toast(title, description string) {
	if sink.toaster != nil {
		sink.toaster.Toast(title, description)
	}
}
