package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deskwell/internal/ai"
	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/reminder"
)

type recorder struct {
	mu       sync.Mutex
	toasts   []string
	played   []string
	phrases  []string
	speech   ai.Speech
	speakErr error
	playErr  error
}

func (r *recorder) Toast(title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, title+"|"+description)
}

func (r *recorder) TextToSpeech(ctx context.Context, text string) (ai.Speech, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phrases = append(r.phrases, text)
	return r.speech, r.speakErr
}

func (r *recorder) PlaySound(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, "sound")
	return nil
}

func (r *recorder) PlayDataURI(ctx context.Context, dataURI string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.playErr != nil {
		return r.playErr
	}
	r.played = append(r.played, dataURI)
	return nil
}

func newSink(r *recorder, spoken bool) *Sink {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(r, r, r, logger, Config{SpokenAlerts: spoken, AlertTimeout: time.Second})
}

func eyeAlert() reminder.Alert {
	return reminder.Alert{
		Key:          "eye",
		Title:        "Time for an eye break! 👀",
		Description:  "Look at something 20 feet away for 20 seconds.",
		SpokenPhrase: "Time for an eye break.",
	}
}

func TestReminderPlaysSoundWhenSpokenAlertsOff(t *testing.T) {
	r := &recorder{}
	sink := newSink(r, false)

	sink.NotifyReminder(eyeAlert())
	sink.Close()

	assert.Equal(t, []string{"sound"}, r.played)
	assert.Empty(t, r.phrases)
	assert.Equal(t, []string{"Time for an eye break! 👀|Look at something 20 feet away for 20 seconds."}, r.toasts)
}

func TestReminderSpeaksPhrase(t *testing.T) {
	r := &recorder{speech: ai.Speech{AudioDataURI: "data:audio/wav;base64,AA=="}}
	sink := newSink(r, true)

	sink.NotifyReminder(eyeAlert())
	sink.Close()

	assert.Equal(t, []string{"Time for an eye break."}, r.phrases)
	assert.Equal(t, []string{"data:audio/wav;base64,AA=="}, r.played)
}

func TestSpeechFailureFallsBackToSound(t *testing.T) {
	r := &recorder{speakErr: errors.New("Failed to generate speech")}
	sink := newSink(r, true)

	sink.NotifyReminder(eyeAlert())
	sink.Close()

	assert.Equal(t, []string{"sound"}, r.played)
	assert.Len(t, r.toasts, 1)
}

func TestPlaybackFailureFallsBackToSound(t *testing.T) {
	r := &recorder{speech: ai.Speech{AudioDataURI: "data:audio/wav;base64,AA=="}, playErr: errors.New("device busy")}
	sink := newSink(r, true)

	sink.NotifyReminder(eyeAlert())
	sink.Close()

	assert.Equal(t, []string{"sound"}, r.played)
}

func TestToggleSpokenAlerts(t *testing.T) {
	r := &recorder{}
	sink := newSink(r, true)
	sink.SetSpokenAlerts(false)
	assert.False(t, sink.SpokenAlerts())

	sink.NotifyReminder(eyeAlert())
	sink.Close()
	assert.Empty(t, r.phrases)
}

func TestPomodoroNotification(t *testing.T) {
	r := &recorder{}
	sink := newSink(r, true)

	sink.NotifyPomodoro(pomodoro.Notification{Phase: pomodoro.PhaseBreak, Title: "Break time! ☕", Description: "Well done is better than well said."})
	sink.Notify("Reminders reset", "All reminder timers have been restarted.")
	sink.Close()

	assert.Equal(t, []string{"sound"}, r.played)
	assert.Equal(t, []string{
		"Break time! ☕|Well done is better than well said.",
		"Reminders reset|All reminder timers have been restarted.",
	}, r.toasts)
}

func TestNoAudioAfterClose(t *testing.T) {
	r := &recorder{}
	sink := newSink(r, false)
	sink.Close()

	sink.NotifyReminder(eyeAlert())
	assert.Empty(t, r.played)
	assert.Len(t, r.toasts, 1)
}

func TestCloseRacesWithAlerts(t *testing.T) {
	for i := 0; i < 200; i++ {
		r := &recorder{}
		sink := newSink(r, false)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sink.NotifyReminder(eyeAlert())
		}()
		go func() {
			defer wg.Done()
			sink.Close()
		}()
		wg.Wait()
		sink.Close()

		r.mu.Lock()
		assert.LessOrEqual(t, len(r.played), 1)
		assert.Len(t, r.toasts, 1)
		r.mu.Unlock()
	}
}
