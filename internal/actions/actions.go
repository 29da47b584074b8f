package actions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"deskwell/internal/ai"
	"deskwell/internal/core/model"
)

var (
	// ErrAnalyzePosture is the only error AnalyzePosture surfaces.
	ErrAnalyzePosture = errors.New("Failed to analyze posture. Please try again.")
	// ErrSpeech is the only error TextToSpeech surfaces.
	ErrSpeech = errors.New("Failed to generate speech")
)

// PostureAnalyzer is the remote posture model.
type PostureAnalyzer interface {
	AnalyzePosture(ctx context.Context, photoDataURI string) (ai.PostureResult, error)
}

// SpeechSynthesizer is the remote speech model.
type SpeechSynthesizer interface {
	TextToSpeech(ctx context.Context, text string) (ai.Speech, error)
}

// Config contains runtime options for Actions.
type Config struct {
	PostureDelay time.Duration
}

// Actions wraps the remote calls used by the UI. Raw errors are logged and
// replaced by the sentinel errors above.
type Actions struct {
	analyzer    PostureAnalyzer
	synthesizer SpeechSynthesizer
	options     Config
	logger      *slog.Logger
}

// New creates Actions. A zero PostureDelay uses the default delay.
func New(analyzer PostureAnalyzer, synthesizer SpeechSynthesizer, logger *slog.Logger, options Config) *Actions {
	if options.PostureDelay == 0 {
		options.PostureDelay = model.PostureRequestDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{
		analyzer:    analyzer,
		synthesizer: synthesizer,
		options:     options,
		logger:      logger.With("component", "actions"),
	}
}

// AnalyzePosture waits the loading delay and runs the posture model.
func (actions *Actions) AnalyzePosture(ctx context.Context, photoDataURI string) (ai.PostureResult, error) {
	if actions.options.PostureDelay > 0 {
		timer := time.NewTimer(actions.options.PostureDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			actions.logger.Warn("posture analysis cancelled", "error", ctx.Err())
			return ai.PostureResult{}, ErrAnalyzePosture
		case <-timer.C:
		}
	}

	result, err := actions.analyzer.AnalyzePosture(ctx, photoDataURI)
	if err != nil {
		actions.logger.Error("posture analysis failed", "error", err)
		return ai.PostureResult{}, ErrAnalyzePosture
	}
	return result, nil
}

// TextToSpeech synthesizes text into a playable audio data URI.
func (actions *Actions) TextToSpeech(ctx context.Context, text string) (ai.Speech, error) {
	speech, err := actions.synthesizer.TextToSpeech(ctx, text)
	if err != nil {
		actions.logger.Error("speech synthesis failed", "error", err)
		return ai.Speech{}, ErrSpeech
	}
	if speech.AudioDataURI == "" {
		actions.logger.Error("speech synthesis failed", "error", ai.ErrNoMedia)
		return ai.Speech{}, ErrSpeech
	}
	return speech, nil
}
