package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"deskwell/internal/media"
)

// DefaultSampleRate is the speaker output rate.
const DefaultSampleRate beep.SampleRate = 44100

// stopGrace bounds how long a cancelled clip waits for the output to let go.
const stopGrace = 250 * time.Millisecond

// ErrUnsupportedFormat indicates audio that neither wav nor mp3 can decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Output plays a streamer. Play must not block until playback ends.
type Output interface {
	Play(streamer beep.Streamer) error
}

// Stopper is implemented by outputs that can drop queued audio at once.
type Stopper interface {
	Stop()
}

// Player decodes audio clips and plays them one at a time.
type Player struct {
	output Output
	rate   beep.SampleRate
	sound  []byte
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a Player on the system speaker. sound is the WAV used by PlaySound.
func New(sound []byte, logger *slog.Logger) *Player {
	return NewWithOutput(&speakerOutput{rate: DefaultSampleRate}, DefaultSampleRate, sound, logger)
}

// NewWithOutput creates a Player on a custom output.
func NewWithOutput(output Output, rate beep.SampleRate, sound []byte, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		output: output,
		rate:   rate,
		sound:  sound,
		logger: logger.With("component", "audio"),
	}
}

// PlaySound plays the notification sound and waits for it to finish.
func (player *Player) PlaySound(ctx context.Context) error {
	return player.play(ctx, "audio/wav", player.sound)
}

// PlayDataURI plays a base64 WAV or MP3 data URI and waits for it to finish.
// Raw PCM is wrapped by the ai package before it gets here.
func (player *Player) PlayDataURI(ctx context.Context, dataURI string) error {
	clip, err := media.ParseDataURI(dataURI)
	if err != nil {
		return err
	}
	return player.play(ctx, clip.MIMEType, clip.Data)
}

func (player *Player) play(ctx context.Context, mimeType string, data []byte) error {
	streamer, format, err := Decode(mimeType, data)
	if err != nil {
		return err
	}
	defer streamer.Close()

	// One clip at a time so overlapping reminders do not talk over each other.
	player.mu.Lock()
	defer player.mu.Unlock()

	done := make(chan struct{})
	var source beep.Streamer = streamer
	if format.SampleRate != player.rate {
		source = beep.Resample(4, format.SampleRate, player.rate, streamer)
	}
	sequence := beep.Seq(&cancellable{ctx: ctx, streamer: source}, beep.Callback(func() {
		close(done)
	}))

	if err := player.output.Play(sequence); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if stopper, ok := player.output.(Stopper); ok {
			stopper.Stop()
		}
		select {
		case <-done:
		case <-time.After(stopGrace):
			player.logger.Warn("audio output did not release cancelled clip")
		}
		return ctx.Err()
	}
}

// Decode picks a decoder by MIME type.
func Decode(mimeType string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "wav"):
		streamer, format, err := wav.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode wav: %w", err)
		}
		return streamer, format, nil
	case strings.Contains(mimeType, "mpeg"), strings.Contains(mimeType, "mp3"):
		streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode mp3: %w", err)
		}
		return streamer, format, nil
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

// cancellable ends the stream once ctx is done.
type cancellable struct {
	ctx      context.Context
	streamer beep.Streamer
}

func (c *cancellable) Stream(samples [][2]float64) (int, bool) {
	if c.ctx.Err() != nil {
		return 0, false
	}
	return c.streamer.Stream(samples)
}

func (c *cancellable) Err() error {
	return c.streamer.Err()
}

type speakerOutput struct {
	rate beep.SampleRate
	once sync.Once
	err  error
}

func (output *speakerOutput) Play(streamer beep.Streamer) error {
	output.once.Do(func() {
		output.err = speaker.Init(output.rate, output.rate.N(100*time.Millisecond))
	})
	if output.err != nil {
		return output.err
	}
	speaker.Play(streamer)
	return nil
}

func (output *speakerOutput) Stop() {
	if output.err == nil {
		speaker.Clear()
	}
}
