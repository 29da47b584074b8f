package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"deskwell/internal/media"
)

// ErrNoMedia indicates the speech model answered without audio.
var ErrNoMedia = errors.New("no media returned from speech model")

// Speech holds playable audio.
type Speech struct {
	AudioDataURI string
}

// TextToSpeech synthesizes text. Raw PCM answers are wrapped as WAV so the
// returned data URI is directly playable.
func (client *Client) TextToSpeech(ctx context.Context, text string) (Speech, error) {
	if strings.TrimSpace(text) == "" {
		return Speech{}, fmt.Errorf("text to speech: empty text")
	}

	parts, err := client.generate(ctx, client.config.SpeechModel, []*genai.Part{
		genai.NewPartFromText(text),
	}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: client.config.SpeechVoice},
			},
		},
	})
	if err != nil {
		return Speech{}, fmt.Errorf("text to speech: %w", err)
	}

	var audio *genai.Blob
	for _, item := range parts {
		if item != nil && item.InlineData != nil && len(item.InlineData.Data) > 0 {
			audio = item.InlineData
			break
		}
	}
	if audio == nil {
		return Speech{}, fmt.Errorf("text to speech: %w", ErrNoMedia)
	}

	if !media.IsPCM(audio.MIMEType) {
		return Speech{AudioDataURI: media.EncodeDataURI(audio.MIMEType, audio.Data)}, nil
	}
	wav, err := media.WrapPCMAsWAV(audio.Data, media.PCMFormatFromMIME(audio.MIMEType))
	if err != nil {
		return Speech{}, fmt.Errorf("text to speech: %w", err)
	}
	return Speech{AudioDataURI: media.EncodeDataURI("audio/wav", wav)}, nil
}
