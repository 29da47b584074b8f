package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL      = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion   = "v1beta"
	DefaultPostureModel = "gemini-2.0-flash"
	DefaultSpeechModel  = "gemini-2.5-flash-preview-tts"
	DefaultSpeechVoice  = "Algenib"
)

// ErrMissingAPIKey indicates the client was built without credentials.
var ErrMissingAPIKey = errors.New("ai api key is not configured")

// Config holds the generative model endpoint settings.
type Config struct {
	APIKey       string
	BaseURL      string
	PostureModel string
	SpeechModel  string
	SpeechVoice  string
	HTTPClient   *http.Client
}

// Client calls the Gemini API through the genai SDK. The SDK client is
// built on first use so a missing key only fails the call that needs it.
type Client struct {
	config Config

	mu     sync.Mutex
	models *genai.Models
}

// NewClient creates a Client, filling unset fields with defaults.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/") + "/"
	if config.PostureModel == "" {
		config.PostureModel = DefaultPostureModel
	}
	if config.SpeechModel == "" {
		config.SpeechModel = DefaultSpeechModel
	}
	if config.SpeechVoice == "" {
		config.SpeechVoice = DefaultSpeechVoice
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{config: config}
}

func (client *Client) modelsService(ctx context.Context) (*genai.Models, error) {
	if client.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.models != nil {
		return client.models, nil
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     client.config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client.config.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    client.config.BaseURL,
			APIVersion: DefaultAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	client.models = sdk.Models
	return client.models, nil
}

func (client *Client) generate(ctx context.Context, model string, parts []*genai.Part, config *genai.GenerateContentConfig) ([]*genai.Part, error) {
	models, err := client.modelsService(ctx)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	response, err := models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", model, err)
	}
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, nil
	}
	return response.Candidates[0].Content.Parts, nil
}
