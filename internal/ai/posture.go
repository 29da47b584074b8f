package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"deskwell/internal/media"
)

// ErrEmptyAnalysis indicates the model returned no usable text.
var ErrEmptyAnalysis = errors.New("empty posture analysis")

const posturePrompt = `You are an AI posture analysis assistant. Analyze the user's posture based on the provided image and provide personalized stretch recommendations.

Respond with JSON containing "postureAnalysis" (analysis of the user posture based on the image) and "stretchRecommendations" (personalized stretch recommendations based on the analysis).`

// PostureResult is the model's view of the photo.
type PostureResult struct {
	PostureAnalysis        string `json:"postureAnalysis"`
	StretchRecommendations string `json:"stretchRecommendations"`
}

var postureSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"postureAnalysis":        {Type: genai.TypeString},
		"stretchRecommendations": {Type: genai.TypeString},
	},
	Required: []string{"postureAnalysis", "stretchRecommendations"},
}

// AnalyzePosture sends a photo data URI to the model and returns its analysis.
func (client *Client) AnalyzePosture(ctx context.Context, photoDataURI string) (PostureResult, error) {
	photo, err := media.ParseDataURI(photoDataURI)
	if err != nil {
		return PostureResult{}, fmt.Errorf("analyze posture: %w", err)
	}

	parts, err := client.generate(ctx, client.config.PostureModel, []*genai.Part{
		genai.NewPartFromText(posturePrompt),
		genai.NewPartFromBytes(photo.Data, photo.MIMEType),
	}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   postureSchema,
	})
	if err != nil {
		return PostureResult{}, fmt.Errorf("analyze posture: %w", err)
	}

	var text strings.Builder
	for _, item := range parts {
		if item != nil {
			text.WriteString(item.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return PostureResult{}, fmt.Errorf("analyze posture: %w", ErrEmptyAnalysis)
	}

	var result PostureResult
	if err := json.Unmarshal([]byte(text.String()), &result); err != nil {
		return PostureResult{}, fmt.Errorf("analyze posture: parse output: %w", err)
	}
	if result.PostureAnalysis == "" && result.StretchRecommendations == "" {
		return PostureResult{}, fmt.Errorf("analyze posture: %w", ErrEmptyAnalysis)
	}
	return result, nil
}
