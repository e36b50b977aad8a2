// Package llm wraps the external text-generation service used by the assistant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when no generation backend is configured.
var ErrUnavailable = errors.New("llm: text generation is not configured")

// Generator produces a reply to message, steered by a system prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, message string) (string, error)
}

// unavailable is the Generator used when no API key is set.
type unavailable struct{}

// NewUnavailable returns a Generator that always fails with ErrUnavailable.
func NewUnavailable() Generator { return unavailable{} }

func (unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

// models is the subset of genai.Models used for generation.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates text through the Gemini API.
type Gemini struct {
	models models
	model  string
}

// NewGemini creates a Gemini client for the given model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

// Generate sends message with systemPrompt as the system instruction and
// returns the trimmed text of the first candidate.
func (g *Gemini) Generate(ctx context.Context, systemPrompt, message string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(message), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("generate content: empty response from model")
	}
	return text, nil
}
