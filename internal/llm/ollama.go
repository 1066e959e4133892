package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/tahcohcat/coach-pro/config"
	"github.com/tahcohcat/coach-pro/internal/logger"
)

type OllamaClient struct {
	client *api.Client
	config *config.OllamaConfig
	logger *logger.Log
}

func NewOllamaClient(cfg *config.OllamaConfig) (*OllamaClient, error) {
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q: scheme and host required", cfg.Host)
	}

	return &OllamaClient{
		client: api.NewClient(base, http.DefaultClient),
		config: cfg,
		logger: logger.New(),
	}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, system string, turns []Turn, message string) (string, error) {
	shouldStream := false

	// Ollama's generate endpoint takes a single prompt, so the recent
	// turns are rendered inline above the new message.
	var prompt strings.Builder
	for _, t := range turns {
		prompt.WriteString(t.Role)
		prompt.WriteString(": ")
		prompt.WriteString(t.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("user: ")
	prompt.WriteString(message)

	req := &api.GenerateRequest{
		Model:  c.config.Model,
		System: system,
		Prompt: prompt.String(),
		Stream: &shouldStream,
		Options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	}

	// Create context with timeout
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
	defer cancel()

	c.logger.Debugf("Generating coach reply with model %s", c.config.Model)

	var response string

	f := func(g api.GenerateResponse) error {
		response = g.Response
		return nil
	}

	err := c.client.Generate(timeoutCtx, req, f)
	if err != nil {
		c.logger.WithError(err).Error("Failed to generate response")
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	return response, nil
}

func (c *OllamaClient) IsModelAvailable(ctx context.Context) error {
	models, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range models.Models {
		if model.Name == c.config.Model {
			return nil
		}
	}

	return fmt.Errorf("model %s not found. Available models: %v", c.config.Model, ollamaModelNames(models.Models))
}

func ollamaModelNames(models []api.ListModelResponse) []string {
	names := make([]string, len(models))
	for i, model := range models {
		names[i] = model.Name
	}
	return names
}
