package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/siherrmann/eventract/model"
)

// DefaultInferrer creates an InferFunc backed by the Anthropic Messages API.
// The API key is read from ANTHROPIC_API_KEY. The model and completion
// bound come from the configuration.
//
// The returned function performs exactly one blocking call per invocation,
// with no retries; transient and hard failures are both surfaced as typed
// InferenceError values for the caller to act on. Timeouts belong to the
// caller's context and surface the same way.
func DefaultInferrer(config *model.Config) (InferFunc, error) {
	if config == nil {
		config = model.DefaultConfig()
	}
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return func(ctx context.Context, prompt string) (string, error) {
		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(config.Model),
			MaxTokens: int64(config.MaxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return "", wrapInferenceError(err)
		}

		var b strings.Builder
		for _, block := range message.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		return b.String(), nil
	}, nil
}

// wrapInferenceError maps collaborator failures onto the error taxonomy.
func wrapInferenceError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		kind := InferenceUnavailable
		switch apierr.StatusCode {
		case http.StatusTooManyRequests:
			kind = InferenceRateLimited
		case http.StatusRequestEntityTooLarge:
			kind = InferenceRequestTooLarge
		}
		return &InferenceError{Kind: kind, StatusCode: apierr.StatusCode, Err: err}
	}
	return &InferenceError{Kind: InferenceUnavailable, Err: err}
}
