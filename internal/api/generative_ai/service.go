package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

// AIClient wraps the Gemini API behind the single completion call the
// enricher needs.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewAIClient(ctx context.Context, model string, temperature float32, timeout time.Duration) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &AIClient{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// GenerateContent sends a single prompt and returns the model's text. Failures
// and timeouts surface as ErrProviderUnavailable so callers can degrade
// instead of aborting.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(ai.temperature),
	}

	metrics.Get().ProviderCallsTotal.Add(ctx, 1)
	result, err := ai.client.Models.GenerateContent(callCtx, ai.model, genai.Text(prompt), config)
	if err != nil {
		metrics.Get().ProviderCallErrorsTotal.Add(ctx, 1)
		return "", fmt.Errorf("%w: generate content: %v", types.ErrProviderUnavailable, err)
	}
	return result.Text(), nil
}
