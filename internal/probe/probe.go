// internal/probe/probe.go
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"

	"clawdeck/internal/catalog"
	"clawdeck/internal/database"
)

// Probe prompt: one short round-trip, cheap on any model.
const testPrompt = "Reply with a single word: pong"
const testMaxTokens = 64

// Result is the observable outcome of one connectivity test against the
// primary model. Failures carry the raw error text; no interpretation.
type Result struct {
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// Prober issues single round-trip test requests. Clients are constructed
// per call because endpoint and key come from the entry under test.
type Prober struct {
	timeout time.Duration
}

// New creates a prober with the given per-request timeout.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{timeout: timeout}
}

// Test sends one request to the given model through the provider's
// configured endpoint and measures the round trip.
func (p *Prober) Test(ctx context.Context, provider *database.AIProvider, model *database.ProviderModel, apiKey string) Result {
	result := Result{Provider: provider.Name, Model: model.ID}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	var response string
	var err error
	switch provider.APIType {
	case catalog.DialectAnthropic:
		response, err = p.testAnthropic(ctx, provider.BaseURL, apiKey, model.ID)
	case catalog.DialectOpenAI, "":
		response, err = p.testOpenAI(ctx, provider.BaseURL, apiKey, model.ID)
	default:
		err = fmt.Errorf("unsupported api type: %s", provider.APIType)
	}

	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Response = response
	return result
}

// testOpenAI runs one chat completion against an openai-completions
// compatible endpoint.
func (p *Prober) testOpenAI(ctx context.Context, baseURL, apiKey, modelID string) (string, error) {
	opts := []openaioption.RequestOption{openaioption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(testPrompt),
		},
		MaxTokens: openai.Int(testMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

// testAnthropic runs one message round trip against an anthropic-messages
// compatible endpoint.
func (p *Prober) testAnthropic(ctx context.Context, baseURL, apiKey, modelID string) (string, error) {
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: testMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(testPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content string
	for _, block := range message.Content {
		content += block.Text
	}
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}
