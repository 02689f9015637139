package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client using the chat completions API
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. Extra request options
// (for example option.WithBaseURL) are applied after the API key.
func NewOpenAIClient(config *Config, apiKey string, opts ...option.RequestOption) *OpenAIClient {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &OpenAIClient{
		client: openai.NewClient(all...),
		config: config,
	}
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, tier ModelTier, jsonMode bool) (string, error) {
	modelName, err := modelFor(c.config, tier)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(modelName),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature:         openai.Float(c.config.Temperature),
		MaxCompletionTokens: openai.Int(c.config.maxTokens()),
	}
	if jsonMode {
		params.Messages = []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(jsonInstruction),
			openai.UserMessage(prompt),
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return Retry(ctx, c.config.retryConfig(), func() (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			wrapped := fmt.Errorf("openai completion failed: %w", err)
			var apiErr *openai.Error
			if errors.As(err, &apiErr) && isTransientStatus(apiErr.StatusCode) {
				return "", Transient(wrapped)
			}
			if looksTransient(err) {
				return "", Transient(wrapped)
			}
			return "", wrapped
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai: empty choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *OpenAIClient) Close() error {
	return nil
}
