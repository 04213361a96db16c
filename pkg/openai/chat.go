package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

type Config struct {
	APIKey      string  `envconfig:"OPENAI_API_KEY"`
	Model       string  `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-4o-mini"`
	BaseURL     string  `envconfig:"OPENAI_BASE_URL"`
	MaxTokens   int     `envconfig:"ORACLE_MAX_TOKENS" default:"50"`
	Temperature float32 `envconfig:"ORACLE_TEMPERATURE" default:"0.6"`
	TopP        float32 `envconfig:"ORACLE_TOP_P" default:"0.9"`
}

type IChatGPT interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type chatGPTService struct {
	client *openai.Client
	cfg    Config
}

// NewChatGPT talks to the OpenAI API, or to any compatible server when
// BaseURL is set (vLLM, Ollama, LM Studio).
func NewChatGPT(cfg Config) (IChatGPT, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("openai API key or base URL is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	return &chatGPTService{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

func (c *chatGPTService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by chat completion")
	}

	return resp.Choices[0].Message.Content, nil
}
