package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	ModelName   string  `envconfig:"GEMINI_MODEL_NAME" default:"gemini-1.5-flash"`
	MaxTokens   int32   `envconfig:"ORACLE_MAX_TOKENS" default:"50"`
	Temperature float32 `envconfig:"ORACLE_TEMPERATURE" default:"0.6"`
	TopP        float32 `envconfig:"ORACLE_TOP_P" default:"0.9"`
	TopK        int32   `envconfig:"ORACLE_TOP_K" default:"40"`
}

type IGemini interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type geminiClient struct {
	cfg    Config
	client *genai.Client
}

func NewGeminiClient(cfg Config) (IGemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		cfg:    cfg,
		client: client,
	}, nil
}

func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.cfg.ModelName)
	model.SetMaxOutputTokens(g.cfg.MaxTokens)
	model.SetTemperature(g.cfg.Temperature)
	model.SetTopP(g.cfg.TopP)
	model.SetTopK(g.cfg.TopK)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", errors.New("unexpected response format from Gemini API")
		}
		sb.WriteString(string(text))
	}

	return sb.String(), nil
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
