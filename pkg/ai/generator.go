package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseUrl     = "https://openrouter.ai/api/v1/"
	DefaultModel       = "google/gemini-2.5-flash"
	DefaultTemperature = 0.8
)

var (
	ErrMissingApiKey  = errors.New("AI API key is not configured")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrQuotaExhausted = errors.New("AI credits exhausted")
	ErrUnknownType    = errors.New("unknown generation type")
)

type Request struct {
	Prompt     string         `json:"prompt"`
	Type       GenerationType `json:"type"`
	MarketData string         `json:"marketData"`
}

type Config struct {
	BaseUrl     string
	ApiKey      string
	Model       string
	Temperature float64
}

// Generator produces trading thoughts, strategy labels and performance reviews
// through an OpenAI-compatible gateway.
type Generator struct {
	client      *openai.Client // nil without an API key
	model       string
	temperature float64
	logger      *log.Entry
}

func NewGenerator(cfg Config) *Generator {
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = DefaultBaseUrl
	}
	if !strings.HasSuffix(cfg.BaseUrl, "/") {
		cfg.BaseUrl += "/"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}

	g := &Generator{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      log.WithFields(log.Fields{"component": "ai", "model": cfg.Model}),
	}
	if cfg.ApiKey == "" {
		g.logger.Warn("AI API key is not set: generation disabled")
		return g
	}
	g.client = openai.NewClient(
		option.WithBaseURL(cfg.BaseUrl),
		option.WithAPIKey(cfg.ApiKey),
		option.WithMaxRetries(0), // 429 and 402 are surfaced to the caller as is
	)
	return g
}

func (g *Generator) Enabled() bool {
	return g.client != nil
}

func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	systemPrompt, userPrompt, err := buildPrompts(req)
	if err != nil {
		return "", err
	}
	if g.client == nil {
		return "", ErrMissingApiKey
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		}),
		Model:       openai.F(openai.ChatModel(g.model)),
		Temperature: openai.F(g.temperature),
	}
	if req.Type == TypeStrategy {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type:       openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(strategySchemaParam),
			},
		)
	}

	chatCompletion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", g.mapError(err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("no completion found")
	}
	content := strings.TrimSpace(chatCompletion.Choices[0].Message.Content)
	g.logger.Debugf("generated %v: %v", req.Type, content)

	if req.Type == TypeStrategy {
		return parseClassification(content), nil
	}
	return content, nil
}

// parseClassification reads the structured reply. Raw text is kept as the
// label for gateways that ignore both response_format and the prompt.
func parseClassification(content string) string {
	var res StrategyClassification
	if err := json.Unmarshal([]byte(content), &res); err == nil && res.Classification != "" {
		return res.Classification
	}
	return strings.Trim(content, "\"")
}

func (g *Generator) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		g.logger.Errorf("AI gateway error: %v", apiErr.StatusCode)
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusPaymentRequired:
			return ErrQuotaExhausted
		default:
			return fmt.Errorf("AI gateway error: %v", apiErr.StatusCode)
		}
	}
	return fmt.Errorf("AI gateway error: %w", err)
}
