package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
)

type Config struct {
	APIKey         string
	BaseURL        string
	TextModel      string
	ImageModel     string
	EditModel      string
	ImageSize      string
	RequestsPerSec float64
	Burst          int
	Timeout        time.Duration
}

// OpenAIClient talks to the provider. Retries are left to the caller; the
// SDK's own retry loop is disabled.
type OpenAIClient struct {
	client     openai.Client
	limiter    *rate.Limiter
	textModel  string
	imageModel string
	editModel  string
	imageSize  string
	configured bool
}

func NewOpenAI(cfg Config) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &OpenAIClient{
		client:     openai.NewClient(opts...),
		limiter:    rate.NewLimiter(limit, burst),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		editModel:  cfg.EditModel,
		imageSize:  cfg.ImageSize,
		configured: strings.TrimSpace(cfg.APIKey) != "",
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.TextRequest) (string, error) {
	if !c.configured {
		return "", domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:    msgs,
		Model:       openai.ChatModel(c.textModel),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", domain.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if !c.configured {
		return nil, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.imageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(c.imageSize),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	return decodeImage(resp, err)
}

// GenerateFromReference sends the client's picture to the image edit
// endpoint so the result starts from it.
func (c *OpenAIClient) GenerateFromReference(ctx context.Context, prompt string, reference []byte) ([]byte, error) {
	if !c.configured {
		return nil, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	mt := mimetype.Detect(reference)
	resp, err := c.client.Images.Edit(ctx, openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(reference), "reference"+mt.Extension(), mt.String()),
		},
		Prompt:         prompt,
		Model:          openai.ImageModel(c.editModel),
		N:              openai.Int(1),
		Size:           openai.ImageEditParamsSize(c.imageSize),
		ResponseFormat: openai.ImageEditParamsResponseFormatB64JSON,
	})
	return decodeImage(resp, err)
}

func decodeImage(resp *openai.ImagesResponse, err error) ([]byte, error) {
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, domain.ErrEmptyResponse
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// classify maps provider errors onto the domain errors callers branch on.
func classify(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("openai: %w", err)
	}
	switch {
	case apiErr.Code == "content_policy_violation",
		apiErr.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "safety system"):
		return fmt.Errorf("%w: %s", domain.ErrContentPolicy, apiErr.Message)
	case apiErr.Code == "insufficient_quota", apiErr.Code == "billing_hard_limit_reached":
		return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, apiErr.Message)
	default:
		return fmt.Errorf("openai status %d: %w", apiErr.StatusCode, err)
	}
}
