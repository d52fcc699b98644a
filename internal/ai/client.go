package ai

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/config"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// TranscriptMessage is one conversation turn handed to the inference API.
type TranscriptMessage struct {
	SenderType domain.SenderType
	Body       string
}

// Client is the contract the workflow expects from the external
// text-generation service. Implementations are stateless request/response
// wrappers; callers own the documented fallbacks on failure.
type Client interface {
	// ScoreSentiment returns a score in [-1, 1]. Non-numeric completions
	// resolve to 0; out-of-range values are clamped.
	ScoreSentiment(ctx context.Context, text string) (float64, int, error)
	// Categorize returns a label from the closed category set; anything
	// else is normalized to "other".
	Categorize(ctx context.Context, text string) (string, int, error)
	// SummarizeConversation condenses the ordered transcript.
	SummarizeConversation(ctx context.Context, messages []TranscriptMessage) (string, int, error)
	// SuggestReply drafts an agent response for review.
	SuggestReply(ctx context.Context, subject string, messages []TranscriptMessage) (string, int, error)
	// SuggestPriority maps the ticket onto a priority; out-of-set
	// completions are normalized to MEDIUM.
	SuggestPriority(ctx context.Context, subject, description string, sentiment float64) (domain.TicketPriority, int, error)
}

// openAIClient talks to an OpenAI-compatible chat-completions endpoint.
type openAIClient struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.AIConfig, logger *zap.Logger) Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout())

	return &openAIClient{
		http:   httpClient,
		model:  cfg.Model,
		logger: logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *openAIClient) complete(ctx context.Context, prompt string, temperature float64) (string, int, error) {
	var result chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: temperature,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", 0, fmt.Errorf("inference request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("inference api error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return "", 0, fmt.Errorf("inference api error: status %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return "", 0, fmt.Errorf("inference api returned no choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), result.Usage.TotalTokens, nil
}

func (c *openAIClient) ScoreSentiment(ctx context.Context, text string) (float64, int, error) {
	out, tokens, err := c.complete(ctx, sentimentPrompt(text), 0)
	if err != nil {
		return 0, tokens, err
	}
	return ClampSentiment(ParseSentiment(out)), tokens, nil
}

func (c *openAIClient) Categorize(ctx context.Context, text string) (string, int, error) {
	out, tokens, err := c.complete(ctx, categorizePrompt(text), 0)
	if err != nil {
		return "", tokens, err
	}
	return NormalizeCategory(out), tokens, nil
}

func (c *openAIClient) SummarizeConversation(ctx context.Context, messages []TranscriptMessage) (string, int, error) {
	return c.complete(ctx, summarizePrompt(messages), 0.3)
}

func (c *openAIClient) SuggestReply(ctx context.Context, subject string, messages []TranscriptMessage) (string, int, error) {
	return c.complete(ctx, suggestReplyPrompt(subject, messages), 0.7)
}

func (c *openAIClient) SuggestPriority(ctx context.Context, subject, description string, sentiment float64) (domain.TicketPriority, int, error) {
	out, tokens, err := c.complete(ctx, suggestPriorityPrompt(subject, description, sentiment), 0)
	if err != nil {
		return "", tokens, err
	}
	return NormalizePriority(out), tokens, nil
}

// ParseSentiment extracts a numeric score from a completion; anything
// unparseable resolves to 0.
func ParseSentiment(out string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// ClampSentiment bounds a score to [-1, 1].
func ClampSentiment(score float64) float64 {
	return math.Max(-1, math.Min(1, score))
}

// NormalizeCategory lowercases and validates against the closed set,
// defaulting to "other".
func NormalizeCategory(out string) string {
	category := strings.ToLower(strings.TrimSpace(out))
	if !domain.IsValidCategory(category) {
		return domain.CategoryOther
	}
	return category
}

// NormalizePriority uppercases and validates against the closed set,
// defaulting to MEDIUM.
func NormalizePriority(out string) domain.TicketPriority {
	priority := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(out)))
	if !domain.IsValidPriority(priority) {
		return domain.TicketPriorityMedium
	}
	return priority
}
