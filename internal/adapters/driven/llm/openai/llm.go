// Package openai provides an answer generator backed by the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure AnswerGenerator implements the interface.
var _ driven.AnswerGenerator = (*AnswerGenerator)(nil)

// Default configuration values.
const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// answerTemperature stays low for factual, document-bound answers.
	answerTemperature = 0.1

	maxSuggestedQuestions = 5
)

const systemPrompt = `You are a document assistant that answers questions using only the supplied excerpts.

Rules:
- Base answers exclusively on the provided excerpts.
- If the excerpts do not cover the question, say so plainly.
- Use clear language a non-specialist can follow.
- For what-if questions, explain what the relevant passages imply.
- Quote or reference excerpt numbers where possible.
- Never give advice beyond what the document states.`

// Config holds configuration for the chat answer generator.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL overrides the API base URL for compatible endpoints.
	BaseURL string

	// Model is the chat model (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// AnswerGenerator produces grounded answers via chat completions.
type AnswerGenerator struct {
	client *openai.Client
	model  string
}

// NewAnswerGenerator creates a chat-backed answer generator.
func NewAnswerGenerator(cfg Config) (*AnswerGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient.Timeout = cfg.Timeout

	return &AnswerGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Answer produces an answer to the question grounded in the excerpts.
func (g *AnswerGenerator) Answer(ctx context.Context, question string, excerpts []domain.RetrievedChunk) (string, error) {
	if len(excerpts) == 0 {
		return "", domain.ErrGenerationUnavailable
	}

	var b strings.Builder
	for i, ex := range excerpts {
		fmt.Fprintf(&b, "[Excerpt %d]\n%s\n\n", i+1, ex.Content)
	}

	user := fmt.Sprintf(
		"Document excerpts:\n%s\nQuestion: %s\n\nAnswer using only the excerpts above. If they do not contain the needed information, state that clearly.",
		b.String(), question,
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: answerTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SuggestQuestions asks the model for questions a reader of the sampled
// text might have and parses the response as a list.
func (g *AnswerGenerator) SuggestQuestions(ctx context.Context, sample string) ([]string, error) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return nil, domain.ErrGenerationUnavailable
	}
	if len(sample) > 2000 {
		sample = sample[:2000]
	}

	prompt := fmt.Sprintf(
		"Based on this document excerpt, suggest %d practical questions someone might ask about the document. Format as a simple list, one question per line.\n\n%s",
		maxSuggestedQuestions, sample,
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggest questions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("suggest questions returned no choices")
	}

	questions := ParseQuestionList(resp.Choices[0].Message.Content)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in model response")
	}
	return questions, nil
}

// ParseQuestionList extracts questions from a bulleted or numbered list.
func ParseQuestionList(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		isListItem := strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") ||
			strings.HasPrefix(line, "•") || (line[0] >= '0' && line[0] <= '9')
		if !isListItem {
			continue
		}
		question := strings.TrimLeft(line, "-*• 0123456789.)")
		question = strings.TrimSpace(question)
		if strings.HasSuffix(question, "?") {
			questions = append(questions, question)
		}
		if len(questions) == maxSuggestedQuestions {
			break
		}
	}
	return questions
}

// Name identifies the generator.
func (g *AnswerGenerator) Name() string {
	return "openai/" + g.model
}

// Close releases resources.
func (g *AnswerGenerator) Close() error {
	return nil
}
