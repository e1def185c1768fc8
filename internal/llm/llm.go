// Package llm extracts structured questions from exam text with an
// OpenAI-compatible chat API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/mocktest/internal/llm/prompts"
	"github.com/pavelanni/mocktest/internal/model"
)

// ErrNoProblems is returned when the model found no questions.
var ErrNoProblems = errors.New("no problems extracted")

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api           *openai.Client
	model         string
	expectedCount int
}

// New creates a new LLM client. expectedCount is the number of questions per
// paper announced in the prompt; 0 leaves it open.
func New(baseURL, apiKey, modelName string, expectedCount int) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:           openai.NewClientWithConfig(config),
		model:         modelName,
		expectedCount: expectedCount,
	}
}

// Ping checks that the endpoint answers and serves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range list.Models {
		if m.ID == c.model {
			return nil
		}
	}
	slog.Warn("model not listed by endpoint", "model", c.model, "available", len(list.Models))
	return nil
}

// ExtractProblems asks the model for the questions in text and returns the
// validated document. Every problem's source is set to sourceName.
func (c *Client) ExtractProblems(ctx context.Context, sourceName, text string) (model.QuestionDocument, error) {
	systemPrompt, err := prompts.BuildExtractPrompt(prompts.ExtractData{
		SourceName:    sourceName,
		ExpectedCount: c.expectedCount,
	})
	if err != nil {
		return model.QuestionDocument{}, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompts.WrapExamText(text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return model.QuestionDocument{}, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.QuestionDocument{}, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "source", sourceName, "bytes", len(raw))

	var doc model.QuestionDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return model.QuestionDocument{}, fmt.Errorf("parse LLM response: %w (raw: %s)", err, truncate(raw, 500))
	}
	if err := Normalize(&doc, sourceName); err != nil {
		return model.QuestionDocument{}, err
	}
	if c.expectedCount > 0 && len(doc.Problems) != c.expectedCount {
		slog.Warn("unexpected problem count", "source", sourceName, "got", len(doc.Problems), "want", c.expectedCount)
	}
	return doc, nil
}

// Normalize cleans up a model-produced document in place: answers are
// upper-cased, the source is forced to sourceName, and every problem is
// validated. All problems with errors are reported together.
func Normalize(doc *model.QuestionDocument, sourceName string) error {
	if len(doc.Problems) == 0 {
		return ErrNoProblems
	}
	var errs []error
	for i := range doc.Problems {
		p := &doc.Problems[i]
		p.Source = sourceName
		if c, err := model.ParseChoice(string(p.Answer)); err == nil {
			p.Answer = c
		}
		if err := validateProblem(*p); err != nil {
			errs = append(errs, fmt.Errorf("problem %d (#%d): %w", i, p.Number, err))
		}
	}
	return errors.Join(errs...)
}

func validateProblem(p model.Question) error {
	if p.Number <= 0 {
		return fmt.Errorf("number %d is not positive", p.Number)
	}
	switch p.Subject {
	case "", model.SubjectProcess, model.SubjectIndustry:
	default:
		return fmt.Errorf("unknown subject %q", p.Subject)
	}
	for _, c := range model.Choices {
		if strings.TrimSpace(p.Options.Get(c)) == "" {
			return fmt.Errorf("option %s is empty", c)
		}
	}
	return p.Validate()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
