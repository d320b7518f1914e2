package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

const analystSystemPrompt = `You are an expert prompt analyst. You will receive a prompt and its intended use-case.
Analyze the prompt based on these criteria: %s
For each criterion, provide a rating from 1-5 and explain why.
Provide a score out of 10 and a revised improved prompt.
Also identify key topics, entities, and style features used.
Reply in JSON format with the following structure:
{
    "criteria": {
        "Criterion1": { "rating": 1-5, "explanation": "..." },
        ...
    },
    "score": 1-10,
    "suggestions": ["suggestion1", ...],
    "improvedPrompt": "improved version",
    "topics": ["topic1", ...],
    "entities": ["entity1", ...],
    "styles": ["style1", ...]
}`

// OpenAIReviewer delegates scoring to a chat-completion model. Network
// or format failures are returned as-is; the pipeline surfaces them to
// the caller without recording anything.
type OpenAIReviewer struct {
	client *openai.Client
	model  string
}

func NewOpenAIReviewer(apiKey, model, baseURL string) *OpenAIReviewer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIReviewer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// apiResult is the wire shape the model is asked to produce.
type apiResult struct {
	Criteria map[string]struct {
		Rating      int    `json:"rating"`
		Explanation string `json:"explanation"`
	} `json:"criteria"`
	Score          float64  `json:"score"`
	Suggestions    []string `json:"suggestions"`
	ImprovedPrompt string   `json:"improvedPrompt"`
	Topics         []string `json:"topics"`
	Entities       []string `json:"entities"`
	Styles         []string `json:"styles"`
}

func (r *OpenAIReviewer) Review(ctx context.Context, prompt string, promptType models.PromptType) (models.ReviewResult, error) {
	if prompt == "" || promptType == "" {
		return models.ReviewResult{}, fmt.Errorf("prompt and type are required")
	}

	names := make([]string, 0, 6)
	for _, w := range weightsFor(promptType) {
		names = append(names, w.Name)
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(analystSystemPrompt, strings.Join(names, ", ")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("PROMPT TYPE: %s\nPROMPT: %s\n\nAnalyze this prompt as per instructions.", promptType, prompt),
			},
		},
	})
	if err != nil {
		return models.ReviewResult{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.ReviewResult{}, fmt.Errorf("no response choices")
	}

	raw, err := extractFirstJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return models.ReviewResult{}, err
	}

	var parsed apiResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.ReviewResult{}, fmt.Errorf("decode model response: %w", err)
	}

	criteria := make(map[string]int, len(parsed.Criteria))
	for name, c := range parsed.Criteria {
		criteria[name] = c.Rating
	}

	return models.ReviewResult{
		Prompt:         prompt,
		Type:           promptType,
		Score:          int(math.Round(parsed.Score * 10)),
		Criteria:       criteria,
		Suggestions:    parsed.Suggestions,
		ImprovedPrompt: parsed.ImprovedPrompt,
		Topics:         parsed.Topics,
		Entities:       parsed.Entities,
		Styles:         parsed.Styles,
	}, nil
}

// extractFirstJSON returns the first balanced JSON object in a model
// response, tolerating prose or fences around it.
func extractFirstJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("no complete JSON object found in response")
}
