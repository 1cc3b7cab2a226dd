package suitability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const DefaultModel = "gpt-4o-mini"

// Classifier rates resume profiles per role using OpenAI chat completions
type Classifier struct {
	client *openai.Client
	model  string
}

// NewClassifier creates a new classifier
func NewClassifier(apiKey, model string) *Classifier {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	if model == "" {
		model = DefaultModel
	}

	return &Classifier{
		client: &client,
		model:  model,
	}
}

var _ screening.RoleClassifier = (*Classifier)(nil)

const systemPrompt = `You are a recruiting assistant that rates how suitable a candidate is for job roles. Return ONLY valid JSON.`

// Classify asks the model for a 0-100 percentage and a short reason per role
func (c *Classifier) Classify(ctx context.Context, profile screening.Profile, roles []screening.Role) (map[screening.Role]screening.Assessment, error) {
	if len(roles) == 0 {
		return map[screening.Role]screening.Assessment{}, nil
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(profile, roles)),
		},
		Model: openai.ChatModel(c.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return nil, fmt.Errorf("openai classification error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	return parseAssessments(completion.Choices[0].Message.Content)
}

func buildPrompt(profile screening.Profile, roles []screening.Role) string {
	var b strings.Builder
	b.WriteString("Rate the candidate for each role below.\n\nRoles:\n")
	for _, r := range roles {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString("\nResume fields:\n")
	for _, f := range screening.AllFields() {
		if v := profile.Fields.Get(f); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f, v)
		}
	}

	if letter := strings.TrimSpace(profile.CoverLetter); letter != "" {
		letter = truncateRunes(letter, maxCoverLetterRunes)
		b.WriteString("\nCover letter:\n")
		b.WriteString(letter)
		b.WriteString("\n")
	}

	b.WriteString(`
Respond with a JSON object keyed by the exact role name:
{"<role>": {"percentage": number between 0 and 100, "reason": string (one sentence)}}`)
	return b.String()
}

const maxCoverLetterRunes = 4000

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func parseAssessments(content string) (map[screening.Role]screening.Assessment, error) {
	var raw map[string]screening.Assessment
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse classification JSON: %w", err)
	}
	out := make(map[screening.Role]screening.Assessment, len(raw))
	for role, a := range raw {
		out[screening.Role(strings.TrimSpace(role))] = a
	}
	return out, nil
}
