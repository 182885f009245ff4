// Package llm generates startup ideas with an OpenAI chat model constrained to a JSON schema.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
)

const schemaName = "business_ideas_response"

// ideasSchema mirrors entities.Idea. Strict mode requires every property to be listed as required
// and additional properties to be disallowed.
var ideasSchema = jsonschema.Definition{
	Type:                 jsonschema.Object,
	AdditionalProperties: false,
	Required:             []string{"ideas"},
	Properties: map[string]jsonschema.Definition{
		"ideas": {
			Type:        jsonschema.Array,
			Description: fmt.Sprintf("List of exactly %d business ideas", entities.IdeasPerBatch),
			Items: &jsonschema.Definition{
				Type:                 jsonschema.Object,
				AdditionalProperties: false,
				Required:             []string{"name", "pitch", "audience", "revenue_model"},
				Properties: map[string]jsonschema.Definition{
					"name":          {Type: jsonschema.String, Description: "The startup name"},
					"pitch":         {Type: jsonschema.String, Description: "A one-paragraph pitch for the startup"},
					"audience":      {Type: jsonschema.String, Description: "The target audience"},
					"revenue_model": {Type: jsonschema.String, Description: "The suggested revenue model"},
				},
			},
		},
	},
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	client      chatClient
	model       string
	temperature float32
}

// NewGenerator builds a generator for the given model. baseURL may be empty for the public API.
func NewGenerator(apiKey, baseURL, model string, temperature float64) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
	}
}

// GenerateIdeas sends the prompt and returns exactly entities.IdeasPerBatch validated ideas.
// The response is checked against the batch contract before it is returned; nothing is retried.
func (g *Generator) GenerateIdeas(ctx context.Context, prompt string) ([]entities.Idea, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &ideasSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExternalCall, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", common.ErrExternalCall)
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("%w: model refused: %s", common.ErrExternalCall, msg.Refusal)
	}
	if msg.Content == "" {
		return nil, fmt.Errorf("%w: model returned no content", common.ErrExternalCall)
	}

	return entities.DecodeIdeas([]byte(msg.Content))
}
