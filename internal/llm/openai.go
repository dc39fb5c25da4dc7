package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAI generates artifacts with the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
	opts   Options
}

// NewOpenAI creates an OpenAI backend. BaseURL may point at any compatible server.
func NewOpenAI(opts Options) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		model:  model,
		opts:   opts,
	}, nil
}

// Name identifies the backend and model.
func (o *OpenAI) Name() string {
	return "openai/" + o.model
}

// Generate sends the prompt as the user message after the system prompt.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if o.opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(o.opts.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: messages,
	}
	if o.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.opts.MaxTokens))
	}
	if o.opts.Temperature != nil {
		params.Temperature = openai.Float(*o.opts.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
