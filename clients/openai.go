package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/timecode"
)

// DefaultModel is used when NewOpenAI gets an empty model name.
const DefaultModel = openai.ChatModelGPT4oMini

// GenerateSchema reflects a strict JSON schema for structured outputs.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

type transcriptionResponse struct {
	Words []timedWord `json:"words" jsonschema_description:"Every word of the script in order, punctuation attached as written."`
}

type timedWord struct {
	Word      string `json:"word" jsonschema_description:"The word exactly as it appears in the script."`
	StartTime string `json:"startTime" jsonschema_description:"Start of the spoken word as HH:MM:SS,mmm."`
	EndTime   string `json:"endTime" jsonschema_description:"End of the spoken word as HH:MM:SS,mmm."`
}

var transcriptionSchema = GenerateSchema[transcriptionResponse]()

// OpenAI estimates word-level narration timings for a script with a chat
// model constrained to a JSON schema.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key not set")
	}
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAI) Transcribe(ctx context.Context, script string) ([]project.TranscriptionWord, error) {
	prompt := fmt.Sprintf(`You are timing a voiceover for a short vertical video.
Estimate when each word of the script below is spoken by a narrator reading at a natural pace.
Return every word in order with startTime and endTime formatted as HH:MM:SS,mmm (comma before the milliseconds).
Times start at 00:00:00,000 and never decrease.

Script:
%s`, script)

	resp, err := getStructuredResponse[transcriptionResponse](ctx, o.client, o.model, prompt, transcriptionSchema)
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	words := make([]project.TranscriptionWord, 0, len(resp.Words))
	for i, w := range resp.Words {
		if _, err := timecode.Parse(w.StartTime); err != nil {
			return nil, fmt.Errorf("openai transcription word %d: %w", i, err)
		}
		if _, err := timecode.Parse(w.EndTime); err != nil {
			return nil, fmt.Errorf("openai transcription word %d: %w", i, err)
		}
		words = append(words, project.TranscriptionWord(w))
	}
	return words, nil
}

func getStructuredResponse[T any](ctx context.Context, client openai.Client, model, prompt string, schema interface{}) (*T, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "structured_response",
		Description: openai.String("Structured data response"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	raw := chatCompletion.Choices[0].Message.Content
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse OpenAI JSON response: %w", err)
	}
	return &out, nil
}
