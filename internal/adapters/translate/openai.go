package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/mvp3/tablegen/internal/domain"
)

// OpenAI translates through chat completions. Batches go out as a JSON
// array and must come back as one, same length, same order.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey), model: openai.GPT4oMini}
}

func (t *OpenAI) Translate(ctx context.Context, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	out, err := t.TranslateBatch(ctx, []string{text}, lang)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (t *OpenAI) TranslateBatch(ctx context.Context, texts []string, lang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You translate product catalog text into the language with ISO code %q. "+
					"Reply with ONLY a JSON array of translated strings, same length and order as the input.", lang),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(payload),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTranslation, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrTranslation)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var out []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		log.Error().Err(err).Str("content", content).Msg("unparseable translation reply")
		return nil, fmt.Errorf("%w: bad completion shape", domain.ErrTranslation)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: got %d translations for %d inputs", domain.ErrTranslation, len(out), len(texts))
	}
	return out, nil
}
