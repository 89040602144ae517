// Package llmprovider — клиент OpenAI Chat Completions для стратегического чата.
// Один запрос — одна попытка: повторы SDK отключены.
package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

// Provider имя провайдера для логов, метрик и ошибок.
const Provider = "OpenAI"

const (
	maxTokens   = 1000
	temperature = 0.7
)

// Role роль реплики в истории диалога.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn одна реплика истории диалога.
type Turn struct {
	Role    Role
	Content string
}

// ChatRequest запрос к модели.
type ChatRequest struct {
	System  string
	History []Turn
	Message string
}

// ChatResult ответ модели.
type ChatResult struct {
	Text  string
	Model string
}

// Client обращается к OpenAI.
type Client struct {
	api        openai.Client
	model      string
	configured bool
}

// NewClient создаёт клиент OpenAI.
func NewClient(cfg config.OpenAI, httpClient *http.Client) *Client {
	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &Client{
		api:        api,
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

// Complete отправляет системный промпт, историю и сообщение пользователя
// и возвращает текст ответа как есть.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	const op = "llmprovider.Complete"
	if !c.configured {
		return nil, apperr.Config("OPENAI_API_KEY")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(req.System))
	for _, turn := range req.History {
		switch turn.Role {
		case RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Message))

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = apiErr.Message
			}
			return nil, fmt.Errorf("%s: %w", op, apperr.Upstream(Provider, apiErr.StatusCode, body))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.Upstream(Provider, http.StatusOK, "empty choices"))
	}

	return &ChatResult{
		Text:  completion.Choices[0].Message.Content,
		Model: completion.Model,
	}, nil
}
