// Package strategy строит запрос стратегического чата и передаёт его языковой модели.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/llmprovider"
)

const (
	DefaultRole      = "Executive"
	DefaultObjective = "Strategic Planning"
)

const systemPromptTemplate = `You are an elite executive coach and strategic advisor working with a %s whose current focus is %s.

Give direct, practical guidance grounded in proven leadership and strategy frameworks.
Structure your answer with clear headings or numbered steps when it helps.
Tie every recommendation back to the stated objective and close with concrete next actions.
Keep the tone confident and concise, the way a trusted board-level advisor would speak.`

// Completer языковая модель.
type Completer interface {
	Complete(ctx context.Context, req llmprovider.ChatRequest) (*llmprovider.ChatResult, error)
}

// Turn реплика из истории диалога клиента.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request вопрос пользователя вместе с контекстом.
type Request struct {
	Message   string
	Role      string
	Objective string
	History   []Turn
}

// Reply ответ модели.
type Reply struct {
	Response string
	Model    string
}

// Service стратегический чат.
type Service struct {
	llm Completer
}

// New создаёт Service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// SystemPrompt возвращает системный промпт для роли и цели; пустые значения заменяются умолчаниями.
func SystemPrompt(role, objective string) string {
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}
	if strings.TrimSpace(objective) == "" {
		objective = DefaultObjective
	}
	return fmt.Sprintf(systemPromptTemplate, role, objective)
}

// Ask отправляет вопрос модели и возвращает её ответ без изменений.
func (s *Service) Ask(ctx context.Context, req Request) (*Reply, error) {
	const op = "services.strategy.Ask"
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.InvalidInput("Message is required")
	}

	history := make([]llmprovider.Turn, 0, len(req.History))
	for _, turn := range req.History {
		role := llmprovider.Role(turn.Role)
		if role != llmprovider.RoleUser && role != llmprovider.RoleAssistant {
			continue
		}
		history = append(history, llmprovider.Turn{Role: role, Content: turn.Content})
	}

	res, err := s.llm.Complete(ctx, llmprovider.ChatRequest{
		System:  SystemPrompt(req.Role, req.Objective),
		History: history,
		Message: req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Reply{Response: res.Text, Model: res.Model}, nil
}
