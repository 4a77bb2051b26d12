package chain

import (
	"context"
	"fmt"

	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/models"
)

// ResponderStep — строго промптированный генератор финального ответа
// (answer_mode: responder).
//
// Responder не видит полную историю цикла: только запрос пользователя
// и транскрипт инструментов. Контракт промпта запрещает факты, которых
// нет в транскрипте. Фаза выполнения инструментов у обоих режимов общая,
// responder — это только другой способ сформулировать последний ответ.
type ResponderStep struct {
	// modelRegistry — реестр LLM провайдеров
	modelRegistry *models.Registry

	// defaultModel — имя модели по умолчанию для fallback
	defaultModel string
}

// Name возвращает имя шага.
func (s *ResponderStep) Name() string {
	return "responder"
}

// GenerateAnswer формулирует финальный ответ по транскрипту инструментов.
//
// Вызов идёт без определений инструментов: responder не имеет права
// запрашивать новые tool calls.
func (s *ResponderStep) GenerateAnswer(ctx context.Context, chainCtx *ChainContext) (string, error) {
	provider, modelDef, _, err := s.modelRegistry.GetWithFallback(chainCtx.Input().Model, s.defaultModel)
	if err != nil {
		return "", fmt.Errorf("get model provider: %w", err)
	}

	transcript := chainCtx.ToolTranscript()
	if transcript == "" {
		transcript = "(no tools were called)"
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: ResponderSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(
			"User request:\n%s\n\nTool transcript:\n%s",
			chainCtx.Input().Query, transcript,
		)},
	}

	opts := []any{}
	if modelDef.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(modelDef.Temperature))
	}
	if modelDef.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(modelDef.MaxTokens))
	}

	response, err := provider.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("responder invocation: %w", err)
	}

	return response.Content, nil
}
