package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/foodiespot/foodiespot-ai/pkg/events"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/models"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// LLMInvocationStep — шаг вызова модели.
//
// Отправляет модели текущий контекст (системный промпт + история) вместе
// с определениями инструментов и добавляет ответ ассистента в историю.
// Если провайдер поддерживает стриминг, reasoning и контент транслируются
// через emitter по мере генерации.
type LLMInvocationStep struct {
	// modelRegistry — реестр LLM провайдеров
	modelRegistry *models.Registry

	// defaultModel — имя модели по умолчанию для fallback
	defaultModel string

	// registry — реестр инструментов для получения определений
	registry *tools.Registry

	// systemPrompt — системный промпт агента
	systemPrompt string

	// emitter — для трансляции streaming событий (может быть nil)
	emitter events.Emitter
}

// Name возвращает имя шага.
func (s *LLMInvocationStep) Name() string {
	return "llm_invocation"
}

// Execute выполняет один вызов модели.
//
// Возвращает:
//   - StepResult{ActionBreak, SignalFinalAnswer} — ответ без tool calls
//   - StepResult{ActionContinue, SignalNone} — модель запросила инструменты
//   - StepResult с ошибкой — провайдер недоступен или вызов не удался
func (s *LLMInvocationStep) Execute(ctx context.Context, chainCtx *ChainContext) StepResult {
	provider, modelDef, _, err := s.modelRegistry.GetWithFallback(chainCtx.Input().Model, s.defaultModel)
	if err != nil {
		return StepResult{}.WithError(fmt.Errorf("get model provider: %w", err))
	}

	messages := chainCtx.BuildContextMessages(s.systemPrompt)

	opts := []any{s.registry.GetDefinitions()}
	if modelDef.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(modelDef.Temperature))
	}
	if modelDef.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(modelDef.MaxTokens))
	}

	response, err := s.generate(ctx, provider, messages, opts)
	if err != nil {
		return StepResult{}.WithError(fmt.Errorf("llm invocation: %w", err))
	}

	if err := chainCtx.AppendMessage(response); err != nil {
		return StepResult{}.WithError(fmt.Errorf("append assistant message: %w", err))
	}

	if !response.HasToolCalls() {
		return StepResult{Action: ActionBreak, Signal: SignalFinalAnswer}
	}
	return StepResult{Action: ActionContinue, Signal: SignalNone}
}

// generate вызывает провайдер, предпочитая стриминг когда он доступен
// и есть кому транслировать события.
func (s *LLMInvocationStep) generate(
	ctx context.Context,
	provider llm.Provider,
	messages []llm.Message,
	opts []any,
) (llm.Message, error) {
	streamer, ok := provider.(llm.StreamingProvider)
	if !ok || s.emitter == nil {
		return provider.Generate(ctx, messages, opts...)
	}

	callback := func(chunk llm.StreamChunk) {
		switch chunk.Type {
		case llm.ChunkThinking:
			s.emitter.Emit(ctx, events.Event{
				Type: events.EventThinkingChunk,
				Data: events.ThinkingChunkData{
					Chunk:       chunk.Delta,
					Accumulated: chunk.ReasoningContent,
				},
				Timestamp: time.Now(),
			})
		case llm.ChunkError:
			s.emitter.Emit(ctx, events.Event{
				Type:      events.EventError,
				Data:      events.ErrorData{Err: chunk.Error},
				Timestamp: time.Now(),
			})
		}
	}

	return streamer.GenerateStream(ctx, messages, callback, opts...)
}
