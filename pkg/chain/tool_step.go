package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/foodiespot/foodiespot-ai/pkg/events"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// ToolExecutionStep — шаг выполнения инструментов.
//
// Выполняет tool calls из последнего assistant сообщения строго
// последовательно, в порядке запроса модели. Результат каждого
// инструмента добавляется в историю tool-сообщением с ToolCallID
// исходного вызова, чтобы модель могла сопоставить многоинструментные
// раунды.
//
// Ошибки инструментов не прерывают шаг: Registry.Invoke возвращает
// их текстом, и модель решает что делать дальше.
type ToolExecutionStep struct {
	// registry — реестр инструментов
	registry *tools.Registry

	// toolTimeout — защитный таймаут на один инструмент
	toolTimeout time.Duration

	// emitter — для событий о вызовах инструментов (может быть nil)
	emitter events.Emitter
}

// Name возвращает имя шага.
func (s *ToolExecutionStep) Name() string {
	return "tool_execution"
}

// Execute выполняет все tool calls из последнего ответа модели.
func (s *ToolExecutionStep) Execute(ctx context.Context, chainCtx *ChainContext) StepResult {
	lastMsg := chainCtx.GetLastMessage()
	if lastMsg == nil || lastMsg.Role != llm.RoleAssistant {
		return StepResult{}.WithError(fmt.Errorf("no assistant message found"))
	}

	for _, tc := range lastMsg.ToolCalls {
		s.emit(ctx, events.Event{
			Type:      events.EventToolCall,
			Data:      events.ToolCallData{ToolName: tc.Name, Args: tc.Args},
			Timestamp: time.Now(),
		})

		result, duration := s.invoke(ctx, tc)

		s.emit(ctx, events.Event{
			Type:      events.EventToolResult,
			Data:      events.ToolResultData{ToolName: tc.Name, Result: result, Duration: duration},
			Timestamp: time.Now(),
		})

		if err := chainCtx.AppendMessage(llm.Message{
			Role:       llm.RoleTool,
			ToolCallID: tc.ID,
			Content:    result,
		}); err != nil {
			return StepResult{}.WithError(fmt.Errorf("append tool result: %w", err))
		}
	}

	return StepResult{Action: ActionContinue, Signal: SignalNone}
}

// invoke выполняет один инструмент под защитным таймаутом.
func (s *ToolExecutionStep) invoke(ctx context.Context, tc llm.ToolCall) (string, time.Duration) {
	toolCtx := ctx
	if s.toolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, s.toolTimeout)
		defer cancel()
	}

	start := time.Now()
	result := s.registry.Invoke(toolCtx, tc.Name, tc.Args)
	return result, time.Since(start)
}

func (s *ToolExecutionStep) emit(ctx context.Context, event events.Event) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, event)
	}
}
