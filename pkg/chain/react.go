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

// ReActCycle — оркестрация одного хода диалога.
//
// Цикл: вызов модели → если модель запросила инструменты, выполнить их
// и вернуться к модели → иначе ответ финальный. Число раундов
// инструментов ограничено бюджетом MaxToolRounds: при исчерпании цикл
// завершается фиксированным сообщением пользователю, а не ошибкой.
//
// ReActCycle — неизменяемый шаблон: один экземпляр можно использовать
// для любого числа прогонов, состояние каждого прогона живёт в
// собственном ChainContext.
type ReActCycle struct {
	modelRegistry *models.Registry
	registry      *tools.Registry
	defaultModel  string
	config        CycleConfig
	emitter       events.Emitter
}

// CycleOutput — результат одного прогона цикла.
type CycleOutput struct {
	// Result — финальный текст для пользователя (без reasoning-разметки)
	Result string

	// Reasoning — извлечённый reasoning-контент (<think> блоки)
	Reasoning string

	// Rounds — число выполненных раундов инструментов
	Rounds int

	// Duration — длительность прогона
	Duration time.Duration

	// Signal — причина завершения: SignalFinalAnswer или SignalBudgetExceeded
	Signal ExecutionSignal

	// Messages — итоговая история (вход + все сообщения прогона)
	Messages []llm.Message
}

// NewReActCycle создаёт шаблон цикла.
//
// emitter может быть nil: тогда события не транслируются.
func NewReActCycle(
	modelRegistry *models.Registry,
	registry *tools.Registry,
	defaultModel string,
	config CycleConfig,
	emitter events.Emitter,
) *ReActCycle {
	return &ReActCycle{
		modelRegistry: modelRegistry,
		registry:      registry,
		defaultModel:  defaultModel,
		config:        config.withDefaults(),
		emitter:       emitter,
	}
}

// Execute выполняет один ход диалога: от запроса пользователя до
// финального ответа.
//
// Ошибку возвращает только при отказе инфраструктуры (провайдер
// недоступен, нарушен протокол сообщений). Ошибки инструментов и
// исчерпание бюджета ошибками не являются: первые возвращаются модели
// текстом, второе становится фиксированным финальным ответом.
func (c *ReActCycle) Execute(ctx context.Context, input CycleInput) (CycleOutput, error) {
	start := time.Now()

	chainCtx := NewChainContext(input)
	if err := chainCtx.AppendMessage(llm.Message{Role: llm.RoleUser, Content: input.Query}); err != nil {
		return CycleOutput{}, fmt.Errorf("append user message: %w", err)
	}

	c.emit(ctx, events.Event{
		Type:      events.EventThinking,
		Data:      events.ThinkingData{Query: input.Query},
		Timestamp: time.Now(),
	})

	llmStep := &LLMInvocationStep{
		modelRegistry: c.modelRegistry,
		defaultModel:  c.defaultModel,
		registry:      c.registry,
		systemPrompt:  c.config.SystemPrompt,
		emitter:       c.emitter,
	}
	toolStep := &ToolExecutionStep{
		registry:    c.registry,
		toolTimeout: c.config.ToolTimeout,
		emitter:     c.emitter,
	}

	rounds := 0
	signal := SignalNone

	for {
		if err := ctx.Err(); err != nil {
			return c.fail(ctx, err)
		}

		res := llmStep.Execute(ctx, chainCtx)
		if res.Action == ActionError {
			return c.fail(ctx, res.Err)
		}
		if res.Signal == SignalFinalAnswer {
			signal = SignalFinalAnswer
			break
		}

		res = toolStep.Execute(ctx, chainCtx)
		if res.Action == ActionError {
			return c.fail(ctx, res.Err)
		}

		rounds++
		if rounds >= c.config.MaxToolRounds {
			signal = SignalBudgetExceeded
			break
		}
	}

	output, err := c.finalize(ctx, chainCtx, signal)
	if err != nil {
		return c.fail(ctx, err)
	}
	output.Rounds = rounds
	output.Duration = time.Since(start)

	c.emit(ctx, events.Event{
		Type:      events.EventMessage,
		Data:      events.MessageData{Content: output.Result},
		Timestamp: time.Now(),
	})
	c.emit(ctx, events.Event{
		Type:      events.EventDone,
		Data:      events.MessageData{Content: output.Result},
		Timestamp: time.Now(),
	})
	return output, nil
}

// finalize формирует финальный ответ по сигналу завершения.
//
// При исчерпании бюджета фиксированное сообщение добавляется в историю
// как ответ ассистента: следующий ход диалога должен видеть, чем
// закончился этот. Сообщение бюджета показывается дословно в обоих
// режимах ответа.
func (c *ReActCycle) finalize(ctx context.Context, chainCtx *ChainContext, signal ExecutionSignal) (CycleOutput, error) {
	if signal == SignalBudgetExceeded {
		if err := chainCtx.AppendMessage(llm.Message{
			Role:    llm.RoleAssistant,
			Content: BudgetExceededMessage,
		}); err != nil {
			return CycleOutput{}, err
		}
		return CycleOutput{
			Result:   BudgetExceededMessage,
			Signal:   signal,
			Messages: chainCtx.GetMessages(),
		}, nil
	}

	content := ""
	if last := chainCtx.GetLastMessage(); last != nil {
		content = last.Content
	}

	if c.config.AnswerMode == AnswerModeResponder {
		responder := &ResponderStep{
			modelRegistry: c.modelRegistry,
			defaultModel:  c.defaultModel,
		}
		answer, err := responder.GenerateAnswer(ctx, chainCtx)
		if err != nil {
			return CycleOutput{}, err
		}
		if err := chainCtx.ReplaceLastAssistantContent(answer); err != nil {
			return CycleOutput{}, err
		}
		content = answer
	}

	reasoning, visible := llm.ParseThinking(content)
	return CycleOutput{
		Result:    visible,
		Reasoning: reasoning,
		Signal:    signal,
		Messages:  chainCtx.GetMessages(),
	}, nil
}

// fail транслирует ошибку наблюдателям и возвращает её вызывающему.
func (c *ReActCycle) fail(ctx context.Context, err error) (CycleOutput, error) {
	c.emit(ctx, events.Event{
		Type:      events.EventError,
		Data:      events.ErrorData{Err: err},
		Timestamp: time.Now(),
	})
	return CycleOutput{}, err
}

func (c *ReActCycle) emit(ctx context.Context, event events.Event) {
	if c.emitter != nil {
		c.emitter.Emit(ctx, event)
	}
}
