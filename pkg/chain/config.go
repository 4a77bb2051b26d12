package chain

import "time"

// Значения по умолчанию для конфигурации цикла.
const (
	// DefaultMaxToolRounds — бюджет раундов инструментов на один запрос.
	// Локальная модель может зациклиться на повторных вызовах одних и тех же
	// инструментов; бюджет гарантирует завершение за ограниченное время.
	DefaultMaxToolRounds = 5

	// DefaultToolTimeout — защитный таймаут на выполнение одного инструмента
	DefaultToolTimeout = 30 * time.Second
)

// Режимы генерации финального ответа.
const (
	// AnswerModeLoop — модель сама формулирует финальный ответ в том же цикле
	AnswerModeLoop = "loop"

	// AnswerModeResponder — финальный ответ формулирует отдельно
	// промптированный responder по транскрипту инструментов
	AnswerModeResponder = "responder"
)

// BudgetExceededMessage — фиксированный ответ пользователю при исчерпании
// бюджета раундов. Возвращается как обычный ответ, не как ошибка.
const BudgetExceededMessage = "I reached the maximum number of tool calls for this request " +
	"and could not finish it. Please try again with a more specific question, " +
	"or continue in a new message."

// DefaultSystemPrompt — встроенный системный промпт агента FoodieSpot.
const DefaultSystemPrompt = `You are the FoodieSpot assistant, helping users discover FoodieSpot restaurant locations in Bengaluru and make reservations.

You have access to tools for looking up locations, cuisines, ambience and for making reservations. Follow these rules:

1. Always confirm the area with get_matching_locations before using other area-based tools. Area names must match exactly what get_matching_locations returns.
2. When a tool returns multiple options, present them to the user as a numbered list and ask them to pick one.
3. Base every factual statement (locations, cuisines, ambience, seating capacity) on tool results. Never invent restaurants or details.
4. For reservations, collect the restaurant name, customer name, a 10-digit phone number, number of people, and the time before calling make_reservation.
5. If a tool reports an error, follow the instruction in its response instead of retrying with the same arguments.
6. Keep answers short and friendly. Ask one clarifying question at a time.`

// ResponderSystemPrompt — промпт строгого responder-а (answer_mode: responder).
// Responder видит только запрос пользователя и транскрипт инструментов.
const ResponderSystemPrompt = `You are the FoodieSpot assistant. Below is a transcript of tool calls and their results gathered for the user's request.

Write the final answer to the user using ONLY facts present in the transcript. Do not invent restaurants, cuisines, capacities or confirmation details. If the transcript does not contain the information needed to answer, say so explicitly and suggest what to clarify. Keep the answer short and friendly.`

// CycleConfig — конфигурация ReAct цикла.
type CycleConfig struct {
	// SystemPrompt — системный промпт агента (пусто = DefaultSystemPrompt)
	SystemPrompt string

	// MaxToolRounds — бюджет раундов инструментов (0 = DefaultMaxToolRounds)
	MaxToolRounds int

	// ToolTimeout — таймаут одного инструмента (0 = DefaultToolTimeout)
	ToolTimeout time.Duration

	// AnswerMode — режим финального ответа: AnswerModeLoop или AnswerModeResponder
	AnswerMode string
}

// withDefaults возвращает копию конфигурации с заполненными умолчаниями.
func (c CycleConfig) withDefaults() CycleConfig {
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.MaxToolRounds <= 0 {
		c.MaxToolRounds = DefaultMaxToolRounds
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
	if c.AnswerMode == "" {
		c.AnswerMode = AnswerModeLoop
	}
	return c
}
