// Package chain реализует ReAct цикл диалогового агента.
//
// Цикл устроен из шагов (Step): вызов модели, выполнение инструментов,
// опционально — отдельный финальный responder. Шаги общаются через
// ChainContext (thread-safe история сообщений) и возвращают StepResult
// с типизированным сигналом для управляющего цикла.
package chain

import "context"

// NextAction определяет что делать циклу после выполнения шага.
type NextAction int

const (
	// ActionContinue — продолжить выполнение цикла
	ActionContinue NextAction = iota

	// ActionBreak — завершить цикл (финальный ответ получен)
	ActionBreak

	// ActionError — критическая ошибка, выполнение прервано
	ActionError
)

// ExecutionSignal уточняет причину завершения шага или цикла.
type ExecutionSignal int

const (
	// SignalNone — обычное продолжение работы
	SignalNone ExecutionSignal = iota

	// SignalFinalAnswer — модель дала ответ без tool calls
	SignalFinalAnswer

	// SignalBudgetExceeded — исчерпан бюджет раундов инструментов
	SignalBudgetExceeded
)

// StepResult — результат выполнения одного шага цикла.
type StepResult struct {
	Action NextAction
	Signal ExecutionSignal
	Err    error
}

// WithError помечает результат как критическую ошибку.
func (r StepResult) WithError(err error) StepResult {
	r.Action = ActionError
	r.Err = err
	return r
}

// Step — один шаг ReAct цикла.
//
// Шаг читает и дополняет историю через ChainContext и сообщает циклу,
// продолжать ли выполнение. Ошибки возвращаются в StepResult, не паникой.
type Step interface {
	// Name возвращает имя шага (для логирования).
	Name() string

	// Execute выполняет шаг.
	Execute(ctx context.Context, chainCtx *ChainContext) StepResult
}
