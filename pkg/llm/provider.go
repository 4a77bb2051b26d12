// Интерфейс Провайдера через который работает всё приложение.

package llm

import "context"

// Пакет llm/provider.go определяет интерфейс, который должны реализовать
// все адаптеры (OpenAI-совместимые API, Ollama и т.д.).

// Provider — абстракция над LLM API.
type Provider interface {
	// Generate принимает контекст и историю сообщений.
	// Возвращает ответ модели в унифицированном формате Message.
	// tools — опциональный список определений функций (если провайдер
	// поддерживает Function Calling) и/или GenerateOption.
	Generate(ctx context.Context, messages []Message, tools ...any) (Message, error)
}

// StreamingProvider — провайдер с поддержкой потоковой передачи ответа.
//
// Отдельный интерфейс от Provider: адаптеры могут реализовать оба
// или только базовый Provider.
type StreamingProvider interface {
	Provider

	// GenerateStream выполняет запрос с потоковой передачей ответа.
	//
	// Callback вызывается для каждой порции данных:
	//   - ChunkThinking: reasoning-контент (thinking mode)
	//   - ChunkContent:  обычный контент ответа
	//   - ChunkError:    ошибка стриминга
	//   - ChunkDone:     завершение стриминга
	//
	// Tool calls не стримятся наружу: их дельты собираются внутри
	// адаптера и возвращаются целиком в финальном Message.
	GenerateStream(
		ctx context.Context,
		messages []Message,
		callback func(StreamChunk),
		opts ...any,
	) (Message, error)
}

// StreamChunk — одна порция данных из потокового ответа.
type StreamChunk struct {
	// Type определяет тип чанка
	Type ChunkType

	// Content — накопленный текстовый контент на данный момент
	Content string

	// ReasoningContent — накопленный reasoning-контент (thinking mode)
	ReasoningContent string

	// Delta — инкрементальное изменение (для живых UI обновлений)
	Delta string

	// Done — флаг завершения стриминга
	Done bool

	// Error — ошибка (только когда Type == ChunkError)
	Error error
}

// ChunkType определяет тип стримингового чанка.
type ChunkType string

const (
	ChunkThinking ChunkType = "thinking"
	ChunkContent  ChunkType = "content"
	ChunkError    ChunkType = "error"
	ChunkDone     ChunkType = "done"
)
