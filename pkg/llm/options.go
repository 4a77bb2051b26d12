// Функциональные опции для параметров генерации.
package llm

// GenerateOptions — параметры генерации LLM.
// Значения задаются при инициализации (из config.yaml) и могут
// переопределяться в рантайме через функциональные опции.
type GenerateOptions struct {
	// Model — идентификатор модели (например, "qwen3-32b")
	Model string

	// Temperature управляет случайностью ответов (0.0 = детерминизм)
	Temperature float64

	// MaxTokens ограничивает длину ответа
	MaxTokens int

	// Format — формат ответа ("json_object" для структурированного вывода)
	Format string
}

// GenerateOption — функциональная опция для GenerateOptions.
type GenerateOption func(*GenerateOptions)

// WithModel переопределяет модель для конкретного вызова.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature переопределяет температуру генерации.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens переопределяет лимит токенов ответа.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// WithFormat задаёт формат ответа ("json_object" для JSON mode).
func WithFormat(format string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Format = format
	}
}

// ApplyGenerateOptions выбирает GenerateOption из смешанного списка opts
// и применяет их к base. Используется адаптерами: в opts могут лежать
// и определения инструментов, и опции генерации.
func ApplyGenerateOptions(base GenerateOptions, opts ...any) GenerateOptions {
	for _, opt := range opts {
		if genOpt, ok := opt.(GenerateOption); ok {
			genOpt(&base)
		}
	}
	return base
}
