// Базовые типы — универсальный язык общения с моделями.
package llm

// Message — одно сообщение в истории чата.
//
// Роль "assistant" может содержать ToolCalls — запросы на вызов инструментов.
// Роль "tool" несёт результат выполнения инструмента и обязана указывать
// ToolCallID того вызова, на который отвечает.
type Message struct {
	Role    string // "system", "user", "assistant", "tool"
	Content string // Текстовое содержимое (может быть пустым при tool calls)

	// ToolCalls — запросы модели на вызов инструментов (только Role == "assistant")
	ToolCalls []ToolCall

	// ToolCallID — идентификатор вызова, на который отвечает это сообщение
	// (только Role == "tool")
	ToolCallID string
}

// ToolCall — запрос модели на вызов одного инструмента.
type ToolCall struct {
	ID   string // Уникальный идентификатор вызова (присваивает провайдер)
	Name string // Имя инструмента из реестра
	Args string // Аргументы в виде сырой JSON строки
}

// HasToolCalls сообщает, запросила ли модель вызов инструментов.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Константы ролей для удобства
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)
