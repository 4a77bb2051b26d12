package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/foodiespot/foodiespot-ai/pkg/llm"
)

// CycleInput — входные данные одного прогона цикла.
type CycleInput struct {
	// Query — новое сообщение пользователя
	Query string

	// History — история предыдущих ходов диалога (без системного промпта)
	History []llm.Message

	// Model — имя модели из конфигурации (пусто = модель по умолчанию)
	Model string
}

// ChainContext — thread-safe история сообщений одного прогона цикла.
//
// Контекст принадлежит одному прогону: шаги читают и дополняют его
// последовательно, но AppendMessage защищён мьютексом, потому что
// observers и UI могут читать историю конкурентно.
type ChainContext struct {
	mu       sync.Mutex
	input    CycleInput
	messages []llm.Message
}

// NewChainContext создаёт контекст, засеянный историей из input.
func NewChainContext(input CycleInput) *ChainContext {
	messages := make([]llm.Message, len(input.History))
	copy(messages, input.History)

	return &ChainContext{
		input:    input,
		messages: messages,
	}
}

// Input возвращает входные данные прогона.
func (c *ChainContext) Input() CycleInput {
	return c.input
}

// AppendMessage добавляет сообщение в историю.
//
// Сообщения роли "tool" обязаны отвечать на конкретный tool call:
// ToolCallID должен присутствовать в последнем assistant сообщении
// с tool calls. Нарушение порядка ломает протокол Function Calling,
// поэтому отклоняется ошибкой.
func (c *ChainContext) AppendMessage(msg llm.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Role {
	case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
	case llm.RoleTool:
		if msg.ToolCallID == "" {
			return fmt.Errorf("tool message requires ToolCallID")
		}
		if !c.hasPendingToolCall(msg.ToolCallID) {
			return fmt.Errorf("tool message %q does not match any tool call in the preceding assistant message", msg.ToolCallID)
		}
	default:
		return fmt.Errorf("unknown message role %q", msg.Role)
	}

	c.messages = append(c.messages, msg)
	return nil
}

// hasPendingToolCall проверяет, что id есть в последнем assistant
// сообщении с tool calls. Вызывается под мьютексом.
func (c *ChainContext) hasPendingToolCall(id string) bool {
	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Role != llm.RoleAssistant {
			continue
		}
		for _, tc := range m.ToolCalls {
			if tc.ID == id {
				return true
			}
		}
		return false
	}
	return false
}

// GetMessages возвращает копию текущей истории.
func (c *ChainContext) GetMessages() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// GetLastMessage возвращает копию последнего сообщения или nil.
func (c *ChainContext) GetLastMessage() *llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == 0 {
		return nil
	}
	msg := c.messages[len(c.messages)-1]
	return &msg
}

// ReplaceLastAssistantContent заменяет текст последнего assistant
// сообщения. Используется в режиме responder: сформулированный по
// транскрипту ответ встаёт на место чернового ответа советчика, чтобы
// история хранила ровно один финальный ответ ассистента.
func (c *ChainContext) ReplaceLastAssistantContent(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) == 0 {
		return fmt.Errorf("history is empty")
	}
	last := &c.messages[len(c.messages)-1]
	if last.Role != llm.RoleAssistant {
		return fmt.Errorf("last message is %q, not assistant", last.Role)
	}
	last.Content = content
	return nil
}

// BuildContextMessages формирует сообщения для LLM вызова:
// системный промпт первым, затем история в причинном порядке.
func (c *ChainContext) BuildContextMessages(systemPrompt string) []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]llm.Message, 0, len(c.messages)+1)
	if systemPrompt != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}
	out = append(out, c.messages...)
	return out
}

// ToolTranscript форматирует выполненные за прогон раунды инструментов
// в текстовый транскрипт для responder-а.
//
// В транскрипт попадают только сообщения текущего прогона (после
// последнего user сообщения): tool calls ассистента и их результаты.
func (c *ChainContext) ToolTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := 0
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == llm.RoleUser {
			start = i + 1
			break
		}
	}

	var b strings.Builder
	for _, m := range c.messages[start:] {
		switch m.Role {
		case llm.RoleAssistant:
			for _, tc := range m.ToolCalls {
				fmt.Fprintf(&b, "CALL %s(%s)\n", tc.Name, tc.Args)
			}
		case llm.RoleTool:
			fmt.Fprintf(&b, "RESULT %s\n", m.Content)
		}
	}
	return b.String()
}
