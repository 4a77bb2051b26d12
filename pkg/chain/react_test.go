package chain

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/events"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/models"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// mockProvider is a scripted llm.Provider: it returns responses in order
// and repeats the last one when the script runs out.
type mockProvider struct {
	responses []llm.Message
	calls     int
	err       error
}

func (m *mockProvider) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	m.calls++
	if m.err != nil {
		return llm.Message{}, m.err
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// echoTool is a trivial tool that echoes its arguments.
type echoTool struct{}

func (echoTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "echo",
		Description: "Echo the arguments back",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
	}
}

func (echoTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return "echo:" + argsJSON, nil
}

// streamingMockProvider additionally implements llm.StreamingProvider,
// feeding the callback a fixed number of thinking chunks.
type streamingMockProvider struct {
	mockProvider
	chunks int
}

func (m *streamingMockProvider) GenerateStream(
	ctx context.Context,
	messages []llm.Message,
	callback func(llm.StreamChunk),
	opts ...any,
) (llm.Message, error) {
	for i := 0; i < m.chunks; i++ {
		callback(llm.StreamChunk{Type: llm.ChunkThinking, Delta: "x", ReasoningContent: strings.Repeat("x", i+1)})
	}
	return m.Generate(ctx, messages, opts...)
}

// newTestCycle wires a cycle around the scripted provider.
func newTestCycle(t *testing.T, provider llm.Provider, cfg CycleConfig) *ReActCycle {
	return newTestCycleWithEmitter(t, provider, cfg, nil)
}

func newTestCycleWithEmitter(t *testing.T, provider llm.Provider, cfg CycleConfig, emitter events.Emitter) *ReActCycle {
	t.Helper()

	modelRegistry := models.NewRegistry()
	if err := modelRegistry.Register("test-model", config.ModelDef{ModelName: "test"}, provider); err != nil {
		t.Fatalf("register model: %v", err)
	}

	registry := tools.NewRegistry()
	if err := registry.Register(echoTool{}); err != nil {
		t.Fatalf("register tool: %v", err)
	}

	return NewReActCycle(modelRegistry, registry, "test-model", cfg, emitter)
}

func assistantToolCall(id string) llm.Message {
	return llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{ID: id, Name: "echo", Args: `{"text":"hi"}`},
		},
	}
}

func TestExecuteDirectAnswer(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "Hello! How can I help?"},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "hi"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if out.Result != "Hello! How can I help?" {
		t.Errorf("unexpected result: %q", out.Result)
	}
	if out.Signal != SignalFinalAnswer {
		t.Errorf("expected SignalFinalAnswer, got %v", out.Signal)
	}
	if out.Rounds != 0 {
		t.Errorf("expected 0 tool rounds, got %d", out.Rounds)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 LLM call, got %d", provider.calls)
	}

	// История: user → assistant
	if len(out.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out.Messages))
	}
	if out.Messages[0].Role != llm.RoleUser || out.Messages[1].Role != llm.RoleAssistant {
		t.Errorf("unexpected roles: %s, %s", out.Messages[0].Role, out.Messages[1].Role)
	}
}

func TestExecuteToolRound(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		assistantToolCall("call_1"),
		{Role: llm.RoleAssistant, Content: "Done."},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "call the tool"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if out.Rounds != 1 {
		t.Errorf("expected 1 tool round, got %d", out.Rounds)
	}
	if out.Result != "Done." {
		t.Errorf("unexpected result: %q", out.Result)
	}

	// История: user → assistant(tool calls) → tool → assistant
	if len(out.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out.Messages))
	}
	toolMsg := out.Messages[2]
	if toolMsg.Role != llm.RoleTool {
		t.Fatalf("expected tool message at index 2, got %s", toolMsg.Role)
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool message id %q does not match call id", toolMsg.ToolCallID)
	}
	if !strings.HasPrefix(toolMsg.Content, "echo:") {
		t.Errorf("unexpected tool result: %q", toolMsg.Content)
	}
}

func TestExecuteToolMessageOrdering(t *testing.T) {
	// Два tool call в одном раунде: результаты должны идти в порядке запроса.
	provider := &mockProvider{responses: []llm.Message{
		{
			Role: llm.RoleAssistant,
			ToolCalls: []llm.ToolCall{
				{ID: "call_a", Name: "echo", Args: `{"text":"a"}`},
				{ID: "call_b", Name: "echo", Args: `{"text":"b"}`},
			},
		},
		{Role: llm.RoleAssistant, Content: "Done."},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "two tools"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// user → assistant → tool(a) → tool(b) → assistant
	if len(out.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(out.Messages))
	}
	if out.Messages[2].ToolCallID != "call_a" || out.Messages[3].ToolCallID != "call_b" {
		t.Errorf("tool results out of request order: %q, %q",
			out.Messages[2].ToolCallID, out.Messages[3].ToolCallID)
	}
}

func TestExecuteBudgetExceeded(t *testing.T) {
	// Модель всегда просит инструмент: цикл обязан остановиться ровно
	// на бюджете и вернуть фиксированное сообщение ответом, не ошибкой.
	provider := &mockProvider{responses: []llm.Message{
		assistantToolCall("call_loop"),
	}}
	cycle := newTestCycle(t, provider, CycleConfig{MaxToolRounds: 3})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "loop forever"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if out.Signal != SignalBudgetExceeded {
		t.Errorf("expected SignalBudgetExceeded, got %v", out.Signal)
	}
	if out.Rounds != 3 {
		t.Errorf("expected exactly 3 tool rounds, got %d", out.Rounds)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 LLM calls, got %d", provider.calls)
	}
	if out.Result != BudgetExceededMessage {
		t.Errorf("unexpected result: %q", out.Result)
	}

	// Фиксированное сообщение попадает в историю как ответ ассистента
	last := out.Messages[len(out.Messages)-1]
	if last.Role != llm.RoleAssistant || last.Content != BudgetExceededMessage {
		t.Errorf("budget message missing from history: %+v", last)
	}
}

func TestExecuteParsesThinking(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "<think>checking the list</think>Here are the options."},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "hi"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if out.Result != "Here are the options." {
		t.Errorf("reasoning markup leaked into result: %q", out.Result)
	}
	if out.Reasoning != "checking the list" {
		t.Errorf("unexpected reasoning: %q", out.Reasoning)
	}
}

func TestExecuteResponderMode(t *testing.T) {
	// В режиме responder финальный текст формулирует отдельный вызов,
	// которому доступен только транскрипт инструментов.
	provider := &mockProvider{responses: []llm.Message{
		assistantToolCall("call_1"),
		{Role: llm.RoleAssistant, Content: "draft answer"},
		{Role: llm.RoleAssistant, Content: "grounded answer"},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{AnswerMode: AnswerModeResponder})

	out, err := cycle.Execute(context.Background(), CycleInput{Query: "call the tool"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if out.Result != "grounded answer" {
		t.Errorf("unexpected result: %q", out.Result)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 LLM calls (loop x2 + responder), got %d", provider.calls)
	}

	// Черновик советчика заменён ответом responder-а
	last := out.Messages[len(out.Messages)-1]
	if last.Content != "grounded answer" {
		t.Errorf("history keeps the draft answer: %q", last.Content)
	}
}

func TestExecuteProviderError(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("connection refused")}
	cycle := newTestCycle(t, provider, CycleConfig{})

	_, err := cycle.Execute(context.Background(), CycleInput{Query: "hi"})
	if err == nil {
		t.Fatal("expected error when provider fails")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error does not carry the cause: %v", err)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		assistantToolCall("call_1"),
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cycle.Execute(ctx, CycleInput{Query: "hi"})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestExecuteWithoutSubscriberDoesNotBlock(t *testing.T) {
	// Стриминговая модель шлёт больше reasoning-чанков, чем вмещает
	// буфер эмиттера, и никто не подписан. Ход обязан завершиться:
	// события не имеют права останавливать цикл.
	provider := &streamingMockProvider{
		mockProvider: mockProvider{responses: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Done."},
		}},
		chunks: 100,
	}
	emitter := events.NewChanEmitter(8)
	defer emitter.Close()
	cycle := newTestCycleWithEmitter(t, provider, CycleConfig{}, emitter)

	done := make(chan struct{})
	go func() {
		if _, err := cycle.Execute(context.Background(), CycleInput{Query: "hi"}); err != nil {
			t.Errorf("Execute failed: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("turn is blocked: event emission stalled on a full buffer with no subscriber")
	}
}

func TestExecuteEmitsEvents(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		assistantToolCall("call_1"),
		{Role: llm.RoleAssistant, Content: "Done."},
	}}
	emitter := events.NewChanEmitter(64)
	cycle := newTestCycleWithEmitter(t, provider, CycleConfig{}, emitter)
	sub := emitter.Subscribe()

	if _, err := cycle.Execute(context.Background(), CycleInput{Query: "call the tool"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	emitter.Close()

	seen := map[events.EventType]int{}
	for event := range sub.Events() {
		seen[event.Type]++
	}

	for _, want := range []events.EventType{
		events.EventThinking,
		events.EventToolCall,
		events.EventToolResult,
		events.EventMessage,
		events.EventDone,
	} {
		if seen[want] == 0 {
			t.Errorf("event %s not emitted", want)
		}
	}
}

func TestExecuteKeepsHistory(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "second answer"},
	}}
	cycle := newTestCycle(t, provider, CycleConfig{})

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "first question"},
		{Role: llm.RoleAssistant, Content: "first answer"},
	}
	out, err := cycle.Execute(context.Background(), CycleInput{Query: "second question", History: history})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(out.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out.Messages))
	}
	if out.Messages[0].Content != "first question" {
		t.Errorf("history head lost: %q", out.Messages[0].Content)
	}
}
