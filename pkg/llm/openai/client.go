// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Поддерживает Function Calling (tools) и потоковую генерацию.
// Работает с любым OpenAI-совместимым API (Groq, Ollama, DeepSeek и т.д.)
// через переопределение BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// Client реализует интерфейсы llm.Provider и llm.StreamingProvider.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter // nil = без лимита

	defaults llm.GenerateOptions
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// Все настройки из конфигурации, никакого хардкода.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	var limiter *rate.Limiter
	if modelDef.RateLimit > 0 {
		// rate_limit в конфиге — запросов в минуту
		limiter = rate.NewLimiter(rate.Limit(float64(modelDef.RateLimit)/60.0), 1)
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   modelDef.ModelName,
		timeout: modelDef.Timeout,
		limiter: limiter,
		defaults: llm.GenerateOptions{
			Model:       modelDef.ModelName,
			Temperature: modelDef.Temperature,
			MaxTokens:   modelDef.MaxTokens,
		},
	}
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// В opts могут передаваться:
//   - []tools.ToolDefinition — определения функций для Function Calling
//   - llm.GenerateOption — переопределения параметров генерации
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Если переданы tools — добавляет их в запрос (ToolChoice = auto)
//  3. Вызывает API
//  4. Конвертирует ответ обратно в наш формат, включая ToolCalls
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	startTime := time.Now()

	req, err := c.buildRequest(messages, opts...)
	if err != nil {
		return llm.Message{}, err
	}

	utils.Debug("LLM request started",
		"model", req.Model,
		"messages_count", len(messages),
		"tools_count", len(req.Tools))

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", req.Model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0].Message

	result := llm.Message{
		Role:    choice.Role,
		Content: choice.Content,
	}

	if len(choice.ToolCalls) > 0 {
		result.ToolCalls = make([]llm.ToolCall, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			result.ToolCalls[i] = llm.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			}
		}
	}

	utils.Info("LLM response received",
		"model", req.Model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// GenerateStream выполняет запрос с потоковой передачей ответа.
//
// Текстовые и reasoning дельты отдаются в callback по мере поступления.
// Дельты tool calls приходят фрагментами (имя и аргументы по кускам,
// привязанным к индексу вызова) — они собираются здесь и возвращаются
// целиком в финальном Message, наружу не стримятся.
func (c *Client) GenerateStream(
	ctx context.Context,
	messages []llm.Message,
	callback func(llm.StreamChunk),
	opts ...any,
) (llm.Message, error) {
	startTime := time.Now()

	req, err := c.buildRequest(messages, opts...)
	if err != nil {
		return llm.Message{}, err
	}
	req.Stream = true

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		utils.Error("LLM stream request failed", "error", err, "model", req.Model)
		return llm.Message{}, fmt.Errorf("openai stream error: %w", err)
	}
	defer stream.Close()

	var (
		content   string
		reasoning string
		calls     []llm.ToolCall // собираются по Index из дельт
	)

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
			return llm.Message{}, fmt.Errorf("stream recv error: %w", err)
		}

		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta

		if delta.ReasoningContent != "" {
			reasoning += delta.ReasoningContent
			callback(llm.StreamChunk{
				Type:             llm.ChunkThinking,
				ReasoningContent: reasoning,
				Delta:            delta.ReasoningContent,
			})
		}

		if delta.Content != "" {
			content += delta.Content
			callback(llm.StreamChunk{
				Type:    llm.ChunkContent,
				Content: content,
				Delta:   delta.Content,
			})
		}

		for _, tc := range delta.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			for len(calls) <= idx {
				calls = append(calls, llm.ToolCall{})
			}
			if tc.ID != "" {
				calls[idx].ID = tc.ID
			}
			if tc.Function.Name != "" {
				calls[idx].Name += tc.Function.Name
			}
			calls[idx].Args += tc.Function.Arguments
		}
	}

	callback(llm.StreamChunk{Type: llm.ChunkDone, Content: content, ReasoningContent: reasoning, Done: true})

	result := llm.Message{
		Role:      llm.RoleAssistant,
		Content:   content,
		ToolCalls: calls,
	}

	utils.Info("LLM stream completed",
		"model", req.Model,
		"tool_calls_count", len(calls),
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// buildRequest собирает ChatCompletionRequest из сообщений и опций.
func (c *Client) buildRequest(messages []llm.Message, opts ...any) (openai.ChatCompletionRequest, error) {
	genOpts := llm.ApplyGenerateOptions(c.defaults, opts...)

	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		openaiMsgs[i] = mapToOpenAI(m)
	}

	req := openai.ChatCompletionRequest{
		Model:       genOpts.Model,
		Messages:    openaiMsgs,
		Temperature: float32(genOpts.Temperature),
	}
	if genOpts.MaxTokens > 0 {
		req.MaxTokens = genOpts.MaxTokens
	}
	if genOpts.Format == "json_object" {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	for _, opt := range opts {
		if toolDefs, ok := opt.([]tools.ToolDefinition); ok {
			req.Tools = convertToolsToOpenAI(toolDefs)
			// LLM сама решает когда вызывать tools
			req.ToolChoice = "auto"
		}
	}

	return req, nil
}

// withTimeout оборачивает контекст таймаутом модели из конфигурации.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// wait блокируется на rate limiter (если он настроен).
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
//
// Сообщения роли "tool" обязаны нести ToolCallID, сообщения ассистента
// могут нести ToolCalls — обе стороны протокола Function Calling.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}

	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]openai.ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Args,
				},
			}
		}
	}

	return msg
}

// convertToolsToOpenAI конвертирует определения инструментов во внутреннем
// формате в формат OpenAI Function Calling.
//
// ToolDefinition.Parameters уже является JSON Schema объектом
// (map[string]interface{}), поэтому передаётся в SDK напрямую.
func convertToolsToOpenAI(defs []tools.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(defs))

	for i, def := range defs {
		result[i] = openai.Tool{
			Type: "function",
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}

	return result
}
