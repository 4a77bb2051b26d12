// Разбор reasoning-блоков в ответах моделей.
//
// Некоторые модели (DeepSeek R1, Qwen с thinking mode) вставляют свои
// рассуждения в текст ответа внутри тегов <think>...</think>. Для показа
// пользователю рассуждения нужно отделить от видимого ответа.
package llm

import (
	"regexp"
	"strings"
)

var (
	reThinkBlock = regexp.MustCompile(`(?s)<think>(.*?)</think>`)
	reThinkOpen  = regexp.MustCompile(`(?s)<think>(.*)$`)
)

// ParseThinking разделяет текст ответа на рассуждения и видимую часть.
//
// Несколько блоков <think> склеиваются через пустую строку.
// Незакрытый тег <think> считается рассуждением до конца текста:
// модель оборвала вывод посреди reasoning, показывать хвост как ответ нельзя.
func ParseThinking(text string) (reasoning, visible string) {
	var parts []string

	visible = reThinkBlock.ReplaceAllStringFunc(text, func(m string) string {
		inner := reThinkBlock.FindStringSubmatch(m)[1]
		if t := strings.TrimSpace(inner); t != "" {
			parts = append(parts, t)
		}
		return ""
	})

	// Незакрытый тег: всё после него — reasoning
	if loc := reThinkOpen.FindStringSubmatchIndex(visible); loc != nil {
		if t := strings.TrimSpace(visible[loc[2]:loc[3]]); t != "" {
			parts = append(parts, t)
		}
		visible = visible[:loc[0]]
	}

	return strings.Join(parts, "\n\n"), strings.TrimSpace(visible)
}

// StripThink возвращает только видимую часть ответа.
func StripThink(text string) string {
	_, visible := ParseThinking(text)
	return visible
}
