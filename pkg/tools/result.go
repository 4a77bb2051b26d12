// Структурированные результаты инструментов.
//
// Каждый инструмент возвращает JSON со status + payload: модель читает
// результат как текст, поэтому формат должен быть стабильным и
// самоописывающим (поле instruction подсказывает модели следующий шаг).
package tools

import (
	"encoding/json"
	"fmt"
)

// Статусы результата.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Коды ошибок инструментов.
//
// Код сообщает модели класс проблемы; текст message — формулировка
// для пользователя.
const (
	CodeUnknownTool      = "unknown_tool"
	CodeToolPanic        = "tool_panic"
	CodeInvalidArgs      = "invalid_arguments"
	CodeNotFound         = "not_found"
	CodeNoResults        = "no_results"
	CodeInvalidRestaurant = "invalid_restaurant"
	CodeInvalidPhone      = "invalid_phone"
	CodeInvalidHeadcount  = "invalid_headcount"
	CodeCapacityExceeded  = "capacity_exceeded"
	CodeInvalidTimeSlot   = "invalid_time_slot"
	CodePersistence       = "persistence_error"
)

// Result — произвольный JSON объект результата.
type Result map[string]any

// Marshal сериализует результат в текст для tool-сообщения.
//
// Ошибка сериализации здесь означает ошибку программиста (несериализуемое
// значение в payload), поэтому возвращается текстовый error-результат,
// а не panic.
func (r Result) Marshal() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","code":"internal","message":"failed to serialize tool result: %v"}`, err)
	}
	return string(data)
}

// SuccessResult собирает успешный результат из message и payload полей.
func SuccessResult(message string, fields Result) string {
	r := Result{
		"status":  StatusSuccess,
		"message": message,
	}
	for k, v := range fields {
		r[k] = v
	}
	return r.Marshal()
}

// ErrorResult собирает мягкую ошибку: статус error, код и сообщение.
//
// Инструменты не возвращают Go-ошибки на ошибках предметной области —
// модель должна увидеть структурный ответ и скорректировать диалог.
func ErrorResult(code, message string) string {
	return Result{
		"status":  StatusError,
		"code":    code,
		"message": message,
	}.Marshal()
}
