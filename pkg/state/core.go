// Package state предоставляет thread-safe core состояние агента.
//
// CoreState собирает вместе зависимости одного агента: конфигурацию,
// каталог ресторанов, журнал бронирований, реестр инструментов и
// историю диалога. История защищена мьютексом: UI может читать её
// конкурентно с работающим циклом.
package state

import (
	"sync"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/llm"
	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// CoreState — thread-safe состояние агента FoodieSpot.
type CoreState struct {
	// Config — конфигурация приложения
	Config *config.AppConfig

	// Catalog — статический каталог ресторанов
	Catalog *catalog.Store

	// Reservations — журнал бронирований
	Reservations *reservation.Store

	// ToolsRegistry — реестр инструментов
	ToolsRegistry *tools.Registry

	// mu защищает History
	mu sync.RWMutex

	// History — хронология диалога (user <-> agent).
	// Содержит и tool calls с результатами: модель должна видеть их
	// на следующих ходах.
	History []llm.Message
}

// NewCoreState создаёт состояние с пустой историей.
func NewCoreState(cfg *config.AppConfig) *CoreState {
	return &CoreState{
		Config:  cfg,
		History: make([]llm.Message, 0),
	}
}

// SetCatalog устанавливает каталог ресторанов.
func (s *CoreState) SetCatalog(cat *catalog.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Catalog = cat
}

// SetReservations устанавливает журнал бронирований.
func (s *CoreState) SetReservations(res *reservation.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reservations = res
}

// SetToolsRegistry устанавливает реестр инструментов.
func (s *CoreState) SetToolsRegistry(registry *tools.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ToolsRegistry = registry
}

// AppendMessage добавляет сообщение в историю диалога.
func (s *CoreState) AppendMessage(msg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, msg)
}

// SetHistory заменяет историю диалога целиком.
//
// Используется после прогона цикла: CycleOutput.Messages содержит
// вход плюс все сообщения прогона в причинном порядке.
func (s *CoreState) SetHistory(messages []llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.History = make([]llm.Message, len(messages))
	copy(s.History, messages)
}

// GetHistory возвращает копию истории диалога.
func (s *CoreState) GetHistory() []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]llm.Message, len(s.History))
	copy(out, s.History)
	return out
}

// ClearHistory очищает историю диалога.
func (s *CoreState) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = s.History[:0]
}
