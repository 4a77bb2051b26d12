// Package std содержит стандартный набор инструментов FoodieSpot агента:
// поиск локаций, справки по кухням и атмосфере, рекомендации и бронирование.
//
// Каждый инструмент — чистая функция над каталогом (и хранилищем броней
// для make_reservation), возвращающая структурированный JSON результат.
// Ошибки предметной области — мягкие (status=error в результате),
// Go-ошибка возвращается только на непарсящихся аргументах.
package std

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// RegisterAll регистрирует весь набор инструментов в реестре.
func RegisterAll(registry *tools.Registry, cat *catalog.Store, res *reservation.Store) error {
	all := []tools.Tool{
		&MatchingLocationsTool{Catalog: cat},
		&CuisineByAreaTool{Catalog: cat},
		&AllCuisinesTool{Catalog: cat},
		&AreaByCuisineTool{Catalog: cat},
		&AllAmbiencesTool{Catalog: cat},
		&AmbienceByAreaTool{Catalog: cat},
		&AreaByAmbienceTool{Catalog: cat},
		&RecommendTool{Catalog: cat},
		&ReserveTool{Catalog: cat, Reservations: res},
	}

	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register tool: %w", err)
		}
	}
	return nil
}

// decodeArgs разбирает сырой JSON аргументов инструмента.
//
// Аргументы от LLM могут приходить обёрнутыми в markdown-блок.
func decodeArgs(argsJSON string, v any) error {
	cleaned := utils.CleanJsonBlock(argsJSON)
	if cleaned == "" {
		cleaned = "{}"
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// asInt проверяет что JSON-число — целое, и возвращает его.
//
// LLM сериализует числа без гарантии формы: 4, 4.0 и "4.5" — разные случаи.
func asInt(f float64) (int, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
