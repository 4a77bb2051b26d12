package std

import (
	"context"
	"fmt"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/match"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// MatchingLocationsTool нечётко ранжирует районы каталога против запроса
// пользователя. Первый шаг почти любого диалога: пользователь пишет район
// с опечатками, инструмент возвращает канонические имена.
type MatchingLocationsTool struct {
	Catalog *catalog.Store
}

type matchingLocationsArgs struct {
	Area string `json:"area"`
	TopN int    `json:"top_n"`
}

func (t *MatchingLocationsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_matching_locations",
		Description: "Get matching locations of FoodieSpot restaurants as per the location specified by the user. Use this function to take in the location specified by the user and display the most matching locations available.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"area": map[string]any{
					"type":        "string",
					"description": "The area in Bengaluru the user wants to lookup the FoodieSpot joint in. e.g.: 'Koramangala', 'Whitefield' etc.",
				},
				"top_n": map[string]any{
					"type":        "integer",
					"description": "Maximum number of matching locations to return. Defaults to 5.",
				},
			},
			"required": []any{"area"},
		},
	}
}

func (t *MatchingLocationsTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args matchingLocationsArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	// Каждая запись каталога вносит свою area-строку; дедупликация
	// делается после ранжирования, с сохранением лучшей оценки.
	matches := match.TopMatches(args.Area, t.Catalog.Areas(), args.TopN)
	matches = match.DedupeBest(matches)

	if len(matches) == 0 {
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("No FoodieSpot locations found matching '%s'. Please try a different area name or check spelling.", args.Area)), nil
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Value
	}

	return tools.SuccessResult(
		fmt.Sprintf("Found %d matching FoodieSpot locations", len(matches)),
		tools.Result{
			"locations":   names,
			"matches":     matches, // имена с confidence, по убыванию оценки
			"instruction": "Show these locations as numbered options and ask user to select one",
		},
	), nil
}
