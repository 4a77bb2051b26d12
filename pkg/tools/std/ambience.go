package std

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/match"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// AllAmbiencesTool возвращает объединение всех ambience-меток каталога.
type AllAmbiencesTool struct {
	Catalog *catalog.Store
}

func (t *AllAmbiencesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_all_ambiences",
		Description: "Get all ambience types available at various FoodieSpot joints across Bengaluru. Use this function to show the user all available ambience options.",
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []any{},
		},
	}
}

func (t *AllAmbiencesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	ambiences := t.Catalog.Ambiences()
	if len(ambiences) == 0 {
		return tools.ErrorResult(tools.CodeNoResults, "No ambiences found in database"), nil
	}

	return tools.SuccessResult(
		fmt.Sprintf("Found %d ambience types", len(ambiences)),
		tools.Result{
			"ambiences":   ambiences,
			"total_count": len(ambiences),
			"instruction": "Show these ambiences as numbered options for user selection",
		},
	), nil
}

// AmbienceByAreaTool возвращает ambience-метки ресторанов района.
type AmbienceByAreaTool struct {
	Catalog *catalog.Store
}

func (t *AmbienceByAreaTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_ambience_by_area",
		Description: "Get the ambience options available at a particular area in Bengaluru. Make sure the area you are looking for is exactly the same as the one you get from `get_matching_locations`.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"area": map[string]any{
					"type":        "string",
					"description": "The area in Bengaluru the user wants to lookup the FoodieSpot joint in. e.g.: 'Koramangala', 'Whitefield' etc.",
				},
			},
			"required": []any{"area"},
		},
	}
}

func (t *AmbienceByAreaTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args areaArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	restaurants := t.Catalog.ByArea(args.Area)
	if len(restaurants) == 0 {
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("Area '%s' not found. Please use get_matching_locations first to confirm the area.", args.Area)), nil
	}

	set := make(map[string]struct{})
	for _, r := range restaurants {
		if a := strings.TrimSpace(r.Ambience); a != "" {
			set[strings.ToLower(a)] = struct{}{}
		}
	}

	if len(set) == 0 {
		return tools.ErrorResult(tools.CodeNoResults,
			fmt.Sprintf("No ambiences found for area '%s'. Please try another location.", args.Area)), nil
	}

	ambiences := make([]string, 0, len(set))
	for a := range set {
		ambiences = append(ambiences, a)
	}
	sort.Strings(ambiences)

	return tools.SuccessResult(
		fmt.Sprintf("Found %d ambience options in '%s'", len(ambiences), args.Area),
		tools.Result{
			"area":        args.Area,
			"ambiences":   ambiences,
			"instruction": "Show these ambiences as numbered options for user selection",
		},
	), nil
}

// AreaByAmbienceTool — обратный поиск районов по атмосфере.
//
// В отличие от кухонь, ambience-словарь не стандартизован ("romantic",
// "Romantic vibes", "cozy romantic"), поэтому здесь нечёткий best-match
// одного лучшего кандидата вместо точного сравнения.
type AreaByAmbienceTool struct {
	Catalog *catalog.Store
}

type ambienceArgs struct {
	Ambience string `json:"ambience"`
}

func (t *AreaByAmbienceTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_area_by_ambience",
		Description: "Get all the areas that have FoodieSpot joints with a specific ambience. Use this function to fetch all FoodieSpot locations matching the ambience the user is interested in.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"ambience": map[string]any{
					"type":        "string",
					"description": "The ambience the user is interested in. e.g.: 'romantic', 'family-friendly' etc.",
				},
			},
			"required": []any{"ambience"},
		},
	}
}

func (t *AreaByAmbienceTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args ambienceArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	resolved, ok := match.BestMatch(args.Ambience, t.Catalog.Ambiences())
	if !ok {
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("Ambience '%s' not found. Use get_all_ambiences to see available options.", args.Ambience)), nil
	}

	areaSet := make(map[string]struct{})
	for _, r := range t.Catalog.All() {
		if strings.EqualFold(strings.TrimSpace(r.Ambience), resolved.Value) {
			areaSet[r.Area] = struct{}{}
		}
	}

	areas := make([]string, 0, len(areaSet))
	for a := range areaSet {
		areas = append(areas, a)
	}
	sort.Strings(areas)

	return tools.SuccessResult(
		fmt.Sprintf("Found %d areas with '%s' ambience", len(areas), resolved.Value),
		tools.Result{
			// Каноническая метка каталога, не сырой ввод пользователя
			"ambience":    resolved.Value,
			"confidence":  resolved.Score,
			"areas":       areas,
			"instruction": "Show these areas as numbered options for user selection",
		},
	), nil
}
