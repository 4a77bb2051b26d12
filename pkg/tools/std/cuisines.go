package std

import (
	"context"
	"fmt"
	"sort"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// CuisineByAreaTool возвращает кухни, доступные в конкретном районе.
//
// Район матчится точно (регистронезависимо): предполагается что имя
// уже подтверждено через get_matching_locations.
type CuisineByAreaTool struct {
	Catalog *catalog.Store
}

type areaArgs struct {
	Area string `json:"area"`
}

func (t *CuisineByAreaTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_cuisine_by_area",
		Description: "Get the types of cuisine available at a particular area in Bengaluru. Use this function to develop recommendations for a user looking to dine at a spot in Bengaluru. Make sure the area you are looking for is exactly the same as the one you get from `get_matching_locations`.",
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

func (t *CuisineByAreaTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args areaArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	restaurants := t.Catalog.ByArea(args.Area)
	if len(restaurants) == 0 {
		// Район не найден и район без кухонь — разные подсказки модели:
		// первая отправляет на повторный location matching, вторая нет.
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("Area '%s' not found. Please use get_matching_locations first to confirm the area.", args.Area)), nil
	}

	set := make(map[string]struct{})
	for _, r := range restaurants {
		for _, c := range r.Cuisine {
			set[c] = struct{}{}
		}
	}

	if len(set) == 0 {
		return tools.ErrorResult(tools.CodeNoResults,
			fmt.Sprintf("No cuisines found for area '%s'. Please try another location.", args.Area)), nil
	}

	cuisines := make([]string, 0, len(set))
	for c := range set {
		cuisines = append(cuisines, c)
	}
	sort.Strings(cuisines)

	return tools.SuccessResult(
		fmt.Sprintf("Found %d cuisines in '%s'", len(cuisines), args.Area),
		tools.Result{
			"area":        args.Area,
			"cuisines":    cuisines,
			"instruction": "Show these cuisines as numbered options for user selection",
		},
	), nil
}

// AllCuisinesTool возвращает объединение всех кухонь каталога.
type AllCuisinesTool struct {
	Catalog *catalog.Store
}

func (t *AllCuisinesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_all_cuisines",
		Description: "Get all cuisine types available at various FoodieSpot joints across Bengaluru. Use this function to show the user all available cuisine types.",
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []any{},
		},
	}
}

func (t *AllCuisinesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	cuisines := t.Catalog.Cuisines()
	if len(cuisines) == 0 {
		return tools.ErrorResult(tools.CodeNoResults, "No cuisines found in database"), nil
	}

	return tools.SuccessResult(
		fmt.Sprintf("Found %d cuisine types", len(cuisines)),
		tools.Result{
			"cuisines":    cuisines,
			"total_count": len(cuisines),
			"instruction": "Show these cuisines as numbered options for user selection",
		},
	), nil
}

// AreaByCuisineTool — обратный поиск: районы, где подают конкретную кухню.
//
// Матчинг кухни точный (регистр и краевые пробелы игнорируются):
// словарь кухонь стандартизован, в отличие от ambience.
type AreaByCuisineTool struct {
	Catalog *catalog.Store
}

type cuisineArgs struct {
	Cuisine string `json:"cuisine"`
}

func (t *AreaByCuisineTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_area_by_cuisine",
		Description: "Get all the areas serving a specific type of cuisine. Use this function to fetch all FoodieSpot locations serving a specific type of cuisine that the user is interested in.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"cuisine": map[string]any{
					"type":        "string",
					"description": "The particular cuisine type the user is interested in having. e.g.: 'South Indian', 'Mediterranean' etc.",
				},
			},
			"required": []any{"cuisine"},
		},
	}
}

func (t *AreaByCuisineTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args cuisineArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	areaSet := make(map[string]struct{})
	cuisineFound := false

	for _, r := range t.Catalog.All() {
		if r.Cuisine.Contains(args.Cuisine) {
			cuisineFound = true
			areaSet[r.Area] = struct{}{}
		}
	}

	if !cuisineFound {
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("Cuisine '%s' not found. Use get_all_cuisines to see available options.", args.Cuisine)), nil
	}

	areas := make([]string, 0, len(areaSet))
	for a := range areaSet {
		areas = append(areas, a)
	}
	sort.Strings(areas)

	return tools.SuccessResult(
		fmt.Sprintf("Found %d areas serving '%s' cuisine", len(areas), args.Cuisine),
		tools.Result{
			"cuisine":     args.Cuisine,
			"areas":       areas,
			"instruction": "Show these areas as numbered options for user selection",
		},
	), nil
}
