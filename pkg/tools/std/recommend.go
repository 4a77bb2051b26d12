package std

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/match"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
)

// RecommendTool подбирает рестораны района с опциональными фильтрами
// по кухне и атмосфере.
//
// Район и кухня матчатся точно; ambience сначала резолвится нечётким
// best-match к канонической метке каталога, и именно резолвленная метка
// возвращается в payload.
type RecommendTool struct {
	Catalog *catalog.Store
}

type recommendArgs struct {
	Area     string `json:"area"`
	Cuisine  string `json:"cuisine"`
	Ambience string `json:"ambience"`
}

func (t *RecommendTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "recommend_restaurants",
		Description: "Recommend restaurants using various filters. Use this function to recommend restaurants to users based on the filters acquired so far.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"area": map[string]any{
					"type":        "string",
					"description": "The area in Bengaluru the user wants to lookup the FoodieSpot joint in. e.g.: 'Koramangala', 'Whitefield' etc.",
				},
				"cuisine": map[string]any{
					"type":        "string",
					"description": "The type of food the user wishes to have during their dine-out. e.g.: 'South Indian', 'Mediterranean' etc.",
				},
				"ambience": map[string]any{
					"type":        "string",
					"description": "The ambience the user prefers. e.g.: 'romantic', 'family-friendly' etc.",
				},
			},
			"required": []any{"area"},
		},
	}
}

func (t *RecommendTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args recommendArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	restaurants := t.Catalog.ByArea(args.Area)
	if len(restaurants) == 0 {
		return tools.ErrorResult(tools.CodeNotFound,
			fmt.Sprintf("Area '%s' not found. Please use get_matching_locations first.", args.Area)), nil
	}

	// Резолвим ambience до фильтрации: фильтр работает по канонической
	// метке каталога, не по сырому вводу пользователя.
	resolvedAmbience := ""
	if args.Ambience != "" {
		resolved, ok := match.BestMatch(args.Ambience, t.Catalog.Ambiences())
		if !ok {
			return tools.ErrorResult(tools.CodeNotFound,
				fmt.Sprintf("Ambience '%s' not found. Use get_all_ambiences to see available options.", args.Ambience)), nil
		}
		resolvedAmbience = resolved.Value
	}

	var recommendations []catalog.Restaurant
	for _, r := range restaurants {
		if args.Cuisine != "" && !r.Cuisine.Contains(args.Cuisine) {
			continue
		}
		if resolvedAmbience != "" && !strings.EqualFold(strings.TrimSpace(r.Ambience), resolvedAmbience) {
			continue
		}
		recommendations = append(recommendations, r)
	}

	if len(recommendations) == 0 {
		msg := fmt.Sprintf("No restaurants found in '%s'", args.Area)
		if args.Cuisine != "" {
			msg += fmt.Sprintf(" serving '%s' cuisine", args.Cuisine)
		}
		if resolvedAmbience != "" {
			msg += fmt.Sprintf(" with '%s' ambience", resolvedAmbience)
		}
		return tools.ErrorResult(tools.CodeNoResults, msg+"."), nil
	}

	payload := tools.Result{
		"area":        args.Area,
		"restaurants": recommendations,
		"count":       len(recommendations),
		"instruction": "Present these restaurants to the user and ask if they want to make a reservation",
	}
	if args.Cuisine != "" {
		payload["cuisine"] = args.Cuisine
	}
	if resolvedAmbience != "" {
		payload["ambience"] = resolvedAmbience
	}

	return tools.SuccessResult(
		fmt.Sprintf("Found %d restaurants in '%s'", len(recommendations), args.Area),
		payload,
	), nil
}
