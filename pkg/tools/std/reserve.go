package std

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodiespot/foodiespot-ai/pkg/catalog"
	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
	"github.com/foodiespot/foodiespot-ai/pkg/tools"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// ReserveTool — единственный неидемпотентный инструмент: создаёт бронь.
//
// Валидация выполняется конвейером с фиксированным порядком и обрывом
// на первой ошибке: ресторан → телефон → headcount → вместимость →
// час → минута. Модель получает ровно одну ошибку за попытку.
type ReserveTool struct {
	Catalog      *catalog.Store
	Reservations *reservation.Store
}

type reserveArgs struct {
	Restaurant  string   `json:"restaurant"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phone_number"`
	Headcount   *float64 `json:"headcount"`
	TimeSlot    struct {
		Hour   *float64 `json:"hour"`
		Minute *float64 `json:"minute"`
	} `json:"time_slot"`
}

func (t *ReserveTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "make_reservation",
		Description: "Make a reservation at a FoodieSpot restaurant. Use this function only after the user has confirmed the restaurant, their name, a 10-digit phone number, the number of guests and the desired time.",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"restaurant": map[string]any{
					"type":        "string",
					"description": "Exact restaurant name as returned by recommend_restaurants.",
				},
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the guest the reservation is for.",
				},
				"phone_number": map[string]any{
					"type":        "string",
					"description": "Contact phone number, exactly 10 digits.",
				},
				"headcount": map[string]any{
					"type":        "integer",
					"description": "Number of guests, a positive integer.",
				},
				"time_slot": map[string]any{
					"type":        "object",
					"description": "Desired reservation time.",
					"properties": map[string]any{
						"hour": map[string]any{
							"type":        "integer",
							"description": "Hour of the day, 0 to 23.",
						},
						"minute": map[string]any{
							"type":        "integer",
							"description": "Minute of the hour, 0 to 59.",
						},
					},
					"required": []any{"hour", "minute"},
				},
			},
			"required": []any{"restaurant", "name", "phone_number", "headcount", "time_slot"},
		},
	}
}

func (t *ReserveTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args reserveArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return "", err
	}

	// 1. Ресторан должен существовать в каталоге (точное имя)
	restaurant, ok := t.Catalog.ByName(args.Restaurant)
	if !ok {
		return tools.ErrorResult(tools.CodeInvalidRestaurant,
			fmt.Sprintf("Restaurant '%s' not found. Please use recommend_restaurants first and use the exact restaurant name.", args.Restaurant)), nil
	}

	// 2. Телефон — ровно 10 десятичных цифр
	if !isTenDigits(args.PhoneNumber) {
		return tools.ErrorResult(tools.CodeInvalidPhone,
			"Phone number must be exactly 10 digits."), nil
	}

	// 3. Headcount — положительное целое, не больше вместимости
	if args.Headcount == nil {
		return tools.ErrorResult(tools.CodeInvalidHeadcount,
			"Headcount must be a positive integer."), nil
	}
	headcount, isInt := asInt(*args.Headcount)
	if !isInt || headcount <= 0 {
		return tools.ErrorResult(tools.CodeInvalidHeadcount,
			"Headcount must be a positive integer."), nil
	}
	if headcount > restaurant.SeatingCapacity {
		return tools.ErrorResult(tools.CodeCapacityExceeded,
			fmt.Sprintf("Headcount %d exceeds the seating capacity of %d at '%s'.", headcount, restaurant.SeatingCapacity, restaurant.Name)), nil
	}

	// 4. Час и минута проверяются независимо, с разными сообщениями
	if args.TimeSlot.Hour == nil {
		return tools.ErrorResult(tools.CodeInvalidTimeSlot,
			"Hour must be an integer between 0 and 23."), nil
	}
	hour, isInt := asInt(*args.TimeSlot.Hour)
	if !isInt || hour < 0 || hour > 23 {
		return tools.ErrorResult(tools.CodeInvalidTimeSlot,
			"Hour must be an integer between 0 and 23."), nil
	}

	if args.TimeSlot.Minute == nil {
		return tools.ErrorResult(tools.CodeInvalidTimeSlot,
			"Minute must be an integer between 0 and 59."), nil
	}
	minute, isInt := asInt(*args.TimeSlot.Minute)
	if !isInt || minute < 0 || minute > 59 {
		return tools.ErrorResult(tools.CodeInvalidTimeSlot,
			"Minute must be an integer between 0 and 59."), nil
	}

	record := reservation.Reservation{
		Restaurant:  restaurant.Name,
		Name:        args.Name,
		PhoneNumber: args.PhoneNumber,
		Headcount:   headcount,
		TimeSlot:    reservation.TimeSlot{Hour: hour, Minute: minute},
	}

	if err := t.Reservations.Append(record); err != nil {
		var perr *reservation.PersistenceError
		if errors.As(err, &perr) {
			// Валидация прошла: отличаем сбой записи от ошибок ввода,
			// чтобы модель предложила повторить без пересбора данных
			utils.Error("Reservation persistence failed", "restaurant", record.Restaurant, "error", err)
			return tools.ErrorResult(tools.CodePersistence,
				"Reservation details were valid but saving failed. Please try again."), nil
		}
		return "", err
	}

	utils.Info("Reservation created",
		"restaurant", record.Restaurant,
		"headcount", record.Headcount,
		"hour", hour, "minute", minute)

	return tools.SuccessResult(
		fmt.Sprintf("Reservation confirmed at '%s'", restaurant.Name),
		tools.Result{
			"reservation": record,
			"instruction": "Confirm the reservation details back to the user",
		},
	), nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
