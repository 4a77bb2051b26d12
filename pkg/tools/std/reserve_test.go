package std

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foodiespot/foodiespot-ai/pkg/reservation"
)

func testReserveTool(t *testing.T) *ReserveTool {
	t.Helper()
	res, err := reservation.NewStore(filepath.Join(t.TempDir(), "reservations.json"))
	if err != nil {
		t.Fatalf("reservation store: %v", err)
	}
	return &ReserveTool{Catalog: testCatalog(t), Reservations: res}
}

const validReservationArgs = `{
	"restaurant": "Punjab Grill",
	"name": "Asha",
	"phone_number": "9876543210",
	"headcount": 4,
	"time_slot": {"hour": 19, "minute": 30}
}`

func TestReserve_Success(t *testing.T) {
	tool := testReserveTool(t)

	raw, err := tool.Execute(context.Background(), validReservationArgs)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	parsed := mustParse(t, raw)
	if parsed["status"] != "success" {
		t.Fatalf("unexpected result: %v", parsed)
	}

	record := parsed["reservation"].(map[string]any)
	if record["restaurant"] != "Punjab Grill" || record["phone_number"] != "9876543210" {
		t.Errorf("unexpected record: %v", record)
	}

	if tool.Reservations.Len() != 1 {
		t.Errorf("reservation not persisted, store has %d records", tool.Reservations.Len())
	}
}

func TestReserve_ValidationOrder_FirstFailureWins(t *testing.T) {
	tool := testReserveTool(t)

	// Всё невалидно сразу — побеждает ПЕРВАЯ проверка конвейера
	raw, _ := tool.Execute(context.Background(), `{
		"restaurant": "Ghost Kitchen",
		"name": "Asha",
		"phone_number": "12",
		"headcount": -5,
		"time_slot": {"hour": 99, "minute": 99}
	}`)
	if code := mustParse(t, raw)["code"]; code != "invalid_restaurant" {
		t.Errorf("expected invalid_restaurant first, got %v", code)
	}

	// Ресторан валиден — следующей срабатывает проверка телефона
	raw, _ = tool.Execute(context.Background(), `{
		"restaurant": "Punjab Grill",
		"name": "Asha",
		"phone_number": "12",
		"headcount": -5,
		"time_slot": {"hour": 99, "minute": 99}
	}`)
	if code := mustParse(t, raw)["code"]; code != "invalid_phone" {
		t.Errorf("expected invalid_phone next, got %v", code)
	}

	// Телефон валиден — очередь headcount
	raw, _ = tool.Execute(context.Background(), `{
		"restaurant": "Punjab Grill",
		"name": "Asha",
		"phone_number": "9876543210",
		"headcount": -5,
		"time_slot": {"hour": 99, "minute": 99}
	}`)
	if code := mustParse(t, raw)["code"]; code != "invalid_headcount" {
		t.Errorf("expected invalid_headcount next, got %v", code)
	}

	// Headcount валиден — проверяется час
	raw, _ = tool.Execute(context.Background(), `{
		"restaurant": "Punjab Grill",
		"name": "Asha",
		"phone_number": "9876543210",
		"headcount": 4,
		"time_slot": {"hour": 99, "minute": 99}
	}`)
	parsed := mustParse(t, raw)
	if parsed["code"] != "invalid_time_slot" {
		t.Errorf("expected invalid_time_slot, got %v", parsed["code"])
	}
	if msg, _ := parsed["message"].(string); !strings.Contains(msg, "Hour") {
		t.Errorf("hour must be checked before minute: %q", msg)
	}
}

func TestReserve_PhoneValidation(t *testing.T) {
	tool := testReserveTool(t)

	for _, phone := range []string{"123456789", "12345678901", "987654321a", "+917654321"} {
		raw, _ := tool.Execute(context.Background(), `{
			"restaurant": "Punjab Grill",
			"name": "Asha",
			"phone_number": "`+phone+`",
			"headcount": 2,
			"time_slot": {"hour": 12, "minute": 0}
		}`)
		if code := mustParse(t, raw)["code"]; code != "invalid_phone" {
			t.Errorf("phone %q: expected invalid_phone, got %v", phone, code)
		}
	}

	// Отклонённые заявки не должны попадать в журнал
	if n := tool.Reservations.Len(); n != 0 {
		t.Errorf("rejected reservations were persisted, store has %d records", n)
	}
}

func TestReserve_CapacityExceededNamesLimit(t *testing.T) {
	tool := testReserveTool(t)

	// Dosa Corner вмещает 20
	raw, _ := tool.Execute(context.Background(), `{
		"restaurant": "Dosa Corner",
		"name": "Asha",
		"phone_number": "9876543210",
		"headcount": 21,
		"time_slot": {"hour": 12, "minute": 0}
	}`)
	parsed := mustParse(t, raw)
	if parsed["code"] != "capacity_exceeded" {
		t.Fatalf("expected capacity_exceeded, got %v", parsed)
	}
	if msg, _ := parsed["message"].(string); !strings.Contains(msg, "20") {
		t.Errorf("message must include the capacity limit: %q", msg)
	}
}

func TestReserve_FractionalHeadcountRejected(t *testing.T) {
	tool := testReserveTool(t)

	raw, _ := tool.Execute(context.Background(), `{
		"restaurant": "Punjab Grill",
		"name": "Asha",
		"phone_number": "9876543210",
		"headcount": 2.5,
		"time_slot": {"hour": 12, "minute": 0}
	}`)
	if code := mustParse(t, raw)["code"]; code != "invalid_headcount" {
		t.Errorf("expected invalid_headcount for 2.5, got %v", code)
	}
}

func TestReserve_MinuteCheckedIndependently(t *testing.T) {
	tool := testReserveTool(t)

	raw, _ := tool.Execute(context.Background(), `{
		"restaurant": "Punjab Grill",
		"name": "Asha",
		"phone_number": "9876543210",
		"headcount": 4,
		"time_slot": {"hour": 19, "minute": 75}
	}`)
	parsed := mustParse(t, raw)
	if parsed["code"] != "invalid_time_slot" {
		t.Fatalf("expected invalid_time_slot, got %v", parsed)
	}
	if msg, _ := parsed["message"].(string); !strings.Contains(msg, "Minute") {
		t.Errorf("expected minute-specific message: %q", msg)
	}
}

func TestReserve_BoundaryTimes(t *testing.T) {
	tool := testReserveTool(t)

	for _, slot := range []string{`{"hour": 0, "minute": 0}`, `{"hour": 23, "minute": 59}`} {
		raw, _ := tool.Execute(context.Background(), `{
			"restaurant": "Punjab Grill",
			"name": "Asha",
			"phone_number": "9876543210",
			"headcount": 2,
			"time_slot": `+slot+`
		}`)
		if mustParse(t, raw)["status"] != "success" {
			t.Errorf("boundary slot %s rejected", slot)
		}
	}
}

func TestReserve_PersistenceFailureIsDistinct(t *testing.T) {
	// Хранилище с путём в несуществующей директории: запись упадёт
	res := reservationStoreAtBadPath(t)
	tool := &ReserveTool{Catalog: testCatalog(t), Reservations: res}

	raw, err := tool.Execute(context.Background(), validReservationArgs)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	parsed := mustParse(t, raw)
	if parsed["code"] != "persistence_error" {
		t.Errorf("expected persistence_error, got %v", parsed)
	}
}

func reservationStoreAtBadPath(t *testing.T) *reservation.Store {
	t.Helper()
	s, err := reservation.NewStore(filepath.Join(t.TempDir(), "missing-dir", "r.json"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}
