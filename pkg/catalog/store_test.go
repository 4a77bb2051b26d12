package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testRecords() []Restaurant {
	return []Restaurant{
		{Name: "Punjab Grill", Area: "Koramangala", Cuisine: CuisineList{"north indian"}, Ambience: "Casual", SeatingCapacity: 40},
		{Name: "Olive Garden", Area: "Indiranagar", Cuisine: CuisineList{"italian", "continental"}, Ambience: "Romantic", SeatingCapacity: 30},
		{Name: "Dosa Corner", Area: "Koramangala", Cuisine: CuisineList{"south indian"}, SeatingCapacity: 20},
		{Name: "Silent Spoon", Area: "Whitefield", SeatingCapacity: 25},
	}
}

func TestNewStore_RejectsEmptyFields(t *testing.T) {
	if _, err := NewStore([]Restaurant{{Name: "", Area: "X"}}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewStore([]Restaurant{{Name: "X", Area: "  "}}); err == nil {
		t.Error("expected error for blank area")
	}
}

func TestStore_ByArea_CaseInsensitive(t *testing.T) {
	s, err := NewStore(testRecords())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	got := s.ByArea("koramangala")
	if len(got) != 2 {
		t.Fatalf("expected 2 restaurants in Koramangala, got %d", len(got))
	}

	if s.ByArea("nowhere") != nil {
		t.Error("expected nil for unknown area")
	}
}

func TestStore_ByName(t *testing.T) {
	s, _ := NewStore(testRecords())

	r, ok := s.ByName("olive garden")
	if !ok {
		t.Fatal("expected to find Olive Garden")
	}
	if r.SeatingCapacity != 30 {
		t.Errorf("unexpected capacity: %d", r.SeatingCapacity)
	}

	if _, ok := s.ByName("Ghost Kitchen"); ok {
		t.Error("expected miss for unknown name")
	}
}

func TestStore_Areas_NotDeduplicated(t *testing.T) {
	s, _ := NewStore(testRecords())

	// Каждая запись вносит свою строку: Koramangala встречается дважды
	areas := s.Areas()
	if len(areas) != 4 {
		t.Fatalf("expected 4 area strings, got %d", len(areas))
	}
}

func TestStore_Cuisines_SortedUnion(t *testing.T) {
	s, _ := NewStore(testRecords())

	want := []string{"continental", "italian", "north indian", "south indian"}
	if got := s.Cuisines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Cuisines() = %v, want %v", got, want)
	}
}

func TestStore_Ambiences_SkipsEmpty(t *testing.T) {
	s, _ := NewStore(testRecords())

	want := []string{"casual", "romantic"}
	if got := s.Ambiences(); !reflect.DeepEqual(got, want) {
		t.Errorf("Ambiences() = %v, want %v", got, want)
	}
}

func TestCuisineList_UnmarshalScalarAndList(t *testing.T) {
	var scalar struct {
		Cuisine CuisineList `json:"cuisine"`
	}
	if err := json.Unmarshal([]byte(`{"cuisine": " South Indian "}`), &scalar); err != nil {
		t.Fatalf("scalar unmarshal: %v", err)
	}
	if !reflect.DeepEqual([]string(scalar.Cuisine), []string{"south indian"}) {
		t.Errorf("scalar normalized to %v", scalar.Cuisine)
	}

	var list struct {
		Cuisine CuisineList `json:"cuisine"`
	}
	if err := json.Unmarshal([]byte(`{"cuisine": ["South Indian", "NORTH INDIAN"]}`), &list); err != nil {
		t.Fatalf("list unmarshal: %v", err)
	}
	if !reflect.DeepEqual([]string(list.Cuisine), []string{"south indian", "north indian"}) {
		t.Errorf("list normalized to %v", list.Cuisine)
	}

	var bad struct {
		Cuisine CuisineList `json:"cuisine"`
	}
	if err := json.Unmarshal([]byte(`{"cuisine": 42}`), &bad); err == nil {
		t.Error("expected error for numeric cuisine")
	}
}

func TestRestaurant_UnmarshalLocation(t *testing.T) {
	var nested Restaurant
	if err := json.Unmarshal([]byte(`{"name": "Punjab Grill", "location": {"area": "Koramangala"}}`), &nested); err != nil {
		t.Fatalf("nested unmarshal: %v", err)
	}
	if nested.Area != "Koramangala" {
		t.Errorf("nested location.area not read: %q", nested.Area)
	}

	var flat Restaurant
	if err := json.Unmarshal([]byte(`{"name": "Punjab Grill", "area": "Koramangala"}`), &flat); err != nil {
		t.Fatalf("flat unmarshal: %v", err)
	}
	if flat.Area != "Koramangala" {
		t.Errorf("flat area alias not read: %q", flat.Area)
	}

	// При одновременном присутствии побеждает вложенная форма
	var both Restaurant
	if err := json.Unmarshal([]byte(`{"name": "Punjab Grill", "area": "Indiranagar", "location": {"area": "Koramangala"}}`), &both); err != nil {
		t.Fatalf("both unmarshal: %v", err)
	}
	if both.Area != "Koramangala" {
		t.Errorf("expected nested form to win, got %q", both.Area)
	}
}

func TestCuisineList_Contains(t *testing.T) {
	c := CuisineList{"south indian", "chinese"}
	if !c.Contains("  South Indian ") {
		t.Error("expected case/whitespace-insensitive contains")
	}
	if c.Contains("italian") {
		t.Error("unexpected match for italian")
	}
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.json")
	payload := `[
		{"name": "Punjab Grill", "location": {"area": "Koramangala"}, "cuisine": "north indian", "seating_capacity": 40},
		{"name": "Olive Garden", "area": "Indiranagar", "cuisine": ["italian", "continental"], "seating_capacity": 30}
	]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[1].Cuisine.Contains("italian") {
		t.Errorf("cuisine list not parsed: %v", records[1].Cuisine)
	}
}

func TestFileSource_LoadMissing(t *testing.T) {
	if _, err := (FileSource{Path: "/nonexistent/x.json"}).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
