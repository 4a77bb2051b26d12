package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Store — загруженный каталог ресторанов, только чтение после старта.
//
// Записи и производные индексы строятся один раз в NewStore, поэтому
// методы чтения безопасны для конкурентного доступа без блокировок.
type Store struct {
	records []Restaurant

	byArea map[string][]Restaurant // ключ — lower-case area
	byName map[string]Restaurant   // ключ — lower-case name
}

// NewStore строит каталог из записей.
//
// Записи с пустым name или area отклоняются на загрузке: дальше по коду
// эти поля считаются всегда заполненными.
func NewStore(records []Restaurant) (*Store, error) {
	s := &Store{
		records: make([]Restaurant, 0, len(records)),
		byArea:  make(map[string][]Restaurant),
		byName:  make(map[string]Restaurant),
	}

	for i, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
		if strings.TrimSpace(r.Area) == "" {
			return nil, fmt.Errorf("record %d (%s): area is required", i, r.Name)
		}

		s.records = append(s.records, r)
		areaKey := strings.ToLower(strings.TrimSpace(r.Area))
		s.byArea[areaKey] = append(s.byArea[areaKey], r)
		s.byName[strings.ToLower(strings.TrimSpace(r.Name))] = r
	}

	return s, nil
}

// All возвращает все записи каталога в порядке загрузки.
func (s *Store) All() []Restaurant {
	return s.records
}

// Len возвращает количество записей.
func (s *Store) Len() int {
	return len(s.records)
}

// ByArea возвращает рестораны района (точное регистронезависимое совпадение).
func (s *Store) ByArea(area string) []Restaurant {
	return s.byArea[strings.ToLower(strings.TrimSpace(area))]
}

// ByName ищет ресторан по точному имени (регистронезависимо).
func (s *Store) ByName(name string) (Restaurant, bool) {
	r, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// Areas возвращает области всех записей в порядке загрузки.
//
// Намеренно БЕЗ дедупликации: каждая запись вносит свою строку,
// нечёткое ранжирование работает по полному списку кандидатов.
func (s *Store) Areas() []string {
	areas := make([]string, len(s.records))
	for i, r := range s.records {
		areas[i] = r.Area
	}
	return areas
}

// Cuisines возвращает отсортированное объединение всех кухонь каталога.
func (s *Store) Cuisines() []string {
	set := make(map[string]struct{})
	for _, r := range s.records {
		for _, c := range r.Cuisine {
			set[c] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Ambiences возвращает отсортированное объединение всех ambience-меток.
func (s *Store) Ambiences() []string {
	set := make(map[string]struct{})
	for _, r := range s.records {
		if a := strings.TrimSpace(r.Ambience); a != "" {
			set[strings.ToLower(a)] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
