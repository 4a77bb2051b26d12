// Package reservation предоставляет durable хранилище броней.
//
// Хранилище держит список броней в памяти и на каждом успешном добавлении
// пишет полный снапшот списка в JSON файл. Брони никогда не изменяются
// и не удаляются — только добавляются.
package reservation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// TimeSlot — время брони.
type TimeSlot struct {
	Hour   int `json:"hour"`   // 0..23
	Minute int `json:"minute"` // 0..59
}

// Reservation — одна подтверждённая бронь.
type Reservation struct {
	Restaurant  string   `json:"restaurant"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phone_number"` // ровно 10 цифр
	Headcount   int      `json:"headcount"`
	TimeSlot    TimeSlot `json:"time_slot"`
}

// PersistenceError — ошибка durable записи.
//
// Отдельный тип: бронь прошла валидацию, и вызывающий код может
// предложить повторить запись без повторного сбора данных.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist reservations to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store — потокобезопасное хранилище броней.
//
// Все записи сериализуются через мьютекс: append — это read-modify-write
// целого файла, без взаимного исключения параллельные брони теряли бы
// обновления друг друга.
type Store struct {
	mu           sync.Mutex
	path         string
	reservations []Reservation
}

// NewStore открывает хранилище по пути к JSON файлу.
//
// Отсутствующий файл — нормальный случай первого запуска: хранилище
// начинается пустым. Повреждённый файл — ошибка.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reservations file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.reservations); err != nil {
			return nil, fmt.Errorf("failed to parse reservations file: %w", err)
		}
	}

	return s, nil
}

// Append добавляет бронь и пишет полный снапшот на диск.
//
// При ошибке записи возвращается *PersistenceError, но in-memory
// добавление НЕ откатывается: бронь считается принятой, хранилище
// догонит диск при следующей успешной записи.
func (s *Store) Append(r Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reservations = append(s.reservations, r)

	data, err := json.MarshalIndent(s.reservations, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	return nil
}

// All возвращает копию списка броней.
func (s *Store) All() []Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// Len возвращает количество броней.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}
