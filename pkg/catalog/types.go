// Package catalog предоставляет in-memory каталог ресторанов.
//
// Каталог загружается один раз при старте из JSON файла (или объекта в S3)
// и дальше обслуживает только чтение — инструменты агента работают
// с готовыми индексами.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Restaurant — одна запись каталога.
//
// В исходном формате каталога район вложен: "location": {"area": ...}.
// После загрузки район доступен как плоское поле Area.
type Restaurant struct {
	Name            string      `json:"name"`
	Area            string      `json:"area"`
	Cuisine         CuisineList `json:"cuisine"`
	Ambience        string      `json:"ambience,omitempty"`
	SeatingCapacity int         `json:"seating_capacity,omitempty"`
	PriceRange      string      `json:"price_range,omitempty"`
	Rating          float64     `json:"rating,omitempty"`
}

// UnmarshalJSON принимает каноническую форму записи с вложенным
// "location": {"area": ...} и терпит плоский "area" как алиас.
// Если заданы обе формы, вложенная важнее.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name     string `json:"name"`
		Area     string `json:"area"`
		Location struct {
			Area string `json:"area"`
		} `json:"location"`
		Cuisine         CuisineList `json:"cuisine"`
		Ambience        string      `json:"ambience"`
		SeatingCapacity int         `json:"seating_capacity"`
		PriceRange      string      `json:"price_range"`
		Rating          float64     `json:"rating"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	area := wire.Location.Area
	if area == "" {
		area = wire.Area
	}

	*r = Restaurant{
		Name:            wire.Name,
		Area:            area,
		Cuisine:         wire.Cuisine,
		Ambience:        wire.Ambience,
		SeatingCapacity: wire.SeatingCapacity,
		PriceRange:      wire.PriceRange,
		Rating:          wire.Rating,
	}
	return nil
}

// CuisineList — список кухонь ресторана.
//
// В исходных данных поле cuisine встречается в двух формах:
// скаляр ("italian") и список (["north indian", "chinese"]).
// Обе формы нормализуются в список строк lower-case без краевых пробелов.
type CuisineList []string

// UnmarshalJSON принимает и строку, и массив строк.
func (c *CuisineList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = normalizeCuisines([]string{single})
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("cuisine must be a string or an array of strings: %w", err)
	}
	*c = normalizeCuisines(many)
	return nil
}

// MarshalJSON всегда сериализует в форму списка.
func (c CuisineList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(c))
}

// Contains проверяет наличие кухни (регистронезависимо).
func (c CuisineList) Contains(cuisine string) bool {
	needle := strings.ToLower(strings.TrimSpace(cuisine))
	for _, v := range c {
		if v == needle {
			return true
		}
	}
	return false
}

func normalizeCuisines(in []string) CuisineList {
	out := make(CuisineList, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
