// Package match предоставляет нечёткое сопоставление строк для каталога.
//
// Пользователи пишут названия районов и ресторанов с опечатками
// ("Korangala" вместо "Koramangala"), поэтому точное сравнение не работает.
// Используется partial ratio: короткий запрос сравнивается с лучшим
// окном той же длины внутри кандидата, результат 0..100.
package match

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// MinConfidence — порог уверенности, ниже которого кандидат отбрасывается.
const MinConfidence = 70

// DefaultTopN — сколько кандидатов возвращать по умолчанию.
const DefaultTopN = 5

// Match — один кандидат с оценкой похожести.
type Match struct {
	Value string `json:"value"`
	Score int    `json:"score"` // 0..100
}

// Score возвращает partial ratio между запросом и кандидатом.
//
// Сравнение регистронезависимое, пробелы по краям игнорируются.
func Score(query, candidate string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0
	}
	return fuzzy.PartialRatio(q, c)
}

// TopMatches возвращает до topN кандидатов с оценкой >= MinConfidence,
// отсортированных по убыванию оценки. Кандидаты с равной оценкой
// сохраняют исходный порядок (стабильная сортировка).
//
// topN <= 0 трактуется как DefaultTopN.
func TopMatches(query string, candidates []string, topN int) []Match {
	if topN <= 0 {
		topN = DefaultTopN
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if score := Score(query, c); score >= MinConfidence {
			matches = append(matches, Match{Value: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// BestMatch возвращает кандидата с максимальной оценкой.
//
// ok == false если ни один кандидат не прошёл порог MinConfidence.
func BestMatch(query string, candidates []string) (Match, bool) {
	best := Match{Score: -1}
	for _, c := range candidates {
		if score := Score(query, c); score >= MinConfidence && score > best.Score {
			best = Match{Value: c, Score: score}
		}
	}
	if best.Score < 0 {
		return Match{}, false
	}
	return best, true
}

// DedupeBest схлопывает дубликаты значений, оставляя лучшую оценку.
//
// Каталог может содержать несколько записей одного ресторана в разных
// районах: в выдаче имя должно появиться один раз.
func DedupeBest(matches []Match) []Match {
	seen := make(map[string]int, len(matches)) // value -> index in result
	result := make([]Match, 0, len(matches))

	for _, m := range matches {
		key := strings.ToLower(m.Value)
		if idx, ok := seen[key]; ok {
			if m.Score > result[idx].Score {
				result[idx] = m
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, m)
	}
	return result
}
