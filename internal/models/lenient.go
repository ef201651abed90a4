package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Клиенты присылают числа и строки вперемешку ("2" и 2), поэтому
// входные DTO разбираются через map и приводятся вручную.

func decodeObject(data []byte) (map[string]any, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, false
	}
	return raw, true
}

func looseString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// looseInt возвращает fallback, если значение не целое число.
func looseInt(value any, fallback int) int {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return fallback
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return n
	default:
		return fallback
	}
}

// looseStrings принимает массив или строку через запятую.
func looseStrings(value any) []string {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case string:
		for _, part := range strings.Split(v, ",") {
			items = append(items, part)
		}
	}
	var result []string
	for _, item := range items {
		if s := looseString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func looseFloat(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}
