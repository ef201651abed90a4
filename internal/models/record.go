package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Сохранённые записи правились руками и старыми версиями сервиса, поэтому
// перед строгим разбором поля приводятся к ожидаемым типам. Поле, которое
// привести нельзя, удаляется, и остаётся значение по умолчанию.

type fieldKind int

const (
	intField fieldKind = iota
	floatField
	stringField
	stringsField
	timeField
)

type recordFields map[string]fieldKind

// Форматы времени без зоны, которые встречаются в старых файлах.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func normalizeRecord(data []byte, fields recordFields) ([]byte, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return data, nil
	}

	changed := false
	for key, kind := range fields {
		encoded, present := raw[key]
		if !present {
			continue
		}
		var value any
		if err := json.Unmarshal(encoded, &value); err != nil || value == nil {
			continue
		}
		fixed, keep := normalizeField(value, kind)
		if !keep {
			delete(raw, key)
			changed = true
			continue
		}
		if fixed == nil {
			continue
		}
		changed = true
		if encoded, err := json.Marshal(fixed); err == nil {
			raw[key] = encoded
		} else {
			delete(raw, key)
		}
	}
	if !changed {
		return data, nil
	}
	return json.Marshal(raw)
}

// normalizeField возвращает nil, если значение уже подходит.
func normalizeField(value any, kind fieldKind) (any, bool) {
	switch kind {
	case intField:
		if f, ok := value.(float64); ok {
			if f == math.Trunc(f) {
				return nil, true
			}
			return int(math.Round(f)), true
		}
		if s, ok := value.(string); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return n, true
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return int(math.Round(f)), true
			}
		}
		return nil, false
	case floatField:
		if _, ok := value.(float64); ok {
			return nil, true
		}
		if s, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return f, true
			}
		}
		return nil, false
	case stringField:
		switch value.(type) {
		case string:
			return nil, true
		case float64, bool:
			return looseString(value), true
		}
		return nil, false
	case stringsField:
		return normalizeStrings(value)
	case timeField:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return nil, true
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t.Format(time.RFC3339Nano), true
			}
		}
		return nil, false
	}
	return nil, true
}

func normalizeStrings(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		list := []string{}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return list, true
	case []any:
		clean := true
		list := make([]string, 0, len(v))
		for _, item := range v {
			if _, ok := item.(string); !ok {
				clean = false
			}
			if s := looseString(item); s != "" {
				list = append(list, s)
			}
		}
		if clean {
			return nil, true
		}
		return list, true
	}
	return nil, false
}
