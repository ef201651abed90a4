package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// decodeBody разбирает JSON тела запроса. Пустое или неразборчивое тело
// считается пустым объектом: UnmarshalJSON запросов сам выставляет
// значения по умолчанию.
func decodeBody(c echo.Context, v json.Unmarshaler) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid_body")
	}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, v) == nil {
		return nil
	}
	return v.UnmarshalJSON([]byte("{}"))
}

func listResponse(items any, total int) map[string]any {
	return map[string]any{"items": items, "total": total}
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func queryString(c echo.Context, name, fallback string) string {
	if values, ok := c.QueryParams()[name]; ok && len(values) > 0 {
		return values[0]
	}
	return fallback
}

// csvValues разбивает "a, b,,c" на непустые значения.
func csvValues(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func csvInts(value string) []int {
	var result []int
	for _, part := range csvValues(value) {
		if n := parseInt(part, -1); n > 0 {
			result = append(result, n)
		}
	}
	return result
}
