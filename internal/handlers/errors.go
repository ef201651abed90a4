package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
)

const codeInternalError = "internal_error"

var errorCodePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// serviceError переводит ошибку сервиса в HTTP-ответ.
func serviceError(err error) error {
	var transition *orders.TransitionError
	if errors.As(err, &transition) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":            orders.ErrStatusTransitionInvalid.Code,
			"current_status":   transition.Current,
			"requested_status": transition.Requested,
		})
	}

	var domain *models.DomainError
	if errors.As(err, &domain) {
		status := http.StatusBadRequest
		if domain.Kind == models.KindNotFound {
			status = http.StatusNotFound
		}
		return echo.NewHTTPError(status, domain.Code)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, codeInternalError).SetInternal(err)
}

// statusCode строит код ошибки из текста HTTP-статуса: 404 -> not_found.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return codeInternalError
	}
	return strings.ToLower(strings.ReplaceAll(text, " ", "_"))
}

// ErrorHandler отдаёт любую ошибку в виде {"error": "<код>"}.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		var body any = map[string]string{"error": codeInternalError}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case map[string]any:
				body = msg
			case string:
				if !errorCodePattern.MatchString(msg) {
					msg = statusCode(status)
				}
				body = map[string]string{"error": msg}
			default:
				body = map[string]string{"error": statusCode(status)}
			}
			if he.Internal != nil {
				err = he.Internal
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Printf("failed to write error response: %v", err)
		}
	}
}
