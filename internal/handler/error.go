package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindNotFound:   http.StatusNotFound,
	apperr.KindConflict:   http.StatusConflict,
	apperr.KindUpstream:   http.StatusBadGateway,
	apperr.KindInternal:   http.StatusInternalServerError,
}

// respondError maps a component error onto the transport: taxonomy kind plus
// a caller-safe message, never raw internal detail.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("request failed", zap.Error(err))
	}

	return c.JSON(status, echo.Map{
		"error": echo.Map{
			"kind":    string(kind),
			"message": apperr.MessageOf(err),
		},
	})
}
