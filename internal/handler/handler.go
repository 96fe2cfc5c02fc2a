package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/pkg/logger"
)

// writeError maps a domain error onto an HTTP response. Business rule
// violations carry their stable code in the body so clients can branch
// on it without parsing messages.
func writeError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case apperr.KindBusinessRule:
		status := http.StatusUnprocessableEntity
		switch apperr.CodeOf(err) {
		case apperr.CodeCPFTaken, apperr.CodeEmployeeIDTaken, apperr.CodeUsernameTaken:
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{
			"error": err.Error(),
			"code":  apperr.CodeOf(err),
		})
	default:
		log.Error("Internal error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("invalid " + name)
	}
	return uint(id), nil
}
