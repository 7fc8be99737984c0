package http

import (
	"errors"
	"net/http"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"

	"github.com/labstack/echo/v4"
)

// writeError maps service errors onto HTTP status codes. Validation
// failures become 400, missing records 404, anything else 500.
func writeError(c echo.Context, err error) error {
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: valErr.Message, Details: valErr.Details})
	}

	var nfErr *service.NotFoundError
	if errors.As(err, &nfErr) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: nfErr.Message, Details: nfErr.Details})
	}

	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Interner Fehler", Details: err.Error()})
}
