package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/skillverge/api/http/presenter"
	"github.com/artem13815/skillverge/pkg/analysis"
)

// writeError maps domain errors to HTTP statuses; anything unknown is logged as 500.
func writeError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var verr *analysis.ValidationError
	switch {
	case errors.As(err, &verr):
		return presenter.FieldError(c, http.StatusBadRequest, verr.Field, verr.Message)
	case errors.Is(err, analysis.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "analysis not found")
	default:
		log.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
