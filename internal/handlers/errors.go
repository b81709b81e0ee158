package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"
	"github.com/MokkeMeguru/todo-api/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// StatusFor maps a use-case error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dom.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dom.ErrValidation),
		errors.Is(err, dom.ErrInvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err without leaking infrastructure details.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		c.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: publicMessage(err)})
}

// publicMessage drops the "<op>: " prefixes added while the error travelled
// up and keeps the domain message.
func publicMessage(err error) string {
	var nf *dom.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	var tl *dom.DescriptionTooLongError
	if errors.As(err, &tl) {
		return tl.Error()
	}
	var inv *dom.InvalidOperationError
	if errors.As(err, &inv) {
		return inv.Error()
	}
	if errors.Is(err, dom.ErrEmptyDescription) {
		return dom.ErrEmptyDescription.Error()
	}
	return err.Error()
}

// bindingMessage turns a gin binding error into a short client message.
func bindingMessage(err error, field string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "invalid " + strings.ToLower(fe.Field()) + ": failed on " + fe.Tag()
	}
	return "invalid " + field
}
