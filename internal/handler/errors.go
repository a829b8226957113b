package handler

import (
	"errors"
	"net/http"

	"github.com/dalbom/arithmetic/internal/response"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// failService maps a service error onto the API envelope.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	var pre *service.ProRequiredError
	switch {
	case errors.As(err, &pre):
		response.FailWithDetails(c, http.StatusForbidden, response.ErrProRequired, gin.H{"features": pre.Features})
	case errors.Is(err, service.ErrInvalidWorksheet):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidWorksheet, err.Error())
	case errors.Is(err, service.ErrPresetLimitReached):
		response.Fail(c, http.StatusForbidden, response.ErrPresetLimitReached)
	case errors.Is(err, service.ErrPresetNotFound), errors.Is(err, service.ErrWorksheetNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDocumentUnavailable):
		response.Fail(c, http.StatusNotFound, response.ErrDocumentUnavailable)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
