package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

var errInternal = errors.New("internal server error")

// respondServiceError maps service error kinds to status codes. Anything
// outside the taxonomy is logged and reported as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	default:
		utils.ErrorLogger.WithError(err).
			WithField("route", c.FullPath()).
			Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}
