package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the controller logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// respondOK writes a successful envelope
func respondOK(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, models.Response{Success: true, Data: data})
}

// respondError maps the error taxonomy onto HTTP statuses.
// Internal details are logged and never returned to the caller.
func respondError(ctx *gin.Context, err error, notFoundCode string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, models.NewErrorResponse(models.CodeValidation, verr.Error()))
	case errors.Is(err, models.ErrNotFound):
		ctx.JSON(http.StatusNotFound, models.NewErrorResponse(notFoundCode, "Resource not found"))
	case errors.Is(err, models.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Authentication required"))
	case errors.Is(err, models.ErrForbidden):
		ctx.JSON(http.StatusForbidden, models.NewErrorResponse(models.CodeForbidden, "Invalid token"))
	case errors.Is(err, models.ErrTooManyAttempts):
		ctx.JSON(http.StatusTooManyRequests, models.NewErrorResponse(models.CodeTooManyRequests, err.Error()))
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.Request.URL.Path,
		}).Error("Request failed")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternalServer, "Internal server error"))
	}
}

// badRequest answers 400 with the given code and message
func badRequest(ctx *gin.Context, code, message string) {
	ctx.JSON(http.StatusBadRequest, models.NewErrorResponse(code, message))
}
