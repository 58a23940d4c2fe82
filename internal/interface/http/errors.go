package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	"github.com/oksasatya/mycookbook-api/pkg/response"
	"github.com/oksasatya/mycookbook-api/pkg/validation"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch errs.Kind(err) {
	case errs.ErrInvalidInput:
		return http.StatusBadRequest
	case errs.ErrUnauthenticated:
		return http.StatusUnauthorized
	case errs.ErrForbidden:
		return http.StatusForbidden
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict:
		return http.StatusConflict
	case errs.ErrExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Internal and upstream failures are
// logged and reported without their cause.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusOf(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "internal server error"
	case http.StatusBadGateway:
		msg = "external service failure"
	case http.StatusUnauthorized:
		msg = "unauthenticated"
	}
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, status, msg, nil)
}

// badPayload answers a binding failure with per-field details.
func badPayload(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "payload too large", nil)
		return
	}
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}
