package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/pinta-go/internal/application"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/job"
	"github.com/linskybing/pinta-go/internal/domain/volume"
	"github.com/linskybing/pinta-go/pkg/k8s"
	"github.com/linskybing/pinta-go/pkg/response"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, access.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, access.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, access.ErrInvalidState),
		errors.Is(err, job.ErrInvalidInput),
		errors.Is(err, volume.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, access.ErrConflict), errors.Is(err, application.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrInactiveUser):
		return http.StatusBadRequest
	case errors.Is(err, k8s.ErrCluster):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", c.GetString("request_id"), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(code, response.ErrorResponse{Error: err.Error()})
}

// bindError turns binding failures into one readable line.
func bindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(verr) > 0 {
		fe := verr[0]
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: fe.Field() + " failed on " + fe.Tag()})
		return
	}
	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
}
