package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/service"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidPostID = errors.New("invalid post ID")
	errInvalidUserID = errors.New("invalid user ID")
)

var kindStatuses = map[service.Kind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
	service.KindNotFound:     http.StatusNotFound,
	service.KindConflict:     http.StatusConflict,
	service.KindExternal:     http.StatusBadGateway,
	service.KindInternal:     http.StatusInternalServerError,
}

// respondError maps a service error onto the response envelope. Service
// errors arrive pre-sanitized; anything unclassified reads as internal.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status, ok := kindStatuses[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	c.JSON(status, dto.NewErrorResponse(string(kind), err.Error()))
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(string(service.KindValidation), err.Error()))
}
