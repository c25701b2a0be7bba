package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/livestock-atlas-go/internal/service"
	"github.com/jengzang/livestock-atlas-go/pkg/response"
)

// serviceError maps service sentinels onto HTTP statuses
func serviceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidParam):
		response.Error(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrLoad):
		response.BadGateway(c, message, err)
	default:
		response.InternalError(c, message, err)
	}
}
