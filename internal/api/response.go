package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Code: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, message)
}
