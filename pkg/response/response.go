package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 with the payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

// BadRequest writes a 400 error.
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized writes a 401 error.
func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden writes a 403 error.
func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, "FORBIDDEN", message)
}

// NotFound writes a 404 error.
func NotFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, "NOT_FOUND", message)
}

// Conflict writes a 409 error.
func Conflict(c *gin.Context, message string) {
	fail(c, http.StatusConflict, "CONFLICT", message)
}

// InternalError writes a 500 error.
func InternalError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
