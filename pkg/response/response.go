// Package response defines the JSON envelope every endpoint answers
// with: {success, data, error}. Handlers pick the helper matching the
// failure class so status codes stay consistent across modules.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Body{Success: true, Data: data})
}

func fail(c *gin.Context, status int, err string) {
	c.JSON(status, Body{Success: false, Error: err})
}

// OK answers 200 with data.
func OK(c *gin.Context, data interface{}) { ok(c, http.StatusOK, data) }

// Created answers 201 with the new resource.
func Created(c *gin.Context, data interface{}) { ok(c, http.StatusCreated, data) }

// NoContent answers 204.
func NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// BadRequest answers 400; the message names the offending field.
func BadRequest(c *gin.Context, err string) { fail(c, http.StatusBadRequest, err) }

// Unauthorized answers 401: missing, expired or invalid session.
func Unauthorized(c *gin.Context, err string) { fail(c, http.StatusUnauthorized, err) }

// Forbidden answers 403: valid session, insufficient rights.
func Forbidden(c *gin.Context, err string) { fail(c, http.StatusForbidden, err) }

// NotFound answers 404, also used for resources the caller cannot see.
func NotFound(c *gin.Context, err string) { fail(c, http.StatusNotFound, err) }

// Conflict answers 409 on uniqueness violations.
func Conflict(c *gin.Context, err string) { fail(c, http.StatusConflict, err) }

// Internal answers 500 with a generic message; detail goes to the log.
func Internal(c *gin.Context, err string) { fail(c, http.StatusInternalServerError, err) }
