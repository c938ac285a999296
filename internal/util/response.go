package util

import (
	"log"
	"net/http"
	"time"

	"fintrack/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a successful reply.
type Response map[string]interface{}

// Success writes the unified success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
	})
}

// Created writes the success envelope with a 201 status.
func Created(c *gin.Context, data Response) {
	c.JSON(http.StatusCreated, gin.H{
		"data": data,
	})
}

// Fail renders err in the standard error envelope. Internal errors are logged
// with full detail and surfaced as a generic message.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("internal error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal server error"
	}
	FailStatus(c, status, msg)
}

// FailStatus writes the standard error envelope with an explicit status.
func FailStatus(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"message":    msg,
	})
}
