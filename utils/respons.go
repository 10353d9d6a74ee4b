package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondCreated answers 201 with a Location header pointing at the new resource.
func RespondCreated(c *gin.Context, location, message string, data interface{}) {
	c.Header("Location", location)
	RespondJSON(c, http.StatusCreated, message, data)
}

func StatusOf(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidTransition:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// RespondError maps err to its status. Internal errors are logged and
// replaced by a generic message.
func RespondError(c *gin.Context, err error) {
	code := StatusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("request failed: %v", err)
		message = "internal server error"
	}
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
	})
}

// AbortWithError responds like RespondError and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
