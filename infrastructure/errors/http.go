package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError is an error with a stable status code and a public message.
// Message is what clients see; Cause is for logs only.
type HTTPError struct {
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, message string, cause error) *HTTPError {
	return &HTTPError{StatusCode: status, Message: message, Cause: cause}
}

// AsHTTPError extracts an HTTPError from err's chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// Body is the JSON body written for every error response.
type Body struct {
	Error string `json:"error"`
}

// Respond aborts the request with err rendered as {"error": message}.
// Errors that are not HTTPErrors become a generic 500. The full error is
// attached to the gin context so the request logger records it.
func Respond(c *gin.Context, err error) {
	_ = c.Error(err)

	if httpErr, ok := AsHTTPError(err); ok {
		c.AbortWithStatusJSON(httpErr.StatusCode, Body{Error: httpErr.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Body{Error: http.StatusText(http.StatusInternalServerError)})
}
