// Package handler implements the kv-gateway HTTP handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	infraerrors "github.com/jonesrussell/north-cloud/infrastructure/errors"
	infralogger "github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/telemetry"
)

// Public error messages.
const (
	msgServerDown        = "SERVER IS DOWN"
	msgNotFound          = "NOT FOUND"
	msgInvalidFormat     = "Key or value is in invalid format"
	msgUnsupportedMedia  = "Content-Type must be application/json"
	msgMalformedJSON     = "Malformed JSON body"
	msgStoreWriteFailed  = "Failed to store entry"
	msgStoreReadFailed   = "Failed to read entry"
	msgDependencyFailure = "Failed to ping database"
)

// Fixed demonstration keys served by Lookup.
const (
	greetingKey   = "hello"
	greetingValue = "world"
	outageKey     = "damn" // always answers as if the backend were down
)

// Validator decides whether a pair may be accepted.
type Validator interface {
	Validate(pair domain.KeyValuePair) domain.ValidationOutcome
}

// EntryStore persists accepted entries. Get returns domain.ErrNotFound for
// unknown keys.
type EntryStore interface {
	Set(ctx context.Context, pair domain.KeyValuePair) error
	Get(ctx context.Context, key string) (string, error)
}

// EntryHandler serves the greeting, lookup and entry endpoints.
type EntryHandler struct {
	validator Validator
	store     EntryStore
	metrics   *telemetry.Metrics
}

// NewEntryHandler creates an EntryHandler. store may be nil, in which case
// accepted entries are only echoed and lookups use the fixed table alone.
func NewEntryHandler(validator Validator, store EntryStore, metrics *telemetry.Metrics) *EntryHandler {
	return &EntryHandler{validator: validator, store: store, metrics: metrics}
}

// Greeting returns the fixed greeting pair.
func (h *EntryHandler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, domain.KeyValuePair{Key: greetingKey, Value: greetingValue})
}

// Lookup resolves :key against the fixed table, then the store if enabled.
func (h *EntryHandler) Lookup(c *gin.Context) {
	key := c.Param("key")

	switch key {
	case greetingKey:
		c.JSON(http.StatusOK, domain.KeyValuePair{Key: greetingKey, Value: greetingValue})
		return
	case outageKey:
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusInternalServerError, msgServerDown,
			fmt.Errorf("%w: simulated outage", domain.ErrDependencyUnavailable)))
		return
	}

	if h.store == nil {
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusNotFound, msgNotFound, domain.ErrNotFound))
		return
	}

	value, err := h.store.Get(c.Request.Context(), key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusNotFound, msgNotFound, err))
	case err != nil:
		infralogger.FromContext(c.Request.Context()).Error("Entry lookup failed",
			infralogger.String("key", key),
			infralogger.Error(err),
		)
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusInternalServerError, msgStoreReadFailed, err))
	default:
		c.JSON(http.StatusOK, domain.KeyValuePair{Key: key, Value: value})
	}
}

// Set validates the JSON body and echoes the accepted pair.
func (h *EntryHandler) Set(c *gin.Context) {
	if !isJSONContentType(c.GetHeader("Content-Type")) {
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusUnsupportedMediaType, msgUnsupportedMedia, nil))
		return
	}

	var candidate domain.KeyValuePair
	if err := c.ShouldBindJSON(&candidate); err != nil {
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusBadRequest, msgMalformedJSON, err))
		return
	}

	outcome := h.validator.Validate(candidate)
	h.metrics.ObserveValidation(outcome)

	switch o := outcome.(type) {
	case domain.Accepted:
		h.accept(c, o.Pair)
	case domain.Rejected:
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusUnprocessableEntity, msgInvalidFormat,
			fmt.Errorf("%w: %s", domain.ErrValidation, o.Reason)))
	default:
		infraerrors.Respond(c, fmt.Errorf("unknown validation outcome %T", outcome))
	}
}

func (h *EntryHandler) accept(c *gin.Context, pair domain.KeyValuePair) {
	if h.store != nil {
		if err := h.store.Set(c.Request.Context(), pair); err != nil {
			infralogger.FromContext(c.Request.Context()).Error("Entry write failed",
				infralogger.String("key", pair.Key),
				infralogger.Error(err),
			)
			infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusInternalServerError, msgStoreWriteFailed, err))
			return
		}
	}
	c.JSON(http.StatusOK, pair)
}

// isJSONContentType accepts a missing header, application/json and
// structured +json types.
func isJSONContentType(header string) bool {
	if header == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
