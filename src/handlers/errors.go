package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/zirvehikayem/blog-api/src/services"
)

// MessageResponse acknowledges a write that returns no record
type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func success(message string) MessageResponse {
	return MessageResponse{Message: message, Status: "success"}
}

func init() {
	// report binding errors with JSON field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError maps service errors onto HTTP responses. resource names
// the entity in 404 messages, e.g. "Post".
func respondError(c *gin.Context, resource string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation_error",
			"detail": "Invalid request",
			"fields": verr.Fields,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "detail": "Incorrect username or password"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "detail": "Could not validate credentials"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": "Admin access required"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": resource + " not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "detail": resource + " already exists"})
	default:
		_ = c.Error(err)
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "detail": "Internal server error"})
	}
}

// bindJSON decodes the request body into obj and writes the error
// response itself when that fails.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		fields := make([]services.FieldError, len(verrs))
		for i, fe := range verrs {
			fields[i] = services.FieldError{Field: fe.Field(), Message: fieldMessage(fe)}
		}
		respondError(c, "", &services.ValidationError{Fields: fields})
	case errors.As(err, &typeErr):
		respondError(c, "", &services.ValidationError{Fields: []services.FieldError{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.String(),
		}}})
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": "Request body is required"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": "Malformed JSON body"})
	}
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
