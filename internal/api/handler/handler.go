package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether the caller should
// continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				tag := e.Tag()
				switch tag {
				case "required":
					fields[field] = "field is required"
				case "email":
					fields[field] = "invalid email format"
				case "min":
					fields[field] = "must be at least " + e.Param() + " characters"
				case "max":
					fields[field] = "must be at most " + e.Param() + " characters"
				default:
					fields[field] = "validation failed on " + tag
				}
			}
			response.BadRequest(w, fields)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

// urlUUID parses a UUID route parameter, writing a 400 on failure.
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		response.BadRequest(w, "missing "+name)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// serviceError maps service sentinel errors to HTTP responses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, "forbidden")
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrTaskCycle):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.BadRequest(w, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, "invalid credentials")
	case errors.Is(err, service.ErrTokenRevoked):
		response.Unauthorized(w, "token revoked")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		response.InternalError(w, "internal error")
	}
}
