package utils

import (
	"encoding/json"
	"net/http"

	"consign-backend/internal/apperr"
	"consign-backend/internal/logger"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes the error envelope. Errors without a code are reported as
// INTERNAL_ERROR with a generic message and logged with their cause.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Internal(err)
	}
	meta := apperr.MetadataFor(typed.Code())

	payload := errorPayload{Code: typed.Code(), Message: typed.Message()}
	if typed.Code() == apperr.CodeInternal {
		payload.Message = meta.PublicMessage
		log := logger.FromContext(r.Context())
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	if meta.DetailsAllowed || typed.Code() == apperr.CodeNotFound {
		payload.Details = typed.Details()
	}

	JSON(w, meta.HTTPStatus, errorBody{Error: payload})
}

// File writes a binary attachment.
func File(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
