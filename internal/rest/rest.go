package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteError sends an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, message string, details string) {
	writeErrorResponse(w, status, ErrorResponse{Error: message, Details: details})
}

func writeErrorResponse(w http.ResponseWriter, status int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}

// WriteJSON encodes body as the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// DecodeAndValidate reads a JSON body into dst and runs its `validate` tags.
// It writes a 400 response and returns false when either step fails.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "corpo da requisição inválido", err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{
			Error:  "dados inválidos",
			Fields: ProcessValidationErrors(err),
		})
		return false
	}
	return true
}

// ProcessValidationErrors maps each failing field to the tag it failed.
func ProcessValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"": err.Error()}
	}

	errorResponse := make(map[string]string, len(validationErrors))
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// ReadUpload returns the name and content of the multipart file sent under field.
func ReadUpload(r *http.Request, field string, maxBytes int64) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return "", nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("missing file field %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("could not read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", nil, fmt.Errorf("uploaded file exceeds %d bytes", maxBytes)
	}
	return header.Filename, data, nil
}
