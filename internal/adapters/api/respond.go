package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrescamacho/lpg-dispatch/internal/domain/shared"
)

// writeSuccess writes the success envelope with the payload's fields
// merged in at the top level.
func writeSuccess(w http.ResponseWriter, payload interface{}) {
	body := map[string]interface{}{"status": "success"}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err == nil {
			for k, v := range fields {
				body[k] = v
			}
		} else {
			body["data"] = payload
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var notFound *shared.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var validation *shared.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
