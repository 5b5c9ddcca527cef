package handlers

import (
	"encoding/json"
	"net/http"

	"organizese/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

// responseWithFields writes a JSON object assembled from key/value payloads.
func responseWithFields(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	responseWithJSON(w, code, storage)
}

func responseWithJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: failed to encode response", err)
	}
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithFields(w, code,
		toPayload("error", http.StatusText(code)),
		toPayload("message", message),
	)
}
