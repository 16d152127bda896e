package web

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/erde/internal/errors"
)

// errorBody is the wire shape of every failed request.
type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError maps err to its status and writes {error, code}. Internal
// details are logged, never sent.
func renderError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	eErr := errors.As(err)

	body := errorBody{Error: eErr.Message, Code: string(eErr.Code)}
	switch eErr.Code {
	case errors.ErrInternal:
		log.WithFields(logrus.Fields{
			"event":      "internal_error",
			"request_id": requestIDFrom(r.Context()),
		}).WithError(err).Error("request failed")
	case errors.ErrOptimizationBlocked, errors.ErrProviderExhausted:
		body.Details = eErr.Details
	}

	renderJSON(w, eErr.Status, body)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
