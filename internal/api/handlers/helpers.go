package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON strictly decodes a single JSON object into dst and runs struct
// validation. The returned message is safe to hand back to the client.
func decodeJSON(r *http.Request, dst any) (string, bool) {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return "invalid json body", false
	}
	return validateDecoded(dec, dst)
}

// decodeOptionalJSON is decodeJSON for endpoints where an empty body is a
// valid request (all fields defaulted server-side).
func decodeOptionalJSON(r *http.Request, dst any) (string, bool) {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return "", true
		}
		return "invalid json body", false
	}
	return validateDecoded(dec, dst)
}

func validateDecoded(dec *json.Decoder, dst any) (string, bool) {
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return "body must contain only one JSON object", false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "invalid field: " + verrs[0].Field(), false
		}
		return "invalid request", false
	}

	return "", true
}
