package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// maxRequestBody bounds request payload size.
const maxRequestBody = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// oversized payloads.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
