package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sycoraxai/voicebroker/pkg/providers"
)

// DefaultMaxBodyBytes bounds JSON request bodies when no limit is given.
const DefaultMaxBodyBytes = 1 << 20

// ReadBody reads at most limit bytes of the request body. A larger body is
// an InvalidRequest failure.
func ReadBody(r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, providers.Invalid("failed to read request body", err)
	}
	if int64(len(body)) > limit {
		return nil, providers.Invalid(fmt.Sprintf("request body exceeds maximum size of %d bytes", limit), nil)
	}
	return body, nil
}

// DecodeJSON reads and decodes a JSON request body into dst. Empty bodies,
// malformed JSON and trailing data are InvalidRequest failures. Numbers
// decoded into interface values are json.Number.
func DecodeJSON(r *http.Request, limit int64, dst any) error {
	body, err := ReadBody(r, limit)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return providers.Invalid("request body is required", nil)
	}
	return decode(body, dst)
}

// DecodeOptionalJSON is DecodeJSON for endpoints where an empty body means
// an empty object: dst is left untouched.
func DecodeOptionalJSON(r *http.Request, limit int64, dst any) error {
	body, err := ReadBody(r, limit)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return decode(body, dst)
}

func decode(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return providers.Invalid(fmt.Sprintf("invalid JSON: %v", err), err)
	}
	if dec.More() {
		return providers.Invalid("invalid JSON: unexpected data after top-level value", nil)
	}
	return nil
}

// IsInvalid reports whether err is an InvalidRequest failure.
func IsInvalid(err error) bool {
	var f *providers.Failure
	return errors.As(err, &f) && f.Kind == providers.KindInvalidRequest
}
