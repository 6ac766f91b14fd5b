package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

const maxBodyBytes = 64 << 10

// DecodeJSONBody reads exactly one JSON object of at most 64 KiB into dest, rejecting unknown
// fields, and then applies dest's validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	if err := validate.Struct(dest); err != nil {
		return structError(err)
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
		msg       string
	)
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is required"
	case errors.Is(err, io.ErrUnexpectedEOF):
		msg = "request body is truncated JSON"
	case errors.As(err, &syntaxErr):
		msg = fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		msg = fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &sizeErr):
		msg = fmt.Sprintf("request body exceeds %d bytes", sizeErr.Limit)
	default:
		msg = "invalid request body"
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg).WithDetails(map[string]any{"error": err.Error()})
}
