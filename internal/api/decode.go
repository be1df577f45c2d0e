package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxBodyBytes bounds request bodies accepted by Decode.
const MaxBodyBytes = 1 << 20

// Decode reads a single JSON object from r into dst. Malformed input is
// reported as a non-field ValidationError.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return FieldError(NonFieldErrors, "Request body is empty.")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return FieldError(typeErr.Field, fmt.Sprintf("Expected a value of type %s.", typeErr.Type))
		default:
			return FieldError(NonFieldErrors, "Malformed JSON: "+err.Error())
		}
	}
	return nil
}
