package backend

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound is returned when the backend answers 404 for a resource.
var ErrNotFound = errors.New("backend resource not found")

// ErrNoRedirectLink is returned when a payment-link response is neither a
// plain URL nor a JSON object with a stripeLink field.
var ErrNoRedirectLink = errors.New("payment link response did not contain a redirect link")

// StatusError is a non-2xx backend response, carrying the status code and the
// (possibly empty) body text for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// statusErrorFrom reads the remainder of a failed response into a StatusError.
func statusErrorFrom(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
