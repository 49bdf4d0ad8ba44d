package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-2xx response from an API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

// NewAPIError creates an APIError from an HTTP response, consuming its body.
func NewAPIError(resp *http.Response) *APIError {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}

	if err != nil {
		apiErr.Err = fmt.Errorf("error reading response body: %w", err)
	} else {
		apiErr.Err = fmt.Errorf("API request failed with status code: %d", resp.StatusCode)
	}

	return apiErr
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API error: %s - %s", e.Status, e.Body)
	}
	return fmt.Sprintf("API error: %s", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsStatus checks if the error is an API error with the given status code.
func IsStatus(err error, statusCode int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == statusCode
}

// IsNotFound checks if the error is a 404 Not Found error.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
