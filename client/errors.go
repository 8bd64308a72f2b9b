package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Common error values for the Wasteless client
var (
	ErrNoRefreshToken = errors.New("no refresh token stored")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrUnauthorized   = errors.New("unauthorized")
)

// APIError is an application-level failure: the server responded, but with a
// non-success status. Message carries the server-provided error text when the
// body contained one, otherwise a generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody covers the error shapes the Wasteless API uses. Some endpoints
// respond with {"error": "..."}, others with {"message": "..."}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ParseError builds an *APIError from a non-2xx response, draining the body.
// Different endpoints use different error body shapes (JSON vs. plain text),
// so both are tolerated.
func ParseError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: genericErrorMessage(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Error != "":
			apiErr.Message = eb.Error
		case eb.Message != "":
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

func genericErrorMessage(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "you are not authorized to perform this action"
	case http.StatusNotFound:
		return "the requested resource was not found"
	default:
		return "something went wrong, please try again"
	}
}
