package client

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

// request collects the per-call settings before the HTTP request is built.
// auth defaults to true: the bypass endpoints (login, registration, refresh)
// opt out explicitly via NoAuth.
type request struct {
	auth        bool
	body        []byte
	contentType string
	query       url.Values
	headers     map[string]string
	bodyErr     error
}

// RequestOption configures a single logical call made through Client.Do.
type RequestOption func(*request)

// NoAuth marks the call as a bypass path: no Authorization header is attached
// even when an access token is stored, and no refresh is attempted on 401/403.
func NoAuth() RequestOption {
	return func(r *request) {
		r.auth = false
	}
}

// JSON serializes v as the request body with Content-Type application/json.
func JSON(v any) RequestOption {
	return func(r *request) {
		data, err := json.Marshal(v)
		if err != nil {
			r.bodyErr = errors.Wrap(err, "marshal request body")
			return
		}
		r.body = data
		r.contentType = "application/json"
	}
}

// RawBody sets a pre-encoded request body with an explicit content type.
// Used for multipart form payloads, whose boundary-bearing content type must
// pass through untouched rather than be forced to application/json.
func RawBody(contentType string, body []byte) RequestOption {
	return func(r *request) {
		r.body = body
		r.contentType = contentType
	}
}

// Query adds URL query parameters to the call.
func Query(values url.Values) RequestOption {
	return func(r *request) {
		if r.query == nil {
			r.query = url.Values{}
		}
		for k, vs := range values {
			for _, v := range vs {
				r.query.Add(k, v)
			}
		}
	}
}

// Header sets an additional request header.
func Header(key, value string) RequestOption {
	return func(r *request) {
		if r.headers == nil {
			r.headers = map[string]string{}
		}
		r.headers[key] = value
	}
}

func newRequest(options ...RequestOption) (*request, error) {
	r := &request{auth: true}
	for _, opt := range options {
		opt(r)
	}
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}
	return r, nil
}
