package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Request describes one call to the records backend. Path is relative to the API base URL.
	// Body is sent as is when it is a []byte or a string, JSON encoded otherwise.
	Request struct {
		Method  string
		Path    string
		Headers map[string]string
		Query   map[string]string
		Body    interface{}
	}

	Response struct {
		StatusCode  int
		ContentType string
		Body        []byte // empty on 204
	}

	// Transport sends a Request and parses the reply.
	// Non-2xx replies are returned as *APIError, transport failures as *NetworkError.
	Transport interface {
		Do(ctx context.Context, req Request) (*Response, error)
	}
)

// WithHeader returns a copy of req with the header set.
func (req Request) WithHeader(key, value string) Request {
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[key] = value
	req.Headers = headers
	return req
}

// EffectiveMethod is the HTTP method the request is sent with: POST when a body is set, GET otherwise.
func (req Request) EffectiveMethod() string {
	if req.Method != "" {
		return req.Method
	}
	if req.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// IsText reports whether the backend answered with text/plain.
func (res *Response) IsText() bool {
	return strings.Contains(res.ContentType, "text/plain")
}

// Decode unmarshals the response body into v. Text bodies can only be decoded into a *string.
// An empty body (e.g. 204) leaves v untouched.
func (res *Response) Decode(v interface{}) error {
	if res == nil || len(res.Body) == 0 || v == nil {
		return nil
	}
	if s, ok := v.(*string); ok && (res.IsText() || !json.Valid(res.Body)) {
		*s = string(res.Body)
		return nil
	}
	if res.IsText() {
		return errors.Errorf("cannot decode text/plain response into %T", v)
	}
	return errors.Wrap(json.Unmarshal(res.Body, v), "decoding response")
}
