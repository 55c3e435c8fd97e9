package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/registrar/core"
)

// Client is the core.Transport talking to the records backend over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *rest.Client
}

var _ core.Transport = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return newClient(conf.APIBaseURL, conf.RequestTimeout, nil)
}

// newClient keeps session cookies between calls; the backend may pair Basic auth with a session.
func newClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		rest:    &rest.Client{HTTPClient: httpClient},
	}
}

func (c *Client) Do(ctx context.Context, req core.Request) (*core.Response, error) {
	method := req.EffectiveMethod()
	op := method + " " + req.Path

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}
	headers := make(map[string]string, len(req.Headers)+2)
	headers["Accept"] = "application/json, text/plain"
	if body != nil && isStructured(req.Body) {
		headers["Content-Type"] = "application/json"
	}
	for k, v := range req.Headers {
		headers[k] = v
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := rest.BuildRequestObject(rest.Request{
		Method:      rest.Method(method),
		BaseURL:     c.baseURL + req.Path,
		Headers:     headers,
		QueryParams: req.Query,
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	httpRes, err := c.rest.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return nil, core.NewNetworkError(op, err)
	}
	// the body is read within the deadline too
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return nil, core.NewNetworkError(op, err)
	}

	contentType := http.Header(res.Headers).Get("Content-Type")
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(req.Path, res.StatusCode, contentType, res.Body)
	}

	resp := &core.Response{StatusCode: res.StatusCode, ContentType: contentType}
	if res.StatusCode != http.StatusNoContent {
		resp.Body = []byte(res.Body)
	}
	return resp, nil
}

func isStructured(body interface{}) bool {
	switch body.(type) {
	case []byte, string:
		return false
	}
	return true
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

// newAPIError builds the error from the reply body: the JSON `message` field, the text body, or the
// status text, in that order.
func newAPIError(path string, status int, contentType, body string) *core.APIError {
	apiErr := &core.APIError{Status: status}

	if strings.Contains(contentType, "application/json") {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(body), &data); err == nil {
			apiErr.Data = data
			if msg, ok := data["message"].(string); ok {
				apiErr.Message = msg
			}
		}
	} else if text := strings.TrimSpace(body); text != "" {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("API request to %s failed with status %d", path, status)
	}
	if apiErr.Data == nil {
		apiErr.Data = make(map[string]interface{}, 1)
	}
	if _, ok := apiErr.Data["message"]; !ok {
		apiErr.Data["message"] = apiErr.Message
	}
	return apiErr
}
