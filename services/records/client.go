package recordsvc

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/records"
)

// Client calls the records endpoints through an (authenticated) core.Transport.
type Client struct {
	transport core.Transport
}

func NewClient(transport core.Transport) *Client {
	return &Client{transport: transport}
}

// path joins escaped segments onto base: path("/students", id) -> "/students/<id>".
func path(base string, segments ...interface{}) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		switch v := s.(type) {
		case records.ID:
			b.WriteString(url.PathEscape(string(v)))
		case string:
			b.WriteString(url.PathEscape(v))
		}
	}
	return b.String()
}

func (c *Client) get(ctx context.Context, p string, v interface{}) error {
	return c.send(ctx, http.MethodGet, p, nil, v)
}

func (c *Client) send(ctx context.Context, method, p string, body, v interface{}) error {
	res, err := c.transport.Do(ctx, core.Request{Method: method, Path: p, Body: body})
	if err != nil {
		return err
	}
	return res.Decode(v)
}

func (c *Client) delete(ctx context.Context, p string) error {
	return c.send(ctx, http.MethodDelete, p, nil, nil)
}

func wrap(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
