// Package fake provides an in-memory ResourceClient for controller tests.
package fake

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spec-kit/employee-admin/internal/client"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

// Responder produces the response for a request. The returned value is
// round-tripped through JSON into the caller's out value.
type Responder func(ctx context.Context, req client.Request) (any, error)

// Client records every request and answers from registered responders.
type Client struct {
	mu     sync.Mutex
	routes map[string]Responder
	calls  []client.Request
}

// New returns an empty fake.
func New() *Client {
	return &Client{routes: make(map[string]Responder)}
}

// On registers a responder for method and path.
func (c *Client) On(method, path string, r Responder) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[key(method, path)] = r
	return c
}

// Respond registers a static response.
func (c *Client) Respond(method, path string, value any) *Client {
	return c.On(method, path, func(context.Context, client.Request) (any, error) {
		return value, nil
	})
}

// Fail registers a responder that always returns err.
func (c *Client) Fail(method, path string, err error) *Client {
	return c.On(method, path, func(context.Context, client.Request) (any, error) {
		return nil, err
	})
}

// Do implements client.ResourceClient.
func (c *Client) Do(ctx context.Context, req client.Request, out any) error {
	method := req.Method
	if method == "" {
		method = "GET"
	}

	c.mu.Lock()
	c.calls = append(c.calls, req)
	responder, ok := c.routes[key(method, req.URL)]
	c.mu.Unlock()

	if !ok {
		return apperrors.NewNotFound("route", map[string]any{"method": method, "path": req.URL})
	}
	value, err := responder(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Calls returns a copy of the recorded requests.
func (c *Client) Calls() []client.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.Request(nil), c.calls...)
}

// CallCount counts recorded requests for method and path.
func (c *Client) CallCount(method, path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		m := call.Method
		if m == "" {
			m = "GET"
		}
		if m == method && call.URL == path {
			n++
		}
	}
	return n
}

func key(method, path string) string {
	return method + " " + path
}
