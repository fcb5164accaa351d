// Package client issues requests against the employee REST backend.
//
// Controllers depend on the ResourceClient interface only; HTTPClient is the
// production implementation and the fake subpackage serves tests.
package client

import (
	"context"
	"net/url"
	"strconv"
)

// Backend resource paths.
const (
	EmployeesPath   = "/employees"
	DepartmentsPath = "/departments"
)

// EmployeePath returns the single-employee resource path.
func EmployeePath(id int64) string {
	return EmployeesPath + "/" + strconv.FormatInt(id, 10)
}

// Request describes one call to the backend. URL is relative to the
// configured base URL.
type Request struct {
	Method          string
	URL             string
	Params          url.Values
	Body            any
	WithCredentials bool
}

// ResourceClient performs a request and decodes the JSON response into out.
// A nil out discards the response body.
type ResourceClient interface {
	Do(ctx context.Context, req Request, out any) error
}

// Fetch performs req and returns the decoded response.
func Fetch[T any](ctx context.Context, c ResourceClient, req Request) (T, error) {
	var out T
	if err := c.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token to ctx. Credentialed
// requests forward it to the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
