// Package navigation names the console routes and the sink controllers use
// to leave the current screen.
package navigation

import (
	"strconv"
	"sync"
)

// Console routes.
const (
	ListRoute   = "/admin/employees"
	CreateRoute = "/admin/employees/create"
)

// EditRoute returns the form route for an existing employee.
func EditRoute(id int64) string {
	return ListRoute + "/" + strconv.FormatInt(id, 10)
}

// Sink performs a programmatic route transition.
type Sink interface {
	Navigate(route string)
}

// Recorder keeps every requested transition. The console uses the last one
// as the response's navigate_to target.
type Recorder struct {
	mu     sync.Mutex
	routes []string
}

// Navigate implements Sink.
func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Last returns the most recent route, if any.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return "", false
	}
	return r.routes[len(r.routes)-1], true
}

// Routes returns all recorded routes in order.
func (r *Recorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}
