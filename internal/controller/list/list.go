// Package list pages through the employee collection.
package list

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/controller"
	"github.com/spec-kit/employee-admin/internal/deepcopy"
	"github.com/spec-kit/employee-admin/internal/domain"
)

var (
	// ErrNegativePage is returned by SetActivePage for indexes below zero.
	ErrNegativePage = errors.New("page index must not be negative")
	// ErrSuperseded is returned when a newer reload replaced this one before it resolved.
	ErrSuperseded = errors.New("page request superseded by a newer one")
	// ErrClosed is returned once the controller has been unmounted.
	ErrClosed = errors.New("list controller closed")
)

// EmployeePage is the page type the list displays.
type EmployeePage = domain.Page[domain.Employee]

// Snapshot is the view state handed to the rendering layer.
type Snapshot struct {
	ActivePage int
	// Page is nil until the first successful fetch.
	Page      *EmployeePage
	IsLoading bool
	State     controller.LoadState
	Err       error
}

// Observer is notified after every state transition.
type Observer func(Snapshot)

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides the fixed page size.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver subscribes o before the first fetch.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// Controller owns the paginated employee fetch state.
//
// Every reload carries a sequence number. Only the response to the newest
// reload is applied; older ones are dropped, so rapid page changes settle on
// the last requested page regardless of completion order.
type Controller struct {
	client   client.ResourceClient
	logger   *zap.Logger
	pageSize int

	mu         sync.Mutex
	activePage int
	page       controller.Fetchable[*EmployeePage]
	latest     uint64
	observers  []Observer

	closed atomic.Bool
}

// New builds a list controller. Nothing is fetched until Mount or SetActivePage.
func New(rc client.ResourceClient, opts ...Option) *Controller {
	c := &Controller{
		client:   rc,
		logger:   zap.NewNop(),
		pageSize: config.DefaultEmployeePageSize,
	}
	c.page.State = controller.LoadIdle
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("employee_list")
	return c
}

// Subscribe registers an observer for subsequent transitions.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Mount loads the active page (0 for a fresh controller).
func (c *Controller) Mount(ctx context.Context) error {
	return c.Reload(ctx)
}

// SetActivePage replaces the active page index and reloads. The index is not
// checked against the known total; the backend clamps or rejects it.
func (c *Controller) SetActivePage(ctx context.Context, pageIndex int) error {
	if pageIndex < 0 {
		return ErrNegativePage
	}
	c.mu.Lock()
	c.activePage = pageIndex
	c.mu.Unlock()
	return c.Reload(ctx)
}

// Reload fetches the active page. A failed fetch keeps the previous page as
// stale data and reports the error both in the snapshot and to the caller.
func (c *Controller) Reload(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	c.latest++
	seq := c.latest
	pageIndex := c.activePage
	c.page.Start()
	started := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(started)

	result, err := client.Fetch[EmployeePage](ctx, c.client, client.Request{
		Method: "GET",
		URL:    client.EmployeesPath,
		Params: url.Values{
			"page": {strconv.Itoa(pageIndex)},
			"size": {strconv.Itoa(c.pageSize)},
		},
		WithCredentials: true,
	})

	if c.closed.Load() {
		c.logger.Debug("dropping page response after close", zap.Int("page", pageIndex))
		return ErrClosed
	}

	c.mu.Lock()
	if seq != c.latest {
		c.mu.Unlock()
		c.logger.Debug("dropping stale page response", zap.Int("page", pageIndex), zap.Uint64("seq", seq))
		return ErrSuperseded
	}
	if err != nil {
		c.page.SetError(err)
	} else {
		if verr := result.Validate(); verr != nil {
			c.logger.Warn("backend returned inconsistent page", zap.Int("page", pageIndex), zap.Error(verr))
		}
		c.page.SetData(&result)
	}
	finished := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("employee page fetch failed", zap.Int("page", pageIndex), zap.Error(err))
	} else {
		c.logger.Debug("employee page loaded",
			zap.Int("page", pageIndex),
			zap.Int("items", len(result.Content)),
			zap.Int("total_pages", result.TotalPages))
	}
	c.publish(finished)
	return err
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// PageSize returns the page size sent with every fetch.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Close unmounts the controller. Responses still in flight become no-ops.
func (c *Controller) Close() {
	c.closed.Store(true)
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ActivePage: c.activePage,
		Page:       deepcopy.MustCopy(c.page.Data),
		IsLoading:  c.page.Fetching,
		State:      c.page.State,
		Err:        c.page.Err,
	}
}

func (c *Controller) publish(s Snapshot) {
	c.mu.Lock()
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()
	for _, o := range observers {
		o(s)
	}
}
