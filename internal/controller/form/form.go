// Package form drives the create/edit lifecycle of a single employee.
package form

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/controller"
	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/messages"
	"github.com/spec-kit/employee-admin/internal/navigation"
	"github.com/spec-kit/employee-admin/internal/notify"
)

var (
	// ErrAlreadySubmitted is returned by Submit after a successful save.
	ErrAlreadySubmitted = errors.New("employee form already submitted")
	// ErrNotReady is returned by Submit before Mount has finished.
	ErrNotReady = errors.New("employee form is still loading")
	// ErrPrefetchFailed is returned by Submit while reference data or the
	// edited employee failed to load. Mount again to retry.
	ErrPrefetchFailed = errors.New("employee form data failed to load")
	// ErrAlreadyMounted is returned by a second Mount of a healthy form.
	ErrAlreadyMounted = errors.New("employee form already mounted")
	// ErrUnknownDepartment is returned when a selected value is not in the loaded set.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrClosed is returned once the form has been unmounted.
	ErrClosed = errors.New("employee form closed")
)

// Phase is the lifecycle state of the form.
type Phase string

const (
	PhaseInit                 Phase = "init"
	PhaseLoadingReferenceData Phase = "loading_reference_data"
	PhaseReady                Phase = "ready"
	PhaseSubmitting           Phase = "submitting"
	PhaseDone                 Phase = "done"
	PhaseFailed               Phase = "failed"
)

// Option is one entry of the department select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Snapshot is the view state handed to the rendering layer.
type Snapshot struct {
	Mode               domain.FormMode
	Phase              Phase
	Values             Values
	Errors             FieldErrors
	DepartmentOptions  []Option
	SelectedDepartment string
	DepartmentsState   controller.LoadState
	DepartmentsErr     error
	EmployeeState      controller.LoadState
	EmployeeErr        error
	SubmitErr          error
	Saved              *domain.Employee
}

// Observer is notified after every phase transition.
type Observer func(Snapshot)

// Dependencies are the collaborators a form needs. Client and Navigator are required.
type Dependencies struct {
	Client    client.ResourceClient
	Navigator navigation.Sink
	Notifier  notify.Notifier
	Messages  *messages.Catalog
	Logger    *zap.Logger
}

// FormOption configures a Controller.
type FormOption func(*Controller)

// WithSubmitLock guards submits with lock under key in addition to the
// form's own in-flight check.
func WithSubmitLock(lock SubmitLock, key string) FormOption {
	return func(c *Controller) {
		c.lock = lock
		c.lockKey = key
	}
}

// WithObserver subscribes o before Mount.
func WithObserver(o Observer) FormOption {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// Controller owns the state of one mounted employee form.
type Controller struct {
	client   client.ResourceClient
	nav      navigation.Sink
	notifier notify.Notifier
	catalog  *messages.Catalog
	logger   *zap.Logger
	lock     SubmitLock
	lockKey  string
	mode     domain.FormMode

	mu          sync.Mutex
	phase       Phase
	values      Values
	fieldErrs   FieldErrors
	attempted   bool
	departments controller.Fetchable[[]domain.Department]
	target      controller.Fetchable[domain.Employee]
	submitErr   error
	saved       *domain.Employee
	observers   []Observer

	closed atomic.Bool
}

// New derives the form mode from routeParam ("create" or an employee id).
func New(deps Dependencies, routeParam string, opts ...FormOption) (*Controller, error) {
	if deps.Client == nil || deps.Navigator == nil {
		return nil, errors.New("form: client and navigator are required")
	}
	mode, err := domain.ParseFormMode(routeParam)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		client:    deps.Client,
		nav:       deps.Navigator,
		notifier:  deps.Notifier,
		catalog:   deps.Messages,
		logger:    deps.Logger,
		mode:      mode,
		phase:     PhaseInit,
		fieldErrs: FieldErrors{},
	}
	if c.catalog == nil {
		c.catalog = messages.MustNew()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("employee_form").With(zap.String("mode", string(mode.Kind)))
	if mode.IsEditing() {
		c.logger = c.logger.With(zap.Int64("employee_id", mode.EmployeeID))
	}
	c.departments.State = controller.LoadIdle
	c.target.State = controller.LoadIdle
	for _, opt := range opts {
		opt(c)
	}
	if c.lock != nil && c.lockKey == "" {
		c.lockKey = c.defaultLockKey()
	}
	return c, nil
}

// Mode returns the mode derived at construction.
func (c *Controller) Mode() domain.FormMode {
	return c.mode
}

// Subscribe registers an observer for subsequent transitions.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Mount loads the department options and, in edit mode, the target employee.
// Both fetches run concurrently and write disjoint state. A failed form may be
// mounted again to retry.
func (c *Controller) Mount(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	if c.phase != PhaseInit && c.phase != PhaseFailed {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.setPhaseLocked(PhaseLoadingReferenceData)
	c.departments.Start()
	if c.mode.IsEditing() {
		c.target.Start()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	var g errgroup.Group
	g.Go(func() error { return c.loadDepartments(ctx) })
	if c.mode.IsEditing() {
		g.Go(func() error { return c.loadEmployee(ctx) })
	}
	err := g.Wait()

	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	if c.departments.Err != nil || c.target.Err != nil {
		c.setPhaseLocked(PhaseFailed)
	} else {
		c.setPhaseLocked(PhaseReady)
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return err
}

func (c *Controller) loadDepartments(ctx context.Context) error {
	depts, err := client.Fetch[[]domain.Department](ctx, c.client, client.Request{
		Method:          "GET",
		URL:             client.DepartmentsPath,
		WithCredentials: true,
	})
	if c.closed.Load() {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.departments.SetError(err)
		c.logger.Warn("department fetch failed", zap.Error(err))
		return err
	}
	if depts == nil {
		depts = []domain.Department{}
	}
	c.departments.SetData(depts)
	c.logger.Debug("departments loaded", zap.Int("count", len(depts)))
	return nil
}

func (c *Controller) loadEmployee(ctx context.Context) error {
	emp, err := client.Fetch[domain.Employee](ctx, c.client, client.Request{
		Method:          "GET",
		URL:             client.EmployeePath(c.mode.EmployeeID),
		WithCredentials: true,
	})
	if c.closed.Load() {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.target.SetError(err)
		c.logger.Warn("employee fetch failed", zap.Error(err))
		return err
	}
	c.target.SetData(emp)
	c.values.Name = emp.Name
	c.values.Email = emp.Email
	c.values.Department = copyDepartment(emp.Department)
	c.revalidateLocked()
	return nil
}

// SetName updates the name field.
func (c *Controller) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.Name = name
	c.revalidateLocked()
}

// SetEmail updates the email field.
func (c *Controller) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.Email = email
	c.revalidateLocked()
}

// SelectDepartment selects a department by its option value. An empty value
// clears the selection.
func (c *Controller) SelectDepartment(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		c.values.Department = nil
		c.revalidateLocked()
		return nil
	}
	dept, ok := domain.FindDepartment(c.departments.Data, value)
	if !ok {
		return ErrUnknownDepartment
	}
	c.values.Department = &dept
	c.revalidateLocked()
	return nil
}

// SetValues replaces all fields at once, as a submitted HTML form would.
func (c *Controller) SetValues(v Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = Values{Name: v.Name, Email: v.Email, Department: copyDepartment(v.Department)}
	c.revalidateLocked()
}

// Validate evaluates every rule and stores the resulting field errors.
func (c *Controller) Validate() FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fieldErrs = c.validateLocked()
	return copyErrors(c.fieldErrs)
}

// Submit validates and saves the employee. Invalid input returns a
// *ValidationError without touching the network. On success the form shows
// one success notification and navigates to the list exactly once; repeated
// or concurrent calls fail with ErrSubmitInProgress or ErrAlreadySubmitted.
func (c *Controller) Submit(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	switch c.phase {
	case PhaseDone:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	case PhaseSubmitting:
		c.mu.Unlock()
		return ErrSubmitInProgress
	case PhaseInit, PhaseLoadingReferenceData:
		c.mu.Unlock()
		return ErrNotReady
	case PhaseFailed:
		c.mu.Unlock()
		return ErrPrefetchFailed
	}

	c.attempted = true
	c.fieldErrs = c.validateLocked()
	if len(c.fieldErrs) > 0 {
		verr := &ValidationError{Fields: copyErrors(c.fieldErrs)}
		c.mu.Unlock()
		return verr
	}

	prev := c.phase
	c.setPhaseLocked(PhaseSubmitting)
	c.submitErr = nil
	payload := domain.Employee{
		Name:       c.values.Name,
		Email:      c.values.Email,
		Department: copyDepartment(c.values.Department),
	}
	if c.mode.IsEditing() {
		id := c.mode.EmployeeID
		payload.ID = &id
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	if c.lock != nil {
		unlock, err := c.lock.TryLock(ctx, c.lockKey)
		if err != nil {
			c.finishSubmit(prev, nil, err)
			return err
		}
		defer unlock()
	}

	var saved domain.Employee
	err := c.client.Do(ctx, client.Request{
		Method:          "POST",
		URL:             client.EmployeesPath,
		Body:            payload,
		WithCredentials: true,
	}, &saved)
	if err != nil {
		c.logger.Warn("employee save failed", zap.Error(err))
		c.finishSubmit(prev, nil, err)
		return err
	}

	c.finishSubmit(prev, &saved, nil)
	c.logger.Info("employee saved", zap.Bool("has_id", saved.HasID()))
	if c.notifier != nil {
		c.notifier.Notify(ctx, notify.Notification{
			Level:   notify.LevelSuccess,
			Message: c.catalog.Text(messages.EmployeeSaved),
		})
	}
	c.nav.Navigate(navigation.ListRoute)
	return nil
}

func (c *Controller) finishSubmit(prev Phase, saved *domain.Employee, err error) {
	c.mu.Lock()
	if err != nil {
		c.submitErr = err
		c.setPhaseLocked(prev)
	} else {
		c.saved = saved
		c.setPhaseLocked(PhaseDone)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// Cancel leaves the form for the list, discarding any edits.
func (c *Controller) Cancel() {
	c.Close()
	c.nav.Navigate(navigation.ListRoute)
}

// Close unmounts the form. Prefetch responses still in flight become no-ops.
func (c *Controller) Close() {
	c.closed.Store(true)
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	options := make([]Option, 0, len(c.departments.Data))
	for _, d := range c.departments.Data {
		options = append(options, Option{Value: d.OptionValue(), Label: d.Name})
	}
	selected := ""
	if c.values.Department != nil {
		selected = c.values.Department.OptionValue()
	}
	var saved *domain.Employee
	if c.saved != nil {
		s := *c.saved
		s.Department = copyDepartment(c.saved.Department)
		saved = &s
	}
	return Snapshot{
		Mode:               c.mode,
		Phase:              c.phase,
		Values:             Values{Name: c.values.Name, Email: c.values.Email, Department: copyDepartment(c.values.Department)},
		Errors:             copyErrors(c.fieldErrs),
		DepartmentOptions:  options,
		SelectedDepartment: selected,
		DepartmentsState:   c.departments.State,
		DepartmentsErr:     c.departments.Err,
		EmployeeState:      c.target.State,
		EmployeeErr:        c.target.Err,
		SubmitErr:          c.submitErr,
		Saved:              saved,
	}
}

func (c *Controller) validateLocked() FieldErrors {
	var depts []domain.Department
	if c.departments.HasData() && c.departments.Err == nil {
		depts = c.departments.Data
	}
	return Validate(c.values, depts, c.catalog)
}

// revalidateLocked re-runs the rules on input once a submit has been attempted.
func (c *Controller) revalidateLocked() {
	if c.attempted {
		c.fieldErrs = c.validateLocked()
	}
}

func (c *Controller) setPhaseLocked(p Phase) {
	if c.phase != p {
		c.logger.Debug("form phase", zap.String("from", string(c.phase)), zap.String("to", string(p)))
	}
	c.phase = p
}

func (c *Controller) publish(s Snapshot) {
	c.mu.Lock()
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()
	for _, o := range observers {
		o(s)
	}
}

func (c *Controller) defaultLockKey() string {
	if c.mode.IsEditing() {
		return "employee-form:edit:" + strconv.FormatInt(c.mode.EmployeeID, 10)
	}
	// Creates have no natural key; scope the lock to this mount.
	return "employee-form:create:" + uuid.NewString()
}

func copyDepartment(d *domain.Department) *domain.Department {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

func copyErrors(fe FieldErrors) FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}
