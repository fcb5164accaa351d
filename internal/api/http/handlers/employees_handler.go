package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/api/dto"
	"github.com/spec-kit/employee-admin/internal/auth"
	"github.com/spec-kit/employee-admin/internal/client"
	"github.com/spec-kit/employee-admin/internal/controller/form"
	"github.com/spec-kit/employee-admin/internal/controller/list"
	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/events"
	"github.com/spec-kit/employee-admin/internal/messages"
	"github.com/spec-kit/employee-admin/internal/navigation"
	"github.com/spec-kit/employee-admin/internal/notify"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

// HeaderIdempotencyKey lets a browser tab scope the submit lock to one form session.
const HeaderIdempotencyKey = "Idempotency-Key"

// EmployeesDependencies bundles what the employee screens need.
type EmployeesDependencies struct {
	Client     client.ResourceClient
	Messages   *messages.Catalog
	Logger     *zap.Logger
	PageSize   int
	SubmitLock form.SubmitLock
	Dispatcher events.Dispatcher

	// DefaultLang is used when the caller sends no usable Accept-Language.
	DefaultLang string
}

// EmployeesHandler mounts a list or form controller per request and renders
// its view state.
type EmployeesHandler struct {
	client     client.ResourceClient
	catalog    *messages.Catalog
	logger     *zap.Logger
	pageSize   int
	lock       form.SubmitLock
	dispatcher events.Dispatcher
	lang       string
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(deps EmployeesDependencies) *EmployeesHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := deps.Messages
	if catalog == nil {
		catalog = messages.MustNew()
	}
	return &EmployeesHandler{
		client:     deps.Client,
		catalog:    catalog,
		logger:     logger,
		pageSize:   deps.PageSize,
		lock:       deps.SubmitLock,
		dispatcher: deps.Dispatcher,
		lang:       deps.DefaultLang,
	}
}

// List handles GET /admin/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	pageIndex := 0
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.NewBadRequest("page must be a non-negative integer")
		}
		pageIndex = parsed
	}

	ctrl := list.New(h.client, list.WithPageSize(h.pageSize), list.WithLogger(h.logger))
	defer ctrl.Close()

	// A failed fetch still renders the list state, with the error view filled.
	status := fiber.StatusOK
	if err := ctrl.SetActivePage(c.UserContext(), pageIndex); err != nil {
		h.logger.Warn("employee list failed", zap.Int("page", pageIndex), zap.Error(err))
		status = apperrors.ToDomainError(err).HTTPStatus
	}

	principal, _ := auth.PrincipalFromContext(c)
	view := dto.NewListView(ctrl.Snapshot(), principal.HasAnyRoles(domain.RoleAdmin))
	return c.Status(status).JSON(fiber.Map{"data": view})
}

// Form handles GET /admin/employees/:employeeId.
func (h *EmployeesHandler) Form(c *fiber.Ctx) error {
	ctrl, err := h.newForm(c, &navigation.Recorder{}, &notify.Collector{})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	status := fiber.StatusOK
	if err := ctrl.Mount(c.UserContext()); err != nil {
		h.logger.Warn("employee form prefetch failed", zap.Error(err))
		status = apperrors.ToDomainError(err).HTTPStatus
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.NewFormView(ctrl.Snapshot())})
}

// Submit handles POST /admin/employees/:employeeId.
func (h *EmployeesHandler) Submit(c *fiber.Ctx) error {
	var req dto.EmployeeFormRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	nav := &navigation.Recorder{}
	notes := &notify.Collector{}
	ctrl, err := h.newForm(c, nav, notes)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx := c.UserContext()
	if err := ctrl.Mount(ctx); err != nil {
		return err
	}

	ctrl.SetName(req.Name)
	ctrl.SetEmail(req.Email)
	// An unknown department leaves the selection empty; validation reports it.
	if err := ctrl.SelectDepartment(req.Department); err != nil && !errors.Is(err, form.ErrUnknownDepartment) {
		return err
	}

	if err := ctrl.Submit(ctx); err != nil {
		var verr *form.ValidationError
		switch {
		case errors.As(err, &verr):
			return apperrors.NewValidationError("employee form is invalid", map[string]any{"fields": verr.Fields})
		case errors.Is(err, form.ErrSubmitInProgress):
			return apperrors.NewConflict("employee submit already in progress", nil)
		default:
			return err
		}
	}

	snap := ctrl.Snapshot()
	h.publishSaved(ctx, c, ctrl.Mode(), snap.Saved)

	target, _ := nav.Last()
	resp := dto.NavigationResponse{NavigateTo: target, Notifications: notes.Items()}
	if snap.Saved != nil {
		emp := dto.NewEmployeeResponse(*snap.Saved)
		resp.Employee = &emp
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Cancel handles POST /admin/employees/:employeeId/cancel.
func (h *EmployeesHandler) Cancel(c *fiber.Ctx) error {
	nav := &navigation.Recorder{}
	ctrl, err := h.newForm(c, nav, nil)
	if err != nil {
		return err
	}
	ctrl.Cancel()

	target, _ := nav.Last()
	return c.JSON(fiber.Map{"data": dto.NavigationResponse{NavigateTo: target, Notifications: []notify.Notification{}}})
}

func (h *EmployeesHandler) newForm(c *fiber.Ctx, nav navigation.Sink, notifier notify.Notifier) (*form.Controller, error) {
	var opts []form.FormOption
	if h.lock != nil {
		opts = append(opts, form.WithSubmitLock(h.lock, c.Get(HeaderIdempotencyKey)))
	}

	ctrl, err := form.New(form.Dependencies{
		Client:    h.client,
		Navigator: nav,
		Notifier:  notifier,
		Messages:  h.catalog.For(c.Get(fiber.HeaderAcceptLanguage), h.lang),
		Logger:    h.logger,
	}, c.Params("employeeId"), opts...)
	if errors.Is(err, domain.ErrInvalidEmployeeID) {
		return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": c.Params("employeeId")})
	}
	return ctrl, err
}

func (h *EmployeesHandler) publishSaved(ctx context.Context, c *fiber.Ctx, mode domain.FormMode, saved *domain.Employee) {
	if h.dispatcher == nil || saved == nil {
		return
	}
	eventType := events.EventEmployeeCreated
	if mode.IsEditing() {
		eventType = events.EventEmployeeUpdated
	}
	actor := events.Actor{}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor.Subject = principal.Subject
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   events.NewEmployeeSavedPayload(*saved),
	}
	if err := h.dispatcher.Publish(ctx, event); err != nil {
		h.logger.Warn("employee event handlers failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}
