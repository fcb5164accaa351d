package dto

import (
	"github.com/spec-kit/employee-admin/internal/controller/form"
	"github.com/spec-kit/employee-admin/internal/controller/list"
	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/navigation"
	"github.com/spec-kit/employee-admin/internal/notify"
	apperrors "github.com/spec-kit/employee-admin/pkg/util/errorutil"
)

// DepartmentResponse mirrors domain.Department.
type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EmployeeResponse is an employee card.
type EmployeeResponse struct {
	ID         *int64              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Department *DepartmentResponse `json:"department,omitempty"`
	EditURL    string              `json:"edit_url,omitempty"`
}

// PageResponse is one page of employee cards.
type PageResponse struct {
	Content       []EmployeeResponse `json:"content"`
	Number        int                `json:"number"`
	TotalPages    int                `json:"total_pages"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"total_elements"`
}

// ErrorView describes a failed fetch or submit.
type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListLinks are the navigation targets offered by the list screen.
type ListLinks struct {
	Create string `json:"create,omitempty"`
}

// ListView is the list controller state rendered by the console.
type ListView struct {
	ActivePage int           `json:"active_page"`
	Page       *PageResponse `json:"page"`
	IsLoading  bool          `json:"is_loading"`
	State      string        `json:"state"`
	Error      *ErrorView    `json:"error,omitempty"`
	CanAdd     bool          `json:"can_add"`
	Links      ListLinks     `json:"links"`
}

// FormValues are the current field values.
type FormValues struct {
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Department *DepartmentResponse `json:"department"`
}

// FormView is the form controller state rendered by the console.
type FormView struct {
	Mode               string            `json:"mode"`
	EmployeeID         *int64            `json:"employee_id,omitempty"`
	Phase              string            `json:"phase"`
	Values             FormValues        `json:"values"`
	Errors             map[string]string `json:"errors"`
	DepartmentOptions  []form.Option     `json:"department_options"`
	SelectedDepartment string            `json:"selected_department"`
	DepartmentsError   *ErrorView        `json:"departments_error,omitempty"`
	EmployeeError      *ErrorView        `json:"employee_error,omitempty"`
	SubmitError        *ErrorView        `json:"submit_error,omitempty"`
}

// EmployeeFormRequest is a submitted form. Department carries the selected
// option value, i.e. the stringified department id.
type EmployeeFormRequest struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Department string `json:"department" form:"department"`
}

// NavigationResponse tells the caller where to go next.
type NavigationResponse struct {
	NavigateTo    string                `json:"navigate_to"`
	Notifications []notify.Notification `json:"notifications"`
	Employee      *EmployeeResponse     `json:"employee,omitempty"`
}

// NewListView converts a list snapshot.
func NewListView(s list.Snapshot, canAdd bool) ListView {
	view := ListView{
		ActivePage: s.ActivePage,
		IsLoading:  s.IsLoading,
		State:      string(s.State),
		Error:      errorView(s.Err),
		CanAdd:     canAdd,
	}
	if canAdd {
		view.Links.Create = navigation.CreateRoute
	}
	if s.Page != nil {
		page := &PageResponse{
			Content:       make([]EmployeeResponse, 0, len(s.Page.Content)),
			Number:        s.Page.Number,
			TotalPages:    s.Page.TotalPages,
			Size:          s.Page.Size,
			TotalElements: s.Page.TotalElements,
		}
		for _, emp := range s.Page.Content {
			page.Content = append(page.Content, NewEmployeeResponse(emp))
		}
		view.Page = page
	}
	return view
}

// NewFormView converts a form snapshot.
func NewFormView(s form.Snapshot) FormView {
	view := FormView{
		Mode:  string(s.Mode.Kind),
		Phase: string(s.Phase),
		Values: FormValues{
			Name:       s.Values.Name,
			Email:      s.Values.Email,
			Department: departmentResponse(s.Values.Department),
		},
		Errors:             map[string]string(s.Errors),
		DepartmentOptions:  s.DepartmentOptions,
		SelectedDepartment: s.SelectedDepartment,
		DepartmentsError:   errorView(s.DepartmentsErr),
		EmployeeError:      errorView(s.EmployeeErr),
		SubmitError:        errorView(s.SubmitErr),
	}
	if s.Mode.IsEditing() {
		id := s.Mode.EmployeeID
		view.EmployeeID = &id
	}
	if view.Errors == nil {
		view.Errors = map[string]string{}
	}
	if view.DepartmentOptions == nil {
		view.DepartmentOptions = []form.Option{}
	}
	return view
}

// NewEmployeeResponse converts an employee snapshot.
func NewEmployeeResponse(emp domain.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Email:      emp.Email,
		Department: departmentResponse(emp.Department),
	}
	if emp.ID != nil {
		resp.EditURL = navigation.EditRoute(*emp.ID)
	}
	return resp
}

func departmentResponse(d *domain.Department) *DepartmentResponse {
	if d == nil {
		return nil
	}
	return &DepartmentResponse{ID: d.ID, Name: d.Name}
}

func errorView(err error) *ErrorView {
	if err == nil {
		return nil
	}
	de := apperrors.ToDomainError(err)
	return &ErrorView{Code: de.Code, Message: de.Message}
}
