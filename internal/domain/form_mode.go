package domain

import (
	"errors"
	"strconv"
)

// CreateRouteParam is the route parameter value that selects create mode.
const CreateRouteParam = "create"

// ErrInvalidEmployeeID is returned when an edit route does not carry a usable id.
var ErrInvalidEmployeeID = errors.New("invalid employee id")

// FormModeKind distinguishes create and edit flows.
type FormModeKind string

const (
	FormModeCreate FormModeKind = "create"
	FormModeEdit   FormModeKind = "edit"
)

// FormMode is derived once from the route parameter and never stored server side.
type FormMode struct {
	Kind       FormModeKind
	EmployeeID int64
}

// ParseFormMode maps a route parameter to a FormMode. Anything other than
// "create" selects edit mode and must be a positive integer id.
func ParseFormMode(param string) (FormMode, error) {
	if param == CreateRouteParam {
		return FormMode{Kind: FormModeCreate}, nil
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return FormMode{}, ErrInvalidEmployeeID
	}
	return FormMode{Kind: FormModeEdit, EmployeeID: id}, nil
}

// IsEditing reports whether the form edits an existing employee.
func (m FormMode) IsEditing() bool {
	return m.Kind == FormModeEdit
}
