package events

import (
	"time"

	"github.com/spec-kit/employee-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
)

// Actor identifies the console caller behind an event.
type Actor struct {
	Subject string `json:"subject"`
}

// Event represents something the console did on behalf of a caller.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EmployeeSavedPayload describes a successful create or update.
type EmployeeSavedPayload struct {
	EmployeeID   *int64 `json:"employee_id,omitempty"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
}

// NewEmployeeSavedPayload builds the payload from the saved snapshot.
func NewEmployeeSavedPayload(emp domain.Employee) EmployeeSavedPayload {
	payload := EmployeeSavedPayload{EmployeeID: emp.ID, Name: emp.Name}
	if emp.Department != nil {
		payload.DepartmentID = emp.Department.ID
	}
	return payload
}
