package domain

// Employee is the full snapshot exchanged with the backend. ID is nil until
// the server assigns one.
type Employee struct {
	ID         *int64      `json:"id,omitempty"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department *Department `json:"department"`
}

// HasID reports whether the employee has been persisted.
func (e Employee) HasID() bool {
	return e.ID != nil
}
