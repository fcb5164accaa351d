package domain

import "strconv"

// Department is an organizational unit an employee belongs to. Values are
// treated as immutable once fetched and compared by ID.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OptionValue returns the department ID in the string form used by
// single-select controls.
func (d Department) OptionValue() string {
	return strconv.FormatInt(d.ID, 10)
}

// Equal reports whether two departments refer to the same record.
func (d Department) Equal(other Department) bool {
	return d.ID == other.ID
}

// FindDepartment looks up a department by its option value.
func FindDepartment(departments []Department, value string) (Department, bool) {
	for _, dept := range departments {
		if dept.OptionValue() == value {
			return dept, true
		}
	}
	return Department{}, false
}
