package form

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/messages"
)

// Field names, as used in FieldErrors and the console payload.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldDepartment = "department"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("employee form is invalid")

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// Values is the editable form state.
type Values struct {
	Name       string             `json:"name" validate:"required"`
	Email      string             `json:"email" validate:"required,emailshape"`
	Department *domain.Department `json:"department" validate:"required"`
}

// FieldErrors maps a field name to its localized message.
type FieldErrors map[string]string

// Fields returns the invalid field names in a stable order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ValidationError blocks a submit. It carries one message per invalid field.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields.Fields(), ", ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidEmail reports whether s has the local@domain.tld shape the form accepts.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks values against the form rules. departments is the loaded
// reference set; a department can only be valid when it belongs to it, so a
// nil set fails the department field.
func Validate(values Values, departments []domain.Department, catalog *messages.Catalog) FieldErrors {
	errs := FieldErrors{}

	if err := validate.Struct(values); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs[FieldName] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			switch fe.Tag() {
			case "emailshape":
				errs[fe.Field()] = catalog.Text(messages.EmailInvalid)
			default:
				errs[fe.Field()] = catalog.Text(messages.FieldRequired)
			}
		}
	}

	if _, failed := errs[FieldDepartment]; !failed {
		if _, ok := domain.FindDepartment(departments, values.Department.OptionValue()); !ok {
			errs[FieldDepartment] = catalog.Text(messages.FieldRequired)
		}
	}
	return errs
}
