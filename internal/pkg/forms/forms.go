package forms

import (
	"fmt"
	"strings"
)

// Standard small enum sets used across the survey form modules.
var (
	YesNo   = []string{"Yes", "No"}
	YesNoNA = []string{"Yes", "No", "Not applicable"}
)

// EnumField pairs a JSON field name with its allow-list.
type EnumField struct {
	Name    string
	Allowed []string
}

// ValidationError reports the first invalid enum value found, naming the
// allowed set so the client can fix the payload.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q, allowed values: %s",
		e.Value, e.Field, strings.Join(e.Allowed, ", "))
}

// CheckEnum validates a single nullable enum value. Empty strings and nils
// are always accepted; they are coerced to null before persisting.
func CheckEnum(field string, value *string, allowed []string) error {
	if value == nil || *value == "" {
		return nil
	}
	for _, a := range allowed {
		if *value == a {
			return nil
		}
	}
	return &ValidationError{Field: field, Value: *value, Allowed: allowed}
}

// CheckEnums validates each value in vals (keyed by field name) against the
// declared enum fields. Fields without a declaration are ignored.
func CheckEnums(fields []EnumField, vals map[string]*string) error {
	for _, f := range fields {
		if v, ok := vals[f.Name]; ok {
			if err := CheckEnum(f.Name, v, f.Allowed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Coerce turns an empty string into a nil pointer so enum and text columns
// store NULL rather than "".
func Coerce(v *string) *string {
	if v != nil && *v == "" {
		return nil
	}
	return v
}

// Filled returns a pointer to an empty string. Used to build the default
// response shape, where every enum field is present and empty.
func Filled() *string {
	s := ""
	return &s
}
