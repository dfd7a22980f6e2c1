package service

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/netfield-io/sitesurvey/internal/pkg/forms"
	"gorm.io/datatypes"
)

// validate checks nested JSONB entries (cabinets, antennas, PDUs, racks)
// against their struct tags.
var validate = validator.New()

// restrictPatch drops every key that is not an updatable column. Identity and
// audit columns can never be patched regardless of what the client sends.
func restrictPatch(fields map[string]any, allowed []string) {
	ok := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		ok[a] = struct{}{}
	}
	for k := range fields {
		if _, found := ok[k]; !found {
			delete(fields, k)
		}
	}
}

// checkPatchEnums validates enum-typed keys of a partial update and coerces
// empty strings to NULL in place.
func checkPatchEnums(fields map[string]any, enums []forms.EnumField) error {
	for _, f := range enums {
		v, present := fields[f.Name]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return &forms.ValidationError{Field: f.Name, Value: fmt.Sprintf("%v", v), Allowed: f.Allowed}
		}
		if s == "" {
			fields[f.Name] = nil
			continue
		}
		if err := forms.CheckEnum(f.Name, &s, f.Allowed); err != nil {
			return err
		}
	}
	return nil
}

// coercePatchInts converts JSON numbers (float64 after generic decoding) to
// ints for integer columns. Non-integral values are rejected.
func coercePatchInts(fields map[string]any, keys ...string) error {
	for _, k := range keys {
		v, present := fields[k]
		if !present || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n != float64(int(n)) {
				return NewValidation("field %q must be an integer", k)
			}
			fields[k] = int(n)
		case int:
		default:
			return NewValidation("field %q must be an integer", k)
		}
	}
	return nil
}

// encodePatchJSONB re-encodes a decoded JSON value into a datatypes.JSON blob
// so partial updates can write JSONB columns, validating the entries against
// the target element type first.
func encodePatchJSONB[E any](fields map[string]any, key string) error {
	v, present := fields[key]
	if !present || v == nil {
		return nil
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return NewValidation("field %q is not valid JSON", key)
	}
	var entries []E
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return NewValidation("field %q must be an array of entries", key)
	}
	for i := range entries {
		if err := validate.Struct(&entries[i]); err != nil {
			return NewValidation("%s[%d]: %s", key, i, err.Error())
		}
	}
	fields[key] = datatypes.JSON(raw)
	return nil
}

// validateEntries runs struct-tag validation over a JSONB array payload.
func validateEntries[E any](key string, entries []E) error {
	for i := range entries {
		if err := validate.Struct(&entries[i]); err != nil {
			return NewValidation("%s[%d]: %s", key, i, err.Error())
		}
	}
	return nil
}
