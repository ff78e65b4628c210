package inkwell

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Validate checks a model instance against its schema.
// Returns a slice of ValidationError for any fields that fail validation.
func Validate(model interface{}, schema *Schema) []ValidationError {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var errs []ValidationError
	for _, fs := range schema.Fields {
		fv := v.FieldByName(fs.Name)
		if !fv.IsValid() {
			continue
		}
		if fs.Required && fv.IsZero() {
			errs = append(errs, ValidationError{Field: fs.BSONName, Message: "field is required"})
			continue
		}
		if fv.IsZero() {
			continue
		}
		errs = append(errs, checkValue(fs, fv)...)
	}
	return errs
}

// ValidatePatch checks the fields of a $set document against the schema: enum and
// bound constraints apply to the new values, immutable fields may not appear and
// required fields may not be cleared.
func ValidatePatch(set bson.D, schema *Schema) []ValidationError {
	var errs []ValidationError
	for _, e := range set {
		fs := schema.GetField(e.Key)
		if fs == nil {
			continue
		}
		if fs.Immutable {
			errs = append(errs, ValidationError{Field: fs.BSONName, Message: "field is immutable and cannot be changed"})
			continue
		}
		fv := reflect.ValueOf(e.Value)
		if !fv.IsValid() || fv.IsZero() {
			if fs.Required {
				errs = append(errs, ValidationError{Field: fs.BSONName, Message: "field is required"})
			}
			continue
		}
		errs = append(errs, checkValue(*fs, fv)...)
	}
	return errs
}

func checkValue(fs FieldSchema, fv reflect.Value) []ValidationError {
	var errs []ValidationError
	for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}

	if len(fs.Enum) > 0 {
		strVal := stringValue(fv)
		found := false
		for _, allowed := range fs.Enum {
			if strVal == allowed {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, ValidationError{
				Field:   fs.BSONName,
				Message: fmt.Sprintf("value %q is not in enum %v", strVal, fs.Enum),
			})
		}
	}

	if fs.Min != nil {
		if fv.Kind() == reflect.String {
			if fv.Len() < *fs.Min {
				errs = append(errs, ValidationError{
					Field:   fs.BSONName,
					Message: fmt.Sprintf("length %d is less than minimum %d", fv.Len(), *fs.Min),
				})
			}
		} else if intVal, ok := toInt(fv); ok && intVal < *fs.Min {
			errs = append(errs, ValidationError{
				Field:   fs.BSONName,
				Message: fmt.Sprintf("value %d is less than minimum %d", intVal, *fs.Min),
			})
		}
	}

	if fs.Max != nil {
		if fv.Kind() == reflect.String {
			if fv.Len() > *fs.Max {
				errs = append(errs, ValidationError{
					Field:   fs.BSONName,
					Message: fmt.Sprintf("length %d exceeds maximum %d", fv.Len(), *fs.Max),
				})
			}
		} else if intVal, ok := toInt(fv); ok && intVal > *fs.Max {
			errs = append(errs, ValidationError{
				Field:   fs.BSONName,
				Message: fmt.Sprintf("value %d exceeds maximum %d", intVal, *fs.Max),
			})
		}
	}

	return errs
}

// stringValue extracts a string representation of a value for enum comparison.
func stringValue(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func toInt(v reflect.Value) (int, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int(v.Float()), true
	default:
		return 0, false
	}
}
