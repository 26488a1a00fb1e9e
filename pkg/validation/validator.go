package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge appends every message from other.
func (fe FieldErrors) Merge(other FieldErrors) {
	for f, msgs := range other {
		for _, m := range msgs {
			fe.Add(f, m)
		}
	}
}

// Has reports whether field already carries a message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Override replaces the messages of every field present in other.
func (fe FieldErrors) Override(other FieldErrors) {
	for f, msgs := range other {
		fe[f] = append([]string(nil), msgs...)
	}
}

// New returns a validator that reports JSON tag names and knows the app aliases.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6") // password minimum length
}

// ToFieldErrors converts validation/binding errors into field -> messages.
// field is used for errors produced by validator.Var, which carry no field name.
func ToFieldErrors(err error, field ...string) FieldErrors {
	if err == nil {
		return nil
	}
	out := FieldErrors{}

	if errors.Is(err, io.EOF) {
		out.Add("payload", "request body is required")
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		name := ute.Field
		if name == "" {
			name = "payload"
		}
		out.Add(name, "must be of type "+jsonKind(ute.Type))
		return out
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		out.Add("payload", "invalid json")
		return out
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := fe.Field()
			if name == "" && len(field) > 0 {
				name = field[0]
			}
			out.Add(name, formatFieldError(fe))
		}
		return out
	}

	out.Add("payload", "invalid payload")
	return out
}

// DecodeJSON decodes a JSON object into the struct pointed to by dst one key at a
// time, so a type mismatch on one field does not hide the rest of the payload.
// Type mismatches come back as field errors; a body that is empty, malformed or
// not an object is returned as err.
func DecodeJSON(data []byte, dst any) (FieldErrors, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, io.EOF
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validation: DecodeJSON needs a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	out := FieldErrors{}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if !sf.IsExported() || name == "" || name == "-" {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, rv.Field(i).Addr().Interface()); err != nil {
			var ute *json.UnmarshalTypeError
			if errors.As(err, &ute) {
				out.Add(name, "must be of type "+jsonKind(ute.Type))
				continue
			}
			out.Add(name, "is invalid")
		}
	}
	if out.Empty() {
		return nil, nil
	}
	return out, nil
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	if isNumberKind(t.Kind()) {
		return "integer"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return t.String()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "must be at least 6 characters long"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "number", "numeric":
		return "must be numeric"
	case "uuid":
		return "must be a valid UUID"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
