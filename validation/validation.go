// Package validation checks request payloads against their declared `validate`
// tags and reports failures keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field path to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for key unless one is already present.
func (e Errors) Add(key, message string) {
	if _, ok := e[key]; !ok {
		e[key] = message
	}
}

// Err returns nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Field builds a single-field validation error.
func Field(key, message string) Errors {
	return Errors{key: message}
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	categories   = map[string]bool{"MS": true, "WS": true, "MD": true, "WD": true, "XD": true}
	scorePattern = regexp.MustCompile(`^(\d{1,2}-\d{1,2}|\[default\])$`)
)

// embeddedMark prefixes the name of an embedded struct without a json tag so
// fieldPath can drop it; encoding/json flattens those fields.
const embeddedMark = "~"

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" && fld.Anonymous {
				return embeddedMark + fld.Name
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		}))
		must(v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		}))
		must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return categories[strings.ToUpper(fl.Field().String())]
		}))
		must(v.RegisterValidation("score", func(fl validator.FieldLevel) bool {
			return scorePattern.MatchString(fl.Field().String())
		}))
		instance = v
	})
	return instance
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates v and returns Errors when any rule fails.
func Struct(v interface{}) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath keeps the JSON segments of the namespace, dropping the root type
// and embedded structs: "CreatePlayerInput.first_name" -> "first_name".
func fieldPath(fe validator.FieldError) string {
	segs := strings.Split(fe.Namespace(), ".")
	var parts []string
	for _, seg := range segs[1:] {
		if seg == "" || strings.HasPrefix(seg, embeddedMark) {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return strings.TrimPrefix(fe.Field(), embeddedMark)
	}
	return strings.Join(parts, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not be more than %s characters long", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must not contain more than %s items", fe.Param())
		}
		return fmt.Sprintf("must not be more than %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "alpha":
		return "must contain letters only"
	case "slug":
		return "must contain lowercase letters, digits and single hyphens only"
	case "clock":
		return "must be a time in HH:MM format"
	case "category":
		return "must be one of: MS, WS, MD, WD, XD"
	case "score":
		return `must be a set score like "21-15" or "[default]"`
	case "timezone":
		return "must be an IANA time zone such as Asia/Tbilisi"
	case "gtefield":
		return fmt.Sprintf("must not be before %s", fe.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
