// Package inputval validates form input before it reaches the stores.
//
// Validation rules are declared with struct tags on small per-form input
// structs, keeping handlers free of repeated length/required checks:
//
//	type createProjectInput struct {
//	    Title    string `validate:"required,max=200" label:"Project title"`
//	    Location string `validate:"required,max=120" label:"Location"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    renderWithError(result.First())
//	    return
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Result collects human-readable validation failures in field order.
type Result struct {
	errs []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every failure message.
func (r Result) All() []string { return r.errs }

func (r *Result) add(msg string) { r.errs = append(r.errs, msg) }

// Validate checks the string fields of a struct against their `validate` tags.
// Supported rules: required, max=N, email. The optional `label` tag names the
// field in messages; the Go field name is used otherwise.
func Validate(input any) Result {
	var res Result

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}

		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := v.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			switch {
			case rule == "required":
				if strings.TrimSpace(value) == "" {
					res.add(label + " is required.")
				}
			case rule == "email":
				if strings.TrimSpace(value) != "" && !IsValidEmail(value) {
					res.add(label + " is not a valid email address.")
				}
			case strings.HasPrefix(rule, "max="):
				n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
				if err == nil && len(value) > n {
					res.add(fmt.Sprintf("%s must be %d characters or fewer.", label, n))
				}
			}
		}
	}

	return res
}
