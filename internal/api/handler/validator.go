package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Fields are reported by the name the client used: json, then param, then query tag.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Every violation becomes
// "<message>: <field>" and the list is joined with ", ".
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, ", "))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return "is required: " + field
	case "email":
		return "must be a valid email: " + field
	case "mongodb":
		return "must be a valid id: " + field
	case "datetime":
		return fmt.Sprintf("must be a date formatted %s: %s", fe.Param(), field)
	case "gte":
		return fmt.Sprintf("must be at least %s: %s", fe.Param(), field)
	case "lte":
		return fmt.Sprintf("must be at most %s: %s", fe.Param(), field)
	case "min":
		return fmt.Sprintf("must be at least %s long: %s", fe.Param(), field)
	case "max":
		return fmt.Sprintf("must be at most %s long: %s", fe.Param(), field)
	case "latitude", "longitude":
		return fmt.Sprintf("must be a valid %s: %s", fe.Tag(), field)
	default:
		return fmt.Sprintf("failed validation (%s): %s", fe.Tag(), field)
	}
}

// fieldPath drops the request struct name so nested fields read "location.lat".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
