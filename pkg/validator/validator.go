// Package validator envuelve go-playground/validator con nombres de campo JSON
// y reglas propias del dominio de la despensa.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError error de un campo.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors colección de errores de validación.
type ValidationErrors []ValidationError

// Error implementa error.
func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// Unidades de medida aceptadas.
var Units = []string{"g", "kg", "ml", "l", "unit", "pack", "dozen"}

// MealTypes tipos de comida aceptados.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// New crea el validador con el tag name JSON y las reglas personalizadas.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("unit", oneOfFold(Units))
	_ = v.RegisterValidation("mealtype", oneOfFold(MealTypes))
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return yearMonthPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("dgt0", decimalPositive)

	// decimal.Decimal se valida como string para poder usar required sobre él
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	return &Validator{validate: v}
}

// Validate valida un struct y devuelve ValidationErrors si algo falla.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}
	return out
}

func msgForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s debe tener como máximo %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", field)
	case "url":
		return fmt.Sprintf("%s debe ser una URL válida", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s debe ser un UUID", field)
	case "unit":
		return fmt.Sprintf("%s debe ser una de: %s", field, strings.Join(Units, ", "))
	case "mealtype":
		return fmt.Sprintf("%s debe ser una de: %s", field, strings.Join(MealTypes, ", "))
	case "yearmonth":
		return fmt.Sprintf("%s debe tener formato YYYY-MM", field)
	case "dgt0":
		return fmt.Sprintf("%s debe ser mayor que cero", field)
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser una de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", field, fe.Tag())
	}
}

func oneOfFold(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		if s == "" {
			// vacío permitido; usar required para exigirlo
			return true
		}
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func decimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.GreaterThan(decimal.Zero)
}
