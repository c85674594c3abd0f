package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	// ICAO (4), IATA (3) or FAA LID (3-4, may contain digits).
	airportCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,4}$`)
	// Operator codes are 2 (IATA) or 3 (ICAO) characters.
	operatorCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{2,3}$`)
	// Flight idents, registrations and fa_flight_ids.
	identPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,63}$`)
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("airport_code", matches(airportCodePattern))
	validate.RegisterValidation("operator_code", matches(operatorCodePattern))
	validate.RegisterValidation("flight_ident", matches(identPattern))

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

func GetValidator() *validator.Validate {
	return validate
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, err := range validatorErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Value:   err.Value(),
				Tag:     err.Tag(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude between -90 and 90 degrees", err.Field())
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude between -180 and 180 degrees", err.Field())
	case "airport_code":
		return fmt.Sprintf("%s must be a 3 or 4 character airport code", err.Field())
	case "operator_code":
		return fmt.Sprintf("%s must be a 2 or 3 character operator code", err.Field())
	case "flight_ident":
		return fmt.Sprintf("%s must be a flight ident, registration or flight id", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}
