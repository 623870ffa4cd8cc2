package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"reviewhub/proj/internal/utils"

	govalidator "github.com/go-playground/validator/v10"
)

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			fieldName = jsonName
		}
	} else {
		fieldName = utils.CamelToSnake(origFieldName)
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "email":
			errorMsg = "Value must be a valid email address"
		case "username":
			errorMsg = "Username may contain only letters, digits and @/./+/-/_ and must not be 'me'"
		case "slug":
			errorMsg = "Value must contain only letters, digits, hyphens and underscores"
		case "notfutureyear":
			errorMsg = fmt.Sprintf("Year must not be greater than %d", time.Now().Year())
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

var usernameRX = regexp.MustCompile(`^[\w.@+-]+$`)

// ReservedUsername is rejected because it collides with the profile endpoint.
const ReservedUsername = "me"

func ValidateUsername(fl govalidator.FieldLevel) bool {
	username := fl.Field().String()
	if username == ReservedUsername {
		return false
	}
	return usernameRX.MatchString(username)
}

func ValidateNotFutureYear(fl govalidator.FieldLevel) bool {
	return fl.Field().Int() <= int64(time.Now().Year())
}

var slugRX = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slugRX.MatchString(fl.Field().String())
}
