package model

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	apperrors "booknest/pkg/app_errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 錯誤訊息使用 JSON 欄位名稱
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("password", strongPassword); err != nil {
		panic(err)
	}
	return v
}

// strongPassword 需包含大寫、小寫與數字
func strongPassword(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// checkVar 驗證單一欄位，field 用於錯誤訊息
func checkVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toValidationError(field, err)
	}
	return nil
}

func checkStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return toValidationError("", err)
	}
	return nil
}

// toValidationError 將 validator 的錯誤轉為 ErrValidation，只回報第一個欄位
func toValidationError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("%s", err.Error())
	}

	fe := verrs[0]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return apperrors.Validation("%s is required", field)
	case "email":
		return apperrors.Validation("%s is not a valid address", field)
	case "min":
		return apperrors.Validation("%s must be at least %s characters", field, fe.Param())
	case "max":
		return apperrors.Validation("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return apperrors.Validation("%s must be at least %s", field, fe.Param())
	case "lte":
		return apperrors.Validation("%s must be at most %s", field, fe.Param())
	case "oneof":
		return apperrors.Validation("%s must be one of %s", field, fe.Param())
	case "password":
		return apperrors.Validation("%s must contain an uppercase letter, a lowercase letter and a digit", field)
	}
	return apperrors.Validation("%s failed on %s", field, fe.Tag())
}
