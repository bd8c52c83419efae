package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError describes all violations found in request payload
type PayloadError struct {
	violations []violation
}

func (e *PayloadError) Error() string {
	msgs := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "\n")
}

// Violation appends violation to error
func (e *PayloadError) Violation(field, msg string) {
	e.violations = append(e.violations, violation{Field: field, Message: msg})
}

// MarshalJSON renders violations list
func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

// EchoValidator adapts go-playground validator to echo.Validator
type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// Echo builds EchoValidator with provided validator and translator
func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

// English builds EchoValidator with english messages, violations are reported by json/query names
func English() (*EchoValidator, error) {
	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translations")
	}

	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register en translations - %w", err)
	}
	return Echo(v, trans), nil
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		pldErr := &PayloadError{violations: make([]violation, 0, len(ve))}
		for _, e := range ve {
			pldErr.Violation(e.Field(), e.Translate(v.translator))
		}
		return pldErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
