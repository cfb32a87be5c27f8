// Package validate wraps go-playground/validator with English messages keyed
// by JSON field names, and returns domain.ValidationError listing every
// violated field.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"course-portal/internal/core/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// CodeRule selects how course codes are validated
type CodeRule string

const (
	// CodeRuleStrict requires 2-4 capital letters followed by 3 digits (WEB101)
	CodeRuleStrict CodeRule = "strict"
	// CodeRuleRelaxed only requires at least 3 characters
	CodeRuleRelaxed CodeRule = "relaxed"
)

var strictCodeRegex = regexp.MustCompile(`^[A-Z]{2,4}\d{3}$`)

// custom validation tags & texts
const (
	courseCodeTag        = "coursecode"
	courseCodeStrictText = "{0} must be in format like WEB101, DSA201, etc."
	courseCodeLooseText  = "{0} must be at least 3 characters"

	categoryTag  = "category"
	categoryText = "{0} must be one of the listed categories"

	requiredText = "{0} is required"
	eqFieldText  = "passwords do not match"
)

// Validator validates input structs
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	codeRule   CodeRule
}

// New creates a validator using the given course code rule
func New(rule CodeRule) *Validator {
	if rule != CodeRuleRelaxed {
		rule = CodeRuleStrict
	}

	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, translator: translator, codeRule: rule}

	_ = validate.RegisterValidation(courseCodeTag, v.courseCode)
	codeText := courseCodeStrictText
	if rule == CodeRuleRelaxed {
		codeText = courseCodeLooseText
	}
	registerTranslation(validate, translator, courseCodeTag, codeText)

	_ = validate.RegisterValidation(categoryTag, category)
	registerTranslation(validate, translator, categoryTag, categoryText)

	registerTranslation(validate, translator, "required", requiredText, true)
	registerTranslation(validate, translator, "required_if", requiredText, true)
	registerTranslation(validate, translator, "eqfield", eqFieldText, true)

	return v
}

// CodeRule returns the active course code rule
func (v *Validator) CodeRule() CodeRule {
	return v.codeRule
}

// Struct validates s. Any violation is returned as *domain.ValidationError
// carrying one message per violated field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fe.Translate(v.translator)
	}
	return domain.NewValidationError(fields)
}

// fieldPath drops the root struct name: "CourseDraft.syllabus[0].label" -> "syllabus[0].label"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// registerTranslation registers a custom translation for the specified validation tag.
func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func (v *Validator) courseCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if v.codeRule == CodeRuleRelaxed {
		return len(strings.TrimSpace(code)) >= 3
	}
	return strictCodeRegex.MatchString(code)
}

func category(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, c := range domain.Categories {
		if c == value {
			return true
		}
	}
	return false
}
