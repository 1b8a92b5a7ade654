package validation

import (
	"time"

	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Tag names registered on the validator.
const (
	TagName       = "gh_name"
	TagBirthDate  = "gh_birthdate"
	TagNationalID = "gh_nationalid"
	TagEmail      = "gh_email"
	TagPhone      = "gh_phone"
	TagOrgName    = "gh_orgname"
	TagFax        = "gh_fax"
	TagTaxID      = "gh_taxid"
	TagPassword   = "gh_password"
)

var tagKeys = map[string]string{
	TagName:       domainerrors.KeyInvalidName,
	TagBirthDate:  domainerrors.KeyInvalidBirthDate,
	TagNationalID: domainerrors.KeyInvalidNationalID,
	TagEmail:      domainerrors.KeyInvalidEmail,
	TagPhone:      domainerrors.KeyInvalidPhone,
	TagOrgName:    domainerrors.KeyInvalidOrgName,
	TagFax:        domainerrors.KeyInvalidFax,
	TagTaxID:      domainerrors.KeyInvalidTaxID,
	TagPassword:   domainerrors.KeyWeakPassword,
}

// Validator checks tagged structs and reports the first failing field as a ValidationFailure.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a validator with every field rule registered.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an explicit clock for the birth date rule.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	rules := map[string]func(string) bool{
		TagName:       IsValidName,
		TagBirthDate:  func(s string) bool { return IsValidBirthDate(s, v.now()) },
		TagNationalID: IsValidNationalID,
		TagEmail:      IsValidEmail,
		TagPhone:      IsValidPhone,
		TagOrgName:    IsValidOrgName,
		TagFax:        IsValidFax,
		TagTaxID:      IsValidTaxID,
		TagPassword:   IsStrongPassword,
	}
	for tag, rule := range rules {
		// Registration only fails for an empty tag or nil func.
		_ = v.validate.RegisterValidation(tag, stringRule(rule), true)
	}

	return v
}

func stringRule(rule func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)

		return ok && rule(s)
	}
}

// Struct validates s. A failing gh_* rule maps to its localization key; any other tag to invalidinput.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := errors.AsType[validator.ValidationErrors](err); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		if key, known := tagKeys[first.Tag()]; known {
			return domainerrors.NewValidationFailure(key)
		}

		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, first.Field())
	}

	return errors.Wrap(err, "failed to validate input")
}

// Validate lets the validator serve as an echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}
