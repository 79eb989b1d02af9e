package registration

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Reason classifies a failed validation.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissing
	ReasonEmail
	ReasonPhone
	ReasonFormat
)

// User-facing validation messages.
const (
	MsgInvalidEmail = "Please provide a valid email address"
	MsgInvalidPhone = "Please provide a valid phone number"
	MsgRequired     = "This field is required"

	missingPrefix = "The following required fields are missing: "
)

// RequiredFields must be non-blank before a draft can be submitted.
var RequiredFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhoneNumber,
	FieldCountryOfOrigin,
	FieldStateOfOrigin,
	FieldLocalGovernmentArea,
	FieldAddress,
	FieldHighestEducation,
	FieldEmploymentStatus,
	FieldTrainingTrack,
	FieldTrainingMode,
}

var (
	// Whitespace includes Unicode spaces and the byte order mark.
	emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	phoneNoise   = regexp.MustCompile(`[\s\p{Z}\x{FEFF}\-()]`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// Result is the outcome of Validate. Message carries the first failure;
// Errors annotates every offending field for the form view.
type Result struct {
	Valid   bool
	Message string
	Reason  Reason
	Missing []Field
	Errors  FieldErrors
}

// IsRequired reports whether f is in RequiredFields.
func (f Field) IsRequired() bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// Human returns the field name with underscores replaced by spaces.
func (f Field) Human() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is an optional + followed by up to 16 digits
// once spaces, hyphens and parentheses are removed.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(phoneNoise.ReplaceAllString(s, ""))
}

// MissingFields returns the required fields that are blank, in
// RequiredFields order.
func MissingFields(d Draft) []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if strings.TrimSpace(d.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// MissingMessage formats the missing-fields failure.
func MissingMessage(missing []Field) string {
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = f.Human()
	}
	return missingPrefix + strings.Join(names, ", ")
}

// Validate checks d in order: required fields, email, phone, then the
// format of any optional values that are set. It stops at the first stage
// that fails. The first three stages are the submission contract; the
// format stage additionally rejects values outside the form's catalogs.
func Validate(d Draft) Result {
	if missing := MissingFields(d); len(missing) > 0 {
		errs := make(FieldErrors, len(missing))
		for _, f := range missing {
			errs[f] = MsgRequired
		}
		return Result{
			Message: MissingMessage(missing),
			Reason:  ReasonMissing,
			Missing: missing,
			Errors:  errs,
		}
	}

	if !ValidEmail(d.Email) {
		return Result{
			Message: MsgInvalidEmail,
			Reason:  ReasonEmail,
			Errors:  FieldErrors{FieldEmail: MsgInvalidEmail},
		}
	}

	if !ValidPhone(d.PhoneNumber) {
		return Result{
			Message: MsgInvalidPhone,
			Reason:  ReasonPhone,
			Errors:  FieldErrors{FieldPhoneNumber: MsgInvalidPhone},
		}
	}

	if errs, first := checkFormats(d); len(errs) > 0 {
		return Result{
			Message: errs[first],
			Reason:  ReasonFormat,
			Errors:  errs,
		}
	}

	return Result{Valid: true}
}

var (
	formatOnce      sync.Once
	formatValidator *validator.Validate
)

func formats() *validator.Validate {
	formatOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("catalog", func(fl validator.FieldLevel) bool {
			return InCatalog(Field(fl.Param()), fl.Field().String())
		})
		_ = v.RegisterValidation("gradyear", func(fl validator.FieldLevel) bool {
			return ValidGraduationYear(fl.Field().String())
		})
		formatValidator = v
	})
	return formatValidator
}

// checkFormats runs the struct tags on d and returns one message per
// offending field plus the first field that failed.
func checkFormats(d Draft) (FieldErrors, Field) {
	err := formats().Struct(d)
	if err == nil {
		return nil, ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{FieldGeneral: err.Error()}, FieldGeneral
	}

	errs := make(FieldErrors, len(verrs))
	var first Field
	for _, fe := range verrs {
		name, _, _ := strings.Cut(fe.Field(), "[")
		f := Field(name)
		if _, seen := errs[f]; seen {
			continue
		}
		errs[f] = formatMessage(f, fe)
		if first == "" {
			first = f
		}
	}
	return errs, first
}

func formatMessage(f Field, fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "Please provide a valid " + f.Human() + " (YYYY-MM-DD)"
	case "gradyear":
		return "Please provide a valid graduation year (1950-2030)"
	case "catalog":
		if f.IsSkill() {
			return "Please choose " + f.Human() + " from the list"
		}
		return "Please choose a valid " + f.Human()
	default:
		return "Please check " + f.Human()
	}
}
