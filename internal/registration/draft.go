// Package registration defines the trainee registration draft, its option
// catalogs and the client-side validation applied before submission.
package registration

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// Field is the wire name of a draft field.
type Field string

const (
	FieldFirstName           Field = "first_name"
	FieldLastName            Field = "last_name"
	FieldEmail               Field = "email"
	FieldPhoneNumber         Field = "phone_number"
	FieldDateOfBirth         Field = "date_of_birth"
	FieldGender              Field = "gender"
	FieldCountryOfOrigin     Field = "country_of_origin"
	FieldStateOfOrigin       Field = "state_of_origin"
	FieldLocalGovernmentArea Field = "local_government_area"
	FieldAddress             Field = "address"

	FieldHighestEducation Field = "highest_level_of_education"
	FieldFieldOfStudy     Field = "field_of_study"
	FieldInstitutionName  Field = "institution_name"
	FieldGraduationYear   Field = "graduation_year"

	FieldEmploymentStatus  Field = "employment_status"
	FieldYearsOfExperience Field = "years_of_experience"
	FieldJobTitle          Field = "job_title"
	FieldCompanyName       Field = "company_name"

	FieldTrainingTrack      Field = "preferred_training_track"
	FieldTrainingMode       Field = "training_mode"
	FieldPreferredStartDate Field = "preferred_start_date"
	FieldDurationPreference Field = "training_duration_preference"

	FieldProgrammingLanguages Field = "programming_languages"
	FieldFrameworks           Field = "frameworks_and_technologies"

	// FieldGeneral keys errors that belong to the form as a whole.
	FieldGeneral Field = "general"
)

// AllFields lists every draft field in form order.
var AllFields = []Field{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhoneNumber,
	FieldDateOfBirth, FieldGender, FieldCountryOfOrigin, FieldStateOfOrigin,
	FieldLocalGovernmentArea, FieldAddress,
	FieldHighestEducation, FieldFieldOfStudy, FieldInstitutionName, FieldGraduationYear,
	FieldEmploymentStatus, FieldYearsOfExperience, FieldJobTitle, FieldCompanyName,
	FieldTrainingTrack, FieldTrainingMode, FieldPreferredStartDate, FieldDurationPreference,
	FieldProgrammingLanguages, FieldFrameworks,
}

// ErrNotSkillField is returned when a skill operation targets a scalar field.
var ErrNotSkillField = errors.New("not a skill field")

// IsSkill reports whether f holds a SkillSet.
func (f Field) IsSkill() bool {
	return f == FieldProgrammingLanguages || f == FieldFrameworks
}

// Draft is the in-progress registration record. The zero value is the
// empty draft a session starts with.
type Draft struct {
	FirstName           string `json:"first_name" yaml:"first_name"`
	LastName            string `json:"last_name" yaml:"last_name"`
	Email               string `json:"email" yaml:"email"`
	PhoneNumber         string `json:"phone_number" yaml:"phone_number"`
	DateOfBirth         string `json:"date_of_birth" yaml:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender              string `json:"gender" yaml:"gender" validate:"omitempty,catalog=gender"`
	CountryOfOrigin     string `json:"country_of_origin" yaml:"country_of_origin" validate:"omitempty,catalog=country_of_origin"`
	StateOfOrigin       string `json:"state_of_origin" yaml:"state_of_origin"`
	LocalGovernmentArea string `json:"local_government_area" yaml:"local_government_area"`
	Address             string `json:"address" yaml:"address"`

	HighestEducation string `json:"highest_level_of_education" yaml:"highest_level_of_education" validate:"omitempty,catalog=highest_level_of_education"`
	FieldOfStudy     string `json:"field_of_study" yaml:"field_of_study"`
	InstitutionName  string `json:"institution_name" yaml:"institution_name"`
	GraduationYear   string `json:"graduation_year" yaml:"graduation_year" validate:"omitempty,gradyear"`

	EmploymentStatus  string `json:"employment_status" yaml:"employment_status" validate:"omitempty,catalog=employment_status"`
	YearsOfExperience string `json:"years_of_experience" yaml:"years_of_experience" validate:"omitempty,catalog=years_of_experience"`
	JobTitle          string `json:"job_title" yaml:"job_title"`
	CompanyName       string `json:"company_name" yaml:"company_name"`

	TrainingTrack      string `json:"preferred_training_track" yaml:"preferred_training_track" validate:"omitempty,catalog=preferred_training_track"`
	TrainingMode       string `json:"training_mode" yaml:"training_mode" validate:"omitempty,catalog=training_mode"`
	PreferredStartDate string `json:"preferred_start_date" yaml:"preferred_start_date" validate:"omitempty,datetime=2006-01-02"`
	DurationPreference string `json:"training_duration_preference" yaml:"training_duration_preference" validate:"omitempty,catalog=training_duration_preference"`

	ProgrammingLanguages SkillSet `json:"programming_languages" yaml:"programming_languages" validate:"dive,catalog=programming_languages"`
	Frameworks           SkillSet `json:"frameworks_and_technologies" yaml:"frameworks_and_technologies" validate:"dive,catalog=frameworks_and_technologies"`
}

// Patch is a partial update keyed by wire field name.
type Patch map[string]any

// Set returns a single-field patch.
func Set(f Field, value any) Patch {
	return Patch{string(f): value}
}

// scalar returns a pointer to the string backing f, or nil for skill and
// unknown fields.
func (d *Draft) scalar(f Field) *string {
	switch f {
	case FieldFirstName:
		return &d.FirstName
	case FieldLastName:
		return &d.LastName
	case FieldEmail:
		return &d.Email
	case FieldPhoneNumber:
		return &d.PhoneNumber
	case FieldDateOfBirth:
		return &d.DateOfBirth
	case FieldGender:
		return &d.Gender
	case FieldCountryOfOrigin:
		return &d.CountryOfOrigin
	case FieldStateOfOrigin:
		return &d.StateOfOrigin
	case FieldLocalGovernmentArea:
		return &d.LocalGovernmentArea
	case FieldAddress:
		return &d.Address
	case FieldHighestEducation:
		return &d.HighestEducation
	case FieldFieldOfStudy:
		return &d.FieldOfStudy
	case FieldInstitutionName:
		return &d.InstitutionName
	case FieldGraduationYear:
		return &d.GraduationYear
	case FieldEmploymentStatus:
		return &d.EmploymentStatus
	case FieldYearsOfExperience:
		return &d.YearsOfExperience
	case FieldJobTitle:
		return &d.JobTitle
	case FieldCompanyName:
		return &d.CompanyName
	case FieldTrainingTrack:
		return &d.TrainingTrack
	case FieldTrainingMode:
		return &d.TrainingMode
	case FieldPreferredStartDate:
		return &d.PreferredStartDate
	case FieldDurationPreference:
		return &d.DurationPreference
	}
	return nil
}

func (d *Draft) skills(f Field) *SkillSet {
	switch f {
	case FieldProgrammingLanguages:
		return &d.ProgrammingLanguages
	case FieldFrameworks:
		return &d.Frameworks
	}
	return nil
}

// Value returns the scalar value of f. Skill fields and unknown names
// return the empty string.
func (d Draft) Value(f Field) string {
	if p := d.scalar(f); p != nil {
		return *p
	}
	return ""
}

// Skills returns a copy of the skill set stored under f.
func (d Draft) Skills(f Field) SkillSet {
	if p := d.skills(f); p != nil {
		return p.Clone()
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (d Draft) Clone() Draft {
	d.ProgrammingLanguages = d.ProgrammingLanguages.Clone()
	d.Frameworks = d.Frameworks.Clone()
	return d
}

// IsEmpty reports whether every field is unset.
func (d Draft) IsEmpty() bool {
	for _, f := range AllFields {
		if f.IsSkill() {
			if len(d.Skills(f)) > 0 {
				return false
			}
			continue
		}
		if d.Value(f) != "" {
			return false
		}
	}
	return true
}

// ToggleSkill adds value to (checked) or removes it from (unchecked) the
// skill set under f.
func (d *Draft) ToggleSkill(f Field, value string, checked bool) error {
	p := d.skills(f)
	if p == nil {
		return fmt.Errorf("toggle %q: %w", f, ErrNotSkillField)
	}
	*p = p.Toggle(value, checked)
	return nil
}

// Merge applies p on top of the draft and returns the keys it did not
// recognise. Values are decoded weakly, so a numeric graduation_year is
// stored as its decimal string. A skill key replaces the whole set and a
// nil value clears the field. Keys are applied one at a time: a value that
// cannot be decoded leaves its field unchanged, is reported in the returned
// error, and does not stop the other keys.
func (d *Draft) Merge(p Patch) ([]string, error) {
	if len(p) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	next := d.Clone()
	var unused []string
	var errs []error
	for _, key := range keys {
		value := p[key]
		if value == nil {
			if !next.clear(Field(key)) {
				unused = append(unused, key)
			}
			continue
		}

		candidate := next.Clone()
		// mapstructure appends into existing slices; skill keys replace.
		if s := candidate.skills(Field(key)); s != nil {
			*s = nil
		}
		left, err := decodeInto(&candidate, key, value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		unused = append(unused, left...)
		next = candidate
	}

	next.ProgrammingLanguages = next.ProgrammingLanguages.normalize()
	next.Frameworks = next.Frameworks.normalize()
	*d = next
	if len(errs) > 0 {
		return unused, fmt.Errorf("merge draft: %w", errors.Join(errs...))
	}
	return unused, nil
}

// clear empties f and reports whether f is a draft field.
func (d *Draft) clear(f Field) bool {
	if p := d.scalar(f); p != nil {
		*p = ""
		return true
	}
	if p := d.skills(f); p != nil {
		*p = nil
		return true
	}
	return false
}

func decodeInto(d *Draft, key string, value any) ([]string, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           d,
	})
	if err != nil {
		return nil, fmt.Errorf("build draft decoder: %w", err)
	}
	if err := dec.Decode(map[string]any{key: value}); err != nil {
		return nil, err
	}
	return md.Unused, nil
}
