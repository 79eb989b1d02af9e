// Package testutil builds registration fixtures and a fake registration
// service for package tests.
package testutil

import "github.com/kachijames/intake/internal/registration"

// DraftOption customises a fixture draft.
type DraftOption func(*registration.Draft)

// ValidDraft returns a draft that passes every validation stage.
func ValidDraft(opts ...DraftOption) registration.Draft {
	d := registration.Draft{
		FirstName:           "Ada",
		LastName:            "Obi",
		Email:               "ada@example.com",
		PhoneNumber:         "+12345678901",
		CountryOfOrigin:     "nigeria",
		StateOfOrigin:       "Lagos",
		LocalGovernmentArea: "Ikeja",
		Address:             "12 Allen Avenue",
		HighestEducation:    "bachelor",
		EmploymentStatus:    "employed",
		TrainingTrack:       "web-development",
		TrainingMode:        "online",
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Email overrides the email.
func Email(email string) DraftOption {
	return func(d *registration.Draft) { d.Email = email }
}

// Phone overrides the phone number.
func Phone(phone string) DraftOption {
	return func(d *registration.Draft) { d.PhoneNumber = phone }
}

// With sets any field through a patch.
func With(f registration.Field, value any) DraftOption {
	return func(d *registration.Draft) {
		_, _ = d.Merge(registration.Set(f, value))
	}
}

// Without blanks the given fields.
func Without(fields ...registration.Field) DraftOption {
	return func(d *registration.Draft) {
		for _, f := range fields {
			if f.IsSkill() {
				_, _ = d.Merge(registration.Set(f, []string{}))
				continue
			}
			_, _ = d.Merge(registration.Set(f, ""))
		}
	}
}

// Skills toggles the given values on under f.
func Skills(f registration.Field, values ...string) DraftOption {
	return func(d *registration.Draft) {
		for _, v := range values {
			_ = d.ToggleSkill(f, v, true)
		}
	}
}
