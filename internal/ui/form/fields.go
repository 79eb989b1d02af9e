package form

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/kachijames/intake/internal/registration"
)

// kind identifies how a field is edited.
type kind int

const (
	// kindText is a single-line text input.
	kindText kind = iota
	// kindSelect picks one value from a catalog (j/k to move, space/enter to choose).
	kindSelect
	// kindChecklist toggles members of a skill set.
	kindChecklist
)

// fieldDef describes one control on the form.
type fieldDef struct {
	field       registration.Field
	label       string
	kind        kind
	placeholder string
	charLimit   int
}

// section groups fields under a bordered heading.
type section struct {
	title  string
	fields []fieldDef
}

func text(f registration.Field, label, placeholder string) fieldDef {
	return fieldDef{field: f, label: label, kind: kindText, placeholder: placeholder, charLimit: 120}
}

func choice(f registration.Field, label, placeholder string) fieldDef {
	return fieldDef{field: f, label: label, kind: kindSelect, placeholder: placeholder}
}

func checklist(f registration.Field, label string) fieldDef {
	return fieldDef{field: f, label: label, kind: kindChecklist}
}

// sections is the form layout in display order.
var sections = []section{
	{
		title: "Personal Information",
		fields: []fieldDef{
			text(registration.FieldFirstName, "First Name", "Enter your first name"),
			text(registration.FieldLastName, "Last Name", "Enter your last name"),
			text(registration.FieldEmail, "Email Address", "your.email@example.com"),
			text(registration.FieldPhoneNumber, "Phone Number", "+1 (555) 123-4567"),
			text(registration.FieldDateOfBirth, "Date of Birth", "YYYY-MM-DD"),
			choice(registration.FieldGender, "Gender", "Select Gender"),
			choice(registration.FieldCountryOfOrigin, "Country of Origin", "Select Country"),
			text(registration.FieldStateOfOrigin, "State of Origin", "Enter your state of origin"),
			text(registration.FieldLocalGovernmentArea, "Local Government Area", "Enter your local government area"),
			text(registration.FieldAddress, "Address", "Enter your full address"),
		},
	},
	{
		title: "Educational Background",
		fields: []fieldDef{
			choice(registration.FieldHighestEducation, "Highest Level of Education", "Select Education Level"),
			text(registration.FieldFieldOfStudy, "Field of Study", "e.g., Computer Science, Engineering"),
			text(registration.FieldInstitutionName, "Institution Name", "Name of your school/university"),
			text(registration.FieldGraduationYear, "Graduation Year", "2023"),
		},
	},
	{
		title: "Professional Experience",
		fields: []fieldDef{
			choice(registration.FieldEmploymentStatus, "Current Employment Status", "Select Status"),
			choice(registration.FieldYearsOfExperience, "Years of Experience in Tech", "Select Experience"),
			text(registration.FieldJobTitle, "Current/Previous Job Title", "e.g., Software Developer, Data Analyst"),
			text(registration.FieldCompanyName, "Company Name", "Current or most recent company"),
		},
	},
	{
		title: "Training Program Selection",
		fields: []fieldDef{
			choice(registration.FieldTrainingTrack, "Preferred Training Track", "Select Training Track"),
			choice(registration.FieldTrainingMode, "Training Mode", "Select Mode"),
			text(registration.FieldPreferredStartDate, "Preferred Start Date", "YYYY-MM-DD"),
			choice(registration.FieldDurationPreference, "Training Duration Preference", "Select Duration"),
		},
	},
	{
		title: "Technical Skills & Experience",
		fields: []fieldDef{
			checklist(registration.FieldProgrammingLanguages, "Programming Languages (if any)"),
			checklist(registration.FieldFrameworks, "Frameworks & Technologies (if any)"),
		},
	},
}

// fieldState holds runtime state for one control.
type fieldState struct {
	def     fieldDef
	section int
	input   textinput.Model
	options []registration.Option
	cursor  int
}

func newFieldState(def fieldDef, sectionIdx int) fieldState {
	fs := fieldState{def: def, section: sectionIdx}
	switch def.kind {
	case kindText:
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = def.placeholder
		ti.CharLimit = def.charLimit
		ti.Width = 40
		fs.input = ti
	case kindSelect, kindChecklist:
		fs.options = registration.Catalog(def.field)
	}
	return fs
}

// newFieldStates flattens sections into focus order.
func newFieldStates() []fieldState {
	var out []fieldState
	for i, s := range sections {
		for _, def := range s.fields {
			out = append(out, newFieldState(def, i))
		}
	}
	return out
}

// sync loads the draft's value into the control.
func (fs *fieldState) sync(d registration.Draft) {
	switch fs.def.kind {
	case kindText:
		fs.input.SetValue(d.Value(fs.def.field))
		fs.input.CursorEnd()
	case kindSelect:
		fs.cursor = 0
		v := d.Value(fs.def.field)
		for i, opt := range fs.options {
			if opt.Value == v {
				fs.cursor = i
				break
			}
		}
	case kindChecklist:
		fs.cursor = 0
	}
}

// selectedLabel returns the label of the chosen option, or "" if none.
func (fs *fieldState) selectedLabel(d registration.Draft) string {
	v := d.Value(fs.def.field)
	if v == "" {
		return ""
	}
	return registration.LabelFor(fs.def.field, v)
}
