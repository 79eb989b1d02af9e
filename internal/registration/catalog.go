package registration

import "strconv"

// Option is one selectable value and its display label.
type Option struct {
	Value string
	Label string
}

// Graduation years accepted by the form.
const (
	MinGraduationYear = 1950
	MaxGraduationYear = 2030
)

var catalogs = map[Field][]Option{
	FieldGender: {
		{"male", "Male"},
		{"female", "Female"},
		{"other", "Other"},
		{"prefer-not-to-say", "Prefer not to say"},
	},
	FieldCountryOfOrigin: {
		{"nigeria", "Nigeria"},
		{"ghana", "Ghana"},
		{"kenya", "Kenya"},
		{"south-africa", "South Africa"},
		{"egypt", "Egypt"},
		{"morocco", "Morocco"},
		{"ethiopia", "Ethiopia"},
		{"uganda", "Uganda"},
		{"tanzania", "Tanzania"},
		{"cameroon", "Cameroon"},
		{"senegal", "Senegal"},
		{"ivory-coast", "Ivory Coast"},
		{"other", "Other"},
	},
	FieldHighestEducation: {
		{"high-school", "High School"},
		{"associate", "Associate Degree"},
		{"bachelor", "Bachelor's Degree"},
		{"master", "Master's Degree"},
		{"phd", "PhD"},
		{"other", "Other"},
	},
	FieldEmploymentStatus: {
		{"employed", "Employed"},
		{"unemployed", "Unemployed"},
		{"student", "Student"},
		{"freelancer", "Freelancer"},
		{"entrepreneur", "Entrepreneur"},
	},
	FieldYearsOfExperience: {
		{"0", "No experience"},
		{"1", "Less than 1 year"},
		{"1-2", "1-2 years"},
		{"3-5", "3-5 years"},
		{"5+", "5+ years"},
	},
	FieldTrainingTrack: {
		{"web-development", "Web Development"},
		{"mobile-development", "Mobile Development"},
		{"data-science", "Data Science & Analytics"},
		{"ai-ml", "Artificial Intelligence & Machine Learning"},
		{"cybersecurity", "Cybersecurity"},
		{"cloud-computing", "Cloud Computing"},
		{"devops", "DevOps & Infrastructure"},
		{"ui-ux", "UI/UX Design"},
	},
	FieldTrainingMode: {
		{"online", "Online"},
		{"in-person", "In-Person"},
		{"hybrid", "Hybrid"},
	},
	FieldDurationPreference: {
		{"3-months", "3 Months"},
		{"6-months", "6 Months"},
		{"12-months", "12 Months"},
		{"flexible", "Flexible"},
	},
	FieldProgrammingLanguages: options(
		"JavaScript", "Python", "Java", "C++", "C#", "PHP", "Ruby", "Go",
	),
	FieldFrameworks: options(
		"React", "Angular", "Vue.js", "Node.js", "Django", "Laravel", "Spring", "Flutter",
	),
}

func options(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// Catalog returns the options for f, or nil when f is free text.
func Catalog(f Field) []Option {
	opts := catalogs[f]
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// InCatalog reports whether v is one of f's option values.
func InCatalog(f Field, v string) bool {
	for _, opt := range catalogs[f] {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// LabelFor returns the display label for v under f, falling back to v.
func LabelFor(f Field, v string) string {
	for _, opt := range catalogs[f] {
		if opt.Value == v {
			return opt.Label
		}
	}
	return v
}

// ValidGraduationYear reports whether s is a whole year in the accepted range.
func ValidGraduationYear(s string) bool {
	year, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return year >= MinGraduationYear && year <= MaxGraduationYear
}
