package model

// Attribute is the name of one kind of personally-sensitive information.
// The vocabulary is closed; the string value is also the key shown in reports.
type Attribute string

// Regex-derived attributes. Each holds a single string value.
const (
	AttrFirstName     Attribute = "First Name"
	AttrLastName      Attribute = "Last Name"
	AttrDateOfBirth   Attribute = "Date of Birth"
	AttrGender        Attribute = "Gender"
	AttrAge           Attribute = "Age"
	AttrNationality   Attribute = "Nationality"
	AttrMaritalStatus Attribute = "Marital Status"
)

// Entity-derived attributes. Each holds an ordered list of surface strings.
const (
	AttrOrganization Attribute = "Organization"
	AttrEducation    Attribute = "Education"
	AttrLocation     Attribute = "Location"
	AttrPerson       Attribute = "Person"
)

// RegexAttributes lists the pattern-matched attributes in extraction order.
var RegexAttributes = []Attribute{
	AttrFirstName,
	AttrLastName,
	AttrDateOfBirth,
	AttrGender,
	AttrAge,
	AttrNationality,
	AttrMaritalStatus,
}

// EntityAttributes lists the recognizer-derived attributes in the order they
// appear in every extraction result.
var EntityAttributes = []Attribute{
	AttrOrganization,
	AttrEducation,
	AttrLocation,
	AttrPerson,
}

// AllAttributes returns the full vocabulary, regex attributes first.
func AllAttributes() []Attribute {
	all := make([]Attribute, 0, len(RegexAttributes)+len(EntityAttributes))
	all = append(all, RegexAttributes...)
	return append(all, EntityAttributes...)
}

// IsEntity reports whether the attribute is populated by entity recognition.
func (a Attribute) IsEntity() bool {
	for _, e := range EntityAttributes {
		if a == e {
			return true
		}
	}
	return false
}

// String returns the display name.
func (a Attribute) String() string {
	return string(a)
}
