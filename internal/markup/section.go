package markup

import "fmt"

// SectionType tags a paragraph with its documentation role.
type SectionType int

const (
	InvalidSection SectionType = iota
	BriefSection
	DetailsSection
	RequiresSection
	EffectsSection
	SynchronizationSection
	PostconditionsSection
	PreconditionsSection
	ReturnsSection
	ThrowsSection
	ComplexitySection
	RemarksSection
	ErrorConditionsSection
	NotesSection
	SeeSection
	ParametersSection

	sectionTypeCount
)

var sectionNames = [sectionTypeCount]string{
	InvalidSection:         "invalid",
	BriefSection:           "brief",
	DetailsSection:         "details",
	RequiresSection:        "requires",
	EffectsSection:         "effects",
	SynchronizationSection: "synchronization",
	PostconditionsSection:  "postconditions",
	PreconditionsSection:   "preconditions",
	ReturnsSection:         "returns",
	ThrowsSection:          "throws",
	ComplexitySection:      "complexity",
	RemarksSection:         "remarks",
	ErrorConditionsSection: "error_conditions",
	NotesSection:           "notes",
	SeeSection:             "see",
	ParametersSection:      "parameters",
}

var sectionLabels = [sectionTypeCount]string{
	RequiresSection:        "Requires",
	EffectsSection:         "Effects",
	SynchronizationSection: "Synchronization",
	PostconditionsSection:  "Postconditions",
	PreconditionsSection:   "Preconditions",
	ReturnsSection:         "Returns",
	ThrowsSection:          "Throws",
	ComplexitySection:      "Complexity",
	RemarksSection:         "Remarks",
	ErrorConditionsSection: "Error conditions",
	NotesSection:           "Notes",
	SeeSection:             "See also",
	ParametersSection:      "Parameters",
}

func (t SectionType) String() string {
	if t < 0 || t >= sectionTypeCount {
		return fmt.Sprintf("SectionType(%d)", int(t))
	}
	return sectionNames[t]
}

// Label returns the heading text shown in front of a section paragraph.
// Brief and details sections are unlabelled.
func (t SectionType) Label() string {
	if t < 0 || t >= sectionTypeCount {
		return ""
	}
	return sectionLabels[t]
}

// ParseSectionType maps a section name such as "returns" to its type.
func ParseSectionType(s string) (SectionType, bool) {
	for i, name := range sectionNames {
		if i != int(InvalidSection) && name == s {
			return SectionType(i), true
		}
	}
	return InvalidSection, false
}

// Section is the documentation tag embedded in a paragraph. It is created
// through Paragraph.SetSectionType.
type Section struct {
	node
	typ   SectionType
	label string
}

func (*Section) Kind() Kind { return SectionKind }
func (s *Section) Type() SectionType { return s.typ }
func (s *Section) Label() string { return s.label }

// Clone installs a copy of the section in parent, which must be a paragraph.
func (s *Section) Clone(parent Container) (Node, error) {
	switch p := parent.(type) {
	case nil:
		return &Section{typ: s.typ, label: s.label}, nil
	case *Paragraph:
		if err := p.SetSectionType(s.typ, s.label); err != nil {
			return nil, err
		}
		return p.section, nil
	default:
		return nil, constructionError("section.clone", "%s cannot contain a section", parent.Kind())
	}
}
