package cpp

import "fmt"

// Kind identifies the concrete variant of an Entity.
type Kind int

// InvalidKind is zero so that it orders before every real kind. The blacklist
// uses it as the wildcard kind (see AnyKind).
const (
	InvalidKind Kind = iota
	FileKind

	InclusionDirectiveKind
	MacroDefinitionKind

	LanguageLinkageKind

	NamespaceKind
	NamespaceAliasKind
	UsingDirectiveKind
	UsingDeclarationKind

	TypeAliasKind
	AliasTemplateKind

	EnumKind
	EnumValueKind

	ClassKind
	BaseClassKind
	AccessSpecifierKind

	VariableKind
	MemberVariableKind
	BitfieldKind

	FunctionKind
	MemberFunctionKind
	ConversionOpKind
	ConstructorKind
	DestructorKind
	FunctionParameterKind

	TemplateTypeParameterKind
	NonTypeTemplateParameterKind
	TemplateTemplateParameterKind

	FunctionTemplateKind
	FunctionTemplateSpecializationKind

	ClassTemplateKind
	ClassTemplateFullSpecializationKind
	ClassTemplatePartialSpecializationKind

	// KindCount is the number of kinds, usable as an array bound.
	KindCount
)

// AnyKind matches every kind in name/kind policies.
const AnyKind = InvalidKind

var kindNames = [KindCount]string{
	InvalidKind:                            "invalid",
	FileKind:                               "file",
	InclusionDirectiveKind:                 "inclusion_directive",
	MacroDefinitionKind:                    "macro_definition",
	LanguageLinkageKind:                    "language_linkage",
	NamespaceKind:                          "namespace",
	NamespaceAliasKind:                     "namespace_alias",
	UsingDirectiveKind:                     "using_directive",
	UsingDeclarationKind:                   "using_declaration",
	TypeAliasKind:                          "type_alias",
	AliasTemplateKind:                      "alias_template",
	EnumKind:                               "enum",
	EnumValueKind:                          "enum_value",
	ClassKind:                              "class",
	BaseClassKind:                          "base_class",
	AccessSpecifierKind:                    "access_specifier",
	VariableKind:                           "variable",
	MemberVariableKind:                     "member_variable",
	BitfieldKind:                           "bitfield",
	FunctionKind:                           "function",
	MemberFunctionKind:                     "member_function",
	ConversionOpKind:                       "conversion_op",
	ConstructorKind:                        "constructor",
	DestructorKind:                         "destructor",
	FunctionParameterKind:                  "function_parameter",
	TemplateTypeParameterKind:              "template_type_parameter",
	NonTypeTemplateParameterKind:           "non_type_template_parameter",
	TemplateTemplateParameterKind:          "template_template_parameter",
	FunctionTemplateKind:                   "function_template",
	FunctionTemplateSpecializationKind:     "function_template_specialization",
	ClassTemplateKind:                      "class_template",
	ClassTemplateFullSpecializationKind:    "class_template_full_specialization",
	ClassTemplatePartialSpecializationKind: "class_template_partial_specialization",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind named s. The empty string and "*" select AnyKind.
func ParseKind(s string) (Kind, error) {
	if s == "" || s == "*" {
		return AnyKind, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return InvalidKind, fmt.Errorf("unknown entity kind %q", s)
}
