package generator

import (
	"fmt"
	"strings"

	"cppdoc/internal/comment"
	"cppdoc/internal/cpp"
	"cppdoc/internal/synopsis"
)

// Policy decides what is documented and what appears in synopses.
type Policy interface {
	synopsis.Policy
	IsDocumentationBlacklisted(e cpp.Entity) bool
}

// Entry is an entity with a documentation entry of its own.
type Entry struct {
	Entity  cpp.Entity
	Comment *comment.Comment
}

// Kinds that are documented as part of another entity.
var inlineKinds = map[cpp.Kind]bool{
	cpp.FileKind:                      true,
	cpp.FunctionParameterKind:         true,
	cpp.TemplateTypeParameterKind:     true,
	cpp.NonTypeTemplateParameterKind:  true,
	cpp.TemplateTemplateParameterKind: true,
	cpp.BaseClassKind:                 true,
	cpp.AccessSpecifierKind:           true,
}

type collector struct {
	policy         Policy
	extractPrivate bool
	entries        []Entry
	excluded       map[cpp.Entity]bool
}

// Collect parses the comments of file and returns its entries in document
// order, and the entities excluded with \exclude.
func Collect(file *cpp.File, policy Policy, extractPrivate bool) ([]Entry, map[cpp.Entity]bool, error) {
	c := &collector{
		policy:         policy,
		extractPrivate: extractPrivate || (policy != nil && policy.ExtractPrivate()),
		excluded:       map[cpp.Entity]bool{},
	}
	if err := c.visit(file); err != nil {
		return nil, nil, err
	}
	return c.entries, c.excluded, nil
}

func (c *collector) visit(e cpp.Entity) error {
	if c.policy != nil && c.policy.IsSynopsisBlacklisted(e) {
		return nil
	}

	if raw := e.Comment(); strings.TrimSpace(raw) != "" {
		parsed, err := comment.Parse(raw)
		if err != nil {
			return fmt.Errorf("comment of %s: %w", cpp.QualifiedName(e), err)
		}
		if parsed.Exclude {
			c.excluded[e] = true
			return nil
		}
		if !inlineKinds[e.Kind()] && (c.policy == nil || !c.policy.IsDocumentationBlacklisted(e)) {
			c.entries = append(c.entries, Entry{Entity: e, Comment: parsed})
		}
	}

	if class, ok := e.(*cpp.Class); ok {
		return c.visitMembers(class)
	}
	for _, child := range e.Children() {
		if err := c.visit(child); err != nil {
			return err
		}
	}
	if w := cpp.Wrapped(e); w != nil {
		return c.visit(w)
	}
	return nil
}

func (c *collector) visitMembers(class *cpp.Class) error {
	access := cpp.Public
	if class.Keyword == cpp.ClassKeywordClass {
		access = cpp.Private
	}
	for _, m := range class.Children() {
		if spec, ok := m.(*cpp.AccessSpecifier); ok {
			access = spec.Access
			continue
		}
		if synopsis.Hidden(m, access, c.extractPrivate) {
			continue
		}
		if err := c.visit(m); err != nil {
			return err
		}
	}
	return nil
}

var kindTitles = map[cpp.Kind]string{
	cpp.MacroDefinitionKind:                    "Macro",
	cpp.LanguageLinkageKind:                    "Language linkage",
	cpp.NamespaceKind:                          "Namespace",
	cpp.NamespaceAliasKind:                     "Namespace alias",
	cpp.UsingDirectiveKind:                     "Using directive",
	cpp.UsingDeclarationKind:                   "Using declaration",
	cpp.TypeAliasKind:                          "Type alias",
	cpp.AliasTemplateKind:                      "Alias template",
	cpp.EnumKind:                               "Enumeration",
	cpp.EnumValueKind:                          "Enumeration constant",
	cpp.ClassKind:                              "Class",
	cpp.VariableKind:                           "Variable",
	cpp.MemberVariableKind:                     "Member variable",
	cpp.BitfieldKind:                           "Bit field",
	cpp.FunctionKind:                           "Function",
	cpp.MemberFunctionKind:                     "Member function",
	cpp.ConversionOpKind:                       "Conversion operator",
	cpp.ConstructorKind:                        "Constructor",
	cpp.DestructorKind:                         "Destructor",
	cpp.FunctionTemplateKind:                   "Function template",
	cpp.FunctionTemplateSpecializationKind:     "Function template specialization",
	cpp.ClassTemplateKind:                      "Class template",
	cpp.ClassTemplateFullSpecializationKind:    "Class template specialization",
	cpp.ClassTemplatePartialSpecializationKind: "Class template partial specialization",
}

// Title is the heading text for an entity kind.
func Title(e cpp.Entity) string {
	if class, ok := e.(*cpp.Class); ok {
		switch class.Keyword {
		case cpp.ClassKeywordStruct:
			return "Struct"
		case cpp.ClassKeywordUnion:
			return "Union"
		}
	}
	if t, ok := kindTitles[e.Kind()]; ok {
		return t
	}
	return strings.ReplaceAll(e.Kind().String(), "_", " ")
}
