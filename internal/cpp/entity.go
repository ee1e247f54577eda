package cpp

import "strings"

// Location is the position of a declaration in its file.
type Location struct {
	File string
	Line int
	// EndLine is the last line of the declaration, or zero when unknown.
	EndLine int
}

// Entity is a parsed C++ declaration.
//
// Concrete entities are the pointer types declared in this package; callers
// dispatch on them with a type switch or on Kind().
type Entity interface {
	Kind() Kind
	Name() string
	SemanticParent() Entity
	Children() []Entity
	Comment() string
	Location() Location

	base() *Base
}

// Base holds the state shared by every entity.
type Base struct {
	Ident   string
	Doc     string
	Parent  Entity
	Members []Entity
	Loc     Location
}

func (b *Base) Name() string { return b.Ident }
func (b *Base) SemanticParent() Entity { return b.Parent }
func (b *Base) Children() []Entity { return b.Members }
func (b *Base) Comment() string { return b.Doc }
func (b *Base) Location() Location { return b.Loc }
func (b *Base) base() *Base { return b }

// Add appends child to parent and makes parent its semantic parent.
// It returns child for chaining.
func Add[E Entity](parent Entity, child E) E {
	child.base().Parent = parent
	if parent != nil {
		pb := parent.base()
		pb.Members = append(pb.Members, child)
	}
	return child
}

// SetParent links child to parent without listing it as a member. Template
// wrappers use it for the entity they wrap.
func SetParent(child, parent Entity) {
	if child != nil {
		child.base().Parent = parent
	}
}

// HasDocumentation reports whether e carries a non-blank comment. An entity
// wrapped by a template is documented through its template.
func HasDocumentation(e Entity) bool {
	if e == nil {
		return false
	}
	if strings.TrimSpace(e.Comment()) != "" {
		return true
	}
	if p := e.SemanticParent(); p != nil && Wrapped(p) == e {
		return strings.TrimSpace(p.Comment()) != ""
	}
	return false
}

// Wrapped returns the entity a template form wraps, or nil.
func Wrapped(e Entity) Entity {
	switch t := e.(type) {
	case *FunctionTemplate:
		return t.Function
	case *FunctionTemplateSpecialization:
		return t.Function
	case *ClassTemplate:
		if t.Class != nil {
			return t.Class
		}
	case *ClassTemplateFullSpecialization:
		if t.Class != nil {
			return t.Class
		}
	case *ClassTemplatePartialSpecialization:
		if t.Class != nil {
			return t.Class
		}
	case *AliasTemplate:
		if t.Alias != nil {
			return t.Alias
		}
	}
	return nil
}

// QualifiedName joins the names of e and its named ancestors with "::".
func QualifiedName(e Entity) string {
	var parts []string
	for cur := e; cur != nil; cur = cur.SemanticParent() {
		switch cur.Kind() {
		case FileKind, LanguageLinkageKind:
			continue
		}
		if w := cur.SemanticParent(); w != nil && Wrapped(w) == cur {
			continue
		}
		if cur.Name() != "" {
			parts = append(parts, cur.Name())
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// Walk visits e and its descendants in document order, including entities
// wrapped by templates. Returning false from fn skips the subtree.
func Walk(e Entity, fn func(Entity) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(c, fn)
	}
	if w := Wrapped(e); w != nil {
		Walk(w, fn)
	}
}
