package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"cppdoc/internal/cpp"
)

// specs are the specifiers written around the type of a declaration.
type specs struct {
	static, threadLocal, constexpr, mutable, virtual, explicit bool
	pre, post                                                  []string // cv-qualifiers before and after the type
}

func (b *builder) specifiers(n *sitter.Node) specs {
	var sp specs
	typ := n.ChildByFieldName("type")
	seenType := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if same(c, typ) {
			seenType = true
			continue
		}
		switch c.Type() {
		case "storage_class_specifier":
			switch b.text(c) {
			case "static":
				sp.static = true
			case "thread_local":
				sp.threadLocal = true
			}
		case "type_qualifier":
			switch q := b.text(c); q {
			case "constexpr", "consteval", "constinit":
				sp.constexpr = true
			case "mutable":
				sp.mutable = true
			case "const", "volatile":
				if seenType {
					sp.post = append(sp.post, q)
				} else {
					sp.pre = append(sp.pre, q)
				}
			}
		case "virtual", "virtual_function_specifier":
			sp.virtual = true
		case "explicit_function_specifier":
			sp.explicit = true
		}
	}
	return sp
}

// typeText spells the declared type with its cv-qualifiers, or "" when the
// declaration has no type (constructors, destructors).
func (b *builder) typeText(n *sitter.Node, sp specs) string {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	parts := append(append(append([]string{}, sp.pre...), b.text(typ)), sp.post...)
	return strings.Join(parts, " ")
}

func joinType(typ, ptr string) string {
	return typ + ptr
}

var declaratorTypes = map[string]bool{
	"identifier":               true,
	"field_identifier":         true,
	"type_identifier":          true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"array_declarator":         true,
	"function_declarator":      true,
	"init_declarator":          true,
	"parenthesized_declarator": true,
	"operator_name":            true,
	"destructor_name":          true,
	"template_function":        true,
	"operator_cast":            true,
	"qualified_identifier":     true,
}

// declarators returns the declarator children of a declaration.
func (b *builder) declarators(n *sitter.Node) []*sitter.Node {
	typ := n.ChildByFieldName("type")
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if !same(c, typ) && declaratorTypes[c.Type()] {
			out = append(out, c)
		}
	}
	return out
}

// declarator is a declarator chain taken apart.
type declarator struct {
	name     *sitter.Node
	ptr      string // pointer and reference operators outside a function declarator
	array    string
	fn       *sitter.Node // function_declarator or abstract_function_declarator
	cast     *sitter.Node // operator_cast
	value    *sitter.Node // initializer of an init_declarator
	variadic bool
}

func (b *builder) unwrap(n *sitter.Node) declarator {
	var d declarator
	for n != nil {
		switch n.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			d.ptr += "*"
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if q := n.NamedChild(i); q.Type() == "type_qualifier" {
					d.ptr += " " + b.text(q)
				}
			}
			n = n.ChildByFieldName("declarator")
		case "reference_declarator", "abstract_reference_declarator":
			if d.fn == nil && n.ChildCount() > 0 {
				d.ptr += n.Child(0).Type()
			}
			n = firstNamed(n)
		case "array_declarator", "abstract_array_declarator":
			d.array = "[" + b.text(n.ChildByFieldName("size")) + "]" + d.array
			n = n.ChildByFieldName("declarator")
		case "function_declarator", "abstract_function_declarator":
			if d.fn == nil {
				d.fn = n
			}
			n = n.ChildByFieldName("declarator")
		case "init_declarator":
			d.value = n.ChildByFieldName("value")
			n = n.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			n = firstNamed(n)
		case "variadic_declarator":
			d.variadic = true
			n = firstNamed(n)
		case "operator_cast":
			d.cast = n
			n = n.ChildByFieldName("declarator")
		default:
			d.name = n
			return d
		}
	}
	return d
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

// declaration builds the variables and functions a declaration declares.
// A declaration without declarators may still define a type.
func (b *builder) declaration(n *sitter.Node, class *cpp.Class) []cpp.Entity {
	decls := b.declarators(n)
	if len(decls) == 0 {
		if typ := n.ChildByFieldName("type"); typ != nil {
			return b.entities(typ, class)
		}
		return nil
	}

	sp := b.specifiers(n)
	var out []cpp.Entity
	for _, dn := range decls {
		d := b.unwrap(dn)
		var e cpp.Entity
		if d.fn != nil {
			e = b.function(n, d, sp, class)
		} else {
			e = b.variable(n, d, sp, class)
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (b *builder) variable(n *sitter.Node, d declarator, sp specs, class *cpp.Class) cpp.Entity {
	if d.name == nil || d.name.Type() == "qualified_identifier" {
		return nil
	}
	name := b.text(d.name)
	typ := joinType(b.typeText(n, sp), d.ptr) + d.array
	init := b.text(d.value)
	if init == "" {
		init = b.text(n.ChildByFieldName("default_value"))
	}

	if class == nil || sp.static {
		return &cpp.Variable{
			Base:        b.base(n, name),
			Type:        typ,
			Init:        init,
			Static:      sp.static,
			ThreadLocal: sp.threadLocal,
			Constexpr:   sp.constexpr,
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "bitfield_clause" {
			return &cpp.Bitfield{
				Base:    b.base(n, name),
				Type:    typ,
				Bits:    strings.TrimSpace(strings.TrimPrefix(b.text(c), ":")),
				Init:    init,
				Mutable: sp.mutable,
			}
		}
	}
	return &cpp.MemberVariable{Base: b.base(n, name), Type: typ, Init: init, Mutable: sp.mutable}
}

// function builds a member of the function family. Out-of-line definitions
// of members ("void C::f() {}") are skipped; the class declares them.
func (b *builder) function(n *sitter.Node, d declarator, sp specs, class *cpp.Class) cpp.Entity {
	sig := cpp.Signature{Constexpr: sp.constexpr}
	sig.Return = joinType(b.typeText(n, sp), d.ptr)

	var cv cpp.CVQualifier
	var ref cpp.RefQualifier
	var override, final bool
	for i := 0; i < int(d.fn.ChildCount()); i++ {
		c := d.fn.Child(i)
		switch c.Type() {
		case "type_qualifier":
			switch b.text(c) {
			case "const":
				cv |= cpp.Const
			case "volatile":
				cv |= cpp.Volatile
			}
		case "ref_qualifier":
			ref = cpp.LValueRef
			if strings.TrimSpace(b.text(c)) == "&&" {
				ref = cpp.RValueRef
			}
		case "noexcept":
			sig.Noexcept = "true"
			if c.NamedChildCount() > 0 {
				sig.Noexcept = b.text(c.NamedChild(0))
			}
		case "virtual_specifier":
			switch b.text(c) {
			case "override":
				override = true
			case "final":
				final = true
			}
		case "trailing_return_type":
			sig.Return = strings.TrimSpace(strings.TrimPrefix(b.text(c), "->"))
		}
	}

	pure := false
	for i := 0; i < int(n.ChildCount()); i++ {
		switch c := n.Child(i); c.Type() {
		case "default_method_clause":
			sig.Definition = cpp.Defaulted
		case "delete_method_clause":
			sig.Definition = cpp.Deleted
		case "pure_virtual_clause":
			pure = true
		}
	}
	switch strings.TrimSpace(b.text(n.ChildByFieldName("default_value"))) {
	case "0":
		pure = true
	case "default":
		sig.Definition = cpp.Defaulted
	case "delete":
		sig.Definition = cpp.Deleted
	}

	virt := cpp.NonVirtual
	switch {
	case pure:
		virt = cpp.PureVirtual
	case final:
		virt = cpp.Final
	case override:
		virt = cpp.Override
	case sp.virtual:
		virt = cpp.Virtual
	}

	var e cpp.Entity
	switch {
	case d.cast != nil:
		if class == nil {
			return nil
		}
		target := b.text(d.cast.ChildByFieldName("type"))
		sig.Return = target
		e = &cpp.ConversionOp{Base: b.base(n, "operator "+target), Signature: sig, Virtual: virt, CV: cv, Ref: ref, Explicit: sp.explicit}
	case d.name == nil || d.name.Type() == "qualified_identifier":
		return nil
	case d.name.Type() == "destructor_name":
		if class == nil {
			return nil
		}
		e = &cpp.Destructor{Base: b.base(n, b.text(d.name)), Signature: sig, Virtual: virt}
	case class != nil && n.ChildByFieldName("type") == nil && b.text(d.name) == class.Name():
		e = &cpp.Constructor{Base: b.base(n, class.Name()), Signature: sig, Explicit: sp.explicit}
	default:
		name := b.text(d.name)
		if d.name.Type() == "template_function" {
			name = b.text(d.name.ChildByFieldName("name"))
		}
		if class != nil {
			e = &cpp.MemberFunction{Base: b.base(n, name), Signature: sig, Virtual: virt, CV: cv, Ref: ref, Static: sp.static}
		} else {
			e = &cpp.Function{Base: b.base(n, name), Signature: sig, Static: sp.static}
		}
	}

	cpp.SignatureOf(e).Variadic = b.parameters(e, d.fn.ChildByFieldName("parameters"))
	return e
}

// parameters adds the parameters in list to fn and reports whether the list
// ends in a C variadic "...".
func (b *builder) parameters(fn cpp.Entity, list *sitter.Node) bool {
	if list == nil {
		return false
	}
	variadic := false
	for i := 0; i < int(list.ChildCount()); i++ {
		c := list.Child(i)
		switch c.Type() {
		case "...", "variadic_parameter":
			variadic = true
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			d := b.unwrap(c.ChildByFieldName("declarator"))
			typ := joinType(b.typeText(c, b.specifiers(c)), d.ptr)
			if d.variadic || c.Type() == "variadic_parameter_declaration" {
				typ += "..."
			}
			cpp.Add(fn, &cpp.FunctionParameter{
				Base:    b.base(c, b.text(d.name)),
				Type:    typ + d.array,
				Default: b.text(c.ChildByFieldName("default_value")),
			})
		}
	}
	return variadic
}
