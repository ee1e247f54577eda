package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"cppdoc/internal/cpp"
)

type builder struct {
	src  []byte
	path string
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

func (b *builder) base(n *sitter.Node, name string) cpp.Base {
	return cpp.Base{
		Ident: name,
		Doc:   b.docComment(n),
		Loc:   cpp.Location{File: b.path, Line: int(n.StartPoint().Row) + 1, EndLine: int(n.EndPoint().Row) + 1},
	}
}

// same reports whether a and b denote the same syntax node.
func same(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// addAll builds the named children of list and adds them to parent.
func (b *builder) addAll(parent cpp.Entity, list *sitter.Node, class *cpp.Class) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		for _, e := range b.entities(list.NamedChild(i), class) {
			cpp.Add(parent, e)
		}
	}
}

// entities builds the entities declared by n. class is the enclosing class
// when n sits in a class body.
func (b *builder) entities(n *sitter.Node, class *cpp.Class) []cpp.Entity {
	var e cpp.Entity
	switch n.Type() {
	case "preproc_include":
		e = b.include(n)
	case "preproc_def", "preproc_function_def":
		e = b.macro(n)
	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif":
		return b.conditional(n, class)
	case "linkage_specification":
		e = b.linkage(n)
	case "namespace_definition":
		e = b.namespace(n)
	case "namespace_alias_definition":
		e = &cpp.NamespaceAlias{Base: b.base(n, b.text(n.ChildByFieldName("name"))), Target: b.text(lastNamed(n))}
	case "using_declaration":
		e = b.using(n)
	case "alias_declaration":
		e = b.alias(n)
	case "type_definition":
		return b.typedef(n)
	case "enum_specifier":
		e = b.enum(n)
	case "class_specifier", "struct_specifier", "union_specifier":
		if c, _ := b.class(n); c != nil {
			e = c
		}
	case "template_declaration":
		e = b.template(n, class)
	case "declaration", "field_declaration", "function_definition":
		return b.declaration(n, class)
	case "access_specifier":
		if class != nil {
			e = &cpp.AccessSpecifier{Base: cpp.Base{Loc: cpp.Location{File: b.path, Line: int(n.StartPoint().Row) + 1}}, Access: parseAccess(b.text(n))}
		}
	case "ERROR":
		e = &cpp.Invalid{Base: cpp.Base{Ident: strings.TrimSpace(firstLine(b.text(n))), Loc: cpp.Location{File: b.path, Line: int(n.StartPoint().Row) + 1}}}
	}
	if e == nil {
		return nil
	}
	return []cpp.Entity{e}
}

func (b *builder) include(n *sitter.Node) cpp.Entity {
	path := n.ChildByFieldName("path")
	if path == nil {
		return nil
	}
	return &cpp.InclusionDirective{
		Base:   b.base(n, strings.Trim(b.text(path), `<>"`)),
		System: path.Type() == "system_lib_string",
	}
}

func (b *builder) macro(n *sitter.Node) cpp.Entity {
	m := &cpp.MacroDefinition{
		Base:        b.base(n, b.text(n.ChildByFieldName("name"))),
		Replacement: strings.TrimSpace(b.text(n.ChildByFieldName("value"))),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		p := strings.TrimSuffix(strings.TrimPrefix(b.text(params), "("), ")")
		m.Params = &p
	}
	return m
}

// conditional flattens a preprocessor conditional. The define of an include
// guard is dropped.
func (b *builder) conditional(n *sitter.Node, class *cpp.Class) []cpp.Entity {
	name := n.ChildByFieldName("name")
	cond := n.ChildByFieldName("condition")
	alt := n.ChildByFieldName("alternative")

	guard := ""
	if n.Type() == "preproc_ifdef" && n.ChildCount() > 0 && strings.TrimSpace(b.text(n.Child(0))) == "#ifndef" {
		guard = b.text(name)
	}

	var out []cpp.Entity
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if same(c, name) || same(c, cond) || same(c, alt) {
			continue
		}
		if guard != "" && c.Type() == "preproc_def" && c.ChildByFieldName("value") == nil && b.text(c.ChildByFieldName("name")) == guard {
			continue
		}
		out = append(out, b.entities(c, class)...)
	}
	return out
}

func (b *builder) linkage(n *sitter.Node) cpp.Entity {
	l := &cpp.LanguageLinkage{Base: b.base(n, strings.Trim(b.text(n.ChildByFieldName("value")), `"`))}
	body := n.ChildByFieldName("body")
	switch {
	case body == nil:
	case body.Type() == "declaration_list":
		b.addAll(l, body, nil)
	default:
		for _, e := range b.entities(body, nil) {
			cpp.Add(l, e)
		}
	}
	return l
}

// namespace builds a namespace. "namespace a::b" nests b in a; anonymous
// namespaces are not part of an interface and are skipped.
func (b *builder) namespace(n *sitter.Node) cpp.Entity {
	name := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}
	parts := strings.Split(b.text(name), "::")
	outer := &cpp.Namespace{
		Base:   b.base(n, strings.TrimSpace(parts[0])),
		Inline: n.ChildCount() > 0 && n.Child(0).Type() == "inline",
	}
	inner := outer
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		inline := strings.HasPrefix(part, "inline ")
		inner = cpp.Add(inner, &cpp.Namespace{
			Base:   cpp.Base{Ident: strings.TrimPrefix(part, "inline "), Loc: outer.Loc},
			Inline: inline,
		})
	}
	b.addAll(inner, body, nil)
	return outer
}

func (b *builder) using(n *sitter.Node) cpp.Entity {
	target := b.text(lastNamed(n))
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "namespace" {
			return &cpp.UsingDirective{Base: b.base(n, target), Target: target}
		}
	}
	return &cpp.UsingDeclaration{Base: b.base(n, target), Target: target}
}

func (b *builder) alias(n *sitter.Node) *cpp.TypeAlias {
	return &cpp.TypeAlias{
		Base:   b.base(n, b.text(n.ChildByFieldName("name"))),
		Target: b.text(n.ChildByFieldName("type")),
	}
}

// typedef builds one alias per declarator of a typedef.
func (b *builder) typedef(n *sitter.Node) []cpp.Entity {
	typ := b.typeText(n, b.specifiers(n))
	var out []cpp.Entity
	for _, dn := range b.declarators(n) {
		d := b.unwrap(dn)
		if d.name == nil {
			continue
		}
		name := b.text(d.name)
		target := joinType(typ, d.ptr) + d.array
		if d.fn != nil {
			target = typ + " " + strings.Replace(b.text(dn), name, "", 1)
		}
		out = append(out, &cpp.TypeAlias{Base: b.base(n, name), Target: target})
	}
	return out
}

func (b *builder) enum(n *sitter.Node) cpp.Entity {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	e := &cpp.Enum{
		Base:       b.base(n, b.text(n.ChildByFieldName("name"))),
		Underlying: b.text(n.ChildByFieldName("base")),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "class", "struct":
			e.Scoped = true
		}
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		v := body.NamedChild(i)
		if v.Type() != "enumerator" {
			continue
		}
		cpp.Add(e, &cpp.EnumValue{
			Base:  b.base(v, b.text(v.ChildByFieldName("name"))),
			Value: b.text(v.ChildByFieldName("value")),
		})
	}
	return e
}

// class builds a class definition and returns it with its name node.
// Forward declarations yield nil.
func (b *builder) class(n *sitter.Node) (*cpp.Class, *sitter.Node) {
	name := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil, nil
	}
	ident := b.text(name)
	if name.Type() == "template_type" {
		ident = b.text(name.ChildByFieldName("name"))
	}

	c := &cpp.Class{Base: b.base(n, ident)}
	switch n.Type() {
	case "struct_specifier":
		c.Keyword = cpp.ClassKeywordStruct
	case "union_specifier":
		c.Keyword = cpp.ClassKeywordUnion
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "virtual_specifier":
			c.Final = c.Final || b.text(child) == "final"
		case "base_class_clause":
			b.bases(c, child)
		}
	}
	b.addAll(c, body, c)
	return c, name
}

func (b *builder) bases(c *cpp.Class, clause *sitter.Node) {
	def := cpp.Private
	if c.Keyword != cpp.ClassKeywordClass {
		def = cpp.Public
	}
	access, virtual := def, false
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case ":", ",":
			access, virtual = def, false
		case "access_specifier":
			access = parseAccess(b.text(child))
		case "virtual":
			virtual = true
		case "comment", "attribute_declaration", "...":
		default:
			if !child.IsNamed() {
				continue
			}
			base := &cpp.BaseClass{
				Base:    cpp.Base{Ident: b.text(child), Loc: cpp.Location{File: b.path, Line: int(child.StartPoint().Row) + 1}},
				Access:  access,
				Virtual: virtual,
			}
			cpp.SetParent(base, c)
			c.Bases = append(c.Bases, base)
		}
	}
}

func parseAccess(s string) cpp.Access {
	switch strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":")) {
	case "private":
		return cpp.Private
	case "protected":
		return cpp.Protected
	default:
		return cpp.Public
	}
}

// template builds a template declaration around the entity it declares.
// An empty parameter list makes an explicit specialization.
func (b *builder) template(n *sitter.Node, class *cpp.Class) cpp.Entity {
	params := n.ChildByFieldName("parameters")
	full := params == nil || params.NamedChildCount() == 0

	var inner *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "class_specifier", "struct_specifier", "union_specifier",
			"function_definition", "declaration", "field_declaration", "alias_declaration":
			inner = c
		}
		if inner != nil {
			break
		}
	}
	if inner == nil {
		return nil
	}

	switch inner.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		c, name := b.class(inner)
		if c == nil {
			return nil
		}
		var w cpp.Entity
		switch {
		case name.Type() != "template_type":
			w = &cpp.ClassTemplate{Base: b.base(n, c.Name()), Class: c}
		case full:
			w = &cpp.ClassTemplateFullSpecialization{Base: b.base(n, b.text(name)), Class: c}
		default:
			w = &cpp.ClassTemplatePartialSpecialization{Base: b.base(n, b.text(name)), Class: c}
		}
		cpp.SetParent(c, w)
		b.templateParameters(w, params)
		return w

	case "alias_declaration":
		a := b.alias(inner)
		w := &cpp.AliasTemplate{Base: b.base(n, a.Name()), Alias: a}
		cpp.SetParent(a, w)
		b.templateParameters(w, params)
		return w
	}

	es := b.declaration(inner, class)
	if len(es) != 1 || cpp.SignatureOf(es[0]) == nil {
		// variable templates have no entity of their own
		return nil
	}
	fn := es[0]
	var w cpp.Entity
	if full {
		name := fn.Name()
		if tf := findFirst(inner, "template_function"); tf != nil {
			name = b.text(tf)
		}
		w = &cpp.FunctionTemplateSpecialization{Base: b.base(n, name), Function: fn}
	} else {
		w = &cpp.FunctionTemplate{Base: b.base(n, fn.Name()), Function: fn}
	}
	cpp.SetParent(fn, w)
	b.templateParameters(w, params)
	return w
}

func (b *builder) templateParameters(parent cpp.Entity, list *sitter.Node) {
	if list == nil {
		return
	}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		if p := b.templateParameter(list.NamedChild(i)); p != nil {
			cpp.Add(parent, p)
		}
	}
}

func (b *builder) templateParameter(n *sitter.Node) cpp.Entity {
	switch n.Type() {
	case "type_parameter_declaration", "variadic_type_parameter_declaration", "optional_type_parameter_declaration":
		p := &cpp.TemplateTypeParameter{
			Keyword:  "typename",
			Variadic: n.Type() == "variadic_type_parameter_declaration",
			Default:  b.text(n.ChildByFieldName("default_type")),
		}
		name := n.ChildByFieldName("name")
		for i := 0; i < int(n.ChildCount()); i++ {
			switch c := n.Child(i); c.Type() {
			case "class":
				p.Keyword = "class"
			case "type_identifier":
				if name == nil {
					name = c
				}
			}
		}
		p.Base = b.base(n, b.text(name))
		return p

	case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		d := b.unwrap(n.ChildByFieldName("declarator"))
		return &cpp.NonTypeTemplateParameter{
			Base:     b.base(n, b.text(d.name)),
			Type:     joinType(b.typeText(n, b.specifiers(n)), d.ptr) + d.array,
			Variadic: d.variadic || n.Type() == "variadic_parameter_declaration",
			Default:  b.text(n.ChildByFieldName("default_value")),
		}

	case "template_template_parameter_declaration":
		p := &cpp.TemplateTemplateParameter{Base: b.base(n, "")}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "template_parameter_list":
				b.templateParameters(p, c)
			default:
				if inner, ok := b.templateParameter(c).(*cpp.TemplateTypeParameter); ok {
					p.Ident = inner.Name()
					p.Variadic = inner.Variadic
					p.Default = inner.Default
				}
			}
		}
		return p
	}
	return nil
}

func lastNamed(n *sitter.Node) *sitter.Node {
	if c := int(n.NamedChildCount()); c > 0 {
		return n.NamedChild(c - 1)
	}
	return nil
}

// findFirst returns the first node of type typ below n in document order.
func findFirst(n *sitter.Node, typ string) *sitter.Node {
	if n.Type() == typ {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findFirst(n.NamedChild(i), typ); found != nil {
			return found
		}
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
