package markup

// Equal reports whether a and b are structurally equal: same kinds,
// attributes, sections and child order. Parents are not compared.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *List:
		y := b.(*List)
		if x.typ != y.typ || x.delim != y.delim || x.start != y.start || x.tight != y.tight {
			return false
		}
	case *CodeBlock:
		y := b.(*CodeBlock)
		return x.info == y.info && x.content == y.content
	case *Heading:
		if x.level != b.(*Heading).level {
			return false
		}
	case *Section:
		y := b.(*Section)
		return x.typ == y.typ && x.label == y.label
	case *Text:
		return x.text == b.(*Text).text
	case *InlineCode:
		return x.code == b.(*InlineCode).code
	case *Link:
		y := b.(*Link)
		if x.destination != y.destination || x.title != y.title {
			return false
		}
	}

	ca, ok := a.(Container)
	if !ok {
		return true
	}
	xs, ys := ca.Children(), b.(Container).Children()
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}
