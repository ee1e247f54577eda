package markup

// Text is a run of inline text. The text is kept in CommonMark source form,
// so backslash escapes survive a round trip.
type Text struct {
	node
	text string
}

func MakeText(parent Container, text string) (*Text, error) {
	t := &Text{text: text}
	if err := attach("text.make", parent, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (*Text) Kind() Kind { return TextKind }
func (t *Text) String() string { return t.text }

func (t *Text) Clone(parent Container) (Node, error) {
	out := &Text{text: t.text}
	if err := attachClone("text.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SoftBreak is a line ending inside a paragraph.
type SoftBreak struct{ node }

func MakeSoftBreak(parent Container) (*SoftBreak, error) {
	b := &SoftBreak{}
	if err := attach("soft_break.make", parent, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (*SoftBreak) Kind() Kind { return SoftBreakKind }

func (*SoftBreak) Clone(parent Container) (Node, error) {
	out := &SoftBreak{}
	if err := attachClone("soft_break.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LineBreak is a hard line break.
type LineBreak struct{ node }

func MakeLineBreak(parent Container) (*LineBreak, error) {
	b := &LineBreak{}
	if err := attach("line_break.make", parent, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (*LineBreak) Kind() Kind { return LineBreakKind }

func (*LineBreak) Clone(parent Container) (Node, error) {
	out := &LineBreak{}
	if err := attachClone("line_break.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

// InlineCode is a code span.
type InlineCode struct {
	node
	code string
}

func MakeInlineCode(parent Container, code string) (*InlineCode, error) {
	c := &InlineCode{code: code}
	if err := attach("inline_code.make", parent, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (*InlineCode) Kind() Kind { return InlineCodeKind }
func (c *InlineCode) Code() string { return c.code }

func (c *InlineCode) Clone(parent Container) (Node, error) {
	out := &InlineCode{code: c.code}
	if err := attachClone("inline_code.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

type Emphasis struct{ container }

func MakeEmphasis(parent Container) (*Emphasis, error) {
	e := &Emphasis{}
	if err := attach("emphasis.make", parent, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (*Emphasis) Kind() Kind { return EmphasisKind }
func (e *Emphasis) Append(child Node) error { return appendTo(e, child) }
func (e *Emphasis) Remove(child Node) bool { return removeFrom(e, child) }
func (*Emphasis) accepts(child Node) bool { return acceptsInline(child) }

func (e *Emphasis) Clone(parent Container) (Node, error) {
	out := &Emphasis{}
	if err := attachClone("emphasis.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(e, out)
}

type Strong struct{ container }

func MakeStrong(parent Container) (*Strong, error) {
	s := &Strong{}
	if err := attach("strong.make", parent, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (*Strong) Kind() Kind { return StrongKind }
func (s *Strong) Append(child Node) error { return appendTo(s, child) }
func (s *Strong) Remove(child Node) bool { return removeFrom(s, child) }
func (*Strong) accepts(child Node) bool { return acceptsInline(child) }

func (s *Strong) Clone(parent Container) (Node, error) {
	out := &Strong{}
	if err := attachClone("strong.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(s, out)
}

// Link is an inline link. Its children are the link text.
type Link struct {
	container
	destination string
	title       string
}

func MakeLink(parent Container, destination, title string) (*Link, error) {
	l := &Link{destination: destination, title: title}
	if err := attach("link.make", parent, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (*Link) Kind() Kind { return LinkKind }
func (l *Link) Destination() string { return l.destination }
func (l *Link) Title() string { return l.title }
func (l *Link) Append(child Node) error { return appendTo(l, child) }
func (l *Link) Remove(child Node) bool { return removeFrom(l, child) }
func (*Link) accepts(child Node) bool { return acceptsInline(child) && child.Kind() != LinkKind }

func (l *Link) Clone(parent Container) (Node, error) {
	out := &Link{destination: l.destination, title: l.title}
	if err := attachClone("link.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(l, out)
}
