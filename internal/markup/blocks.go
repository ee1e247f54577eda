package markup

import (
	"fmt"
	"strings"
)

// Document is the root of a markup tree.
type Document struct{ container }

// NewDocument returns an empty document. It is the only node made without
// a parent.
func NewDocument() *Document { return &Document{} }

func (*Document) Kind() Kind { return DocumentKind }
func (d *Document) Append(child Node) error { return appendTo(d, child) }
func (d *Document) Remove(child Node) bool { return removeFrom(d, child) }
func (*Document) accepts(child Node) bool { return acceptsBlock(child) }

func (d *Document) Clone(parent Container) (Node, error) {
	out := &Document{}
	if err := attachClone("document.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(d, out)
}

func acceptsBlock(child Node) bool {
	k := child.Kind()
	return k.IsBlock() && k != DocumentKind && k != ListItemKind
}

func acceptsInline(child Node) bool {
	k := child.Kind()
	return !k.IsBlock() && k != SectionKind
}

// BlockQuote is a quoted sequence of blocks.
type BlockQuote struct{ container }

func MakeBlockQuote(parent Container) (*BlockQuote, error) {
	q := &BlockQuote{}
	if err := attach("block_quote.make", parent, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (*BlockQuote) Kind() Kind { return BlockQuoteKind }
func (q *BlockQuote) Append(child Node) error { return appendTo(q, child) }
func (q *BlockQuote) Remove(child Node) bool { return removeFrom(q, child) }
func (*BlockQuote) accepts(child Node) bool { return acceptsBlock(child) }

func (q *BlockQuote) Clone(parent Container) (Node, error) {
	out := &BlockQuote{}
	if err := attachClone("block_quote.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(q, out)
}

// ListType distinguishes bullet from ordered lists.
type ListType int

const (
	BulletList ListType = iota
	OrderedList
)

// Delimiter is the character following the number of an ordered list item.
type Delimiter int

const (
	NoDelimiter Delimiter = iota
	PeriodDelimiter
	ParenDelimiter
)

// List holds list items only.
type List struct {
	container
	typ   ListType
	delim Delimiter
	start int
	tight bool
}

// MakeList creates a list under parent. The delimiter must be set for an
// ordered list and is ignored for a bullet list.
func MakeList(parent Container, typ ListType, delim Delimiter, start int, tight bool) (*List, error) {
	const op = "list.make"
	switch typ {
	case BulletList:
		delim = NoDelimiter
	case OrderedList:
		if delim != PeriodDelimiter && delim != ParenDelimiter {
			return nil, constructionError(op, "ordered list needs a delimiter")
		}
	default:
		return nil, constructionError(op, "invalid list type %d", typ)
	}
	if start < 0 {
		return nil, constructionError(op, "invalid start value %d", start)
	}
	l := &List{typ: typ, delim: delim, start: start, tight: tight}
	if err := attach(op, parent, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (*List) Kind() Kind { return ListKind }
func (l *List) ListType() ListType { return l.typ }
func (l *List) Delimiter() Delimiter { return l.delim }
func (l *List) Start() int { return l.start }
func (l *List) IsTight() bool { return l.tight }
func (l *List) Append(child Node) error { return appendTo(l, child) }
func (l *List) Remove(child Node) bool { return removeFrom(l, child) }
func (*List) accepts(child Node) bool { return child.Kind() == ListItemKind }

func (l *List) Clone(parent Container) (Node, error) {
	out := &List{typ: l.typ, delim: l.delim, start: l.start, tight: l.tight}
	if err := attachClone("list.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(l, out)
}

// ListItem is an item of a List.
type ListItem struct{ container }

func MakeListItem(parent *List) (*ListItem, error) {
	item := &ListItem{}
	var p Container
	if parent != nil {
		p = parent
	}
	if err := attach("list_item.make", p, item); err != nil {
		return nil, err
	}
	return item, nil
}

// MakeListItemParagraph appends a new item holding one empty paragraph to
// list and returns the paragraph.
func MakeListItemParagraph(list *List) (*Paragraph, error) {
	item, err := MakeListItem(list)
	if err != nil {
		return nil, err
	}
	return MakeParagraph(item)
}

func (*ListItem) Kind() Kind { return ListItemKind }
func (i *ListItem) Append(child Node) error { return appendTo(i, child) }
func (i *ListItem) Remove(child Node) bool { return removeFrom(i, child) }
func (*ListItem) accepts(child Node) bool { return acceptsBlock(child) }

func (i *ListItem) Clone(parent Container) (Node, error) {
	out := &ListItem{}
	if err := attachClone("list_item.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(i, out)
}

// CodeBlock is a fenced block of literal text.
type CodeBlock struct {
	node
	info    string
	content string
}

// MakeCodeBlock creates a code block. info is the fence info string, usually
// a language tag, and must fit on one line.
func MakeCodeBlock(parent Container, info, content string) (*CodeBlock, error) {
	const op = "code_block.make"
	if strings.ContainsAny(info, "\r\n") {
		return nil, constructionError(op, "fence info %q spans lines", info)
	}
	cb := &CodeBlock{info: info, content: content}
	if err := attach(op, parent, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (*CodeBlock) Kind() Kind { return CodeBlockKind }
func (cb *CodeBlock) Info() string { return cb.info }
func (cb *CodeBlock) Content() string { return cb.content }

// Language returns the first word of the fence info.
func (cb *CodeBlock) Language() string {
	if i := strings.IndexAny(cb.info, " \t"); i >= 0 {
		return cb.info[:i]
	}
	return cb.info
}

func (cb *CodeBlock) Clone(parent Container) (Node, error) {
	out := &CodeBlock{info: cb.info, content: cb.content}
	if err := attachClone("code_block.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Heading is an ATX heading of level 1 to 6.
type Heading struct {
	container
	level int
}

func MakeHeading(parent Container, level int) (*Heading, error) {
	const op = "heading.make"
	if level < 1 || level > 6 {
		return nil, constructionError(op, "invalid level %d", level)
	}
	h := &Heading{level: level}
	if err := attach(op, parent, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (*Heading) Kind() Kind { return HeadingKind }
func (h *Heading) Level() int { return h.level }
func (h *Heading) Append(child Node) error { return appendTo(h, child) }
func (h *Heading) Remove(child Node) bool { return removeFrom(h, child) }
func (*Heading) accepts(child Node) bool { return acceptsInline(child) }

func (h *Heading) Clone(parent Container) (Node, error) {
	out := &Heading{level: h.level}
	if err := attachClone("heading.clone", parent, out); err != nil {
		return nil, err
	}
	return out, cloneChildren(h, out)
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{ node }

func MakeThematicBreak(parent Container) (*ThematicBreak, error) {
	tb := &ThematicBreak{}
	if err := attach("thematic_break.make", parent, tb); err != nil {
		return nil, err
	}
	return tb, nil
}

func (*ThematicBreak) Kind() Kind { return ThematicBreakKind }

func (*ThematicBreak) Clone(parent Container) (Node, error) {
	out := &ThematicBreak{}
	if err := attachClone("thematic_break.clone", parent, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Paragraph holds inline content and optionally a documentation section.
// The section is not part of the content list; Children reports it first.
type Paragraph struct {
	container
	section *Section
}

func MakeParagraph(parent Container) (*Paragraph, error) {
	p := &Paragraph{}
	if err := attach("paragraph.make", parent, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (*Paragraph) Kind() Kind { return ParagraphKind }

// Children returns the section, when set, followed by the content.
func (p *Paragraph) Children() []Node {
	if p.section == nil {
		return p.children
	}
	out := make([]Node, 0, len(p.children)+1)
	out = append(out, p.section)
	return append(out, p.children...)
}

// Content returns the inline children without the section.
func (p *Paragraph) Content() []Node { return p.children }

// Section returns the active section or nil.
func (p *Paragraph) Section() *Section { return p.section }

// SectionType returns the type of the active section, or InvalidSection.
func (p *Paragraph) SectionType() SectionType {
	if p.section == nil {
		return InvalidSection
	}
	return p.section.typ
}

// SetSectionType makes the paragraph a documentation section. An empty
// label removes the section.
func (p *Paragraph) SetSectionType(t SectionType, label string) error {
	if label == "" {
		if p.section != nil {
			p.section.setParent(nil)
			p.section = nil
		}
		return nil
	}
	if t <= InvalidSection || t >= sectionTypeCount {
		return constructionError("paragraph.set_section_type", "invalid section type %d", t)
	}
	if p.section == nil {
		p.section = &Section{}
		p.section.setParent(p)
	}
	p.section.typ = t
	p.section.label = label
	return nil
}

func (p *Paragraph) Append(child Node) error { return appendTo(p, child) }

func (p *Paragraph) Remove(child Node) bool {
	if s, ok := child.(*Section); ok && s == p.section {
		_ = p.SetSectionType(InvalidSection, "")
		return true
	}
	return removeFrom(p, child)
}

func (*Paragraph) accepts(child Node) bool { return acceptsInline(child) }

// Clone copies the paragraph and canonicalizes its content: an empty text
// and the soft breaks right after it are dropped, as is a trailing soft
// break.
func (p *Paragraph) Clone(parent Container) (Node, error) {
	out := &Paragraph{}
	if err := attachClone("paragraph.clone", parent, out); err != nil {
		return nil, err
	}
	if p.section != nil {
		if err := out.SetSectionType(p.section.typ, p.section.label); err != nil {
			return nil, err
		}
	}

	skipSoftBreak := false
	for i, child := range p.children {
		switch c := child.(type) {
		case *Text:
			if c.text == "" {
				skipSoftBreak = true
				continue
			}
		case *SoftBreak:
			if skipSoftBreak || i == len(p.children)-1 {
				continue
			}
		}
		skipSoftBreak = false
		if _, err := child.Clone(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String returns the plain text of the paragraph content.
func (p *Paragraph) String() string {
	return PlainText(p)
}

// PlainText concatenates the text of every inline node below n. Soft breaks
// become spaces and line breaks newlines.
func PlainText(n Node) string {
	var b strings.Builder
	Walk(n, func(n Node) bool {
		switch t := n.(type) {
		case *Section:
			return false
		case *Text:
			b.WriteString(t.text)
		case *InlineCode:
			b.WriteString(t.code)
		case *SoftBreak:
			b.WriteByte(' ')
		case *LineBreak:
			b.WriteByte('\n')
		case *CodeBlock:
			b.WriteString(t.content)
		}
		return true
	})
	return b.String()
}

func (t ListType) String() string {
	if t == OrderedList {
		return "ordered"
	}
	return "bullet"
}

func (d Delimiter) String() string {
	switch d {
	case PeriodDelimiter:
		return "period"
	case ParenDelimiter:
		return "paren"
	case NoDelimiter:
		return "none"
	}
	return fmt.Sprintf("Delimiter(%d)", int(d))
}
