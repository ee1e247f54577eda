package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse parses CommonMark source and adopts the resulting tree.
func Parse(source []byte) (*Document, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(source))
	n, err := Adopt(root, source, nil)
	if err != nil {
		return nil, err
	}
	return n.(*Document), nil
}

// ParseInto parses CommonMark source and adopts its blocks under parent.
func ParseInto(parent Container, source []byte) error {
	root := goldmark.New().Parser().Parse(text.NewReader(source))
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if _, err := Adopt(c, source, parent); err != nil {
			return err
		}
	}
	return nil
}

// Adopt converts the goldmark node n, whose segments refer to source, into
// a markup node appended to parent. Only a document may be adopted without
// a parent. Paragraphs are canonicalized the same way Clone does.
func Adopt(n ast.Node, source []byte, parent Container) (Node, error) {
	switch v := n.(type) {
	case *ast.Document:
		if parent != nil {
			return nil, constructionError("document.adopt", "a document cannot have a parent")
		}
		doc := NewDocument()
		return doc, adoptChildren(n, source, doc)

	case *ast.Paragraph, *ast.TextBlock:
		if parent == nil {
			return nil, &ConstructionError{Op: "paragraph.adopt", Err: ErrNoParent}
		}
		raw := &Paragraph{}
		if err := adoptChildren(n, source, raw); err != nil {
			return nil, err
		}
		return raw.Clone(parent)

	case *ast.Heading:
		h, err := MakeHeading(parent, v.Level)
		if err != nil {
			return nil, err
		}
		return h, adoptChildren(n, source, h)

	case *ast.ThematicBreak:
		return MakeThematicBreak(parent)

	case *ast.FencedCodeBlock:
		var info string
		if v.Info != nil {
			info = string(v.Info.Segment.Value(source))
		}
		return MakeCodeBlock(parent, info, linesOf(v, source))

	case *ast.CodeBlock:
		return MakeCodeBlock(parent, "", linesOf(v, source))

	case *ast.HTMLBlock:
		p, err := MakeParagraph(parent)
		if err != nil {
			return nil, err
		}
		_, err = MakeText(p, string(bytes.TrimRight([]byte(linesOf(v, source)), "\n")))
		return p, err

	case *ast.Blockquote:
		q, err := MakeBlockQuote(parent)
		if err != nil {
			return nil, err
		}
		return q, adoptChildren(n, source, q)

	case *ast.List:
		typ, delim := BulletList, NoDelimiter
		if v.IsOrdered() {
			typ = OrderedList
			delim = PeriodDelimiter
			if v.Marker == ')' {
				delim = ParenDelimiter
			}
		}
		l, err := MakeList(parent, typ, delim, v.Start, v.IsTight)
		if err != nil {
			return nil, err
		}
		return l, adoptChildren(n, source, l)

	case *ast.ListItem:
		l, ok := parent.(*List)
		if !ok {
			return nil, constructionError("list_item.adopt", "parent is not a list")
		}
		item, err := MakeListItem(l)
		if err != nil {
			return nil, err
		}
		return item, adoptChildren(n, source, item)

	case *ast.Text:
		t, err := MakeText(parent, string(v.Segment.Value(source)))
		if err != nil {
			return nil, err
		}
		switch {
		case v.HardLineBreak():
			_, err = MakeLineBreak(parent)
		case v.SoftLineBreak():
			_, err = MakeSoftBreak(parent)
		}
		return t, err

	case *ast.String:
		return MakeText(parent, string(v.Value))

	case *ast.CodeSpan:
		var code bytes.Buffer
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				code.Write(t.Segment.Value(source))
			case *ast.String:
				code.Write(t.Value)
			}
		}
		return MakeInlineCode(parent, code.String())

	case *ast.Emphasis:
		var c Container
		var err error
		if v.Level >= 2 {
			c, err = MakeStrong(parent)
		} else {
			c, err = MakeEmphasis(parent)
		}
		if err != nil {
			return nil, err
		}
		return c, adoptChildren(n, source, c)

	case *ast.Link:
		l, err := MakeLink(parent, string(v.Destination), string(v.Title))
		if err != nil {
			return nil, err
		}
		return l, adoptChildren(n, source, l)

	case *ast.AutoLink:
		l, err := MakeLink(parent, string(v.URL(source)), "")
		if err != nil {
			return nil, err
		}
		_, err = MakeText(l, string(v.Label(source)))
		return l, err

	case *ast.Image:
		l, err := MakeLink(parent, string(v.Destination), string(v.Title))
		if err != nil {
			return nil, err
		}
		return l, adoptChildren(n, source, l)

	case *ast.RawHTML:
		var raw bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			raw.Write(seg.Value(source))
		}
		return MakeText(parent, raw.String())
	}
	return nil, constructionError("adopt", "unsupported node %s", n.Kind().String())
}

func adoptChildren(n ast.Node, source []byte, parent Container) error {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, err := Adopt(c, source, parent); err != nil {
			return err
		}
	}
	return nil
}

func linesOf(n ast.Node, source []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// MustParse is Parse for trusted literals. It panics on error.
func MustParse(source string) *Document {
	doc, err := Parse([]byte(source))
	if err != nil {
		panic(fmt.Sprintf("markup: %v", err))
	}
	return doc
}
