package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// RenderHTML writes n as HTML using goldmark's renderer.
func RenderHTML(w io.Writer, n Node) error {
	root, source, err := toAST(n)
	if err != nil {
		return err
	}
	return goldmark.New().Renderer().Render(w, source, root)
}

// WriteMarkdown writes n as CommonMark.
func WriteMarkdown(w io.Writer, n Node) error {
	root, source, err := toAST(n)
	if err != nil {
		return err
	}
	r := renderer.NewRenderer(renderer.WithNodeRenderers(util.Prioritized(newMarkdownRenderer(), 0)))
	return r.Render(w, source, root)
}

// Markdown returns n as CommonMark text.
func Markdown(n Node) (string, error) {
	var b strings.Builder
	if err := WriteMarkdown(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// astBuilder converts a markup tree into a goldmark tree over a synthesized
// source buffer.
type astBuilder struct {
	source bytes.Buffer
}

func toAST(n Node) (ast.Node, []byte, error) {
	b := &astBuilder{}
	root, err := b.build(n)
	if err != nil {
		return nil, nil, err
	}
	return root, b.source.Bytes(), nil
}

func (b *astBuilder) segment(s string) text.Segment {
	start := b.source.Len()
	b.source.WriteString(s)
	return text.NewSegment(start, b.source.Len())
}

func (b *astBuilder) text(s string) *ast.Text {
	return ast.NewTextSegment(b.segment(s))
}

func (b *astBuilder) build(n Node) (ast.Node, error) {
	var out ast.Node
	switch v := n.(type) {
	case *Document:
		out = ast.NewDocument()
	case *BlockQuote:
		out = ast.NewBlockquote()
	case *List:
		marker := byte('-')
		if v.typ == OrderedList {
			marker = '.'
			if v.delim == ParenDelimiter {
				marker = ')'
			}
		}
		l := ast.NewList(marker)
		l.IsTight = v.tight
		l.Start = v.start
		out = l
	case *ListItem:
		out = ast.NewListItem(2)
	case *Paragraph:
		if inTightList(v) {
			out = ast.NewTextBlock()
		} else {
			out = ast.NewParagraph()
		}
		if s := v.section; s != nil && s.typ != BriefSection && s.typ != DetailsSection {
			label := ast.NewEmphasis(2)
			label.AppendChild(label, b.text(s.label+":"))
			out.AppendChild(out, label)
			out.AppendChild(out, b.text(" "))
		}
	case *Heading:
		out = ast.NewHeading(v.level)
	case *ThematicBreak:
		return ast.NewThematicBreak(), nil
	case *CodeBlock:
		var info *ast.Text
		if v.info != "" {
			info = b.text(v.info)
		}
		cb := ast.NewFencedCodeBlock(info)
		content := v.content
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		for _, line := range strings.SplitAfter(content, "\n") {
			if line != "" {
				cb.Lines().Append(b.segment(line))
			}
		}
		return cb, nil
	case *Section:
		return nil, fmt.Errorf("markup: section outside of a paragraph")
	case *Text:
		return b.text(v.text), nil
	case *SoftBreak:
		t := b.text("")
		t.SetSoftLineBreak(true)
		return t, nil
	case *LineBreak:
		t := b.text("")
		t.SetHardLineBreak(true)
		return t, nil
	case *InlineCode:
		cs := ast.NewCodeSpan()
		cs.AppendChild(cs, b.text(v.code))
		return cs, nil
	case *Emphasis:
		out = ast.NewEmphasis(1)
	case *Strong:
		out = ast.NewEmphasis(2)
	case *Link:
		l := ast.NewLink()
		l.Destination = []byte(v.destination)
		l.Title = []byte(v.title)
		out = l
	default:
		return nil, fmt.Errorf("markup: cannot render %s", n.Kind())
	}

	c := n.(Container)
	var children []Node
	if p, ok := c.(*Paragraph); ok {
		children = p.Content()
	} else {
		children = c.Children()
	}
	for _, child := range children {
		cn, err := b.build(child)
		if err != nil {
			return nil, err
		}
		out.AppendChild(out, cn)
	}
	return out, nil
}

func inTightList(p *Paragraph) bool {
	item, ok := p.Parent().(*ListItem)
	if !ok {
		return false
	}
	l, ok := item.Parent().(*List)
	return ok && l.tight
}
