// Package comment turns raw documentation comments into markup.
//
// A comment is CommonMark text. A line starting with a command such as
// \returns or \param opens a section paragraph that runs until the next
// blank line or command:
//
//	/// Adds two numbers.
//	///
//	/// \param a the first value
//	/// \param b the second value
//	/// \returns the sum.
//	int add(int a, int b);
package comment

import (
	"fmt"
	"strings"

	"cppdoc/internal/markup"
)

// Comment is a parsed documentation comment.
type Comment struct {
	// Exclude is set by \exclude.
	Exclude bool
	// Content holds the comment paragraphs in source order, followed by the
	// parameter list.
	Content *markup.Document
	// Params names the documented parameters in order.
	Params []string
}

// Brief returns the brief paragraph, or nil.
func (c *Comment) Brief() *markup.Paragraph {
	return c.Section(markup.BriefSection)
}

// Section returns the first paragraph of type t, or nil.
func (c *Comment) Section(t markup.SectionType) *markup.Paragraph {
	var found *markup.Paragraph
	markup.Walk(c.Content, func(n markup.Node) bool {
		if found != nil {
			return false
		}
		if p, ok := n.(*markup.Paragraph); ok && p.SectionType() == t {
			found = p
			return false
		}
		return true
	})
	return found
}

// IsEmpty reports whether the comment produced no content.
func (c *Comment) IsEmpty() bool {
	return len(c.Content.Children()) == 0
}

const (
	excludeCommand = "exclude"
	paramCommand   = "param"
)

// Parse strips the comment markers of raw and parses what remains.
func Parse(raw string) (*Comment, error) {
	p := &parser{c: &Comment{Content: markup.NewDocument()}}
	for _, line := range strings.Split(Strip(raw), "\n") {
		if err := p.line(line); err != nil {
			return nil, err
		}
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if err := p.writeParams(); err != nil {
		return nil, err
	}
	return p.c, nil
}

type param struct {
	name string
	text string
}

type parser struct {
	c *Comment

	text []string // free text of the current block

	section markup.SectionType // open section, or InvalidSection
	param   string             // name of the open \param
	body    []string

	sawBrief  bool
	autoBrief *markup.Paragraph
	params    []param
}

func (p *parser) line(line string) error {
	trimmed := strings.TrimSpace(line)
	if name, rest, ok := command(trimmed); ok {
		switch name {
		case excludeCommand:
			p.c.Exclude = true
			return p.flush()
		case paramCommand:
			if err := p.flush(); err != nil {
				return err
			}
			pname, text, _ := strings.Cut(strings.TrimSpace(rest), " ")
			if pname == "" {
				return fmt.Errorf("comment: \\param without a name")
			}
			p.param = pname
			p.body = append(p.body[:0], text)
			return nil
		}
		if t, ok := markup.ParseSectionType(name); ok && t != markup.ParametersSection {
			if err := p.flush(); err != nil {
				return err
			}
			p.section = t
			p.body = append(p.body[:0], strings.TrimSpace(rest))
			return nil
		}
	}

	switch {
	case p.section != markup.InvalidSection || p.param != "":
		if trimmed == "" {
			return p.flush()
		}
		p.body = append(p.body, trimmed)
	default:
		p.text = append(p.text, line)
	}
	return nil
}

// command splits "\name rest" into its parts.
func command(s string) (name, rest string, ok bool) {
	if !strings.HasPrefix(s, `\`) || len(s) < 2 {
		return "", "", false
	}
	name, rest, _ = strings.Cut(s[1:], " ")
	return name, rest, true
}

// flush writes whatever block is open.
func (p *parser) flush() error {
	switch {
	case p.param != "":
		p.params = append(p.params, param{name: p.param, text: strings.TrimSpace(strings.Join(p.body, "\n"))})
		p.param = ""
	case p.section != markup.InvalidSection:
		if err := p.writeSection(p.section, strings.Join(p.body, "\n")); err != nil {
			return err
		}
		p.section = markup.InvalidSection
	default:
		err := p.writeText(strings.Join(p.text, "\n"))
		p.text = p.text[:0]
		return err
	}
	p.body = p.body[:0]
	return nil
}

// writeText adopts free text. The first free paragraph of the comment is
// the brief unless \brief is given.
func (p *parser) writeText(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	before := len(p.c.Content.Children())
	if err := markup.ParseInto(p.c.Content, []byte(text)); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	if p.sawBrief {
		return nil
	}
	for _, n := range p.c.Content.Children()[before:] {
		if para, ok := n.(*markup.Paragraph); ok {
			p.sawBrief = true
			p.autoBrief = para
			return setSection(para, markup.BriefSection, "")
		}
	}
	return nil
}

func (p *parser) writeSection(t markup.SectionType, text string) error {
	doc, err := markup.Parse([]byte(text))
	if err != nil {
		return fmt.Errorf("comment: %s: %w", t, err)
	}
	for _, n := range doc.Children() {
		clone, err := n.Clone(p.c.Content)
		if err != nil {
			return err
		}
		if para, ok := clone.(*markup.Paragraph); ok {
			if err := setSection(para, t, ""); err != nil {
				return err
			}
		}
	}
	if t == markup.BriefSection {
		// an explicit brief demotes the implicit one
		if p.autoBrief != nil {
			if err := p.autoBrief.SetSectionType(markup.InvalidSection, ""); err != nil {
				return err
			}
			p.autoBrief = nil
		}
		p.sawBrief = true
	}
	return nil
}

// writeParams appends the parameter list, one labelled item per \param.
func (p *parser) writeParams() error {
	if len(p.params) == 0 {
		return nil
	}
	list, err := markup.MakeList(p.c.Content, markup.BulletList, markup.NoDelimiter, 0, true)
	if err != nil {
		return err
	}
	for _, prm := range p.params {
		para, err := markup.MakeListItemParagraph(list)
		if err != nil {
			return err
		}
		if err := setSection(para, markup.ParametersSection, prm.name); err != nil {
			return err
		}
		doc, err := markup.Parse([]byte(prm.text))
		if err != nil {
			return fmt.Errorf("comment: param %s: %w", prm.name, err)
		}
		if src, ok := firstParagraph(doc); ok {
			for _, n := range src.Content() {
				if _, err := n.Clone(para); err != nil {
					return err
				}
			}
		}
		p.c.Params = append(p.c.Params, prm.name)
	}
	return nil
}

func firstParagraph(doc *markup.Document) (*markup.Paragraph, bool) {
	for _, n := range doc.Children() {
		if para, ok := n.(*markup.Paragraph); ok {
			return para, true
		}
	}
	return nil, false
}

// setSection tags para with t. Brief and details carry their name as label
// since an empty label means no section.
func setSection(para *markup.Paragraph, t markup.SectionType, label string) error {
	if label == "" {
		label = t.Label()
	}
	if label == "" {
		label = t.String()
	}
	return para.SetSectionType(t, label)
}
