package markup

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// markdownRenderer renders a goldmark tree back to CommonMark. It keeps a
// stack of line prefixes for block quotes and list items; a pending list
// marker replaces the item's indentation on its first line.
type markdownRenderer struct {
	prefixes  []string
	markers   []string
	lineStart bool
	err       error
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{lineStart: true}
}

func (r *markdownRenderer) push(prefix, marker string) {
	r.prefixes = append(r.prefixes, prefix)
	r.markers = append(r.markers, marker)
}

func (r *markdownRenderer) pop() {
	r.prefixes = r.prefixes[:len(r.prefixes)-1]
	r.markers = r.markers[:len(r.markers)-1]
}

var _ renderer.NodeRenderer = (*markdownRenderer)(nil)

func (r *markdownRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindDocument, r.document)
	reg.Register(ast.KindParagraph, r.paragraph)
	reg.Register(ast.KindTextBlock, r.paragraph)
	reg.Register(ast.KindHeading, r.heading)
	reg.Register(ast.KindThematicBreak, r.thematicBreak)
	reg.Register(ast.KindBlockquote, r.blockquote)
	reg.Register(ast.KindList, r.list)
	reg.Register(ast.KindListItem, r.item)
	reg.Register(ast.KindFencedCodeBlock, r.codeBlock)

	reg.Register(ast.KindText, r.text)
	reg.Register(ast.KindString, r.str)
	reg.Register(ast.KindCodeSpan, r.code)
	reg.Register(ast.KindEmphasis, r.emph)
	reg.Register(ast.KindLink, r.link)
}

func (r *markdownRenderer) prefix(blank bool) string {
	var b strings.Builder
	for i, p := range r.prefixes {
		if m := r.markers[i]; m != "" {
			b.WriteString(m)
			r.markers[i] = ""
			continue
		}
		b.WriteString(p)
	}
	if blank {
		return strings.TrimRight(b.String(), " ")
	}
	return b.String()
}

// lit writes s, prefixing every line started by it.
func (r *markdownRenderer) lit(w util.BufWriter, s string) {
	if r.err != nil {
		return
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			if r.lineStart {
				r.write(w, r.prefix(false))
			}
			r.write(w, line)
			r.lineStart = false
		}
		if i < len(lines)-1 {
			if r.lineStart {
				r.write(w, r.prefix(true))
			}
			r.write(w, "\n")
			r.lineStart = true
		}
	}
}

func (r *markdownRenderer) write(w util.BufWriter, s string) {
	if r.err != nil || s == "" {
		return
	}
	_, r.err = w.WriteString(s)
}

func (r *markdownRenderer) cr(w util.BufWriter) {
	if !r.lineStart {
		r.lit(w, "\n")
	}
}

// separate starts a block, leaving a blank line after a previous sibling
// unless both sit in a tight list.
func (r *markdownRenderer) separate(w util.BufWriter, n ast.Node) {
	r.cr(w)
	if n.PreviousSibling() == nil || inTightAST(n) {
		return
	}
	r.lit(w, "\n")
}

func inTightAST(n ast.Node) bool {
	p := n.Parent()
	if _, ok := p.(*ast.ListItem); ok {
		p = p.Parent()
	}
	l, ok := p.(*ast.List)
	return ok && l.IsTight
}

func (r *markdownRenderer) document(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		r.cr(w)
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) paragraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.separate(w, n)
	} else {
		r.cr(w)
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) heading(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*ast.Heading)
	if entering {
		r.separate(w, n)
		r.lit(w, strings.Repeat("#", node.Level)+" ")
	} else {
		r.cr(w)
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) thematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.separate(w, n)
		r.lit(w, "---\n")
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) blockquote(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.separate(w, n)
		r.push("> ", "")
		if n.ChildCount() == 0 {
			r.lit(w, "\n")
		}
	} else {
		r.pop()
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) list(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.separate(w, n)
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) item(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		r.pop()
		return ast.WalkContinue, r.err
	}
	r.separate(w, n)

	list := n.Parent().(*ast.List)
	marker := string(list.Marker) + " "
	if list.IsOrdered() {
		index := 0
		for s := n.PreviousSibling(); s != nil; s = s.PreviousSibling() {
			index++
		}
		marker = fmt.Sprintf("%d%c ", list.Start+index, list.Marker)
	}
	r.push(strings.Repeat(" ", len(marker)), marker)

	if n.ChildCount() == 0 {
		r.lit(w, "\n")
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) codeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, r.err
	}
	node := n.(*ast.FencedCodeBlock)
	r.separate(w, n)

	var info string
	if node.Info != nil {
		info = string(node.Info.Segment.Value(source))
	}
	content := string(node.Lines().Value(source))
	fence := strings.Repeat("`", max(3, longestRun(content, '`')+1))

	r.lit(w, fence+info+"\n")
	r.lit(w, content)
	r.cr(w)
	r.lit(w, fence+"\n")
	return ast.WalkSkipChildren, r.err
}

func (r *markdownRenderer) text(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, r.err
	}
	node := n.(*ast.Text)
	r.lit(w, string(node.Segment.Value(source)))
	switch {
	case node.HardLineBreak():
		r.lit(w, "\\\n")
	case node.SoftLineBreak():
		r.lit(w, "\n")
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) str(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.lit(w, string(n.(*ast.String).Value))
	}
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) code(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, r.err
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	content := b.String()
	delim := strings.Repeat("`", longestRun(content, '`')+1)
	if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") {
		content = " " + content + " "
	}
	r.lit(w, delim+content+delim)
	return ast.WalkSkipChildren, r.err
}

func (r *markdownRenderer) emph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	r.lit(w, strings.Repeat("*", n.(*ast.Emphasis).Level))
	return ast.WalkContinue, r.err
}

func (r *markdownRenderer) link(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*ast.Link)
	if entering {
		r.lit(w, "[")
		return ast.WalkContinue, r.err
	}
	dest := string(node.Destination)
	if strings.ContainsAny(dest, " ()") {
		dest = "<" + dest + ">"
	}
	if len(node.Title) > 0 {
		dest += ` "` + strings.ReplaceAll(string(node.Title), `"`, `\"`) + `"`
	}
	r.lit(w, "]("+dest+")")
	return ast.WalkContinue, r.err
}

func longestRun(s string, c byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}
