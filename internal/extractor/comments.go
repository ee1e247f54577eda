package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// declarationWrappers are nodes whose first child carries the comment of the
// whole declaration, such as the enum in "enum E {...};" inside a class.
var declarationWrappers = map[string]bool{
	"declaration":       true,
	"field_declaration": true,
}

// docComment collects the documentation comments directly above n, with no
// blank line in between, and a trailing "///<" comment on its last line.
func (b *builder) docComment(n *sitter.Node) string {
	for n.PrevSibling() == nil && n.Parent() != nil && declarationWrappers[n.Parent().Type()] {
		n = n.Parent()
	}

	var lines []string
	cur := n
	for {
		prev := cur.PrevSibling()
		if prev == nil || prev.Type() != "comment" || int(cur.StartPoint().Row)-int(prev.EndPoint().Row) > 1 {
			break
		}
		text := b.text(prev)
		if !isDocComment(text) || isTrailingComment(text) {
			break
		}
		lines = append([]string{text}, lines...)
		cur = prev
	}
	if t := b.trailingComment(n); t != "" {
		lines = append(lines, t)
	}
	return strings.Join(lines, "\n")
}

// trailingComment returns a "///<" comment that follows n on the same line,
// skipping separators.
func (b *builder) trailingComment(n *sitter.Node) string {
	for next := n.NextSibling(); next != nil; next = next.NextSibling() {
		switch next.Type() {
		case ",", ";":
			continue
		case "comment":
			if text := b.text(next); next.StartPoint().Row == n.EndPoint().Row && isTrailingComment(text) {
				return text
			}
		}
		return ""
	}
	return ""
}

func isDocComment(s string) bool {
	for _, p := range []string{"///", "//!", "/**", "/*!"} {
		if strings.HasPrefix(s, p) && !strings.HasPrefix(s, "/**/") {
			return true
		}
	}
	return false
}

func isTrailingComment(s string) bool {
	for _, p := range []string{"///<", "//!<", "/**<", "/*!<"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
