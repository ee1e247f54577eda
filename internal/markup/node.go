// Package markup is the in-memory document tree used for generated
// documentation: block containers, inline content and documentation
// sections attached to paragraphs.
//
// Every node except a Document has a parent. Containers own their children;
// Parent is a back-reference for upward lookups only. Clone produces a fully
// independent copy of a subtree.
package markup

import (
	"errors"
	"fmt"
)

// Kind tags the concrete type of a Node. It never changes after construction.
type Kind int

const (
	DocumentKind Kind = iota
	BlockQuoteKind
	ListKind
	ListItemKind
	CodeBlockKind
	ParagraphKind
	HeadingKind
	ThematicBreakKind
	SectionKind
	TextKind
	SoftBreakKind
	LineBreakKind
	InlineCodeKind
	EmphasisKind
	StrongKind
	LinkKind
)

var kindNames = map[Kind]string{
	DocumentKind:      "document",
	BlockQuoteKind:    "block_quote",
	ListKind:          "list",
	ListItemKind:      "list_item",
	CodeBlockKind:     "code_block",
	ParagraphKind:     "paragraph",
	HeadingKind:       "heading",
	ThematicBreakKind: "thematic_break",
	SectionKind:       "section",
	TextKind:          "text",
	SoftBreakKind:     "soft_break",
	LineBreakKind:     "line_break",
	InlineCodeKind:    "inline_code",
	EmphasisKind:      "emphasis",
	StrongKind:        "strong",
	LinkKind:          "link",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsBlock reports whether nodes of kind k are block level.
func (k Kind) IsBlock() bool {
	return k <= ThematicBreakKind
}

// Node is an element of a markup tree.
type Node interface {
	Kind() Kind
	// Parent returns the enclosing container, or nil for a root.
	Parent() Container
	// Clone deep-copies the node. When parent is non-nil the copy is
	// appended to it.
	Clone(parent Container) (Node, error)

	setParent(Container)
}

// Container is a Node with ordered children.
type Container interface {
	Node
	Children() []Node
	// Append takes ownership of child, unlinking it from its previous parent.
	Append(child Node) error
	// Remove unlinks child. It reports whether child was found.
	Remove(child Node) bool

	accepts(child Node) bool
	contents() *[]Node
}

// ErrNoParent is wrapped by construction errors for non-root nodes created
// without a parent.
var ErrNoParent = errors.New("parent is required")

// ConstructionError reports that a node could not be created or configured.
type ConstructionError struct {
	Op  string
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("markup: %s: %v", e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func constructionError(op string, format string, args ...any) error {
	return &ConstructionError{Op: op, Err: fmt.Errorf(format, args...)}
}

type node struct {
	parent Container
}

func (n *node) Parent() Container { return n.parent }
func (n *node) setParent(p Container) { n.parent = p }

// container is embedded by every container variant. Variants pass themselves
// as self so that children point at the outer type.
type container struct {
	node
	children []Node
}

func (c *container) Children() []Node { return c.children }
func (c *container) contents() *[]Node { return &c.children }

func appendTo(self Container, child Node) error {
	if child == nil {
		return constructionError("append", "nil child")
	}
	if !self.accepts(child) {
		return constructionError("append", "%s cannot contain %s", self.Kind(), child.Kind())
	}
	for p := Container(self); p != nil; p = p.Parent() {
		if Node(p) == child {
			return constructionError("append", "%s would become its own descendant", child.Kind())
		}
	}
	if old := child.Parent(); old != nil {
		old.Remove(child)
	}
	list := self.contents()
	*list = append(*list, child)
	child.setParent(self)
	return nil
}

func removeFrom(self Container, child Node) bool {
	list := self.contents()
	for i, c := range *list {
		if c == child {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			child.setParent(nil)
			return true
		}
	}
	return false
}

// attach appends a freshly made node to parent.
func attach(op string, parent Container, n Node) error {
	if parent == nil {
		return &ConstructionError{Op: op, Err: ErrNoParent}
	}
	if err := parent.Append(n); err != nil {
		var ce *ConstructionError
		if errors.As(err, &ce) {
			ce.Op = op
		}
		return err
	}
	return nil
}

// attachClone attaches a clone to parent when parent is non-nil.
func attachClone(op string, parent Container, n Node) error {
	if parent == nil {
		return nil
	}
	return attach(op, parent, n)
}

// cloneChildren clones every child of src into dst.
func cloneChildren(src, dst Container) error {
	for _, c := range src.Children() {
		if _, err := c.Clone(dst); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits n and its descendants depth first. Returning false skips the
// children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, fn)
		}
	}
}

// Root returns the topmost ancestor of n.
func Root(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}
