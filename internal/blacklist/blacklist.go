// Package blacklist decides which entities are left out of generated
// documentation and synopses.
package blacklist

import (
	"fmt"
	"sort"

	"cppdoc/internal/config"
	"cppdoc/internal/cpp"
)

// MaxDepth bounds the ancestor walk of IsSynopsisBlacklisted. Entity trees
// are acyclic; the bound only stops a malformed tree from hanging a run.
const MaxDepth = 1024

// Blacklist is a read-only policy once built. It is safe for concurrent use
// by any number of generation passes as long as nobody mutates it.
type Blacklist struct {
	kinds          [cpp.KindCount]bool
	documentation  entrySet
	synopsis       entrySet
	extractPrivate bool
}

// New returns the default policy. Include directives, using declarations,
// using directives and access specifiers are never documented on their own.
func New() *Blacklist {
	b := &Blacklist{}
	b.AddKind(cpp.InclusionDirectiveKind)
	b.AddKind(cpp.UsingDeclarationKind)
	b.AddKind(cpp.UsingDirectiveKind)
	b.AddKind(cpp.AccessSpecifierKind)
	return b
}

// AddKind excludes every entity of kind k from documentation.
func (b *Blacklist) AddKind(k cpp.Kind) {
	if k > cpp.InvalidKind && k < cpp.KindCount {
		b.kinds[k] = true
	}
}

// AddDocumentation excludes entities named name from documentation. kind
// cpp.AnyKind matches every kind.
func (b *Blacklist) AddDocumentation(name string, kind cpp.Kind) {
	b.documentation.insert(name, kind)
}

// AddSynopsis excludes entities named name, and everything declared inside
// them, from synopses.
func (b *Blacklist) AddSynopsis(name string, kind cpp.Kind) {
	b.synopsis.insert(name, kind)
}

func (b *Blacklist) SetExtractPrivate(v bool) { b.extractPrivate = v }

// ExtractPrivate reports whether private members appear in synopses.
func (b *Blacklist) ExtractPrivate() bool { return b.extractPrivate }

// IsDocumentationBlacklisted reports whether e must not get a documentation
// entry of its own.
func (b *Blacklist) IsDocumentationBlacklisted(e cpp.Entity) bool {
	if k := e.Kind(); k >= 0 && k < cpp.KindCount && b.kinds[k] {
		return true
	}
	return b.documentation.contains(e.Name(), e.Kind())
}

// IsSynopsisBlacklisted reports whether e or any of its semantic ancestors
// is excluded from synopses.
func (b *Blacklist) IsSynopsisBlacklisted(e cpp.Entity) bool {
	if len(b.synopsis) == 0 {
		return false
	}
	depth := 0
	for cur := e; cur != nil && depth < MaxDepth; cur = cur.SemanticParent() {
		if b.synopsis.contains(cur.Name(), cur.Kind()) {
			return true
		}
		depth++
	}
	return false
}

type entry struct {
	name string
	kind cpp.Kind
}

func (e entry) less(o entry) bool {
	if e.name != o.name {
		return e.name < o.name
	}
	return e.kind < o.kind
}

// entrySet is sorted by name, then kind. AnyKind is zero, so it sorts first
// among the entries for one name.
type entrySet []entry

func (s *entrySet) insert(name string, kind cpp.Kind) {
	e := entry{name, kind}
	i := sort.Search(len(*s), func(i int) bool { return !(*s)[i].less(e) })
	if i < len(*s) && (*s)[i] == e {
		return
	}
	*s = append(*s, entry{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = e
}

func (s entrySet) contains(name string, kind cpp.Kind) bool {
	first := entry{name, cpp.InvalidKind}
	i := sort.Search(len(s), func(i int) bool { return !s[i].less(first) })
	for ; i < len(s) && s[i].name == name; i++ {
		if s[i].kind == cpp.AnyKind || s[i].kind == kind {
			return true
		}
	}
	return false
}

// FromConfig builds a policy from configuration entries on top of the
// default kind exclusions.
func FromConfig(cfg config.BlacklistConfig) (*Blacklist, error) {
	b := New()
	b.SetExtractPrivate(cfg.ExtractPrivate)
	for _, name := range cfg.Kinds {
		k, err := cpp.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("blacklist kinds: %w", err)
		}
		if k == cpp.AnyKind {
			return nil, fmt.Errorf("blacklist kinds: %q does not name a kind", name)
		}
		b.AddKind(k)
	}
	for _, e := range cfg.Documentation {
		k, err := cpp.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("blacklist documentation %q: %w", e.Name, err)
		}
		b.AddDocumentation(e.Name, k)
	}
	for _, e := range cfg.Synopsis {
		k, err := cpp.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("blacklist synopsis %q: %w", e.Name, err)
		}
		b.AddSynopsis(e.Name, k)
	}
	return b, nil
}
