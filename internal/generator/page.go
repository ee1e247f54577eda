package generator

import (
	"fmt"

	"cppdoc/internal/cpp"
	"cppdoc/internal/markup"
	"cppdoc/internal/synopsis"
)

// Page is the documentation of one header.
type Page struct {
	Header   string
	Document *markup.Document
	Entries  []Entry
}

// BuildPage builds the documentation page of file: a heading, the synopsis
// of the whole file, then one section per documented entity.
func BuildPage(file *cpp.File, policy Policy, opts synopsis.Options) (*Page, error) {
	entries, excluded, err := Collect(file, policy, opts.ExtractPrivate)
	if err != nil {
		return nil, err
	}
	opts.Exclude = excludeHook(opts.Exclude, excluded)

	doc := markup.NewDocument()
	if err := writeHeading(doc, 1, "Header file ", file.Name()); err != nil {
		return nil, err
	}
	if _, err := synopsis.Write(doc, file, policy, opts); err != nil {
		return nil, fmt.Errorf("synopsis of %s: %w", file.Name(), err)
	}

	for _, entry := range entries {
		if err := writeEntry(doc, entry, policy, opts); err != nil {
			return nil, err
		}
	}
	return &Page{Header: file.Name(), Document: doc, Entries: entries}, nil
}

func excludeHook(prev func(cpp.Entity) bool, excluded map[cpp.Entity]bool) func(cpp.Entity) bool {
	if len(excluded) == 0 {
		return prev
	}
	return func(e cpp.Entity) bool {
		return excluded[e] || (prev != nil && prev(e))
	}
}

func writeEntry(doc *markup.Document, entry Entry, policy Policy, opts synopsis.Options) error {
	e := entry.Entity
	if _, err := markup.MakeThematicBreak(doc); err != nil {
		return err
	}
	if err := writeHeading(doc, 3, Title(e)+" ", cpp.QualifiedName(e)); err != nil {
		return err
	}
	if _, err := synopsis.Write(doc, e, policy, opts); err != nil {
		return fmt.Errorf("synopsis of %s: %w", cpp.QualifiedName(e), err)
	}
	for _, n := range entry.Comment.Content.Children() {
		if _, err := n.Clone(doc); err != nil {
			return err
		}
	}
	return nil
}

// writeHeading writes a heading made of text followed by code.
func writeHeading(doc *markup.Document, level int, text, code string) error {
	h, err := markup.MakeHeading(doc, level)
	if err != nil {
		return err
	}
	if _, err := markup.MakeText(h, text); err != nil {
		return err
	}
	_, err = markup.MakeInlineCode(h, code)
	return err
}
