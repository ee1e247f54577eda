package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cppdoc/internal/cpp"
	"cppdoc/internal/synopsis"
)

var synopsisCmd = &cobra.Command{
	Use:   "synopsis FILE [NAME]",
	Short: "Print the synopsis of a header, or of one entity declared in it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}
		file, err := a.extractor.ExtractFile(cmd.Context(), args[0], filepath.ToSlash(args[0]))
		if err != nil {
			return err
		}

		var target cpp.Entity = file
		if len(args) == 2 {
			if target = find(file, args[1]); target == nil {
				return fmt.Errorf("no entity named %q in %s", args[1], args[0])
			}
		}
		text, err := synopsis.String(target, a.policy, a.opts)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

// find returns the first entity whose qualified or plain name is name.
func find(file *cpp.File, name string) cpp.Entity {
	var found cpp.Entity
	cpp.Walk(file, func(e cpp.Entity) bool {
		if found != nil {
			return false
		}
		if e.Kind() != cpp.FileKind && (cpp.QualifiedName(e) == name || e.Name() == name) {
			if w := e.SemanticParent(); w != nil && cpp.Wrapped(w) == e {
				found = w
			} else {
				found = e
			}
			return false
		}
		return true
	})
	return found
}
