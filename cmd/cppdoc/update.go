package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cppdoc/internal/index"
	"cppdoc/internal/pipeline"
)

var (
	baseRef string
	force   bool
)

var updateCmd = &cobra.Command{
	Use:   "update [root]",
	Short: "Regenerate the pages and index rows of headers changed since a git revision",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(rootArg(args))
		if err != nil {
			return err
		}
		gen, err := a.generator()
		if err != nil {
			return err
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("🔍 Checking changes since %s...\n", baseRef)
		sync := &pipeline.IncrementalSync{
			ProjectRoot: a.cfg.Project.Root,
			OutputDir:   a.cfg.Output.Dir,
			BaseRef:     baseRef,
			Extensions:  a.cfg.Project.Extensions,
			Indexer:     index.NewIndexer(a.crawler, a.extractor, store, a.policy, a.opts),
			Store:       store,
			Generator:   gen,
		}
		result, err := sync.Run(cmd.Context(), force)
		if err != nil {
			return err
		}
		if result.Report != nil {
			fmt.Printf("✅ Updated %d pages (%d entities), removed %d headers\n", result.Pages, result.Stats.Entities, result.Stats.Removed)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&baseRef, "base", "b", "HEAD", "Git revision to compare the work tree against")
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild everything when no header changed")
}
