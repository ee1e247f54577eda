package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cppdoc/internal/cpp"
)

var generateCmd = &cobra.Command{
	Use:   "generate [root]",
	Short: "Generate documentation pages for every header of the project",
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
		ctx := cmd.Context()

		fmt.Printf("📂 Scanning headers in %s...\n", a.cfg.Project.Root)
		start := time.Now()
		var files []*cpp.File
		if err := a.crawler.ScanProject(ctx, a.cfg.Project.Root, func(f *cpp.File) error {
			files = append(files, f)
			return nil
		}); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		fmt.Printf("✅ Parsed %d headers in %v\n", len(files), time.Since(start).Round(time.Millisecond))

		fmt.Printf("📝 Writing %s pages to %s...\n", a.cfg.Output.Format, a.cfg.Output.Dir)
		report, err := gen.Generate(ctx, files, a.cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		fmt.Printf("✅ Documented %d of %d entities (%.0f%%)\n",
			report.Summary.DocumentedCount, report.Summary.EntityCount, report.Summary.Coverage*100)
		return nil
	},
}
