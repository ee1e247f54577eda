package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cppdoc/internal/index"
	"cppdoc/internal/storage"
)

var indexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Index the documented entities of the project into SQLite",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(rootArg(args))
		if err != nil {
			return err
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("📂 Indexing headers in %s...\n", a.cfg.Project.Root)
		start := time.Now()
		idx := index.NewIndexer(a.crawler, a.extractor, store, a.policy, a.opts)
		_, stats, err := idx.Build(cmd.Context(), a.cfg.Project.Root)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Indexed %d entities from %d headers in %v (%d removed)\n",
			stats.Entities, stats.Files, time.Since(start).Round(time.Millisecond), stats.Removed)
		return nil
	},
}

var lookupOutput string

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Look up indexed entities by name or qualified name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("")
		if err != nil {
			return err
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		found, err := store.FindByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("no entity named %q in %s", args[0], a.cfg.Index.DB)
		}
		return printEntities(found, lookupOutput)
	},
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupOutput, "output", "o", "text", "Output format: text, json or yaml")
}

func printEntities(entities []storage.Entity, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entities)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(entities)
	case "text":
		for _, e := range entities {
			fmt.Printf("%s:%d  %s  %s\n", e.File, e.Line, e.Kind, e.Qualified)
			fmt.Printf("    %s\n", e.Synopsis)
			if e.Brief != "" {
				fmt.Printf("    %s\n", e.Brief)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}
