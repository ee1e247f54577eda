package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cppdoc/internal/blacklist"
	"cppdoc/internal/config"
	"cppdoc/internal/crawler"
	"cppdoc/internal/extractor"
	"cppdoc/internal/generator"
	"cppdoc/internal/logging"
	"cppdoc/internal/storage"
	"cppdoc/internal/synopsis"
)

var (
	rootCmd = &cobra.Command{
		Use:           "cppdoc",
		Short:         "Documentation generator for C++ headers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	verbose    int
)

var log = logging.Log()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the entity index database (SQLite), overrides index.db")
	rootCmd.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0, "Verbosity for logging")
	cobra.OnInitialize(func() { logging.Init(verbose) })

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(synopsisCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(updateCmd)
}

// app bundles the components every command is built from.
type app struct {
	cfg       *config.Config
	policy    *blacklist.Blacklist
	opts      synopsis.Options
	extractor *extractor.Extractor
	crawler   *crawler.Crawler
}

// newApp loads the configuration. A non-empty root overrides project.root.
func newApp(root string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if root != "" {
		cfg.Project.Root = root
	}
	if dbPath != "" {
		cfg.Index.DB = dbPath
	}
	log.V(2).Info("Loaded configuration", "config", logging.JSON(cfg))

	policy, err := blacklist.FromConfig(cfg.Blacklist)
	if err != nil {
		return nil, err
	}
	opts := synopsis.DefaultOptions()
	opts.TabWidth = cfg.Output.TabWidth
	opts.IndentNamespaces = cfg.Output.IndentNamespaces

	ext := extractor.New()
	return &app{
		cfg:       cfg,
		policy:    policy,
		opts:      opts,
		extractor: ext,
		crawler:   crawler.NewCrawler(ext, cfg.Project.Extensions),
	}, nil
}

func (a *app) generator() (*generator.Generator, error) {
	format, err := generator.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return generator.New(a.policy, a.opts, format, a.cfg.Output.Workers), nil
}

func (a *app) openStore() (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(a.cfg.Index.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", a.cfg.Index.DB, err)
	}
	return store, nil
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
