package main

import (
	"context"
	"fmt"
	"log"

	"cppdoc/internal/blacklist"
	"cppdoc/internal/config"
	"cppdoc/internal/cpp"
	"cppdoc/internal/crawler"
	"cppdoc/internal/extractor"
	"cppdoc/internal/generator"
	"cppdoc/internal/synopsis"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize Components
	policy, err := blacklist.FromConfig(cfg.Blacklist)
	if err != nil {
		log.Fatalf("Failed to build blacklist: %v", err)
	}
	format, err := generator.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Fatalf("Failed to select output format: %v", err)
	}
	opts := synopsis.DefaultOptions()
	opts.TabWidth = cfg.Output.TabWidth
	opts.IndentNamespaces = cfg.Output.IndentNamespaces

	cr := crawler.NewCrawler(extractor.New(), cfg.Project.Extensions)

	// 3. Scan Project
	fmt.Printf("🚀 Scanning project at %s...\n", cfg.Project.Root)
	var files []*cpp.File
	err = cr.ScanProject(ctx, cfg.Project.Root, func(f *cpp.File) error {
		files = append(files, f)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan project: %v", err)
	}
	fmt.Printf("✅ Found %d headers\n", len(files))

	// 4. Documentation Generation
	fmt.Println("📝 Generating documentation...")
	gen := generator.New(policy, opts, format, cfg.Output.Workers)
	report, err := gen.Generate(ctx, files, cfg.Output.Dir)
	if err != nil {
		log.Fatalf("Failed to generate documentation: %v", err)
	}

	fmt.Printf("✨ Process complete! %d pages in '%s', %d of %d entities documented.\n",
		report.Summary.FileCount, cfg.Output.Dir, report.Summary.DocumentedCount, report.Summary.EntityCount)
}
