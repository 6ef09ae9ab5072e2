// Command htseg extracts translatable text from HTML files, translates it,
// and merges the translations back into the document structure.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/artealabs/htseg"
	"github.com/artealabs/htseg/dom"
	"github.com/artealabs/htseg/extract"
	"github.com/artealabs/htseg/pipeline"
	"github.com/artealabs/htseg/provider"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = htseg.Version
	commit    = htseg.GitCommit
	buildDate = htseg.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("htseg", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	targetLang := fs.String("lang", "", "Target language code (e.g., fr, de, ja)")
	primaryLang := fs.String("primary", "en", "Primary source language code")
	secondaryLang := fs.String("secondary", "", "Secondary source language code (optional)")
	outDir := fs.String("out", "out", "Output directory for per-document artifacts")
	memoryPath := fs.String("memory", "", "Translation memory file (default: <out>/global_memory.json)")
	noMemory := fs.Bool("no-memory", false, "Disable the translation memory")
	updateMemory := fs.Bool("update-memory", false, "Save new translations back to the memory file")
	refine := fs.Bool("refine", false, "Run the AI refinement pass over machine translations")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	combined := fs.Bool("combined", false, "Also emit a merged document showing both translation variants")
	batchSize := fs.Int("batch-size", 100, "Texts per translation request")
	dryRun := fs.Bool("dry-run", false, "List translatable segments without calling any API")
	jsonOutput := fs.Bool("json", false, "Output dry-run/diff results as JSON")
	diffFile := fs.String("diff", "", "Compare with a previous version and show changed segments")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", htseg.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}
	if !htseg.IsLangCode(htseg.NormalizeLangCode(*targetLang)) {
		return fmt.Errorf("unrecognized target language %q", *targetLang)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("at least one input HTML file is required")
	}
	inputs := fs.Args()

	extractOpts := extract.Options{
		PrimaryLang:   *primaryLang,
		SecondaryLang: *secondaryLang,
	}

	// Diff and dry-run modes never touch the network.
	if *diffFile != "" {
		return runDiff(inputs[0], *diffFile, *targetLang, extractOpts, stdout, *jsonOutput)
	}
	if *dryRun {
		return runDryRun(inputs, *targetLang, extractOpts, stdout, *jsonOutput)
	}

	// Get API key
	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	translator := provider.NewOpenAITranslator(provider.OpenAIConfig{
		APIKey: key,
		Model:  *model,
	})
	prov := htseg.NewRetryableProvider(translator, htseg.DefaultRetryConfig())

	var refiner htseg.Refiner
	if *refine {
		r := provider.NewOpenAIRefiner(provider.OpenAIConfig{
			APIKey: key,
			Model:  *model,
		})
		refiner = htseg.NewRetryableRefiner(r, htseg.DefaultRetryConfig())
	}

	var log io.Writer = stderr
	if *quiet {
		log = io.Discard
	}

	memPath := *memoryPath
	if memPath == "" {
		memPath = pipeline.DefaultMemoryPath(*outDir)
	}
	if *noMemory {
		memPath = ""
	}

	batch := pipeline.NewBatch(pipeline.BatchConfig{
		Pipeline: pipeline.Config{
			PrimaryLang:   *primaryLang,
			SecondaryLang: *secondaryLang,
			TargetLang:    *targetLang,
			OutDir:        *outDir,
			Provider:      prov,
			Refiner:       refiner,
			BatchSize:     *batchSize,
			Combined:      *combined,
			Log:           log,
		},
		MemoryPath:   memPath,
		UpdateMemory: *updateMemory,
	})

	summary, err := batch.Run(context.Background(), inputs)
	if err != nil {
		return err
	}
	if !*quiet {
		summary.Report(stderr)
	}
	// Individual failures are reported in the summary; only a fully failed
	// batch is a CLI error.
	if summary.Processed == 0 {
		return fmt.Errorf("all %d documents failed", summary.Failed)
	}
	return nil
}

// runDryRun extracts and classifies each input, listing the translatable
// segments and the skip accounting without calling any API.
func runDryRun(inputs []string, targetLang string, opts extract.Options, stdout io.Writer, jsonOut bool) error {
	type fileReport struct {
		InputFile  string            `json:"input_file"`
		TargetLang string            `json:"target_lang"`
		Segments   map[string]string `json:"segments"`
		Skipped    map[string]int    `json:"skipped"`
	}

	var reports []fileReport
	for _, path := range inputs {
		res, err := extractFile(path, opts)
		if err != nil {
			return err
		}

		segments := make(map[string]string, len(res.Segments))
		for i := range res.Segments {
			segments[res.Segments[i].ID] = res.Segments[i].SourceText
		}
		skipped := make(map[string]int, len(res.SkipCounts))
		for reason, n := range res.SkipCounts {
			skipped[string(reason)] = n
		}
		reports = append(reports, fileReport{
			InputFile:  filepath.Base(path),
			TargetLang: targetLang,
			Segments:   segments,
			Skipped:    skipped,
		})
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(reports)
	}

	for _, r := range reports {
		fmt.Fprintf(stdout, "Dry run: %s -> %s\n", r.InputFile, r.TargetLang)
		fmt.Fprintf(stdout, "Found %d translatable segments:\n\n", len(r.Segments))

		ids := make([]string, 0, len(r.Segments))
		for id := range r.Segments {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(stdout, "  %-20s %q\n", id, truncate(r.Segments[id], 60))
		}

		if len(r.Skipped) > 0 {
			fmt.Fprintf(stdout, "\nSkipped:\n")
			reasons := make([]string, 0, len(r.Skipped))
			for reason := range r.Skipped {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)
			for _, reason := range reasons {
				fmt.Fprintf(stdout, "  %-24s %d\n", reason, r.Skipped[reason])
			}
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

// runDiff compares the segments of a new document version against a previous
// one and reports what would need (re)translation.
func runDiff(newPath, oldPath, targetLang string, opts extract.Options, stdout io.Writer, jsonOut bool) error {
	oldRes, err := extractFile(oldPath, opts)
	if err != nil {
		return fmt.Errorf("previous version: %w", err)
	}
	newRes, err := extractFile(newPath, opts)
	if err != nil {
		return fmt.Errorf("new version: %w", err)
	}

	diff := htseg.DiffSegmentsByLocation(oldRes.Segments, newRes.Segments)
	stats := diff.Stats()

	if jsonOut {
		type modifiedPair struct {
			Old string `json:"old"`
			New string `json:"new"`
		}
		out := struct {
			InputFile        string          `json:"input_file"`
			PreviousFile     string          `json:"previous_file"`
			TargetLang       string          `json:"target_lang"`
			Stats            htseg.DiffStats `json:"stats"`
			NeedsTranslation []string        `json:"needs_translation"`
			Added            []string        `json:"added,omitempty"`
			Removed          []string        `json:"removed,omitempty"`
			Modified         []modifiedPair  `json:"modified,omitempty"`
		}{
			InputFile:    filepath.Base(newPath),
			PreviousFile: filepath.Base(oldPath),
			TargetLang:   targetLang,
			Stats:        stats,
		}
		for _, s := range diff.NeedsTranslation() {
			out.NeedsTranslation = append(out.NeedsTranslation, s.SourceText)
		}
		for _, s := range diff.Added {
			out.Added = append(out.Added, s.SourceText)
		}
		for _, s := range diff.Removed {
			out.Removed = append(out.Removed, s.SourceText)
		}
		for _, m := range diff.Modified {
			out.Modified = append(out.Modified, modifiedPair{Old: m.Old.SourceText, New: m.New.SourceText})
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n", filepath.Base(newPath), filepath.Base(oldPath))
	fmt.Fprintf(stdout, "Target language: %s\n\n", targetLang)

	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected. All translations are up to date.\n")
		return nil
	}

	fmt.Fprintf(stdout, "Needs translation: %d segments\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(stdout, "Added:\n")
		for _, s := range diff.Added {
			fmt.Fprintf(stdout, "  + %q\n", truncate(s.SourceText, 50))
		}
		fmt.Fprintf(stdout, "\n")
	}
	if len(diff.Modified) > 0 {
		fmt.Fprintf(stdout, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(stdout, "  ~ %q -> %q\n", truncate(m.Old.SourceText, 30), truncate(m.New.SourceText, 30))
		}
		fmt.Fprintf(stdout, "\n")
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(stdout, "Removed:\n")
		for _, s := range diff.Removed {
			fmt.Fprintf(stdout, "  - %q\n", truncate(s.SourceText, 50))
		}
		fmt.Fprintf(stdout, "\n")
	}

	return nil
}

func extractFile(path string, opts extract.Options) (*extract.Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	doc, err := dom.ParseString(string(data))
	if err != nil {
		return nil, err
	}
	return extract.Extract(doc, opts), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
