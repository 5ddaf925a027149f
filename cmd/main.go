package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/pdfcompare/internal/models"
	"github.com/xhad/pdfcompare/internal/types"
	"github.com/xhad/pdfcompare/pkg/compare"
	"github.com/xhad/pdfcompare/pkg/config"
	"github.com/xhad/pdfcompare/pkg/diff"
	"github.com/xhad/pdfcompare/pkg/export"
	"github.com/xhad/pdfcompare/pkg/extract"
)

type Flags struct {
	Document     string
	Methods      string
	Pages        string
	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int
	OCRLang      string
	OCRDPI       int
	Timeout      int
	MetadataURL  string
	Export       string
	OutDir       string
}

func main() {
	flags, cfg := parseFlags()

	if err := run(flags, cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (Flags, *config.Config) {
	var flags Flags
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&flags.Document, "pdf", "", "Path to the PDF document")
	flag.StringVar(&flags.Methods, "methods", "", "One or two extraction methods, comma separated (basic_text, layout_table, ocr, markup_model, scholarly_metadata)")
	flag.StringVar(&flags.Pages, "pages", "all", "Page range, e.g. 2-7 or all")
	flag.IntVar(&flags.ChunkSize, "chunk-size", 0, "Chunk size for the chunking preview")
	flag.IntVar(&flags.ChunkOverlap, "chunk-overlap", -1, "Chunk overlap for the chunking preview")
	flag.IntVar(&flags.MaxChunks, "max-chunks", 5, "Number of chunks to preview")
	flag.StringVar(&flags.OCRLang, "ocr-lang", "", "OCR language(s), e.g. eng or eng+fra")
	flag.IntVar(&flags.OCRDPI, "ocr-dpi", 0, "Image DPI for OCR rendering")
	flag.IntVar(&flags.Timeout, "timeout", 0, "Markup model timeout in seconds")
	flag.StringVar(&flags.MetadataURL, "metadata-url", os.Getenv("METADATA_SERVER_URL"), "Scholarly metadata server URL")
	flag.StringVar(&flags.Export, "export", "", "Export formats, comma separated (text, markdown, xml, json, docx)")
	flag.StringVar(&flags.OutDir, "out", "", "Directory for exported files")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags override the config file.
	if flags.ChunkSize == 0 {
		flags.ChunkSize = cfg.Chunker.ChunkSize
	}
	if flags.ChunkOverlap < 0 {
		flags.ChunkOverlap = cfg.Chunker.ChunkOverlap
	}
	if flags.OCRLang == "" {
		flags.OCRLang = cfg.Extract.OCRLanguage
	}
	if flags.OCRDPI == 0 {
		flags.OCRDPI = cfg.Extract.OCRDPI
	}
	if flags.Timeout == 0 {
		flags.Timeout = cfg.Extract.MarkupTimeout
	}
	if flags.MetadataURL == "" {
		flags.MetadataURL = cfg.Extract.MetadataURL
	}
	if flags.OutDir == "" {
		flags.OutDir = cfg.Export.OutputDir
	}
	if flags.Export == "" {
		flags.Export = strings.Join(cfg.Export.Formats, ",")
	}

	return flags, cfg
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(flags Flags, cfg *config.Config) error {
	if flags.Document == "" {
		return fmt.Errorf("no document given, use -pdf")
	}
	if flags.Methods == "" {
		return fmt.Errorf("no extraction methods given, use -methods")
	}

	methods, err := parseMethods(flags.Methods)
	if err != nil {
		return err
	}

	pages, err := parsePageRange(flags.Pages)
	if err != nil {
		return err
	}

	opts := types.ExtractOptions{
		Language:  flags.OCRLang,
		DPI:       flags.OCRDPI,
		Timeout:   time.Duration(flags.Timeout) * time.Second,
		ServerURL: flags.MetadataURL,
		Binary:    cfg.Extract.MarkupBinary,
	}

	var extractors []types.Extractor
	for _, m := range methods {
		ex, err := extract.New(m, opts)
		if err != nil {
			return err
		}
		extractors = append(extractors, ex)
	}

	color.Cyan("\nComparing %d extraction method(s) on %s", len(extractors), filepath.Base(flags.Document))

	spinner := getSpinner(" Extracting...")
	comparison, err := compare.Run(context.Background(), extractors, types.ExtractRequest{
		DocumentPath: flags.Document,
		Pages:        pages,
	}, types.ChunkerConfig{
		ChunkSize:    flags.ChunkSize,
		ChunkOverlap: flags.ChunkOverlap,
	})
	spinner.Finish()
	if err != nil {
		return err
	}

	for _, outcome := range comparison.Outcomes {
		printOutcome(outcome, flags.MaxChunks)
	}

	if comparison.Diff != nil {
		printDiff(comparison.Diff)
	}

	if flags.Export != "" {
		if err := writeExports(comparison, flags); err != nil {
			return err
		}
	}

	return nil
}

func printOutcome(outcome compare.Outcome, maxChunks int) {
	fmt.Println()
	color.Cyan("=== %s ===", outcome.Method)

	if outcome.Err != nil {
		color.Red("extraction failed: %v", outcome.Err)
		return
	}

	result := outcome.Result
	m := outcome.Metrics
	fmt.Printf("  characters: %d  words: %d  equations: %d  sections: %d\n",
		m.CharCount, m.WordCount, m.EquationCount, m.SectionCount)
	fmt.Printf("  pages: %s  tables: %d  chunks: %d\n",
		result.PagesProcessed, len(result.Tables), len(outcome.Chunks))

	for _, warning := range result.Warnings {
		color.Yellow("  warning: %s", warning)
	}

	if len(result.Metadata) > 0 {
		fmt.Println("  metadata:")
		for key, value := range result.Metadata {
			fmt.Printf("    %s: %v\n", key, value)
		}
	}

	for i, chunk := range outcome.Chunks {
		if i >= maxChunks {
			fmt.Printf("  ... %d more chunks\n", len(outcome.Chunks)-maxChunks)
			break
		}
		fmt.Printf("  chunk %d (%d chars): %s\n", i+1, len(chunk), preview(chunk, 80))
	}
}

func printDiff(segments []diff.Segment) {
	fmt.Println()
	color.Cyan("=== diff ===")

	for _, seg := range segments {
		switch seg.Op {
		case diff.OpEqual:
			fmt.Printf("  %d line(s) equal\n", len(seg.Left))
		case diff.OpDelete:
			for _, line := range seg.Left {
				color.Red("- %s", strings.TrimRight(line, "\n"))
			}
		case diff.OpInsert:
			for _, line := range seg.Right {
				color.Green("+ %s", strings.TrimRight(line, "\n"))
			}
		case diff.OpReplace:
			for _, line := range seg.Left {
				color.Red("- %s", strings.TrimRight(line, "\n"))
			}
			for _, line := range seg.Right {
				color.Green("+ %s", strings.TrimRight(line, "\n"))
			}
		}
	}
}

func writeExports(comparison *compare.Comparison, flags Flags) error {
	formats, err := parseFormats(flags.Export)
	if err != nil {
		return err
	}

	for _, result := range comparison.Succeeded() {
		for _, format := range formats {
			file, err := export.Render(result, flags.Document, format)
			if err != nil {
				color.Yellow("skipping %s export for %s: %v", format, result.Method, err)
				continue
			}
			path := filepath.Join(flags.OutDir, file.Name)
			if err := os.WriteFile(path, file.Data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			color.Green("✓ wrote %s", path)
		}
	}
	return nil
}

func parseMethods(s string) ([]models.Method, error) {
	var methods []models.Method
	for _, part := range strings.Split(s, ",") {
		m, err := models.ParseMethod(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if len(methods) > 2 {
		return nil, fmt.Errorf("choose at most two methods, got %d", len(methods))
	}
	return methods, nil
}

func parsePageRange(s string) (models.PageRange, error) {
	if s == "" || s == "all" {
		return models.PageRange{}, nil
	}
	start, end, found := strings.Cut(s, "-")
	if !found {
		end = start
	}
	first, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return models.PageRange{}, fmt.Errorf("invalid page range %q", s)
	}
	last, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil || first < 1 || last < first {
		return models.PageRange{}, fmt.Errorf("invalid page range %q", s)
	}
	return models.PageRange{Start: first, End: last}, nil
}

func parseFormats(s string) ([]export.Format, error) {
	var formats []export.Format
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := export.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func preview(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
