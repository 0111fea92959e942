package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ivanvanderbyl/pdfoutline"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfoutline",
		Usage: "Extract a heading outline from PDF files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file, or a directory of PDF files",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout), or output directory in batch mode",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: json, flat or markdown",
				Value: "json",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "Text extraction engine: pdfium or native",
				Value: "pdfium",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
			},
			&cli.IntFlag{
				Name:  "start-page",
				Usage: "Start page number (0-indexed, pdfium engine only)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "end-page",
				Usage: "End page number (0-indexed, pdfium engine only)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Reject documents with more pages (0 keeps the configured limit)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of documents processed concurrently in batch mode",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Stop a batch at the first file that fails",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Include rejected lines and their reasons in the output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log processing metrics",
			},
		},
		Action: extractOutline,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// options are the resolved command line settings.
type options struct {
	config    pdfoutline.Config
	format    string
	engine    string
	startPage int
	endPage   int
}

func extractOutline(ctx context.Context, cmd *cli.Command) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cmd.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	inputPath := cmd.String("input")
	info, err := os.Stat(inputPath)
	if err != nil {
		return errors.Wrap(err, "failed to stat input")
	}

	if info.IsDir() {
		return extractDirectory(ctx, logger, opts, inputPath, cmd.String("output"), int(cmd.Int("workers")), cmd.Bool("fail-fast"))
	}

	pool, err := initPool(1)
	if err != nil {
		return err
	}
	defer pool.Close()

	out, err := processFile(logger, pool, opts, inputPath)
	if err != nil {
		return err
	}

	return writeOutput(logger, cmd.String("output"), out)
}

func resolveOptions(cmd *cli.Command) (options, error) {
	cfg := pdfoutline.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := pdfoutline.LoadConfig(path)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}

	if maxPages := int(cmd.Int("max-pages")); maxPages > 0 {
		cfg.MaxPages = maxPages
	}
	if cmd.Bool("debug") {
		cfg.IncludeRejected = true
	}
	if cmd.Bool("verbose") {
		cfg.EnableMetricsLogging = true
	}

	opts := options{
		config:    cfg,
		format:    strings.ToLower(cmd.String("format")),
		engine:    strings.ToLower(cmd.String("engine")),
		startPage: int(cmd.Int("start-page")),
		endPage:   int(cmd.Int("end-page")),
	}

	switch opts.format {
	case "json", "flat", "markdown":
	default:
		return options{}, errors.Errorf("unknown format %q", opts.format)
	}
	switch opts.engine {
	case "pdfium", "native":
	default:
		return options{}, errors.Errorf("unknown engine %q", opts.engine)
	}

	return opts, nil
}

func initPool(workers int) (pdfium.Pool, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  workers,
		MaxTotal: workers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialise pdfium")
	}
	return pool, nil
}

// processFile extracts and renders the outline of one PDF.
func processFile(logger logrus.FieldLogger, pool pdfium.Pool, opts options, path string) ([]byte, error) {
	logger = logger.WithField("file", filepath.Base(path))

	var doc *pdfoutline.Document
	var err error

	switch opts.engine {
	case "native":
		doc, err = convertNative(logger, opts.config, path)
	default:
		doc, err = convertPDFium(logger, pool, opts, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process %s", path)
	}

	logger.WithField("headings", doc.Root().Count()).Debug("outline extracted")

	return render(doc, opts.format)
}

func convertPDFium(logger logrus.FieldLogger, pool pdfium.Pool, opts options, path string) (*pdfoutline.Document, error) {
	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pdfium instance")
	}
	defer instance.Close()

	converter := pdfoutline.NewConverterWithConfig(instance, opts.config)
	converter.SetLogger(logger)

	if opts.startPage >= 0 || opts.endPage >= 0 {
		return converter.ConvertPageRange(path, opts.startPage, opts.endPage)
	}
	return converter.ConvertFile(path)
}

func convertNative(logger logrus.FieldLogger, cfg pdfoutline.Config, path string) (*pdfoutline.Document, error) {
	pages, err := pdfoutline.ReadPagesFile(path)
	if err != nil {
		return nil, err
	}

	analysis, err := pdfoutline.NewClassifierWithConfig(cfg).Analyze(pages)
	if err != nil {
		return nil, err
	}
	for _, w := range analysis.Warnings {
		logger.WithField("warning", w.Kind.String()).Warn(w.Message)
	}

	return pdfoutline.NewDocument(analysis, "", cfg.IncludeRejected), nil
}

func render(doc *pdfoutline.Document, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "markdown":
		md, err := doc.ToMarkdown(true)
		if err != nil {
			return nil, err
		}
		buf.WriteString(md)
	case "flat":
		if err := pdfoutline.WriteJSON(&buf, doc.Flat()); err != nil {
			return nil, err
		}
	default:
		if err := pdfoutline.WriteJSON(&buf, doc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeOutput(logger logrus.FieldLogger, outputPath string, out []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return errors.Wrap(err, "failed to write output file")
	}
	logger.WithField("path", outputPath).Info("outline written")
	return nil
}

// extractDirectory processes every PDF in dir, writing one output file per input.
func extractDirectory(ctx context.Context, logger logrus.FieldLogger, opts options, dir, outputDir string, workers int, failFast bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "failed to read input directory")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		logger.WithField("dir", dir).Warn("no PDF files found")
		return nil
	}

	if outputDir == "" {
		outputDir = dir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	workers = max(1, min(workers, len(files)))

	var pool pdfium.Pool
	if opts.engine == "pdfium" {
		pool, err = initPool(workers)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	ext := ".json"
	if opts.format == "markdown" {
		ext = ".md"
	}

	failed, err := runBatch(ctx, logger, files, workers, failFast, func(file string) error {
		out, err := processFile(logger, pool, opts, file)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ext
		return writeOutput(logger, filepath.Join(outputDir, name), out)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processed %d files, %d failed\n", len(files), failed)
	if failed > 0 {
		return errors.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// runBatch calls process for every file on up to workers goroutines. A failing file
// is logged and counted, unless failFast is set, in which case the first failure
// cancels the remaining files and is returned.
func runBatch(ctx context.Context, logger logrus.FieldLogger, files []string, workers int, failFast bool, process func(string) error) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	var failed atomic.Int64
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := process(file)
			if err == nil {
				return nil
			}
			if failFast {
				return errors.Wrap(err, file)
			}

			failed.Add(1)
			logger.WithError(err).WithField("file", file).Error("failed to process file")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(failed.Load()), err
	}
	return int(failed.Load()), nil
}
