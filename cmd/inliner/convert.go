package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssinliner/internal/server"
	"cssinliner/pkg/inliner"
)

var errEmptyHTML = errors.New("empty HTML input")

// source is one HTML input and where its result goes.
type source struct {
	path string // empty for STDIN
	out  string // empty for STDOUT
}

func (s source) name() string {
	if s.path == "" {
		return "<stdin>"
	}
	return s.path
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	cssText, err := readStylesheets(cmd.StringSlice("css"))
	if err != nil {
		return err
	}

	opts := inliner.Options{
		BodyOnly:         env.Cfg.Conversion.BodyOnly,
		RemoveWhitespace: env.Cfg.Conversion.RemoveWhitespace,
		UseTemplateCSS:   env.Cfg.Conversion.UseTemplateCSS,
	}
	if cmd.IsSet("body-only") {
		opts.BodyOnly = cmd.Bool("body-only")
	}
	if cmd.IsSet("minify") {
		opts.RemoveWhitespace = cmd.Bool("minify")
	}
	if cmd.IsSet("template") {
		opts.UseTemplateCSS = cmd.Bool("template")
	}

	sources, err := collectSources(cmd.Args().Slice(), cmd.String("out"), cmd.String("out-dir"))
	if err != nil {
		return err
	}

	in, err := env.newInliner(cmd.String("engine"))
	if err != nil {
		return err
	}

	var (
		errs     error
		done     int
		elements int
	)
	for i, src := range sources {
		env.Log.Debug("Converting", zap.Int("n", i+1), zap.Int("of", len(sources)), zap.String("source", src.name()))

		result, err := convertOne(ctx, in, src, cssText, opts)
		if err != nil {
			if len(sources) == 1 {
				return err
			}
			env.Log.Warn("Conversion failed", zap.String("source", src.name()), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		done++
		elements += result.Elements

		if cmd.Bool("stats") {
			env.Log.Info("Converted",
				zap.String("source", src.name()),
				zap.Int("elements", result.Elements),
				zap.Int("declarations", result.Declarations),
				zap.Duration("elapsed", result.Duration))
		}
	}

	if len(sources) > 1 {
		env.Log.Info("Batch finished",
			zap.Int("files", len(sources)),
			zap.Int("converted", done),
			zap.Int("elements", elements))
	}
	return errs
}

func convertOne(ctx context.Context, in *inliner.Inliner, src source, cssText string, opts inliner.Options) (*inliner.Result, error) {
	htmlText, err := readInput(src.path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(htmlText) == "" {
		return nil, fmt.Errorf("%s: %w", src.name(), errEmptyHTML)
	}

	result, err := in.Convert(ctx, htmlText, cssText, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to inline CSS: %w", src.name(), err)
	}
	if src.out != "" {
		if err := os.MkdirAll(filepath.Dir(src.out), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := writeOutput(result.HTML, src.out); err != nil {
		return nil, fmt.Errorf("%s: failed to write output: %w", src.name(), err)
	}
	return result, nil
}

// collectSources expands arguments into inputs and pairs each with its
// destination. Directories contribute every HTML file under them.
func collectSources(args []string, out, outDir string) ([]source, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	if out != "" && outDir != "" {
		return nil, fmt.Errorf("cannot specify both --out and --out-dir")
	}

	var sources []source
	for _, arg := range args {
		if arg == "-" {
			sources = append(sources, source{})
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to access source: %w", err)
		}
		if !info.IsDir() {
			sources = append(sources, source{path: arg, out: destination(outDir, filepath.Base(arg))})
			continue
		}
		if outDir == "" {
			return nil, fmt.Errorf("--out-dir required when converting directory '%s'", arg)
		}
		files, err := findHTMLFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to find HTML files: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no HTML files found in directory: %s", arg)
		}
		for _, f := range files {
			rel, err := filepath.Rel(arg, f)
			if err != nil {
				return nil, err
			}
			sources = append(sources, source{path: f, out: destination(outDir, rel)})
		}
	}

	if len(sources) > 1 && outDir == "" {
		return nil, fmt.Errorf("--out-dir required for several sources")
	}
	if len(sources) == 1 && out != "" {
		sources[0].out = out
	}
	return sources, nil
}

func destination(outDir, rel string) string {
	if outDir == "" {
		return ""
	}
	return filepath.Join(outDir, rel)
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	cssText, err := readStylesheets(cmd.StringSlice("css"))
	if err != nil {
		return err
	}
	opts := inliner.Options{
		BodyOnly:       env.Cfg.Conversion.BodyOnly,
		UseTemplateCSS: env.Cfg.Conversion.UseTemplateCSS,
	}
	if cmd.IsSet("template") {
		opts.UseTemplateCSS = cmd.Bool("template")
	}
	if cmd.IsSet("body-only") {
		opts.BodyOnly = cmd.Bool("body-only")
	}

	path := cmd.Args().Get(0)
	if path == "-" {
		path = ""
	}
	htmlText, err := readInput(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(htmlText) == "" {
		return errEmptyHTML
	}

	var in *inliner.Inliner
	if cmd.Bool("inline") {
		if in, err = env.newInliner(cmd.String("engine")); err != nil {
			return err
		}
	}
	out, err := renderPreview(ctx, in, htmlText, cssText, opts)
	if err != nil {
		return err
	}
	return writeOutput(out, cmd.String("out"))
}

// renderPreview returns a document that can be opened on its own. Without an
// inliner the stylesheet is embedded as is, otherwise htmlText is converted
// first and the result is wrapped when it is a fragment.
func renderPreview(ctx context.Context, in *inliner.Inliner, htmlText, cssText string, opts inliner.Options) (string, error) {
	if in == nil {
		if opts.UseTemplateCSS {
			cssText = inliner.TemplateCSS + "\n" + cssText
		}
		return inliner.Preview(htmlText, cssText), nil
	}

	result, err := in.Convert(ctx, htmlText, cssText, opts)
	if err != nil {
		return "", fmt.Errorf("failed to inline CSS: %w", err)
	}
	fragment := opts.BodyOnly || !inliner.IsFullDocument(htmlText)
	return inliner.InlinePreview(result.HTML, fragment), nil
}

func runTemplate(_ context.Context, cmd *cli.Command) error {
	return writeOutput(inliner.TemplateCSS, cmd.Args().Get(0))
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	cfg := env.Cfg.Server
	if cmd.IsSet("listen") {
		cfg.Listen = cmd.String("listen")
	}
	in, err := env.newInliner(cmd.String("engine"))
	if err != nil {
		return err
	}
	return server.New(in, cfg, env.Cfg.Conversion, env.Log).Run(ctx)
}

// readStylesheets concatenates stylesheet files in order.
func readStylesheets(paths []string) (string, error) {
	var b strings.Builder
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("failed to read stylesheet %s: %w", p, err)
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.Write(data)
	}
	return b.String(), nil
}

// readInput reads a file, or STDIN for an empty path.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes content to a file or stdout
func writeOutput(content, filename string) error {
	if filename == "" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

// findHTMLFiles finds all HTML files in a directory
func findHTMLFiles(dir string) ([]string, error) {
	var htmlFiles []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".html" || ext == ".htm" {
				htmlFiles = append(htmlFiles, path)
			}
		}
		return nil
	})

	return htmlFiles, err
}
