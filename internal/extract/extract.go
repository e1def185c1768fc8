// Package extract turns exam text files into question documents and
// summarizes the documents it produced.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pavelanni/mocktest/internal/model"
)

// OutputSuffix replaces the input extension in output file names.
const OutputSuffix = "_structured_output.json"

// ProblemExtractor produces a question document from exam text.
type ProblemExtractor interface {
	ExtractProblems(ctx context.Context, sourceName, text string) (model.QuestionDocument, error)
}

// Extractor writes one question document per input file.
type Extractor struct {
	client ProblemExtractor
	outDir string
	logger *slog.Logger
}

// Summary counts the outcome of a Run.
type Summary struct {
	Written []string
	Skipped []string
	Failed  map[string]error
}

// New creates an Extractor writing into outDir.
func New(client ProblemExtractor, outDir string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, outDir: outDir, logger: logger}
}

// OutputName maps an input path to its output file name.
func OutputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputSuffix
}

// Inputs lists the regular files of dir in name order.
func Inputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

// Run processes paths one at a time. Inputs whose output already exists are
// skipped; a failing input is recorded and does not stop the run. Run only
// returns an error when the output directory is unusable or ctx ends.
func (e *Extractor) Run(ctx context.Context, paths []string) (Summary, error) {
	sum := Summary{Failed: make(map[string]error)}
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output dir: %w", err)
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		out := filepath.Join(e.outDir, OutputName(path))
		logger := e.logger.With("input", path, "output", out)

		if _, err := os.Stat(out); err == nil {
			logger.Info("output exists, skipping")
			sum.Skipped = append(sum.Skipped, path)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			sum.Failed[path] = err
			continue
		}

		logger.Info("extracting", "file", i+1, "of", len(paths))
		n, err := e.extractOne(ctx, path, out)
		if err != nil {
			logger.Error("extraction failed", "error", err)
			sum.Failed[path] = err
			continue
		}
		logger.Info("wrote question document", "problems", n)
		sum.Written = append(sum.Written, out)
	}
	return sum, nil
}

func (e *Extractor) extractOne(ctx context.Context, path, out string) (int, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	doc, err := e.client.ExtractProblems(ctx, filepath.Base(path), string(text))
	if err != nil {
		return 0, err
	}
	if err := writeDocument(out, doc); err != nil {
		return 0, err
	}
	return len(doc.Problems), nil
}

// writeDocument writes through a temp file; a partial document never
// appears under the final name.
func writeDocument(path string, doc model.QuestionDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
