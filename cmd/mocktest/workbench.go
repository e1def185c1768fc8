package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/mocktest/internal/extract"
	"github.com/pavelanni/mocktest/internal/llm"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Summarize extracted question documents",
		Long:  "Prints one line per JSON document in dir: problem count, year-exam_number and source of the first problem.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	addLogFlags(cmd.Flags())
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [input-dir]",
		Short: "Convert exam text files into question documents with an LLM",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}
	f := cmd.Flags()
	f.String("out-dir", "json", "Directory for <name>_structured_output.json files")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Int("expected-count", 50, "Questions per paper announced to the model (0 = unknown)")
	addLogFlags(f)
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	setupLogging(cmd, os.Stderr)
	dir := "out"
	if len(args) > 0 {
		dir = args[0]
	}

	infos, failed, err := extract.Inspect(os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", dir, err)
	}
	for name, err := range failed {
		slog.Warn("unreadable document", "path", name, "error", err)
	}
	return extract.WriteReport(cmd.OutOrStdout(), infos)
}

func runExtract(cmd *cobra.Command, args []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	inDir := "pdfs"
	if len(args) > 0 {
		inDir = args[0]
	}
	paths, err := extract.Inputs(inDir)
	if err != nil {
		return err
	}

	client := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
		v.GetInt("expected-count"),
	)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))

	sum, err := extract.New(client, v.GetString("out-dir"), slog.Default()).Run(ctx, paths)
	if err != nil {
		return err
	}
	slog.Info("extraction finished",
		"inputs", len(paths),
		"written", len(sum.Written),
		"skipped", len(sum.Skipped),
		"failed", len(sum.Failed),
	)
	if len(sum.Failed) > 0 {
		return fmt.Errorf("%d of %d inputs failed", len(sum.Failed), len(paths))
	}
	return nil
}
