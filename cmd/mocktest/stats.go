package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/mocktest/internal/stats"
	"github.com/pavelanni/mocktest/internal/store"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the persisted accuracy",
		RunE:  runStats,
	}
	f := cmd.Flags()
	f.String("state-db", "mocktest.db", "SQLite database for stats and answer history")
	f.Bool("reset", false, "Reset the counts to zero")
	f.Bool("json", false, "Print the stats as JSON")
	addLogFlags(f)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the answer history as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("state-db", "mocktest.db", "SQLite database for stats and answer history")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(f)
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("state-db"))
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer closeStore(db)

	tracker := stats.Load(db, slog.Default())
	if v.GetBool("reset") {
		if err := tracker.Reset(); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		slog.Info("stats reset")
	}

	view := tracker.Stats().View()
	out := cmd.OutOrStdout()
	if v.GetBool("json") {
		return writeJSON(out, view)
	}
	_, err = fmt.Fprintf(out, "correct/total: %d/%d accuracy: %.1f%%\n", view.Correct, view.Total, view.Accuracy)
	return err
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("state-db"))
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer closeStore(db)

	export, err := db.ExportHistory(stats.Load(db, slog.Default()).Stats())
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeJSON(w, export); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("exported history", "answers", len(export.Answers), "sessions", export.Sessions, "output", outPath)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	// Ensure trailing newline.
	_, err = fmt.Fprintln(w)
	return err
}
