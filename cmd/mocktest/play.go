package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/mocktest/internal/i18n"
	"github.com/pavelanni/mocktest/internal/ui/tui"
)

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Practice in the terminal",
		RunE:  runPlay,
	}
	f := cmd.Flags()
	addSessionFlags(f)
	f.Bool("no-color", false, "Disable colors (default when stdout is not a terminal)")
	f.String("log-file", "", "Write logs to this file (the terminal UI owns stdout and stderr)")
	addLogFlags(f)
	return cmd
}

func runPlay(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	var logOut io.Writer = io.Discard
	if path := v.GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(cmd, logOut)

	lang := v.GetString("lang")
	if err := i18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	ctrl := tui.NewController()
	session, db, err := buildSession(v, ctrl)
	if err != nil {
		return err
	}
	defer closeStore(db)

	out := cmd.OutOrStdout()
	return tui.Run(cmd.Context(), session, ctrl, cmd.InOrStdin(), out, tui.Options{
		NoColor: v.GetBool("no-color") || !tui.ShouldUseColor(out),
		Lang:    lang,
	})
}
