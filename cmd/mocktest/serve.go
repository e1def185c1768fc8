package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pavelanni/mocktest/internal/handler"
	"github.com/pavelanni/mocktest/internal/i18n"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz page",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", "127.0.0.1:8080", "HTTP listen address")
	addSessionFlags(f)
	f.String("password", "", "Require this password via basic auth (or set MOCKTEST_PASSWORD)")
	f.Bool("secure-cookies", false, "Set Secure flag on cookies (enable behind HTTPS)")
	addLogFlags(f)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd, os.Stderr)
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	lang := v.GetString("lang")
	if err := i18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	status := &handler.Status{}
	session, db, err := buildSession(v, status)
	if err != nil {
		return err
	}
	defer closeStore(db)

	// The page reports load failures and offers a reload, so the server starts anyway.
	if err := session.Start(ctx); err != nil {
		slog.Warn("initial load failed", "error", err)
	}

	cfg := handler.Config{SecureCookies: v.GetBool("secure-cookies")}
	if pw := v.GetString("password"); pw != "" {
		hash, err := handler.HashPassword(pw)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		cfg.PasswordHash = hash
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(lang))
	handler.New(session, status, cfg).Routes(r)

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
	}()

	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"session_id", session.ID(),
		"stats", session.TracksStats(),
		"auth", len(cfg.PasswordHash) > 0,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
