package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/mocktest/internal/quiz"
	"github.com/pavelanni/mocktest/internal/source"
	"github.com/pavelanni/mocktest/internal/stats"
	"github.com/pavelanni/mocktest/internal/store"
)

func addSessionFlags(f *pflag.FlagSet) {
	f.StringP("index", "i", "", "Index document listing question sources (path or URL; default depends on --variant)")
	f.String("variant", string(quiz.VariantMock), "Quiz variant (plain, mock)")
	f.String("state-db", "mocktest.db", "SQLite database for stats and answer history")
	f.Duration("fetch-timeout", 30*time.Second, "Timeout for each index or source fetch (0 disables)")
	f.Int("concurrency", 8, "Maximum sources fetched in parallel")
	f.StringP("lang", "l", "en", "UI language (en, zh-TW)")
}

// newLoader builds the source loader for an index path or URL. Local
// sources are read relative to the index directory.
func newLoader(v *viper.Viper, index string) (*source.Loader, error) {
	fetcher := source.MuxFetcher{
		HTTP: source.NewHTTPFetcher(source.HTTPConfig{}),
	}
	locator := index
	if !strings.HasPrefix(index, "http://") && !strings.HasPrefix(index, "https://") {
		abs, err := filepath.Abs(index)
		if err != nil {
			return nil, fmt.Errorf("resolve index path: %w", err)
		}
		fetcher.Files = source.FSFetcher{FS: os.DirFS(filepath.Dir(abs))}
		locator = filepath.Base(abs)
	}
	return source.New(source.Config{
		Index:       locator,
		Fetcher:     fetcher,
		Timeout:     v.GetDuration("fetch-timeout"),
		Concurrency: v.GetInt("concurrency"),
		Logger:      slog.Default(),
	}), nil
}

// buildSession wires the loader, the stats store and the history recorder for
// the selected variant. The returned store is nil in the plain variant.
func buildSession(v *viper.Viper, observer quiz.Observer) (*quiz.Session, *store.Store, error) {
	variant, err := quiz.ParseVariant(v.GetString("variant"))
	if err != nil {
		return nil, nil, err
	}
	index := v.GetString("index")
	if index == "" {
		index = variant.DefaultIndex()
	}
	loader, err := newLoader(v, index)
	if err != nil {
		return nil, nil, err
	}

	id := uuid.Must(uuid.NewV7()).String()
	opts := []quiz.Option{quiz.WithID(id), quiz.WithLogger(slog.Default())}
	observers := quiz.Observers{observer}

	var db *store.Store
	if variant.TracksStats() {
		db, err = store.New(v.GetString("state-db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open state database: %w", err)
		}
		if err := db.CleanupExpired(); err != nil {
			slog.Warn("cleanup expired state failed", "error", err)
		}
		opts = append(opts, quiz.WithStats(stats.Load(db, slog.Default())))
		observers = append(observers, quiz.NewHistoryObserver(id, db, slog.Default()))
	}
	opts = append(opts, quiz.WithObserver(observers))

	slog.Info("session configured",
		"variant", variant,
		"index", index,
		"fetch_timeout", v.GetDuration("fetch-timeout"),
		"concurrency", v.GetInt("concurrency"),
	)
	return quiz.New(loader, opts...), db, nil
}

func closeStore(db *store.Store) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Warn("close state database", "error", err)
	}
}
