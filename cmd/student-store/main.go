// main is the entry point of the student-store walkthrough — a one-shot
// program that opens (or creates) the SQLite-backed student record store
// and runs a full session against it: seed, update one row, bulk-update
// every row, delete a row, run filter queries, sort-and-limit, and print
// the final table.
//
// The process runs top to bottom exactly once:
//   - exit 0  — every step completed
//   - exit 1  — a store error surfaced; a diagnostic is logged first
//
// RUNNING IT:
//
//	go run ./cmd/student-store
//
// With no configuration it writes students.db in the current directory.
// Point it elsewhere with STORAGE_PATH or a --config YAML file.
package main

import (
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-store/internal/config"
	"github.com/aanand-mishra/student-store/internal/logger"
	"github.com/aanand-mishra/student-store/internal/storage/sqlite"
	"github.com/aanand-mishra/student-store/internal/walkthrough"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("opening student store",
		slog.String("env", cfg.Env),
		slog.String("path", cfg.StoragePath),
	)

	// sqlite.New opens the database file and creates the students table
	// if it is missing. A path that cannot be opened or created is the
	// one startup failure this program has.
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("store unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// The session itself is ordinary sequential code: the first failing
	// step aborts the run. Step output goes straight to stdout.
	if err := walkthrough.Run(store, os.Stdout); err != nil {
		log.Error("walkthrough failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("walkthrough complete")
}
