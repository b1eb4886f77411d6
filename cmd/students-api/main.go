// main is the entry point of the Students API server — the HTTP surface
// over the same student record store the walkthrough binary uses.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file, env vars, or built-in defaults)
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or with environment variables only:
//
//	STORAGE_PATH=students.db go run ./cmd/students-api
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-store/internal/config"
	"github.com/aanand-mishra/student-store/internal/http/handlers/student"
	"github.com/aanand-mishra/student-store/internal/logger"
	"github.com/aanand-mishra/student-store/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config (or falls back to defaults) and
	// fatals if anything is wrong. If this returns, config is valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger. Structured logging writes key=value
	// pairs rather than plain strings, making logs easy to filter/search.
	log := logger.Setup(cfg.Env)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	// sqlite.New opens the SQLite file and creates the students table.
	// We store the result as the storage.Storage INTERFACE, not *sqlite.SQLite,
	// so the rest of the code never depends on the concrete backend.
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// The handler functions (student.New, student.GetByID, etc.) are
	// FACTORIES — they receive `store` and return the actual handler.
	//
	// Route table:
	//   POST   /api/students            → create a new student (caller-assigned id)
	//   GET    /api/students            → list students (filter/sort/limit via query params)
	//   GET    /api/students/{id}       → get one student by ID
	//   PUT    /api/students/{id}       → partial-update a student
	//   DELETE /api/students/{id}       → delete a student
	//   POST   /api/students/shift-age  → bulk age := age + delta
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))
	router.HandleFunc("POST /api/students/shift-age", student.ShiftAge(store))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: router,

		// Production hardening — timeouts prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever. If we called it here in main(), the
	// graceful-shutdown code below would never run.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — not an error worth logging.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered channel of size 1 so we don't miss the signal if main is
	// briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests up to 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
