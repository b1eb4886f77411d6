// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly. We do reference
// the package by name in one place: its sqlite3.Error type is how we
// recognise a primary-key collision and translate it into the storage
// package's ErrDuplicateID sentinel.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-store/internal/config"
	"github.com/aanand-mishra/student-store/internal/storage"
	"github.com/aanand-mishra/student-store/internal/types"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// compile-time check: *SQLite must satisfy the full Storage contract.
var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the students table if it does not already exist, and returns
// a ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN). The first actual
	// connection happens on the first query, so a bad path surfaces as
	// a "store unavailable" error from the Ping below, not from Open.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Force one real connection now so an unwritable or unreachable
	// storage path fails loudly at startup instead of on first use.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: store unavailable at %s: %w", cfg.StoragePath, err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	//
	// Schema:
	//   id     — integer primary key, assigned by the caller (no
	//            AUTOINCREMENT: the application owns id assignment, the
	//            database only enforces uniqueness)
	//   name   — student's full name
	//   age    — student's age in years
	//   gender — single character, 'M' or 'F'
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			gender TEXT    NOT NULL CHECK (length(gender) = 1)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection pool. Call it when the
// process is done with the store; SQLite flushes committed data as part
// of each commit, so there is nothing else to sync here.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// isDuplicateID reports whether err is SQLite telling us the primary key
// already exists. The mattn driver exposes constraint failures through
// its sqlite3.Error type with an extended result code.
func isDuplicateID(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ─────────────────────────────────────────────────────────────────────────────
// InsertStudents appends the given rows inside one transaction.
//
// WHY A TRANSACTION?
// ──────────────────
// The contract says "all rows or none". Inserting row-by-row without a
// transaction could leave the table half-populated if row 3 of 5 collides
// with an existing id. BEGIN…COMMIT makes the whole batch atomic: the
// deferred Rollback is a no-op after a successful Commit and undoes
// everything on any earlier return.
//
// The ? placeholders keep values out of the SQL text entirely, so a name
// like "O'Brien" (or something far nastier) can never break the query.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) InsertStudents(students []types.Student) error {
	if len(students) == 0 {
		return nil
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("InsertStudents: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO students (id, name, age, gender) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("InsertStudents: prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range students {
		if _, err := stmt.Exec(st.ID, st.Name, st.Age, st.Gender); err != nil {
			if isDuplicateID(err) {
				return fmt.Errorf("InsertStudents: id %d: %w", st.ID, storage.ErrDuplicateID)
			}
			return fmt.Errorf("InsertStudents: exec id %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("InsertStudents: commit: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRow executes the query and returns a *Row — a single-row result.
// Scan reads the columns from that row into Go variables IN ORDER; we
// pass pointers so Scan can write into them. sql.ErrNoRows is the
// sentinel for "nothing matched"; we translate it to storage.ErrNotFound
// so callers never see database/sql internals.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	var student types.Student

	err := s.Db.QueryRow(
		"SELECT id, name, age, gender FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.Age, &student.Gender)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// FindStudent returns the first row matching the filter.
//
// "First" is pinned to ascending primary-key order so two identical calls
// always see the same row — SQLite would otherwise be free to return rows
// in whatever order the storage layout suggests.
func (s *SQLite) FindStudent(f storage.Filter) (types.Student, error) {
	query := "SELECT id, name, age, gender FROM students"
	clause, args := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY id LIMIT 1"

	var student types.Student
	err := s.Db.QueryRow(query, args...).Scan(
		&student.ID, &student.Name, &student.Age, &student.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("FindStudent: %w", storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("FindStudent: scan: %w", err)
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindStudents returns every row matching the filter, shaped by opts.
//
// The WHERE fragment and its arguments come pre-compiled from the Filter;
// ORDER BY and LIMIT are assembled here. Note that the sort column is
// validated against the Field whitelist — it is interpolated into the SQL
// text (placeholders cannot hold column names), so only known constants
// may pass.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) FindStudents(f storage.Filter, opts storage.ListOptions) ([]types.Student, error) {
	query := "SELECT id, name, age, gender FROM students"
	clause, args := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
	}

	if opts.SortBy != "" {
		if !opts.SortBy.Valid() {
			return nil, fmt.Errorf("FindStudents: unknown sort field %q", opts.SortBy)
		}
		direction := "ASC"
		if opts.Descending {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", opts.SortBy, direction)
	}

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.Db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("FindStudents: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() { // advances cursor; returns false when exhausted
		var student types.Student
		if err := rows.Scan(
			&student.ID, &student.Name, &student.Age, &student.Gender,
		); err != nil {
			return nil, fmt.Errorf("FindStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindStudents: rows iteration: %w", err)
	}

	return students, nil
}

// CountStudents returns how many rows the table currently holds.
func (s *SQLite) CountStudents() (int64, error) {
	var count int64
	if err := s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return 0, fmt.Errorf("CountStudents: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID applies a partial change to one row.
//
// The SET clause is assembled from whichever pointer fields are non-nil,
// so "change only the age" issues UPDATE students SET age = ? — the other
// columns are never mentioned, never rewritten. Column names come from
// this function's own literals, values ride as placeholders.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(id int64, changes storage.StudentUpdate) (types.Student, error) {
	if changes.IsEmpty() {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: no fields to update", id)
	}

	var sets []string
	var args []any

	if changes.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *changes.Name)
	}
	if changes.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *changes.Age)
	}
	if changes.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, *changes.Gender)
	}
	args = append(args, id)

	result, err := s.Db.Exec(
		"UPDATE students SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetStudentByID(id)
}

// ShiftAges applies age := age + delta to every row in one UPDATE.
// A single statement is already atomic in SQLite — either every row gets
// the new age or the statement fails and none do.
func (s *SQLite) ShiftAges(shift storage.AgeShift) (int64, error) {
	result, err := s.Db.Exec("UPDATE students SET age = age + ?", shift.Delta)
	if err != nil {
		return 0, fmt.Errorf("ShiftAges: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ShiftAges: rows affected: %w", err)
	}
	return affected, nil
}

// DeleteStudentByID removes a student row by primary key.
//
// Deleting an id that is not there is NOT an error — the second return
// value tells the caller whether anything actually happened, and they
// can report the no-op however suits their surface (log line, HTTP body).
func (s *SQLite) DeleteStudentByID(id int64) (bool, error) {
	result, err := s.Db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	return affected > 0, nil
}
