// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Callers (the walkthrough binary, the HTTP handlers) should not know or
// care which database they are talking to. By depending only on this
// interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero caller changes.
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
//
// The package also defines the small descriptor types the interface
// speaks in: Filter (a composable predicate over student fields),
// StudentUpdate (a partial field change), AgeShift (a computed bulk
// update), and ListOptions (sorting and limiting).
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-store/internal/types"
)

// Sentinel errors. Callers branch on these with errors.Is rather than
// parsing message strings:
//
//	if errors.Is(err, storage.ErrNotFound) { ... }
//
// Implementations wrap them (fmt.Errorf("...: %w", ErrNotFound)) so the
// message keeps its context while errors.Is still matches.
var (
	// ErrNotFound means a point lookup matched no row. For find-style
	// operations this is a normal outcome, not a failure — callers decide
	// whether it is worth reporting.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateID means an insert collided with an existing primary
	// key. Since ids are caller-assigned, this is always a caller bug or
	// a re-run of a non-idempotent seeding step.
	ErrDuplicateID = errors.New("duplicate student id")
)

// Field names a sortable/filterable column of the students table.
// Using a closed set of constants (instead of raw strings) means a typo
// or an injection attempt can never reach the SQL layer — implementations
// reject anything that is not one of these.
type Field string

const (
	FieldID     Field = "id"
	FieldName   Field = "name"
	FieldAge    Field = "age"
	FieldGender Field = "gender"
)

// Valid reports whether f is one of the known columns.
func (f Field) Valid() bool {
	switch f {
	case FieldID, FieldName, FieldAge, FieldGender:
		return true
	}
	return false
}

// ListOptions controls ordering and result-set size for FindStudents.
// The zero value means: no ordering guarantee, no limit.
type ListOptions struct {
	// SortBy is the column to order by. Empty = unordered.
	SortBy Field

	// Descending sorts high-to-low when true. Ignored unless SortBy is set.
	Descending bool

	// Limit caps the number of returned rows. Zero or negative = no cap.
	Limit int
}

// StudentUpdate describes a partial, in-place change to one student row.
// Pointer fields distinguish "set this to the zero value" from "leave
// this alone": a nil pointer means the column is untouched.
//
//	age := 23
//	storage.StudentUpdate{Age: &age}   // only the age column changes
type StudentUpdate struct {
	Name   *string
	Age    *int
	Gender *string
}

// IsEmpty reports whether the update would change nothing.
// Implementations reject empty updates instead of issuing a no-op UPDATE.
func (u StudentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.Gender == nil
}

// AgeShift is a computed bulk update: age := age + Delta applied to every
// row in one statement. It is deliberately an explicit descriptor (field +
// expression) rather than something clever — age is the only numeric
// column, so the field part is implied.
type AgeShift struct {
	Delta int
}

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// InsertStudents appends the given rows in a single transaction:
	// either every row is stored or none is. A primary-key collision
	// returns an error wrapping ErrDuplicateID.
	InsertStudents(students []types.Student) error

	// GetStudentByID fetches a single student by primary key.
	// Returns an error wrapping ErrNotFound when no row matches.
	GetStudentByID(id int64) (types.Student, error)

	// FindStudent returns the first row matching the filter, in ascending
	// id order (so repeated calls see the same row). Returns an error
	// wrapping ErrNotFound when nothing matches.
	FindStudent(f Filter) (types.Student, error)

	// FindStudents returns every row matching the filter, shaped by opts.
	// Returns an empty slice (not nil) when there are no matches.
	FindStudents(f Filter, opts ListOptions) ([]types.Student, error)

	// CountStudents returns the number of stored rows. Used by callers
	// that need to seed an empty store exactly once.
	CountStudents() (int64, error)

	// UpdateStudentByID applies the partial change to one row and returns
	// the row as now stored. Returns an error wrapping ErrNotFound when
	// the id does not exist.
	UpdateStudentByID(id int64, changes StudentUpdate) (types.Student, error)

	// ShiftAges applies age := age + shift.Delta to every row atomically
	// and returns how many rows were touched.
	ShiftAges(shift AgeShift) (int64, error)

	// DeleteStudentByID removes a row. Deleting an id that does not exist
	// is a no-op, reported through the boolean — not an error.
	DeleteStudentByID(id int64) (deleted bool, err error)
}
