// Package walkthrough runs the tutorial session against a student
// record store: seed, point update, bulk update, delete, a handful of
// filter queries, a sorted top-N, and a final table dump.
//
// It lives in its own package (rather than inline in the binary's main)
// so the whole session is testable end to end: Run takes the store and
// an io.Writer, and the test hands it an in-memory buffer instead of
// os.Stdout.
package walkthrough

import (
	"errors"
	"fmt"
	"io"

	"github.com/aanand-mishra/student-store/internal/storage"
	"github.com/aanand-mishra/student-store/internal/types"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Seed is the canonical starting roster. Exported so tests (and anyone
// scripting against the store) can assert against the same data.
var Seed = []types.Student{
	{ID: 1, Name: "Jay Mondal", Age: 22, Gender: "M"},
	{ID: 2, Name: "Aditi Chakraborty", Age: 21, Gender: "F"},
	{ID: 3, Name: "Joyabrata Mondal", Age: 21, Gender: "M"},
	{ID: 4, Name: "Chandan Das", Age: 22, Gender: "M"},
	{ID: 5, Name: "Dipanjan Mondal", Age: 22, Gender: "M"},
}

// Run executes the full session once, top to bottom, writing one
// human-readable block per step to w. The first error aborts the run and
// propagates to the caller — there is no retry or partial recovery here.
func Run(store storage.Storage, w io.Writer) error {
	if err := seed(store, w); err != nil {
		return err
	}
	if err := updateOne(store, w); err != nil {
		return err
	}
	if err := shiftAges(store, w); err != nil {
		return err
	}
	if err := deleteOne(store, w); err != nil {
		return err
	}
	if err := filterDemos(store, w); err != nil {
		return err
	}
	if err := topOldest(store, w); err != nil {
		return err
	}
	return finalTable(store, w)
}

// seed inserts the canonical roster, but only into an empty store.
// Counting first makes the step idempotent: re-running the walkthrough
// against an existing students.db never trips the duplicate-id error.
func seed(store storage.Storage, w io.Writer) error {
	count, err := store.CountStudents()
	if err != nil {
		return fmt.Errorf("walkthrough: count students: %w", err)
	}
	if count > 0 {
		fmt.Fprintf(w, "Store already holds %d students, skipping seed\n", count)
		return nil
	}

	if err := store.InsertStudents(Seed); err != nil {
		return fmt.Errorf("walkthrough: seed: %w", err)
	}
	fmt.Fprintf(w, "Seeded %d students\n", len(Seed))
	return nil
}

// updateOne finds Jay Mondal and sets his age to 23 — the single-row,
// single-field update. If he is gone (someone deleted him in an earlier
// session), that is reported and the step is skipped, not failed.
func updateOne(store storage.Storage, w io.Writer) error {
	student, err := store.FindStudent(storage.NameIs("Jay Mondal"))
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(w, "Jay Mondal not found, skipping single-row update")
		return nil
	}
	if err != nil {
		return fmt.Errorf("walkthrough: find Jay Mondal: %w", err)
	}

	age := 23
	updated, err := store.UpdateStudentByID(student.ID, storage.StudentUpdate{Age: &age})
	if err != nil {
		return fmt.Errorf("walkthrough: update Jay Mondal: %w", err)
	}
	fmt.Fprintf(w, "Updated Jay Mondal's age to %d\n", updated.Age)
	return nil
}

// shiftAges increases every student's age by 1 in a single statement —
// the computed bulk update (age := age + 1).
func shiftAges(store storage.Storage, w io.Writer) error {
	affected, err := store.ShiftAges(storage.AgeShift{Delta: 1})
	if err != nil {
		return fmt.Errorf("walkthrough: shift ages: %w", err)
	}
	fmt.Fprintf(w, "Increased age of all %d students by 1\n", affected)
	return nil
}

// deleteOne removes Dipanjan Mondal's record. Absence at either stage
// (lookup or delete) is an ordinary no-op, reported rather than failed.
func deleteOne(store storage.Storage, w io.Writer) error {
	student, err := store.FindStudent(storage.NameIs("Dipanjan Mondal"))
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(w, "Dipanjan Mondal not found, nothing to delete")
		return nil
	}
	if err != nil {
		return fmt.Errorf("walkthrough: find Dipanjan Mondal: %w", err)
	}

	deleted, err := store.DeleteStudentByID(student.ID)
	if err != nil {
		return fmt.Errorf("walkthrough: delete Dipanjan Mondal: %w", err)
	}
	if deleted {
		fmt.Fprintln(w, "Deleted record for Dipanjan Mondal")
	} else {
		fmt.Fprintln(w, "Dipanjan Mondal was already gone")
	}
	return nil
}

// filterDemos runs the three query shapes: a comparison, a prefix match,
// and a boolean OR composition.
func filterDemos(store storage.Storage, w io.Writer) error {
	older, err := store.FindStudents(storage.AgeGreaterThan(22), storage.ListOptions{})
	if err != nil {
		return fmt.Errorf("walkthrough: filter age > 22: %w", err)
	}
	fmt.Fprintln(w, "\nStudents older than 22:")
	for _, s := range older {
		fmt.Fprintf(w, "  %s %d\n", s.Name, s.Age)
	}

	withJ, err := store.FindStudents(storage.NameHasPrefix("J"), storage.ListOptions{})
	if err != nil {
		return fmt.Errorf("walkthrough: filter name prefix J: %w", err)
	}
	fmt.Fprintln(w, "\nStudents whose name starts with 'J':")
	for _, s := range withJ {
		fmt.Fprintf(w, "  %s %d\n", s.Name, s.Age)
	}

	maleOrYoung, err := store.FindStudents(
		storage.Or(storage.GenderIs("M"), storage.AgeLessThan(22)),
		storage.ListOptions{},
	)
	if err != nil {
		return fmt.Errorf("walkthrough: filter male or age < 22: %w", err)
	}
	fmt.Fprintln(w, "\nMale students or age less than 22:")
	for _, s := range maleOrYoung {
		fmt.Fprintf(w, "  %s %d %s\n", s.Name, s.Age, s.Gender)
	}

	return nil
}

// topOldest shows sorting and limiting: the three oldest students,
// highest age first.
func topOldest(store storage.Storage, w io.Writer) error {
	top, err := store.FindStudents(storage.All(), storage.ListOptions{
		SortBy:     storage.FieldAge,
		Descending: true,
		Limit:      3,
	})
	if err != nil {
		return fmt.Errorf("walkthrough: top 3 oldest: %w", err)
	}

	fmt.Fprintln(w, "\nTop 3 oldest students:")
	for _, s := range top {
		fmt.Fprintf(w, "  %s %d\n", s.Name, s.Age)
	}
	return nil
}

// finalTable dumps every remaining row, ordered by id, as a text table.
func finalTable(store storage.Storage, w io.Writer) error {
	students, err := store.FindStudents(storage.All(), storage.ListOptions{
		SortBy: storage.FieldID,
	})
	if err != nil {
		return fmt.Errorf("walkthrough: final listing: %w", err)
	}

	fmt.Fprintln(w, "\nFinal student table:")
	if len(students) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"id", "name", "age", "gender"})
	for _, s := range students {
		t.AppendRow(table.Row{s.ID, s.Name, s.Age, s.Gender})
	}
	t.Render()
	return nil
}
