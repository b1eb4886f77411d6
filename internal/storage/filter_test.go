package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Empty(t *testing.T) {
	f := All()

	assert.True(t, f.IsEmpty())

	clause, args := f.Clause()
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestFilter_Equality(t *testing.T) {
	clause, args := NameIs("Jay Mondal").Clause()
	assert.Equal(t, "name = ?", clause)
	assert.Equal(t, []any{"Jay Mondal"}, args)

	clause, args = GenderIs("M").Clause()
	assert.Equal(t, "gender = ?", clause)
	assert.Equal(t, []any{"M"}, args)
}

func TestFilter_Comparisons(t *testing.T) {
	clause, args := AgeGreaterThan(22).Clause()
	assert.Equal(t, "age > ?", clause)
	assert.Equal(t, []any{22}, args)

	clause, args = AgeLessThan(22).Clause()
	assert.Equal(t, "age < ?", clause)
	assert.Equal(t, []any{22}, args)
}

func TestFilter_NameHasPrefix(t *testing.T) {
	clause, args := NameHasPrefix("J").Clause()
	assert.Equal(t, `name LIKE ? ESCAPE '\'`, clause)
	assert.Equal(t, []any{"J%"}, args)
}

func TestFilter_NameHasPrefix_EscapesWildcards(t *testing.T) {
	// A prefix containing LIKE metacharacters must match literally,
	// not as wildcards.
	_, args := NameHasPrefix("100%_J").Clause()
	assert.Equal(t, []any{`100\%\_J%`}, args)
}

func TestFilter_Or(t *testing.T) {
	f := Or(GenderIs("M"), AgeLessThan(22))

	clause, args := f.Clause()
	assert.Equal(t, "(gender = ?) OR (age < ?)", clause)
	assert.Equal(t, []any{"M", 22}, args)
}

func TestFilter_And(t *testing.T) {
	f := And(GenderIs("F"), AgeGreaterThan(20), NameHasPrefix("A"))

	clause, args := f.Clause()
	assert.Equal(t, `(gender = ?) AND (age > ?) AND (name LIKE ? ESCAPE '\')`, clause)
	assert.Equal(t, []any{"F", 20, "A%"}, args)
}

func TestFilter_NestedComposition(t *testing.T) {
	// Or(a, And(b, c)) must keep its grouping when compiled.
	f := Or(NameIs("Jay Mondal"), And(GenderIs("M"), AgeLessThan(22)))

	clause, args := f.Clause()
	assert.Equal(t, "(name = ?) OR ((gender = ?) AND (age < ?))", clause)
	assert.Equal(t, []any{"Jay Mondal", "M", 22}, args)
}

func TestFilter_CombineSkipsEmpty(t *testing.T) {
	// Empty children disappear; a single survivor is returned as-is,
	// with no stray parentheses or operators.
	f := And(All(), AgeGreaterThan(22), All())

	clause, args := f.Clause()
	assert.Equal(t, "age > ?", clause)
	assert.Equal(t, []any{22}, args)

	assert.True(t, And().IsEmpty())
	assert.True(t, Or(All(), All()).IsEmpty())
}

func TestField_Valid(t *testing.T) {
	for _, f := range []Field{FieldID, FieldName, FieldAge, FieldGender} {
		assert.True(t, f.Valid(), "field %q", f)
	}

	assert.False(t, Field("").Valid())
	assert.False(t, Field("age; DROP TABLE students").Valid())
}

func TestStudentUpdate_IsEmpty(t *testing.T) {
	assert.True(t, StudentUpdate{}.IsEmpty())

	age := 23
	assert.False(t, StudentUpdate{Age: &age}.IsEmpty())
}
