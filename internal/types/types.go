// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "fmt"

// Student represents one row of the students table.
//
// The ID is caller-assigned (it is NOT auto-incremented): whoever inserts
// a student decides its id, and the store enforces uniqueness through the
// primary-key constraint. This mirrors how roll numbers work in practice —
// the institution assigns them, the database only guards them.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means non-zero / non-empty; "gt=0" means the
//     value must be positive; "oneof=M F" restricts gender to a single
//     known character.
type Student struct {
	ID     int64  `json:"id"     validate:"required,gt=0"`
	Name   string `json:"name"   validate:"required"`
	Age    int    `json:"age"    validate:"required,gt=0"`
	Gender string `json:"gender" validate:"required,oneof=M F"`
}

// String implements fmt.Stringer so a Student prints as a single
// readable line:
//
//	<Student(id=1, name='Jay Mondal', age=22, gender='M')>
//
// fmt.Println(student) picks this up automatically — no need to format
// fields by hand at every call site.
func (s Student) String() string {
	return fmt.Sprintf("<Student(id=%d, name='%s', age=%d, gender='%s')>",
		s.ID, s.Name, s.Age, s.Gender)
}
