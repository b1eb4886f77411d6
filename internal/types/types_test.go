package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudent_String(t *testing.T) {
	s := Student{ID: 1, Name: "Jay Mondal", Age: 22, Gender: "M"}

	assert.Equal(t,
		"<Student(id=1, name='Jay Mondal', age=22, gender='M')>",
		s.String())

	// fmt picks the Stringer up automatically.
	assert.Equal(t, s.String(), fmt.Sprint(s))
}
