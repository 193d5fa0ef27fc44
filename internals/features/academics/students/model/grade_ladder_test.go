package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextGrade(t *testing.T) {
	next, ok := NextGrade("KG 1")
	assert.True(t, ok)
	assert.Equal(t, "KG 2", next)

	next, ok = NextGrade("KG 2")
	assert.True(t, ok)
	assert.Equal(t, "Basic 1", next)

	next, ok = NextGrade("Basic 4")
	assert.True(t, ok)
	assert.Equal(t, "Basic 5", next)
}

func TestNextGradeTerminal(t *testing.T) {
	_, ok := NextGrade("Basic 9")
	assert.False(t, ok)
}

func TestNextGradeUnknown(t *testing.T) {
	_, ok := NextGrade("Grade 12")
	assert.False(t, ok)

	_, ok = NextGrade("")
	assert.False(t, ok)
}

func TestIsFinalGrade(t *testing.T) {
	assert.True(t, IsFinalGrade("Basic 9"))
	assert.False(t, IsFinalGrade("Basic 8"))
	assert.False(t, IsFinalGrade("KG 1"))
	assert.False(t, IsFinalGrade("nope"))
}

func TestIsValidGrade(t *testing.T) {
	for _, g := range GradeLadder {
		assert.True(t, IsValidGrade(g), g)
	}
	assert.False(t, IsValidGrade("Basic 10"))
	assert.False(t, IsValidGrade("kg 1"))
}
