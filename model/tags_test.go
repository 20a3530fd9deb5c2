package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSet(t *testing.T) {
	t.Parallel()

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		t.Parallel()
		ts := NewTagSet("b", "a", "c", "a")
		assert.Equal(t, []string{"b", "a", "c"}, ts.Slice())
		assert.Equal(t, "b,a,c", ts.String())
	})

	t.Run("RemoveKeepsOrderOfRest", func(t *testing.T) {
		t.Parallel()
		ts := NewTagSet("x", "y", "z")
		assert.True(t, ts.Remove("y"))
		assert.False(t, ts.Remove("y"))
		assert.Equal(t, []string{"x", "z"}, ts.Slice())
		assert.False(t, ts.Has("y"))
	})

	t.Run("SkipsBlankTags", func(t *testing.T) {
		t.Parallel()
		ts := NewTagSet(" ", "", " a ")
		assert.Equal(t, []string{"a"}, ts.Slice())
	})

	t.Run("ParseTags", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Element", "Person", "Custom Tag"}, ParseTags("Element, Person,Custom Tag,"))
		assert.Empty(t, ParseTags(""))
	})
}
