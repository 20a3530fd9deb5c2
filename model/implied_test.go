package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedModel struct {
	m      *Model
	s1, s2 *SoftwareSystem
	c1, c2 *Container
	k1, k2 *Component
}

func newNestedModel(t *testing.T, strategy ImpliedRelationshipStrategy) *nestedModel {
	t.Helper()
	n := &nestedModel{m: NewModel(WithImpliedRelationshipStrategy(strategy))}
	var err error
	n.s1, err = n.m.AddSoftwareSystem("Software System 1")
	require.NoError(t, err)
	n.c1, err = n.s1.AddContainer("Container 1")
	require.NoError(t, err)
	n.k1, err = n.c1.AddComponent("Component 1")
	require.NoError(t, err)
	n.s2, err = n.m.AddSoftwareSystem("Software System 2")
	require.NoError(t, err)
	n.c2, err = n.s2.AddContainer("Container 2")
	require.NoError(t, err)
	n.k2, err = n.c2.AddComponent("Component 2")
	require.NoError(t, err)
	return n
}

func pairs(m *Model) [][2]string {
	var out [][2]string
	for _, r := range m.Relationships() {
		out = append(out, [2]string{r.Source().Name(), r.Destination().Name()})
	}
	return out
}

func TestImpliedRelationships_Ignore(t *testing.T) {
	t.Parallel()

	n := newNestedModel(t, IgnoreImpliedRelationships)
	_, err := n.k1.Uses(n.k2, "Uses")
	require.NoError(t, err)

	assert.Len(t, n.m.Relationships(), 1)
}

func TestImpliedRelationships_DefaultStrategyIsIgnore(t *testing.T) {
	t.Parallel()

	m := NewModel()
	s1, _ := m.AddSoftwareSystem("S1")
	s2, _ := m.AddSoftwareSystem("S2")
	c1, _ := s1.AddContainer("C1")
	_, err := c1.Uses(s2, "Uses")
	require.NoError(t, err)

	assert.Len(t, m.Relationships(), 1)
}

func TestImpliedRelationships_UnlessAnyExist(t *testing.T) {
	t.Parallel()

	t.Run("CreatesAllAncestorPairs", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessAnyExist)
		r, err := n.k1.Uses(n.k2, "Uses", WithRelationshipTechnology("gRPC"), WithRelationshipTags("Tagged"))
		require.NoError(t, err)

		rels := n.m.Relationships()
		assert.Len(t, rels, 9)
		assert.Equal(t, [][2]string{
			{"Component 1", "Component 2"},
			{"Component 1", "Container 2"},
			{"Component 1", "Software System 2"},
			{"Container 1", "Component 2"},
			{"Container 1", "Container 2"},
			{"Container 1", "Software System 2"},
			{"Software System 1", "Component 2"},
			{"Software System 1", "Container 2"},
			{"Software System 1", "Software System 2"},
		}, pairs(n.m))
		for _, implied := range rels[1:] {
			assert.Equal(t, r.ID(), implied.LinkedRelationshipID())
			assert.Equal(t, "Uses", implied.Description())
			assert.Equal(t, "gRPC", implied.Technology())
			assert.Equal(t, r.Tags(), implied.Tags())
		}
	})

	t.Run("ExistingRelationshipBlocksNewOne", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessAnyExist)
		_, err := n.k1.Uses(n.k2, "Uses")
		require.NoError(t, err)
		require.Len(t, n.s1.Relationships(), 3)

		_, err = n.c1.Uses(n.c2, "Different")
		require.NoError(t, err)
		assert.Len(t, n.s1.Relationships(), 3)
	})

	t.Run("SelfReferenceImpliesNothing", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessAnyExist)
		_, err := n.c1.Uses(n.c1, "Uses")
		require.NoError(t, err)
		assert.Empty(t, n.s1.Relationships())
		assert.Len(t, n.m.Relationships(), 1)
	})

	t.Run("ChildToParentImpliesNothing", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessAnyExist)
		_, err := n.k1.Uses(n.s1, "Uses")
		require.NoError(t, err)
		assert.Len(t, n.m.Relationships(), 1)
	})

	t.Run("StopsAtSoftwareSystem", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessAnyExist)
		p, _ := n.m.AddPerson("User")
		_, err := n.k1.Uses(p, "Notifies")
		require.NoError(t, err)
		assert.Equal(t, [][2]string{
			{"Component 1", "User"},
			{"Container 1", "User"},
			{"Software System 1", "User"},
		}, pairs(n.m))
	})
}

func TestImpliedRelationships_UnlessSameExists(t *testing.T) {
	t.Parallel()

	t.Run("SameDescriptionBlocks", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessSameExists)
		_, err := n.s1.Uses(n.s2, "Reads from")
		require.NoError(t, err)
		assert.Len(t, n.s1.Relationships(), 1)

		_, err = n.c1.Uses(n.s2, "Reads from")
		require.NoError(t, err)
		assert.Len(t, n.s1.Relationships(), 1)

		_, err = n.c1.Uses(n.s2, "Writes to")
		require.NoError(t, err)
		assert.Len(t, n.s1.Relationships(), 2)
	})

	t.Run("SelfReferenceImpliesNothing", func(t *testing.T) {
		t.Parallel()
		n := newNestedModel(t, CreateImpliedRelationshipsUnlessSameExists)
		_, err := n.c1.Uses(n.c1, "Uses")
		require.NoError(t, err)
		assert.Empty(t, n.s1.Relationships())
	})
}

func TestImpliedRelationships_EndToEnd(t *testing.T) {
	t.Parallel()

	m := NewModel(WithImpliedRelationshipStrategy(CreateImpliedRelationshipsUnlessAnyExist))
	a, _ := m.AddSoftwareSystem("A")
	b, _ := m.AddSoftwareSystem("B")
	web, _ := a.AddContainer("Web")
	db, _ := b.AddContainer("DB")

	_, err := web.Uses(db, "reads")
	require.NoError(t, err)

	assert.Len(t, m.Relationships(), 4)
	assert.Equal(t, [][2]string{{"Web", "DB"}, {"Web", "B"}, {"A", "DB"}, {"A", "B"}}, pairs(m))
}

func TestImpliedRelationships_CustomStrategy(t *testing.T) {
	t.Parallel()

	var seen []string
	m := NewModel(WithImpliedRelationshipStrategy(ImpliedRelationshipStrategyFunc(func(_ *Model, r *Relationship) error {
		seen = append(seen, r.Description())
		return nil
	})))
	a, _ := m.AddSoftwareSystem("A")
	b, _ := m.AddSoftwareSystem("B")
	_, _ = a.Uses(b, "one")
	_, _ = a.Uses(b, "two", WithoutImpliedRelationships())

	assert.Equal(t, []string{"one"}, seen)
}
