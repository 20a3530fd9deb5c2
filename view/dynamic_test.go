package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/c4-go/model"
)

func orders(v *DynamicView) []string {
	var out []string
	for _, rv := range v.RelationshipViews() {
		out = append(out, rv.Order)
	}
	return out
}

func TestDynamicView_Add(t *testing.T) {
	t.Parallel()

	t.Run("RequestAndResponse", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, err := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")
		require.NoError(t, err)

		req, err := v.Add(b.web, b.api, "Requests data from", "")
		require.NoError(t, err)
		resp, err := v.Add(b.api, b.web, "Sends response back to", "")
		require.NoError(t, err)

		assert.Equal(t, "1", req.Order)
		assert.False(t, req.Response)
		assert.Equal(t, "Requests data from", req.Description)
		assert.Equal(t, "2", resp.Order)
		assert.True(t, resp.Response)
		assert.Equal(t, req.ID(), resp.ID())
		assert.Len(t, v.RelationshipViews(), 2)
	})

	t.Run("DefaultsToRelationshipDescription", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")
		rv, err := v.Add(b.web, b.api, "", "")
		require.NoError(t, err)
		assert.Equal(t, "Calls", rv.Description)
	})

	t.Run("PrefersExactDescription", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		_, err := b.web.Uses(b.api, "Posts to")
		require.NoError(t, err)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")

		rv, err := v.Add(b.web, b.api, "Posts to", "")
		require.NoError(t, err)
		assert.Equal(t, "Posts to", rv.Relationship().Description())

		_, err = v.Add(b.web, b.api, "Something else", "")
		assert.ErrorIs(t, err, ErrAmbiguousRelationship)
	})

	t.Run("Technology", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		_, err := b.web.Uses(b.db, "Caches", model.WithRelationshipTechnology("Redis"))
		require.NoError(t, err)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")

		_, err = v.Add(b.web, b.db, "", "Redis")
		require.NoError(t, err)
		_, err = v.Add(b.web, b.db, "", "JDBC")
		require.ErrorIs(t, err, ErrRelationshipNotFound)
		assert.Contains(t, err.Error(), "with technology 'JDBC'")
	})

	t.Run("NoRelationship", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")
		_, err := v.Add(b.web, b.db, "", "")
		require.ErrorIs(t, err, ErrRelationshipNotFound)
		assert.Contains(t, err.Error(), "a relationship between Web App and Database does not exist in the model")
		assert.Empty(t, v.ElementViews())
	})
}

func TestDynamicView_Scope(t *testing.T) {
	t.Parallel()

	t.Run("SoftwareSystemScope", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.banking, "dynamic", "")
		_, err := v.Add(b.banking, b.mainframe, "", "")
		assert.ErrorIs(t, err, ErrElementNotPermitted)
		_, err = v.Add(b.signin, b.db, "", "")
		assert.ErrorIs(t, err, ErrElementNotPermitted)
		_, err = v.Add(b.customer, b.web, "", "")
		assert.NoError(t, err)
	})

	t.Run("ContainerScope", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.api, "dynamic", "")
		_, err := v.Add(b.web, b.api, "", "")
		assert.ErrorIs(t, err, ErrElementNotPermitted)
		_, err = v.Add(b.signin, b.db, "", "")
		assert.NoError(t, err)
		assert.Equal(t, "API - Dynamic", v.Name())
	})

	t.Run("NoScope", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(nil, "dynamic", "")
		_, err := v.Add(b.web, b.api, "", "")
		assert.ErrorIs(t, err, ErrElementNotPermitted)
		_, err = v.Add(b.banking, b.mainframe, "", "")
		assert.NoError(t, err)
	})

	t.Run("ParentAlreadyInView", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateDynamicView(b.web, "dynamic", "")
		_, err := v.Add(b.api, b.db, "", "")
		require.NoError(t, err)
		_, err = v.Add(b.accounts, b.mainframe, "", "")
		require.ErrorIs(t, err, ErrElementNotPermitted)
		assert.Contains(t, err.Error(), "a parent of Accounts is already in this view")
	})

	t.Run("InvalidScope", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		_, err := NewViewSet(b.m).CreateDynamicView(b.customer, "dynamic", "")
		assert.ErrorIs(t, err, ErrElementNotPermitted)
	})
}

func TestDynamicView_Sequences(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*DynamicView, []*model.Container) {
		t.Helper()
		m := model.NewModel()
		s, _ := m.AddSoftwareSystem("S")
		names := []string{"A", "B", "C", "D", "E", "F"}
		cs := make([]*model.Container, len(names))
		for i, n := range names {
			c, err := s.AddContainer(n)
			require.NoError(t, err)
			cs[i] = c
		}
		link := func(a, b int) {
			_, err := cs[a].Uses(cs[b], "")
			require.NoError(t, err)
		}
		link(0, 1)
		link(1, 2)
		link(1, 3)
		link(2, 4)
		link(3, 4)
		link(4, 5)
		v, err := NewViewSet(m).CreateDynamicView(s, "dynamic", "")
		require.NoError(t, err)
		return v, cs
	}

	t.Run("Subsequence", func(t *testing.T) {
		t.Parallel()
		v, cs := setup(t)
		_, err := v.Add(cs[0], cs[1], "", "")
		require.NoError(t, err)
		err = v.Subsequence(func() error {
			if _, err := v.Add(cs[1], cs[2], "", ""); err != nil {
				return err
			}
			_, err := v.Add(cs[1], cs[3], "", "")
			return err
		})
		require.NoError(t, err)
		_, err = v.Add(cs[1], cs[0], "", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, orders(v))
	})

	t.Run("ParallelSequences", func(t *testing.T) {
		t.Parallel()
		v, cs := setup(t)
		_, err := v.Add(cs[0], cs[1], "", "")
		require.NoError(t, err)
		require.NoError(t, v.ParallelSequence(false, func() error {
			if _, err := v.Add(cs[1], cs[2], "", ""); err != nil {
				return err
			}
			_, err := v.Add(cs[2], cs[4], "", "")
			return err
		}))
		require.NoError(t, v.ParallelSequence(true, func() error {
			if _, err := v.Add(cs[1], cs[3], "", ""); err != nil {
				return err
			}
			_, err := v.Add(cs[3], cs[4], "", "")
			return err
		}))
		_, err = v.Add(cs[4], cs[5], "", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"1", "2", "2", "3", "3", "4"}, orders(v))
	})

	t.Run("ResumeAfterRestoredOrders", func(t *testing.T) {
		t.Parallel()
		v, cs := setup(t)
		for i, order := range []string{"1", "4", "4.2"} {
			rv, err := v.RestoreRelationship(cs[i].Relationships()[0])
			require.NoError(t, err)
			rv.Order = order
		}

		v.ResumeNumbering()
		rv, err := v.Add(cs[4], cs[5], "", "")

		require.NoError(t, err)
		assert.Equal(t, "5", rv.Order)
	})

	t.Run("ResumeEmptyView", func(t *testing.T) {
		t.Parallel()
		v, cs := setup(t)

		v.ResumeNumbering()
		rv, err := v.Add(cs[0], cs[1], "", "")

		require.NoError(t, err)
		assert.Equal(t, "1", rv.Order)
	})

	t.Run("EndWithoutStart", func(t *testing.T) {
		t.Parallel()
		v, _ := setup(t)
		assert.ErrorIs(t, v.EndSubsequence(), ErrSequence)
		assert.ErrorIs(t, v.EndParallelSequence(true), ErrSequence)
	})
}

func TestCompareOrder(t *testing.T) {
	t.Parallel()

	assert.Negative(t, compareOrder("1", "1.1"))
	assert.Negative(t, compareOrder("1.1", "2"))
	assert.Negative(t, compareOrder("2", "10"))
	assert.Zero(t, compareOrder("3.2", "3.2"))
	assert.Positive(t, compareOrder("10", "9.9"))
}
