package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewSet_Keys(t *testing.T) {
	t.Parallel()

	t.Run("EmptyKey", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		_, err := NewViewSet(b.m).CreateSystemLandscapeView("", "")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("DuplicateKeyAcrossTypes", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		vs := NewViewSet(b.m)
		_, err := vs.CreateSystemContextView(b.banking, "key", "")
		require.NoError(t, err)
		_, err = vs.CreateContainerView(b.banking, "key", "")
		assert.ErrorIs(t, err, ErrDuplicateKey)
		_, err = vs.CreateDeploymentView("key", "")
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.Len(t, vs.Views(), 1)
	})

	t.Run("GetView", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		vs := NewViewSet(b.m)
		ctx, _ := vs.CreateSystemContextView(b.banking, "context", "")
		dyn, _ := vs.CreateDynamicView(b.banking, "dynamic", "")

		assert.Equal(t, View(ctx), vs.GetView("context"))
		assert.Equal(t, View(dyn), vs.GetView("dynamic"))
		assert.Nil(t, vs.GetView("missing"))
		assert.Same(t, vs, ctx.ViewSet())
	})
}

func TestViewSet_CopyLayoutInformationFrom(t *testing.T) {
	t.Parallel()

	b := newBankModel(t)
	src := NewViewSet(b.m)
	dst := NewViewSet(b.m)

	srcView, _ := src.CreateSystemContextView(b.banking, "context", "")
	require.NoError(t, srcView.AddAllElements())
	srcView.SetPaperSize("A4_Landscape")
	srcView.ElementView(b.banking).X = 100
	srcView.ElementView(b.banking).Y = 200
	pos := 40
	srcRV := srcView.RelationshipViews()[0]
	srcRV.Vertices = []Vertex{{X: 1, Y: 2}}
	srcRV.Position = &pos

	dstView, _ := dst.CreateSystemContextView(b.banking, "context", "")
	require.NoError(t, dstView.AddAllElements())
	_, _ = dst.CreateContainerView(b.banking, "unmatched", "")

	dst.CopyLayoutInformationFrom(src)

	assert.Equal(t, "A4_Landscape", dstView.PaperSize())
	assert.Equal(t, 100, dstView.ElementView(b.banking).X)
	assert.Equal(t, 200, dstView.ElementView(b.banking).Y)
	var copied *RelationshipView
	for _, rv := range dstView.RelationshipViews() {
		if rv.ID() == srcRV.ID() {
			copied = rv
		}
	}
	require.NotNil(t, copied)
	assert.Equal(t, []Vertex{{X: 1, Y: 2}}, copied.Vertices)
	require.NotNil(t, copied.Position)
	assert.Equal(t, 40, *copied.Position)
}

func TestFilteredView(t *testing.T) {
	t.Parallel()

	b := newBankModel(t)
	b.mainframe.AddTags("Legacy")
	vs := NewViewSet(b.m)
	landscape, _ := vs.CreateSystemLandscapeView("landscape", "")
	require.NoError(t, landscape.AddAllElements())

	t.Run("Exclude", func(t *testing.T) {
		f, err := vs.CreateFilteredView("landscape", "modern", "", FilterExclude, "Legacy")
		require.NoError(t, err)
		assert.Same(t, vs.GetFilteredView("modern"), f)
		assert.Equal(t, View(landscape), f.BaseView())

		var names []string
		for _, e := range f.Elements() {
			names = append(names, e.Name())
		}
		assert.NotContains(t, names, "Mainframe")
		assert.Contains(t, names, "Internet Banking")
		for _, r := range f.Relationships() {
			assert.NotEqual(t, "Mainframe", r.Destination().Name())
		}
	})

	t.Run("Include", func(t *testing.T) {
		f, err := vs.CreateFilteredView("landscape", "people", "", FilterInclude, "Person")
		require.NoError(t, err)
		assert.Len(t, f.Elements(), 2)
		assert.Empty(t, f.Relationships())
	})

	t.Run("UnknownBaseView", func(t *testing.T) {
		_, err := vs.CreateFilteredView("missing", "x", "", FilterInclude)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
