package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/c4-go/model"
)

type bankModel struct {
	m         *model.Model
	customer  *model.Person
	staff     *model.Person
	banking   *model.SoftwareSystem
	mainframe *model.SoftwareSystem
	email     *model.SoftwareSystem
	web       *model.Container
	api       *model.Container
	db        *model.Container
	signin    *model.Component
	accounts  *model.Component
}

func newBankModel(t *testing.T) *bankModel {
	t.Helper()
	b := &bankModel{m: model.NewModel()}
	var err error
	b.customer, err = b.m.AddPerson("Customer")
	require.NoError(t, err)
	b.staff, err = b.m.AddPerson("Staff")
	require.NoError(t, err)
	b.banking, err = b.m.AddSoftwareSystem("Internet Banking")
	require.NoError(t, err)
	b.mainframe, err = b.m.AddSoftwareSystem("Mainframe")
	require.NoError(t, err)
	b.email, err = b.m.AddSoftwareSystem("E-mail")
	require.NoError(t, err)
	b.web, err = b.banking.AddContainer("Web App")
	require.NoError(t, err)
	b.api, err = b.banking.AddContainer("API")
	require.NoError(t, err)
	b.db, err = b.banking.AddContainer("Database")
	require.NoError(t, err)
	b.signin, err = b.api.AddComponent("Sign In")
	require.NoError(t, err)
	b.accounts, err = b.api.AddComponent("Accounts")
	require.NoError(t, err)

	mustUse := func(src interface {
		Uses(model.Element, string, ...model.RelationshipOption) (*model.Relationship, error)
	}, dst model.Element, desc string) {
		_, err := src.Uses(dst, desc)
		require.NoError(t, err)
	}
	mustUse(b.customer, b.banking, "Uses")
	mustUse(b.customer, b.web, "Visits")
	mustUse(b.staff, b.mainframe, "Maintains")
	mustUse(b.banking, b.mainframe, "Gets account information from")
	mustUse(b.banking, b.email, "Sends e-mail using")
	mustUse(b.web, b.api, "Calls")
	mustUse(b.api, b.db, "Reads from and writes to")
	mustUse(b.api, b.mainframe, "Uses")
	mustUse(b.signin, b.db, "Reads user")
	mustUse(b.accounts, b.mainframe, "Fetches accounts")
	return b
}

func elementNames(v View) []string {
	var out []string
	for _, ev := range v.ElementViews() {
		out = append(out, ev.Element().Name())
	}
	return out
}

func relationshipDescriptions(v View) []string {
	var out []string
	for _, rv := range v.RelationshipViews() {
		out = append(out, rv.Relationship().Description())
	}
	return out
}

func TestStaticView_Add(t *testing.T) {
	t.Parallel()

	t.Run("ElementMustBeInModel", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		other := model.NewModel()
		stranger, _ := other.AddPerson("Stranger")

		v, err := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, err)
		err = v.Add(stranger, true)
		assert.ErrorIs(t, err, ErrElementNotInModel)
		assert.Empty(t, v.ElementViews())
	})

	t.Run("TypedNilElement", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")

		assert.ErrorIs(t, v.Add((*model.Person)(nil), true), ErrElementNotInModel)
		assert.False(t, v.IsElementInView((*model.SoftwareSystem)(nil)))
		assert.False(t, v.IsRelationshipInView(nil))
		assert.Empty(t, v.ElementViews())
	})

	t.Run("Idempotent", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, v.Add(b.customer, true))
		require.NoError(t, v.Add(b.customer, true))
		assert.Len(t, v.ElementViews(), 1)
	})

	t.Run("RelationshipsAreEndpointDriven", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")

		require.NoError(t, v.Add(b.customer, true))
		assert.Empty(t, v.RelationshipViews())

		require.NoError(t, v.Add(b.banking, true))
		assert.Equal(t, []string{"Uses"}, relationshipDescriptions(v))
	})

	t.Run("WithoutRelationships", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, v.Add(b.customer, false))
		require.NoError(t, v.Add(b.banking, false))
		assert.Empty(t, v.RelationshipViews())
	})

	t.Run("KindNotPermitted", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		assert.ErrorIs(t, v.Add(b.web, true), ErrElementNotPermitted)
	})

	t.Run("RemoveCascadesToRelationships", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, v.AddAllElements())
		require.Len(t, v.RelationshipViews(), 4)

		v.Remove(b.mainframe)
		assert.False(t, v.IsElementInView(b.mainframe))
		assert.Equal(t, []string{"Sends e-mail using", "Uses"}, relationshipDescriptions(v))
	})
}

func TestSystemContextView(t *testing.T) {
	t.Parallel()

	t.Run("ScopeIsAddedOnCreation", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, err := NewViewSet(b.m).CreateSystemContextView(b.banking, "context", "desc")
		require.NoError(t, err)
		assert.Equal(t, []string{"Internet Banking"}, elementNames(v))
		assert.Equal(t, "System Context for Internet Banking", v.Name())
		assert.Equal(t, TypeSystemContext, v.Type())
	})

	t.Run("NearestNeighbours", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemContextView(b.banking, "context", "")
		require.NoError(t, v.AddNearestNeighbours(b.banking))

		assert.ElementsMatch(t, []string{"Internet Banking", "Customer", "Mainframe", "E-mail"}, elementNames(v))
		assert.ElementsMatch(t, []string{"Uses", "Gets account information from", "Sends e-mail using"}, relationshipDescriptions(v))
	})

	t.Run("NearestNeighboursDoNotDuplicate", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemContextView(b.banking, "context", "")
		require.NoError(t, v.AddNearestNeighbours(b.banking))
		require.NoError(t, v.AddNearestNeighbours(b.mainframe))
		require.NoError(t, v.AddNearestNeighbours(b.banking, model.KindSoftwareSystem))

		seen := map[string]bool{}
		for _, rv := range v.RelationshipViews() {
			assert.False(t, seen[rv.ID()], rv.ID())
			seen[rv.ID()] = true
		}
		assert.Contains(t, elementNames(v), "Staff")
	})

	t.Run("NearestNeighboursTypeFilter", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemContextView(b.banking, "context", "")
		require.NoError(t, v.AddNearestNeighbours(b.banking, model.KindPerson))
		assert.ElementsMatch(t, []string{"Internet Banking", "Customer"}, elementNames(v))
	})
}

func TestContainerView(t *testing.T) {
	t.Parallel()

	t.Run("AddAllElements", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, err := NewViewSet(b.m).CreateContainerView(b.banking, "containers", "")
		require.NoError(t, err)
		require.NoError(t, v.AddAllElements())

		assert.Equal(t, []string{"Customer", "Staff", "Mainframe", "E-mail", "Web App", "API", "Database"}, elementNames(v))
		assert.False(t, v.IsElementInView(b.banking))
		assert.ElementsMatch(t, []string{"Maintains", "Visits", "Calls", "Reads from and writes to", "Uses"}, relationshipDescriptions(v))
	})

	t.Run("ScopeCannotBeAdded", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateContainerView(b.banking, "containers", "")
		assert.ErrorIs(t, v.Add(b.banking, true), ErrElementNotPermitted)
		assert.ErrorIs(t, v.Add(b.signin, true), ErrElementNotPermitted)
	})

	t.Run("NearestNeighbours", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateContainerView(b.banking, "containers", "")
		require.NoError(t, v.AddNearestNeighbours(b.api))
		assert.ElementsMatch(t, []string{"API", "Web App", "Database", "Mainframe"}, elementNames(v))
		assert.ElementsMatch(t, []string{"Calls", "Reads from and writes to", "Uses"}, relationshipDescriptions(v))
	})
}

func TestComponentView(t *testing.T) {
	t.Parallel()

	b := newBankModel(t)
	v, err := NewViewSet(b.m).CreateComponentView(b.api, "components", "")
	require.NoError(t, err)
	require.NoError(t, v.AddAllComponents())
	require.NoError(t, v.Add(b.db, true))
	require.NoError(t, v.Add(b.mainframe, true))

	assert.Equal(t, "Internet Banking - API - Components", v.Name())
	assert.Equal(t, b.api, v.Container())
	assert.Equal(t, []string{"Sign In", "Accounts", "Database", "Mainframe"}, elementNames(v))
	assert.ElementsMatch(t, []string{"Reads user", "Fetches accounts"}, relationshipDescriptions(v))
	assert.ErrorIs(t, v.Add(b.api, true), ErrElementNotPermitted)
	assert.ErrorIs(t, v.Add(b.banking, true), ErrElementNotPermitted)
}

func TestStaticView_AddAnimation(t *testing.T) {
	t.Parallel()

	t.Run("Steps", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, v.AddAllElements())

		require.NoError(t, v.AddAnimation(b.customer))
		require.NoError(t, v.AddAnimation(b.banking))
		require.NoError(t, v.AddAnimation(b.mainframe, b.email, b.staff))

		steps := v.Animations()
		require.Len(t, steps, 3)
		assert.Equal(t, 1, steps[0].Order)
		assert.Equal(t, []string{b.customer.ID()}, steps[0].Elements)
		assert.Empty(t, steps[0].Relationships)
		assert.Equal(t, []string{b.banking.ID()}, steps[1].Elements)
		assert.Len(t, steps[1].Relationships, 1)
		assert.Len(t, steps[2].Relationships, 3)
	})

	t.Run("NoElements", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		assert.ErrorIs(t, v.AddAnimation(), ErrEmptyAnimation)
	})

	t.Run("ElementsNotInView", func(t *testing.T) {
		t.Parallel()
		b := newBankModel(t)
		v, _ := NewViewSet(b.m).CreateSystemLandscapeView("landscape", "")
		require.NoError(t, v.Add(b.customer, true))
		assert.ErrorIs(t, v.AddAnimation(b.banking), ErrEmptyAnimation)
	})
}
