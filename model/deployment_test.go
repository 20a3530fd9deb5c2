package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploymentNode_Children(t *testing.T) {
	t.Parallel()

	t.Run("ChildInheritsEnvironment", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		parent, err := m.AddDeploymentNode("Parent", WithEnvironment("Live"))
		require.NoError(t, err)
		child, err := parent.AddDeploymentNode("Child", WithTechnology("Ubuntu"), WithInstances(4))
		require.NoError(t, err)

		assert.Equal(t, "Live", child.Environment())
		assert.Equal(t, 4, child.Instances())
		assert.Equal(t, Element(parent), child.Parent())
		assert.Equal(t, []*DeploymentNode{child}, parent.Children())
		assert.Equal(t, "/Deployment/Live/Parent/Child", child.CanonicalName())
	})

	t.Run("DefaultEnvironment", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		node, err := m.AddDeploymentNode("Node")
		require.NoError(t, err)
		assert.Equal(t, DefaultDeploymentEnvironment, node.Environment())
		assert.Nil(t, node.Parent())
		assert.Equal(t, 1, node.Instances())
	})

	t.Run("EnvironmentMismatch", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		parent, _ := m.AddDeploymentNode("Parent", WithEnvironment("Live"))
		_, err := parent.AddDeploymentNode("Child", WithEnvironment("Development"))
		require.ErrorIs(t, err, ErrEnvironmentMismatch)
		assert.Empty(t, parent.Children())
	})

	t.Run("DuplicateChildName", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		parent, _ := m.AddDeploymentNode("Empty")
		_, err := parent.AddDeploymentNode("child")
		require.NoError(t, err)
		_, err = parent.AddDeploymentNode("child")
		require.ErrorIs(t, err, ErrDuplicateName)
		assert.Contains(t, err.Error(), "a deployment node with the name 'child' already exists in node 'Empty'")
	})

	t.Run("TopLevelNamesArePerEnvironment", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		_, err := m.AddDeploymentNode("Server", WithEnvironment("Live"))
		require.NoError(t, err)
		_, err = m.AddDeploymentNode("Server", WithEnvironment("Development"))
		require.NoError(t, err)
		_, err = m.AddDeploymentNode("Server", WithEnvironment("Live"))
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("InfrastructureNode", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		node, _ := m.AddDeploymentNode("Node", WithEnvironment("Live"))
		lb, err := node.AddInfrastructureNode("LB", WithTechnology("nginx"))
		require.NoError(t, err)
		assert.Equal(t, "Live", lb.Environment())
		assert.Equal(t, []string{TagElement, TagInfrastructureNode}, lb.Tags())
		assert.Equal(t, []*InfrastructureNode{lb}, node.InfrastructureNodes())

		_, err = node.AddInfrastructureNode("LB")
		assert.ErrorIs(t, err, ErrDuplicateName)
		_, err = node.AddInfrastructureNode("DNS", WithEnvironment("Other"))
		assert.ErrorIs(t, err, ErrEnvironmentMismatch)
	})

	t.Run("HasDeployedContent", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		s, _ := m.AddSoftwareSystem("S")
		c, _ := s.AddContainer("C")
		root, _ := m.AddDeploymentNode("Root")
		empty, _ := root.AddDeploymentNode("Empty")
		full, _ := root.AddDeploymentNode("Full")
		assert.False(t, root.HasDeployedContent())

		_, err := full.AddContainer(c, false)
		require.NoError(t, err)
		assert.True(t, root.HasDeployedContent())
		assert.False(t, empty.HasDeployedContent())
	})
}

func TestContainerInstance(t *testing.T) {
	t.Parallel()

	t.Run("InstanceIDsPerNodeAndElement", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		s, _ := m.AddSoftwareSystem("S")
		c1, _ := s.AddContainer("C1")
		c2, _ := s.AddContainer("C2")
		node, _ := m.AddDeploymentNode("Node")
		other, _ := m.AddDeploymentNode("Other")

		i1, err := node.AddContainer(c1, true)
		require.NoError(t, err)
		i2, err := node.AddContainer(c1, true)
		require.NoError(t, err)
		j1, err := node.AddContainer(c2, true)
		require.NoError(t, err)
		k1, err := other.AddContainer(c1, true)
		require.NoError(t, err)

		assert.Equal(t, 1, i1.InstanceID())
		assert.Equal(t, 2, i2.InstanceID())
		assert.Equal(t, 1, j1.InstanceID())
		assert.Equal(t, 1, k1.InstanceID())
		assert.Equal(t, "C1", i2.Name())
		assert.Equal(t, "/Deployment/Default/Node/C1[2]", i2.CanonicalName())
		assert.Equal(t, []string{TagContainerInstance}, i1.Tags())
		assert.Equal(t, Element(c1), i1.InstanceOf())
	})

	t.Run("SoftwareSystemInstance", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		s, _ := m.AddSoftwareSystem("S")
		node, _ := m.AddDeploymentNode("Node", WithEnvironment("Live"))
		si, err := node.AddSoftwareSystem(s, true)
		require.NoError(t, err)
		assert.Equal(t, "S", si.Name())
		assert.Equal(t, "Live", si.Environment())
		assert.Equal(t, 1, si.InstanceID())
		assert.Equal(t, []*SoftwareSystemInstance{si}, node.SoftwareSystemInstances())
	})

	t.Run("HealthChecks", func(t *testing.T) {
		t.Parallel()
		m := NewModel()
		s, _ := m.AddSoftwareSystem("S")
		c, _ := s.AddContainer("C")
		node, _ := m.AddDeploymentNode("Node")
		ci, _ := node.AddContainer(c, false)
		hc := ci.AddHealthCheck("ping", "https://example.com/health", 0, 0)
		assert.Equal(t, DefaultHealthCheckInterval, hc.Interval)
		assert.Equal(t, DefaultHealthCheckTimeout, hc.Timeout)
		assert.Len(t, ci.HealthChecks(), 1)
	})
}

func TestReplication(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*Model, *Container, *Container) {
		t.Helper()
		m := NewModel()
		s, _ := m.AddSoftwareSystem("S")
		web, _ := s.AddContainer("Web")
		db, _ := s.AddContainer("DB")
		_, err := web.Uses(db, "Reads from", WithRelationshipTechnology("SQL"), WithInteractionStyle(Asynchronous), WithRelationshipTags("Custom"))
		require.NoError(t, err)
		return m, web, db
	}

	t.Run("MirrorsBothDirections", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		original := web.Relationships()[0]
		node, _ := m.AddDeploymentNode("Server", WithEnvironment("Live"))

		dbi, err := node.AddContainer(db, true)
		require.NoError(t, err)
		webi, err := node.AddContainer(web, true)
		require.NoError(t, err)

		require.Len(t, webi.Relationships(), 1)
		r := webi.Relationships()[0]
		assert.Equal(t, dbi.ID(), r.DestinationID())
		assert.Equal(t, "Reads from", r.Description())
		assert.Equal(t, "SQL", r.Technology())
		assert.Equal(t, Asynchronous, r.InteractionStyle())
		assert.Equal(t, original.ID(), r.LinkedRelationshipID())
		assert.Empty(t, r.Tags())
		assert.Empty(t, dbi.Relationships())
	})

	t.Run("DoesNotImplyRelationships", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		m.SetImpliedRelationshipStrategy(CreateImpliedRelationshipsUnlessAnyExist)
		node, _ := m.AddDeploymentNode("Server")
		_, _ = node.AddContainer(web, true)
		_, _ = node.AddContainer(db, true)
		assert.Empty(t, node.Relationships())
		assert.Len(t, m.Relationships(), 2)
	})

	t.Run("ScopedToEnvironment", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		dev, _ := m.AddDeploymentNode("Laptop", WithEnvironment("Development"))
		live, _ := m.AddDeploymentNode("Server", WithEnvironment("Live"))

		devWeb, _ := dev.AddContainer(web, true)
		_, _ = dev.AddContainer(db, true)
		liveWeb, _ := live.AddContainer(web, true)

		assert.Len(t, devWeb.Relationships(), 1)
		assert.Empty(t, liveWeb.Relationships())

		liveDB, _ := live.AddContainer(db, true)
		require.Len(t, liveWeb.Relationships(), 1)
		assert.Equal(t, liveDB.ID(), liveWeb.Relationships()[0].DestinationID())
	})

	t.Run("Idempotent", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		node, _ := m.AddDeploymentNode("Server")
		webi, _ := node.AddContainer(web, true)
		_, _ = node.AddContainer(db, true)

		require.NoError(t, webi.ReplicateElementRelationships())
		require.NoError(t, webi.ReplicateElementRelationships())
		assert.Len(t, webi.Relationships(), 1)
	})

	t.Run("DiscardUndoesInstanceAndReplicas", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		node, _ := m.AddDeploymentNode("Server")
		webi, err := node.AddContainer(web, true)
		require.NoError(t, err)
		before := len(m.Elements())
		dbi, err := node.AddContainer(db, true)
		require.NoError(t, err)
		require.Len(t, webi.Relationships(), 1)
		replica := webi.Relationships()[0]

		m.discardElement(dbi)

		assert.Nil(t, m.GetElement(dbi.ID()))
		assert.Nil(t, m.GetRelationship(replica.ID()))
		assert.Len(t, m.Elements(), before)
		assert.Len(t, m.Relationships(), 1)
		assert.Empty(t, webi.Relationships())
		assert.Empty(t, dbi.AfferentRelationships())
		assert.Len(t, db.AfferentRelationships(), 1)
	})

	t.Run("OptOut", func(t *testing.T) {
		t.Parallel()
		m, web, db := setup(t)
		node, _ := m.AddDeploymentNode("Server")
		webi, _ := node.AddContainer(web, false)
		_, _ = node.AddContainer(db, false)
		assert.Empty(t, webi.Relationships())
	})
}
