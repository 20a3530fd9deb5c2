package mcp

import (
	"fmt"
	"strings"

	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
	"github.com/Benny93/c4-go/workspace"
)

// Tool Handlers

func handleSummary(ws *workspace.Workspace) string {
	sum := ws.Summarize()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", sum.Name)
	fmt.Fprintf(&sb, "- People: %d\n", sum.People)
	fmt.Fprintf(&sb, "- Software systems: %d\n", sum.SoftwareSystems)
	fmt.Fprintf(&sb, "- Containers: %d\n", sum.Containers)
	fmt.Fprintf(&sb, "- Components: %d\n", sum.Components)
	fmt.Fprintf(&sb, "- Deployment nodes: %d\n", sum.DeploymentNodes)
	fmt.Fprintf(&sb, "- Infrastructure nodes: %d\n", sum.InfrastructureNodes)
	fmt.Fprintf(&sb, "- Container instances: %d\n", sum.ContainerInstances)
	fmt.Fprintf(&sb, "- Software system instances: %d\n", sum.SoftwareSystemInstances)
	fmt.Fprintf(&sb, "- Relationships: %d\n", sum.Relationships)
	fmt.Fprintf(&sb, "- Views: %d\n", sum.Views)
	if len(sum.Environments) > 0 {
		fmt.Fprintf(&sb, "- Environments: %s\n", strings.Join(sum.Environments, ", "))
	}
	return sb.String()
}

// resolveElement finds an element by id, canonical name or, failing
// both, a name no other element shares.
func resolveElement(m *model.Model, ref string) (model.Element, error) {
	if ref == "" {
		return nil, fmt.Errorf("no element given: pass an id or a name")
	}
	if e := m.GetElement(ref); e != nil {
		return e, nil
	}
	if e := m.GetElementWithCanonicalName(ref); e != nil {
		return e, nil
	}

	var matches []model.Element
	for _, e := range m.Elements() {
		if e.Name() == ref {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("element %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, e := range matches {
			names[i] = e.CanonicalName()
		}
		return nil, fmt.Errorf("element name %q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

func handleElement(ws *workspace.Workspace, id, name string) (string, error) {
	ref := id
	if ref == "" {
		ref = name
	}
	e, err := resolveElement(ws.Model, ref)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", e.Name())
	fmt.Fprintf(&sb, "**Type:** %s\n", e.Kind())
	fmt.Fprintf(&sb, "**ID:** %s\n", e.ID())
	fmt.Fprintf(&sb, "**Canonical name:** %s\n", e.CanonicalName())
	if e.Description() != "" {
		fmt.Fprintf(&sb, "**Description:** %s\n", e.Description())
	}
	if t, ok := e.(interface{ Technology() string }); ok && t.Technology() != "" {
		fmt.Fprintf(&sb, "**Technology:** %s\n", t.Technology())
	}
	if tags := e.Tags(); len(tags) > 0 {
		fmt.Fprintf(&sb, "**Tags:** %s\n", strings.Join(tags, ", "))
	}
	if p := e.Parent(); p != nil {
		fmt.Fprintf(&sb, "**Parent:** %s\n", p.CanonicalName())
	}

	if children := e.ChildElements(); len(children) > 0 {
		fmt.Fprintf(&sb, "\n## Children (%d)\n\n", len(children))
		for _, c := range children {
			fmt.Fprintf(&sb, "- %s (%s)\n", c.Name(), c.Kind())
		}
	}

	out := e.Relationships()
	fmt.Fprintf(&sb, "\n## Outgoing (%d)\n\n", len(out))
	writeRelationships(&sb, out)

	if a, ok := e.(interface{ AfferentRelationships() []*model.Relationship }); ok {
		in := a.AfferentRelationships()
		fmt.Fprintf(&sb, "\n## Incoming (%d)\n\n", len(in))
		writeRelationships(&sb, in)
	}
	return sb.String(), nil
}

func handleRelationships(ws *workspace.Workspace, element string) (string, error) {
	rels := ws.Model.Relationships()
	title := "All relationships"

	if element != "" {
		e, err := resolveElement(ws.Model, element)
		if err != nil {
			return "", err
		}
		filtered := rels[:0]
		for _, r := range rels {
			if r.SourceID() == e.ID() || r.DestinationID() == e.ID() {
				filtered = append(filtered, r)
			}
		}
		rels = filtered
		title = "Relationships of " + e.CanonicalName()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (%d)\n\n", title, len(rels))
	writeRelationships(&sb, rels)
	return sb.String(), nil
}

func writeRelationships(sb *strings.Builder, rels []*model.Relationship) {
	if len(rels) == 0 {
		sb.WriteString("None.\n")
		return
	}
	for _, r := range rels {
		fmt.Fprintf(sb, "- [%s] **%s** → **%s**", r.ID(), r.Source().Name(), r.Destination().Name())
		if r.Description() != "" {
			fmt.Fprintf(sb, ": %s", r.Description())
		}
		if r.Technology() != "" {
			fmt.Fprintf(sb, " (%s)", r.Technology())
		}
		if r.LinkedRelationshipID() != "" {
			fmt.Fprintf(sb, ", replicated from %s", r.LinkedRelationshipID())
		}
		sb.WriteString("\n")
	}
}

func handleView(ws *workspace.Workspace, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("no view key given")
	}
	if f := ws.Views.GetFilteredView(key); f != nil {
		return describeFilteredView(f), nil
	}
	v := ws.Views.GetView(key)
	if v == nil {
		return "", fmt.Errorf("view %q not found", key)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", v.Name())
	fmt.Fprintf(&sb, "**Key:** %s\n", v.Key())
	fmt.Fprintf(&sb, "**Type:** %s\n", v.Type())
	if v.Title() != "" {
		fmt.Fprintf(&sb, "**Title:** %s\n", v.Title())
	}
	if v.Description() != "" {
		fmt.Fprintf(&sb, "**Description:** %s\n", v.Description())
	}
	if s := v.SoftwareSystem(); s != nil {
		fmt.Fprintf(&sb, "**Software system:** %s\n", s.Name())
	}

	evs := v.ElementViews()
	fmt.Fprintf(&sb, "\n## Elements (%d)\n\n", len(evs))
	for _, ev := range evs {
		e := ev.Element()
		fmt.Fprintf(&sb, "- [%s] %s (%s)\n", e.ID(), e.CanonicalName(), e.Kind())
	}

	rvs := v.RelationshipViews()
	fmt.Fprintf(&sb, "\n## Relationships (%d)\n\n", len(rvs))
	for _, rv := range rvs {
		r := rv.Relationship()
		src, dst := r.Source().Name(), r.Destination().Name()
		if rv.Response {
			src, dst = dst, src
		}
		sb.WriteString("- ")
		if rv.Order != "" {
			fmt.Fprintf(&sb, "%s. ", rv.Order)
		}
		fmt.Fprintf(&sb, "**%s** → **%s**", src, dst)
		description := rv.Description
		if description == "" {
			description = r.Description()
		}
		if description != "" {
			fmt.Fprintf(&sb, ": %s", description)
		}
		if rv.Response {
			sb.WriteString(" (response)")
		}
		sb.WriteString("\n")
	}

	if steps := v.Animations(); len(steps) > 0 {
		fmt.Fprintf(&sb, "\n## Animation (%d steps)\n\n", len(steps))
		for _, a := range steps {
			fmt.Fprintf(&sb, "%d. elements %s; relationships %s\n", a.Order, strings.Join(a.Elements, ", "), strings.Join(a.Relationships, ", "))
		}
	}
	return sb.String(), nil
}

func describeFilteredView(f *view.FilteredView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", f.Key())
	fmt.Fprintf(&sb, "**Type:** Filtered\n")
	fmt.Fprintf(&sb, "**Base view:** %s\n", f.BaseViewKey())
	fmt.Fprintf(&sb, "**Mode:** %s %s\n", f.Mode(), strings.Join(f.Tags(), ", "))

	elements := f.Elements()
	fmt.Fprintf(&sb, "\n## Elements (%d)\n\n", len(elements))
	for _, e := range elements {
		fmt.Fprintf(&sb, "- [%s] %s (%s)\n", e.ID(), e.CanonicalName(), e.Kind())
	}

	rels := f.Relationships()
	fmt.Fprintf(&sb, "\n## Relationships (%d)\n\n", len(rels))
	writeRelationships(&sb, rels)
	return sb.String()
}

// Resource Handlers

func getOverview(ws *workspace.Workspace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Workspace Overview\n\n")
	if ws.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", ws.Description)
	}
	sb.WriteString("#" + handleSummary(ws))

	sb.WriteString("\n## Views\n\n")
	for _, v := range ws.Views.Views() {
		fmt.Fprintf(&sb, "- `%s` (%s): %d elements, %d relationships\n", v.Key(), v.Type(), len(v.ElementViews()), len(v.RelationshipViews()))
	}
	for _, f := range ws.Views.FilteredViews() {
		fmt.Fprintf(&sb, "- `%s` (Filtered on `%s`)\n", f.Key(), f.BaseViewKey())
	}
	return sb.String()
}

func getSchema() string {
	var sb strings.Builder
	sb.WriteString("# C4 Model Schema\n\n")
	sb.WriteString("## Element Types\n\n")
	sb.WriteString("| Type | Parent | Notes |\n")
	sb.WriteString("|------|--------|-------|\n")
	sb.WriteString("| `Person` | - | location: Internal, External |\n")
	sb.WriteString("| `SoftwareSystem` | - | location, group |\n")
	sb.WriteString("| `Container` | SoftwareSystem | technology |\n")
	sb.WriteString("| `Component` | Container | technology, size |\n")
	sb.WriteString("| `DeploymentNode` | DeploymentNode | environment, technology, instances |\n")
	sb.WriteString("| `InfrastructureNode` | DeploymentNode | environment, technology |\n")
	sb.WriteString("| `ContainerInstance` | DeploymentNode | container, instance id, health checks |\n")
	sb.WriteString("| `SoftwareSystemInstance` | DeploymentNode | software system, instance id, health checks |\n")
	sb.WriteString("\n## Relationships\n\n")
	sb.WriteString("| Field | Meaning |\n")
	sb.WriteString("|-------|---------|\n")
	sb.WriteString("| `sourceId` / `destinationId` | connected elements |\n")
	sb.WriteString("| `description` | what the source does with the destination |\n")
	sb.WriteString("| `technology` | protocol or mechanism |\n")
	sb.WriteString("| `interactionStyle` | Synchronous or Asynchronous |\n")
	sb.WriteString("| `linkedRelationshipId` | the model relationship a deployment relationship was replicated from |\n")
	sb.WriteString("\n## View Types\n\n")
	sb.WriteString("| Type | Scope |\n")
	sb.WriteString("|------|-------|\n")
	sb.WriteString("| `SystemLandscape` | enterprise |\n")
	sb.WriteString("| `SystemContext` | software system |\n")
	sb.WriteString("| `Container` | software system |\n")
	sb.WriteString("| `Component` | container |\n")
	sb.WriteString("| `Deployment` | environment, optionally one software system |\n")
	sb.WriteString("| `Dynamic` | model, software system or container |\n")
	sb.WriteString("| `Filtered` | another view, by tag |\n")
	return sb.String()
}
