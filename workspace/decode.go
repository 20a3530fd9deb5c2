package workspace

import (
	"fmt"

	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
)

// decoder hydrates a model and its views from a document. Relationships
// are collected while elements are created and registered once every
// element exists, so forward references resolve.
type decoder struct {
	m       *model.Model
	pending []relationshipDoc
}

func decodeWorkspace(doc *workspaceDoc, opts ...model.Option) (*Workspace, error) {
	w := &Workspace{
		ID:                doc.ID,
		Name:              doc.Name,
		Description:       doc.Description,
		Version:           doc.Version,
		Revision:          doc.Revision,
		Thumbnail:         doc.Thumbnail,
		LastModifiedUser:  doc.LastModifiedUser,
		LastModifiedAgent: doc.LastModifiedAgent,
		Model:             model.NewModel(opts...),
		Configuration:     doc.Views.Configuration,
	}
	if doc.LastModifiedDate != nil {
		w.LastModifiedDate = *doc.LastModifiedDate
	}
	w.Views = view.NewViewSet(w.Model)

	d := &decoder{m: w.Model}
	if err := d.decodeModel(&doc.Model); err != nil {
		return nil, err
	}
	if err := decodeViews(w.Views, &doc.Views); err != nil {
		return nil, err
	}
	return w, nil
}

func (d *decoder) decodeModel(doc *modelDoc) error {
	if doc.Enterprise != nil {
		d.m.SetEnterprise(doc.Enterprise.Name)
	}
	for i := range doc.People {
		pd := &doc.People[i]
		p, err := d.m.AddPerson(pd.Name, append(elementOptions(&pd.elementDoc),
			model.WithLocation(model.ParseLocation(pd.Location)),
			model.WithGroup(pd.Group))...)
		if err != nil {
			return err
		}
		d.restore(p, &pd.elementDoc)
	}
	for i := range doc.SoftwareSystems {
		if err := d.decodeSoftwareSystem(&doc.SoftwareSystems[i]); err != nil {
			return err
		}
	}
	for i := range doc.DeploymentNodes {
		if err := d.decodeDeploymentNode(nil, &doc.DeploymentNodes[i]); err != nil {
			return err
		}
	}
	return d.decodeRelationships()
}

func (d *decoder) decodeSoftwareSystem(sd *softwareSystemDoc) error {
	s, err := d.m.AddSoftwareSystem(sd.Name, append(elementOptions(&sd.elementDoc),
		model.WithLocation(model.ParseLocation(sd.Location)),
		model.WithGroup(sd.Group))...)
	if err != nil {
		return err
	}
	d.restore(s, &sd.elementDoc)
	for i := range sd.Containers {
		cd := &sd.Containers[i]
		c, err := d.m.AddContainer(s, cd.Name, append(elementOptions(&cd.elementDoc),
			model.WithTechnology(cd.Technology),
			model.WithGroup(cd.Group))...)
		if err != nil {
			return err
		}
		d.restore(c, &cd.elementDoc)
		for j := range cd.Components {
			compDoc := &cd.Components[j]
			comp, err := d.m.AddComponent(c, compDoc.Name, append(elementOptions(&compDoc.elementDoc),
				model.WithTechnology(compDoc.Technology),
				model.WithGroup(compDoc.Group),
				model.WithSize(compDoc.Size))...)
			if err != nil {
				return err
			}
			d.restore(comp, &compDoc.elementDoc)
		}
	}
	return nil
}

func (d *decoder) decodeDeploymentNode(parent *model.DeploymentNode, nd *deploymentNodeDoc) error {
	opts := append(elementOptions(&nd.elementDoc),
		model.WithTechnology(nd.Technology),
		model.WithInstances(nd.Instances))
	var (
		n   *model.DeploymentNode
		err error
	)
	if parent == nil {
		n, err = d.m.AddDeploymentNode(nd.Name, append(opts, model.WithEnvironment(nd.Environment))...)
	} else {
		n, err = d.m.AddChildDeploymentNode(parent, nd.Name, opts...)
	}
	if err != nil {
		return err
	}
	d.restore(n, &nd.elementDoc)

	for i := range nd.Children {
		if err := d.decodeDeploymentNode(n, &nd.Children[i]); err != nil {
			return err
		}
	}
	for i := range nd.InfrastructureNodes {
		id := &nd.InfrastructureNodes[i]
		in, err := d.m.AddInfrastructureNode(n, id.Name, append(elementOptions(&id.elementDoc),
			model.WithTechnology(id.Technology))...)
		if err != nil {
			return err
		}
		d.restore(in, &id.elementDoc)
	}
	for i := range nd.ContainerInstances {
		cd := &nd.ContainerInstances[i]
		c, ok := d.m.GetElement(cd.ContainerID).(*model.Container)
		if !ok {
			return fmt.Errorf("%w: container %q of instance %s", ErrUnknownElement, cd.ContainerID, cd.ID)
		}
		ci, err := d.m.AddContainerInstance(n, c, false, append(elementOptions(&cd.elementDoc),
			model.WithInstanceID(cd.InstanceID))...)
		if err != nil {
			return err
		}
		d.restore(ci, &cd.elementDoc)
		for _, hc := range cd.HealthChecks {
			ci.RestoreHealthCheck(hc)
		}
	}
	for i := range nd.SoftwareSystemInstances {
		sd := &nd.SoftwareSystemInstances[i]
		s, ok := d.m.GetElement(sd.SoftwareSystemID).(*model.SoftwareSystem)
		if !ok {
			return fmt.Errorf("%w: software system %q of instance %s", ErrUnknownElement, sd.SoftwareSystemID, sd.ID)
		}
		si, err := d.m.AddSoftwareSystemInstance(n, s, false, append(elementOptions(&sd.elementDoc),
			model.WithInstanceID(sd.InstanceID))...)
		if err != nil {
			return err
		}
		d.restore(si, &sd.elementDoc)
		for _, hc := range sd.HealthChecks {
			si.RestoreHealthCheck(hc)
		}
	}
	return nil
}

func elementOptions(ed *elementDoc) []model.ElementOption {
	return []model.ElementOption{
		model.WithID(ed.ID),
		model.WithDescription(ed.Description),
		model.WithURL(ed.URL),
		model.WithProperties(ed.Properties),
	}
}

// restore applies stored tags and perspectives to e and queues its
// outbound relationships. Stored tags replace the defaults; an element
// stored without tags keeps them.
func (d *decoder) restore(e model.Element, ed *elementDoc) {
	it := e.(item)
	if ed.Tags != "" {
		it.SetTags(model.ParseTags(ed.Tags)...)
	}
	for _, p := range ed.Perspectives {
		it.AddPerspective(p.Name, p.Description)
	}
	for _, rd := range ed.Relationships {
		if rd.SourceID == "" {
			rd.SourceID = ed.ID
		}
		d.pending = append(d.pending, rd)
	}
}

// decodeRelationships registers the queued relationships as stored:
// neither implied relationships nor replication run, and the stored tags
// replace the defaults.
func (d *decoder) decodeRelationships() error {
	for _, rd := range d.pending {
		src := d.m.GetElement(rd.SourceID)
		if src == nil {
			return fmt.Errorf("%w: source %q of relationship %s", ErrUnknownElement, rd.SourceID, rd.ID)
		}
		dst := d.m.GetElement(rd.DestinationID)
		if dst == nil {
			return fmt.Errorf("%w: destination %q of relationship %s", ErrUnknownElement, rd.DestinationID, rd.ID)
		}
		r := model.NewRelationship(src, dst, rd.Description,
			model.WithRelationshipID(rd.ID),
			model.WithRelationshipTechnology(rd.Technology),
			model.WithInteractionStyle(model.ParseInteractionStyle(rd.InteractionStyle)),
			model.WithRelationshipProperties(rd.Properties),
			model.WithLinkedRelationshipID(rd.LinkedRelationshipID))
		r.SetTags(model.ParseTags(rd.Tags)...)
		for _, p := range rd.Perspectives {
			r.AddPerspective(p.Name, p.Description)
		}
		if _, err := d.m.RegisterRelationship(r, false); err != nil {
			return err
		}
	}
	d.pending = nil
	return nil
}

func decodeViews(vs *view.ViewSet, doc *viewsDoc) error {
	m := vs.Model()
	for i := range doc.SystemLandscapeViews {
		vd := &doc.SystemLandscapeViews[i]
		v, err := vs.CreateSystemLandscapeView(vd.Key, vd.Description)
		if err != nil {
			return err
		}
		if vd.EnterpriseBoundaryVisible != nil {
			v.EnterpriseBoundaryVisible = *vd.EnterpriseBoundaryVisible
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.SystemContextViews {
		vd := &doc.SystemContextViews[i]
		s, err := softwareSystem(m, vd)
		if err != nil {
			return err
		}
		v, err := vs.CreateSystemContextView(s, vd.Key, vd.Description)
		if err != nil {
			return err
		}
		if vd.EnterpriseBoundaryVisible != nil {
			v.EnterpriseBoundaryVisible = *vd.EnterpriseBoundaryVisible
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.ContainerViews {
		vd := &doc.ContainerViews[i]
		s, err := softwareSystem(m, vd)
		if err != nil {
			return err
		}
		v, err := vs.CreateContainerView(s, vd.Key, vd.Description)
		if err != nil {
			return err
		}
		if vd.ExternalSoftwareSystemBoundariesVisible != nil {
			v.ExternalSoftwareSystemBoundariesVisible = *vd.ExternalSoftwareSystemBoundariesVisible
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.ComponentViews {
		vd := &doc.ComponentViews[i]
		c, ok := m.GetElement(vd.ContainerID).(*model.Container)
		if !ok {
			return fmt.Errorf("%w: container %q of view %s", ErrUnknownElement, vd.ContainerID, vd.Key)
		}
		v, err := vs.CreateComponentView(c, vd.Key, vd.Description)
		if err != nil {
			return err
		}
		if vd.ExternalContainerBoundariesVisible != nil {
			v.ExternalContainerBoundariesVisible = *vd.ExternalContainerBoundariesVisible
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.DeploymentViews {
		vd := &doc.DeploymentViews[i]
		var opts []view.DeploymentViewOption
		if vd.SoftwareSystemID != "" {
			s, err := softwareSystem(m, vd)
			if err != nil {
				return err
			}
			opts = append(opts, view.ForSoftwareSystem(s))
		}
		if vd.Environment != "" {
			opts = append(opts, view.InEnvironment(vd.Environment))
		}
		v, err := vs.CreateDeploymentView(vd.Key, vd.Description, opts...)
		if err != nil {
			return err
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.DynamicViews {
		vd := &doc.DynamicViews[i]
		var scope model.Element
		if vd.ElementID != "" {
			if scope = m.GetElement(vd.ElementID); scope == nil {
				return fmt.Errorf("%w: element %q of view %s", ErrUnknownElement, vd.ElementID, vd.Key)
			}
		}
		v, err := vs.CreateDynamicView(scope, vd.Key, vd.Description)
		if err != nil {
			return err
		}
		if err := restoreView(v, vd); err != nil {
			return err
		}
	}
	for i := range doc.FilteredViews {
		fd := &doc.FilteredViews[i]
		mode := view.FilterMode(fd.Mode)
		if mode != view.FilterExclude {
			mode = view.FilterInclude
		}
		if _, err := vs.CreateFilteredView(fd.BaseViewKey, fd.Key, fd.Description, mode, fd.Tags...); err != nil {
			return err
		}
	}
	return nil
}

func softwareSystem(m *model.Model, vd *viewDoc) (*model.SoftwareSystem, error) {
	s, ok := m.GetElement(vd.SoftwareSystemID).(*model.SoftwareSystem)
	if !ok {
		return nil, fmt.Errorf("%w: software system %q of view %s", ErrUnknownElement, vd.SoftwareSystemID, vd.Key)
	}
	return s, nil
}

func restoreView(v view.View, vd *viewDoc) error {
	v.SetTitle(vd.Title)
	v.SetPaperSize(vd.PaperSize)
	v.SetAutomaticLayout(vd.AutomaticLayout)
	m := v.Model()
	for _, evd := range vd.Elements {
		e := m.GetElement(evd.ID)
		if e == nil {
			return fmt.Errorf("%w: element %q in view %s", ErrUnknownElement, evd.ID, vd.Key)
		}
		if _, err := v.RestoreElement(e, evd.X, evd.Y); err != nil {
			return fmt.Errorf("restoring view %s: %w", vd.Key, err)
		}
	}
	for _, rvd := range vd.Relationships {
		r := m.GetRelationship(rvd.ID)
		if r == nil {
			return fmt.Errorf("%w: relationship %q in view %s", ErrUnknownElement, rvd.ID, vd.Key)
		}
		rv, err := v.RestoreRelationship(r)
		if err != nil {
			return fmt.Errorf("restoring view %s: %w", vd.Key, err)
		}
		rv.Description = rvd.Description
		rv.Order = rvd.Order
		rv.Response = rvd.Response
		rv.Vertices = rvd.Vertices
		rv.Routing = rvd.Routing
		rv.Position = rvd.Position
	}
	if dv, ok := v.(*view.DynamicView); ok {
		dv.ResumeNumbering()
	}
	for _, a := range vd.Animations {
		v.RestoreAnimation(a)
	}
	return nil
}
