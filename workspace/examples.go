package workspace

import (
	"fmt"

	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
)

// GettingStarted builds the smallest useful workspace: a user of one
// software system, with a system context view.
func GettingStarted() (*Workspace, error) {
	w := New("Getting Started", "This is a model of my software system.")
	m := w.Model

	user, err := m.AddPerson("User", model.WithDescription("A user of my software system."))
	if err != nil {
		return nil, err
	}
	system, err := m.AddSoftwareSystem("Software System", model.WithDescription("My software system."))
	if err != nil {
		return nil, err
	}
	if _, err := user.Uses(system, "Uses"); err != nil {
		return nil, err
	}

	ctx, err := w.Views.CreateSystemContextView(system, "SystemContext", "An example of a System Context diagram.")
	if err != nil {
		return nil, err
	}
	if err := ctx.AddAllElements(); err != nil {
		return nil, err
	}
	ctx.EnableAutomaticLayout(view.RankTopBottom)
	return w, nil
}

// bigBank collects the elements of the Big Bank plc example while it is
// being built; the first error sticks and later steps become no-ops.
type bigBank struct {
	w   *Workspace
	err error
}

func (b *bigBank) person(name, description string, location model.Location) *model.Person {
	if b.err != nil {
		return nil
	}
	p, err := b.w.Model.AddPerson(name, model.WithDescription(description), model.WithLocation(location))
	b.err = err
	return p
}

func (b *bigBank) system(name, description string, location model.Location, tags ...string) *model.SoftwareSystem {
	if b.err != nil {
		return nil
	}
	s, err := b.w.Model.AddSoftwareSystem(name, model.WithDescription(description), model.WithLocation(location), model.WithTags(tags...))
	b.err = err
	return s
}

func (b *bigBank) container(s *model.SoftwareSystem, name, description, technology string, tags ...string) *model.Container {
	if b.err != nil {
		return nil
	}
	c, err := s.AddContainer(name, model.WithDescription(description), model.WithTechnology(technology), model.WithTags(tags...))
	b.err = err
	return c
}

func (b *bigBank) component(c *model.Container, name, description, technology string) *model.Component {
	if b.err != nil {
		return nil
	}
	comp, err := c.AddComponent(name, model.WithDescription(description), model.WithTechnology(technology))
	b.err = err
	return comp
}

func (b *bigBank) uses(src, dst model.Element, description, technology string, opts ...model.RelationshipOption) {
	if b.err != nil {
		return
	}
	opts = append(opts, model.WithRelationshipTechnology(technology))
	_, b.err = b.w.Model.AddRelationship(src, dst, description, opts...)
}

func (b *bigBank) node(parent *model.DeploymentNode, name, description, technology, environment string, instances int) *model.DeploymentNode {
	if b.err != nil {
		return nil
	}
	opts := []model.ElementOption{
		model.WithDescription(description),
		model.WithTechnology(technology),
		model.WithEnvironment(environment),
		model.WithInstances(instances),
	}
	var n *model.DeploymentNode
	if parent == nil {
		n, b.err = b.w.Model.AddDeploymentNode(name, opts...)
	} else {
		n, b.err = parent.AddDeploymentNode(name, opts...)
	}
	return n
}

func (b *bigBank) deploy(n *model.DeploymentNode, c *model.Container) *model.ContainerInstance {
	if b.err != nil {
		return nil
	}
	ci, err := n.AddContainer(c, true)
	b.err = err
	return ci
}

func (b *bigBank) step(err error) {
	if b.err == nil {
		b.err = err
	}
}

// BigBank builds the Big Bank plc internet banking example with views of
// every kind, two deployment environments and a dynamic sign-in view.
func BigBank() (*Workspace, error) {
	b := &bigBank{w: New("Big Bank plc", "This is an example workspace to illustrate the key features of Structurizr.",
		model.WithEnterprise("Big Bank plc"),
		model.WithImpliedRelationshipStrategy(model.CreateImpliedRelationshipsUnlessAnyExist))}
	w := b.w

	customer := b.person("Personal Banking Customer", "A customer of the bank, with personal bank accounts.", model.LocationExternal)
	internetBanking := b.system("Internet Banking System", "Allows customers to view information about their bank accounts, and make payments.", model.LocationInternal)
	mainframe := b.system("Mainframe Banking System", "Stores all of the core banking information about customers, accounts, transactions, etc.", model.LocationInternal, "Existing System")
	email := b.system("E-mail System", "The internal Microsoft Exchange e-mail system.", model.LocationInternal, "Existing System")
	atm := b.system("ATM", "Allows customers to withdraw cash.", model.LocationInternal, "Existing System")
	supportStaff := b.person("Customer Service Staff", "Customer service staff within the bank.", model.LocationInternal)
	backOffice := b.person("Back Office Staff", "Administration and support staff within the bank.", model.LocationInternal)

	b.uses(customer, internetBanking, "Views account balances, and makes payments using", "")
	b.uses(internetBanking, mainframe, "Gets account information from, and makes payments using", "")
	b.uses(internetBanking, email, "Sends e-mail using", "")
	b.uses(email, customer, "Sends e-mails to", "")
	b.uses(customer, supportStaff, "Asks questions to", "Telephone")
	b.uses(supportStaff, mainframe, "Uses", "")
	b.uses(customer, atm, "Withdraws cash using", "")
	b.uses(atm, mainframe, "Uses", "")
	b.uses(backOffice, mainframe, "Uses", "")

	spa := b.container(internetBanking, "Single-Page Application", "Provides all of the Internet banking functionality to customers via their web browser.", "JavaScript and Angular", "Web Browser")
	mobile := b.container(internetBanking, "Mobile App", "Provides a limited subset of the Internet banking functionality to customers via their mobile device.", "Xamarin", "Mobile App")
	web := b.container(internetBanking, "Web Application", "Delivers the static content and the Internet banking single page application.", "Java and Spring MVC")
	api := b.container(internetBanking, "API Application", "Provides Internet banking functionality via a JSON/HTTPS API.", "Java and Spring MVC")
	db := b.container(internetBanking, "Database", "Stores user registration information, hashed authentication credentials, access logs, etc.", "Oracle Database Schema", "Database")

	b.uses(customer, web, "Visits bigbank.com/ib using", "HTTPS")
	b.uses(customer, spa, "Views account balances, and makes payments using", "")
	b.uses(customer, mobile, "Views account balances, and makes payments using", "")
	b.uses(web, spa, "Delivers to the customer's web browser", "")

	signin := b.component(api, "Sign In Controller", "Allows users to sign in to the Internet Banking System.", "Spring MVC Rest Controller")
	accounts := b.component(api, "Accounts Summary Controller", "Provides customers with a summary of their bank accounts.", "Spring MVC Rest Controller")
	reset := b.component(api, "Reset Password Controller", "Allows users to reset their passwords with a single use URL.", "Spring MVC Rest Controller")
	security := b.component(api, "Security Component", "Provides functionality related to signing in, changing passwords, etc.", "Spring Bean")
	facade := b.component(api, "Mainframe Banking System Facade", "A facade onto the mainframe banking system.", "Spring Bean")
	emailComponent := b.component(api, "E-mail Component", "Sends e-mails to users.", "Spring Bean")

	for _, c := range []model.Element{signin, accounts, reset} {
		b.uses(spa, c, "Makes API calls to", "JSON/HTTPS")
		b.uses(mobile, c, "Makes API calls to", "JSON/HTTPS")
	}
	b.uses(signin, security, "Uses", "")
	b.uses(accounts, facade, "Uses", "")
	b.uses(reset, security, "Uses", "")
	b.uses(reset, emailComponent, "Uses", "")
	b.uses(security, db, "Reads from and writes to", "JDBC")
	b.uses(facade, mainframe, "Makes API calls to", "XML/HTTPS")
	b.uses(emailComponent, email, "Sends e-mail using", "", model.WithInteractionStyle(model.Asynchronous))

	laptop := b.node(nil, "Developer Laptop", "A developer laptop.", "Microsoft Windows 10 or Apple macOS", "Development", 1)
	browser := b.node(laptop, "Web Browser", "", "Chrome, Firefox, Safari, or Edge", "Development", 1)
	b.deploy(browser, spa)
	docker := b.node(laptop, "Docker Container - Web Server", "A Docker container.", "Docker", "Development", 1)
	tomcat := b.node(docker, "Apache Tomcat", "An open source Java EE web server.", "Apache Tomcat 8.x", "Development", 1)
	b.deploy(tomcat, web)
	b.deploy(tomcat, api)
	dockerDB := b.node(laptop, "Docker Container - Database Server", "A Docker container.", "Docker", "Development", 1)
	oracle := b.node(dockerDB, "Database Server", "A development database.", "Oracle 12c", "Development", 1)
	b.deploy(oracle, db)

	phone := b.node(nil, "Customer's mobile device", "", "Apple iOS or Android", "Live", 1)
	b.deploy(phone, mobile)
	computer := b.node(nil, "Customer's computer", "", "Microsoft Windows or Apple macOS", "Live", 1)
	liveBrowser := b.node(computer, "Web Browser", "", "Chrome, Firefox, Safari, or Edge", "Live", 1)
	b.deploy(liveBrowser, spa)
	dc := b.node(nil, "Big Bank plc", "", "Big Bank plc data center", "Live", 1)
	webServer := b.node(dc, "bigbank-web***", "A web server residing in the web server farm, accessed via F5 BIG-IP LTMs.", "Ubuntu 16.04 LTS", "Live", 4)
	liveTomcat := b.node(webServer, "Apache Tomcat", "An open source Java EE web server.", "Apache Tomcat 8.x", "Live", 1)
	b.deploy(liveTomcat, web)
	b.deploy(liveTomcat, api)
	primary := b.node(dc, "bigbank-db01", "The primary database server.", "Ubuntu 16.04 LTS", "Live", 1)
	primaryOracle := b.node(primary, "Oracle - Primary", "The primary, live database server.", "Oracle 12c", "Live", 1)
	b.deploy(primaryOracle, db)
	secondary := b.node(dc, "bigbank-db02", "The secondary database server.", "Ubuntu 16.04 LTS", "Live", 1)
	secondaryOracle := b.node(secondary, "Oracle - Secondary", "A secondary, standby database server, used for failover purposes only.", "Oracle 12c", "Live", 1)
	standby := b.deploy(secondaryOracle, db)
	if b.err != nil {
		return nil, fmt.Errorf("building model: %w", b.err)
	}
	standby.AddTags("Failover")
	if _, err := primaryOracle.Uses(secondaryOracle, "Replicates data to", model.WithoutImpliedRelationships()); err != nil {
		return nil, err
	}

	vs := w.Views
	landscape, err := vs.CreateSystemLandscapeView("SystemLandscape", "The system landscape diagram for Big Bank plc.")
	b.step(err)
	if landscape != nil {
		b.step(landscape.AddAllElements())
		landscape.EnableAutomaticLayout(view.RankTopBottom)
	}
	systemContext, err := vs.CreateSystemContextView(internetBanking, "SystemContext", "The system context diagram for the Internet Banking System.")
	b.step(err)
	if systemContext != nil {
		b.step(systemContext.AddNearestNeighbours(internetBanking))
		systemContext.EnableAutomaticLayout(view.RankTopBottom)
	}
	containers, err := vs.CreateContainerView(internetBanking, "Containers", "The container diagram for the Internet Banking System.")
	b.step(err)
	if containers != nil {
		b.step(containers.Add(customer, true))
		b.step(containers.AddAllContainers())
		b.step(containers.Add(mainframe, true))
		b.step(containers.Add(email, true))
		containers.EnableAutomaticLayout(view.RankTopBottom)
	}
	components, err := vs.CreateComponentView(api, "Components", "The component diagram for the API Application.")
	b.step(err)
	if components != nil {
		b.step(components.Add(mainframe, true))
		b.step(components.Add(email, true))
		b.step(components.AddAllContainers())
		b.step(components.AddAllComponents())
		components.EnableAutomaticLayout(view.RankTopBottom)
	}
	dynamic, err := vs.CreateDynamicView(api, "SignIn", "Summarises how the sign in feature works in the single-page application.")
	b.step(err)
	if dynamic != nil && b.err == nil {
		_, err = dynamic.Add(spa, signin, "Submits credentials to", "")
		b.step(err)
		_, err = dynamic.Add(signin, security, "Validates credentials using", "")
		b.step(err)
		_, err = dynamic.Add(security, db, "select * from users where username = ?", "")
		b.step(err)
		_, err = dynamic.Add(db, security, "Returns user data to", "")
		b.step(err)
		_, err = dynamic.Add(security, signin, "Returns true if the hashed password matches", "")
		b.step(err)
		_, err = dynamic.Add(signin, spa, "Sends back an authentication token to", "")
		b.step(err)
	}
	development, err := vs.CreateDeploymentView("DevelopmentDeployment", "An example development deployment scenario for the Internet Banking System.",
		view.ForSoftwareSystem(internetBanking), view.InEnvironment("Development"))
	b.step(err)
	if development != nil {
		b.step(development.AddDefaultElements())
	}
	live, err := vs.CreateDeploymentView("LiveDeployment", "An example live deployment scenario for the Internet Banking System.",
		view.ForSoftwareSystem(internetBanking), view.InEnvironment("Live"))
	b.step(err)
	if live != nil {
		b.step(live.AddDefaultElements())
	}
	if _, err := vs.CreateFilteredView("SystemLandscape", "ExistingSystems", "Existing systems only.", view.FilterInclude, "Existing System"); err != nil {
		b.step(err)
	}
	if b.err != nil {
		return nil, fmt.Errorf("building views: %w", b.err)
	}
	return w, nil
}
