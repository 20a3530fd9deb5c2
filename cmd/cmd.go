// Package cmd provides CLI command implementations for c4.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/Benny93/c4-go/internal/watch"
	"github.com/Benny93/c4-go/mcp"
	"github.com/Benny93/c4-go/workspace"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

// Globals are the flags shared by every command.
type Globals struct {
	Verbose bool   `short:"v" help:"Enable debug logging on stderr"`
	EnvFile string `name:"env-file" type:"path" help:"Read STRUCTURIZR_* settings from this file instead of ./.env"`

	out io.Writer
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *Globals) logger() *slog.Logger {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ValidateCmd loads a workspace document and reports whether it is
// consistent.
type ValidateCmd struct {
	File string `arg:"" type:"existingfile" help:"Workspace JSON file (.json or .json.gz)"`
}

// Run executes the validate command.
func (c *ValidateCmd) Run(g *Globals) error {
	ws, err := workspace.Load(c.File)
	if err != nil {
		return err
	}
	s := ws.Summarize()
	green.Fprintf(g.stdout(), "✓ %s is valid\n", c.File)
	fmt.Fprintf(g.stdout(), "  %d elements, %d relationships, %d views\n", elementCount(s), s.Relationships, s.Views)
	return nil
}

// SummaryCmd prints the contents of a workspace.
type SummaryCmd struct {
	File   string `arg:"" type:"existingfile" help:"Workspace JSON file"`
	Format string `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text|json|yaml)"`
}

// Run executes the summary command.
func (c *SummaryCmd) Run(g *Globals) error {
	ws, err := workspace.Load(c.File)
	if err != nil {
		return err
	}
	s := ws.Summarize()
	w := g.stdout()

	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		return yaml.NewEncoder(w).Encode(s)
	}

	fmt.Fprintf(w, "## %s\n\n", s.Name)
	if ws.Description != "" {
		fmt.Fprintf(w, "%s\n\n", ws.Description)
	}
	fmt.Fprintf(w, "  People:                     %d\n", s.People)
	fmt.Fprintf(w, "  Software systems:           %d\n", s.SoftwareSystems)
	fmt.Fprintf(w, "  Containers:                 %d\n", s.Containers)
	fmt.Fprintf(w, "  Components:                 %d\n", s.Components)
	fmt.Fprintf(w, "  Deployment nodes:           %d\n", s.DeploymentNodes)
	fmt.Fprintf(w, "  Infrastructure nodes:       %d\n", s.InfrastructureNodes)
	fmt.Fprintf(w, "  Container instances:        %d\n", s.ContainerInstances)
	fmt.Fprintf(w, "  Software system instances:  %d\n", s.SoftwareSystemInstances)
	fmt.Fprintf(w, "  Relationships:              %d\n", s.Relationships)
	fmt.Fprintf(w, "  Views:                      %d\n", s.Views)
	for _, env := range s.Environments {
		fmt.Fprintf(w, "  Environment:                %s\n", env)
	}
	return nil
}

// ExportCmd re-encodes a workspace as JSON or YAML.
type ExportCmd struct {
	File   string `arg:"" type:"existingfile" help:"Workspace JSON file"`
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json|yaml)"`
	Out    string `short:"o" type:"path" help:"Write to this file instead of stdout"`
}

// Run executes the export command.
func (c *ExportCmd) Run(g *Globals) error {
	ws, err := workspace.Load(c.File)
	if err != nil {
		return err
	}

	var data []byte
	if c.Format == "yaml" {
		data, err = ws.DumpYAML()
	} else {
		data, err = ws.Dumps()
	}
	if err != nil {
		return err
	}
	return writeOutput(g, c.Out, append(data, '\n'))
}

// ExampleCmd writes one of the built-in example workspaces.
type ExampleCmd struct {
	Name string `arg:"" optional:"" enum:"getting-started,big-bank" default:"big-bank" help:"Example to build (getting-started|big-bank)"`
	Out  string `short:"o" type:"path" help:"Write to this file instead of stdout; .gz compresses"`
}

// Run executes the example command.
func (c *ExampleCmd) Run(g *Globals) error {
	build := workspace.BigBank
	if c.Name == "getting-started" {
		build = workspace.GettingStarted
	}
	ws, err := build()
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := ws.Dump(c.Out); err != nil {
			return err
		}
		green.Fprintf(g.stdout(), "✓ Wrote %s to %s\n", ws.Name, c.Out)
		return nil
	}
	data, err := ws.Dumps()
	if err != nil {
		return err
	}
	_, err = g.stdout().Write(append(data, '\n'))
	return err
}

// WatchCmd re-validates workspace documents whenever they change.
type WatchCmd struct {
	Dir      string        `arg:"" optional:"" default:"." type:"existingdir" help:"Directory to watch"`
	Debounce time.Duration `default:"500ms" help:"Quiet period before changed files are validated"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	root, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	w := g.stdout()

	results, err := watch.Scan(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "## Watch Mode")
	fmt.Fprintf(w, "Watching %s for changes (Ctrl+C to stop)\n\n", root)
	for _, r := range results {
		printResult(w, r)
	}

	ctx, stop := interruptContext()
	defer stop()

	err = watch.Watch(ctx, root, func(r watch.Result) { printResult(w, r) },
		watch.WithDebounce(c.Debounce), watch.WithLogger(g.logger()))
	if err != nil && err != context.Canceled {
		return fmt.Errorf("watch error: %w", err)
	}

	fmt.Fprintln(w, "Watch mode stopped.")
	return nil
}

func printResult(w io.Writer, r watch.Result) {
	switch {
	case r.Removed:
		yellow.Fprintf(w, "- %s removed\n", r.Path)
	case r.Err != nil:
		red.Fprintf(w, "✗ %s: %v\n", r.Path, r.Err)
	default:
		green.Fprintf(w, "✓ %s: %d elements, %d relationships, %d views\n",
			r.Path, elementCount(r.Summary), r.Summary.Relationships, r.Summary.Views)
	}
}

// MCPCmd serves a workspace over the Model Context Protocol.
type MCPCmd struct {
	File string `arg:"" type:"existingfile" help:"Workspace JSON file"`
	SDK  bool   `help:"Serve through the go-sdk stdio transport instead of the built-in loop"`
}

// Run executes the mcp command.
func (c *MCPCmd) Run(g *Globals) error {
	ws, err := workspace.Load(c.File)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	// Nothing else may write to stdout: it carries JSON-RPC only.
	server := mcp.NewServer(ws, Version)
	if c.SDK {
		return server.ServeSDK(ctx)
	}
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// CLI is the root Kong command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Validate ValidateCmd `cmd:"" help:"Check that a workspace document loads"`
	Summary  SummaryCmd  `cmd:"" help:"Count the elements, relationships and views of a workspace"`
	Export   ExportCmd   `cmd:"" help:"Re-encode a workspace as JSON or YAML"`
	Example  ExampleCmd  `cmd:"" help:"Write a built-in example workspace"`
	Pull     PullCmd     `cmd:"" help:"Download the remote workspace"`
	Push     PushCmd     `cmd:"" help:"Upload a workspace, merging the remote layout"`
	Lock     LockCmd     `cmd:"" help:"Lock the remote workspace"`
	Unlock   UnlockCmd   `cmd:"" help:"Unlock the remote workspace"`
	Archive  ArchiveCmd  `cmd:"" help:"Inspect archived workspace downloads"`
	Watch    WatchCmd    `cmd:"" help:"Re-validate workspace files as they change"`
	MCP      MCPCmd      `cmd:"" name:"mcp" help:"Start MCP server (stdio transport)"`
	Setup    SetupCmd    `cmd:"" help:"Configure MCP clients to use c4 mcp"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses args and runs the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("c4"),
		kong.Description("Build, check and publish C4 architecture workspaces"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(&c.Globals)
}

func elementCount(s workspace.Summary) int {
	return s.People + s.SoftwareSystems + s.Containers + s.Components +
		s.DeploymentNodes + s.InfrastructureNodes + s.ContainerInstances + s.SoftwareSystemInstances
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(g *Globals, path string, data []byte) error {
	if path == "" {
		_, err := g.stdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
