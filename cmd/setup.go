package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SetupCmd configures MCP clients to start c4 mcp on a workspace.
type SetupCmd struct {
	File     string `arg:"" help:"Workspace JSON file the MCP server should load"`
	Qwen     bool   `help:"Configure for Qwen CLI"`
	Claude   bool   `help:"Configure for Claude Code"`
	Cursor   bool   `help:"Configure for Cursor"`
	Global   bool   `help:"Create global configuration instead of a project-local one"`
	Format   string `help:"Output format (json|text)" enum:"json,text" default:"json"`
	FilePath string `help:"Custom directory for the configuration file"`
}

// Run executes the setup command.
func (c *SetupCmd) Run(g *Globals) error {
	file, err := filepath.Abs(c.File)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	config := generateConfig(file)

	// Without a client the configuration goes to stdout.
	if !c.Qwen && !c.Claude && !c.Cursor {
		content, err := renderConfig(config, c.Format)
		if err != nil {
			return err
		}
		_, err = g.stdout().Write(content)
		return err
	}

	for _, client := range []struct {
		enabled bool
		name    string
	}{
		{c.Qwen, "qwen"},
		{c.Claude, "claude"},
		{c.Cursor, "cursor"},
	} {
		if !client.enabled {
			continue
		}
		path := c.configPath(client.name)
		if err := writeConfig(path, config, c.Format); err != nil {
			return err
		}
		scope := "local"
		if c.Global {
			scope = "global"
		}
		green.Fprintf(g.stdout(), "✓ Created %s %s MCP config at %s\n", scope, client.name, path)
	}
	return nil
}

func (c *SetupCmd) configPath(client string) string {
	switch {
	case c.Global:
		return getGlobalConfigPath(client)
	case c.FilePath != "":
		return filepath.Join(c.FilePath, "mcp.json")
	default:
		return getLocalConfigPath(".", client)
	}
}

func generateConfig(file string) map[string]any {
	return map[string]any{
		"mcpServers": map[string]any{
			"c4": map[string]any{
				"command": "c4",
				"args":    []string{"mcp", file},
			},
		},
	}
}

// Path helpers

func getLocalConfigPath(basePath, client string) string {
	return filepath.Join(basePath, getClientConfigDir(client), "mcp.json")
}

func getGlobalConfigPath(client string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
	}
	return filepath.Join(homeDir, getClientConfigDir(client), "global", "mcp.json")
}

func getClientConfigDir(client string) string {
	switch client {
	case "claude":
		return ".claude"
	case "cursor":
		return ".cursor"
	default:
		return ".qwen"
	}
}

// Config writers

func renderConfig(config map[string]any, format string) ([]byte, error) {
	if format == "json" {
		content, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(content, '\n'), nil
	}

	var sb strings.Builder
	sb.WriteString("# MCP configuration for c4\n")
	sb.WriteString("# Generated by c4 setup\n\n")
	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, _ := json.Marshal(config[key])
		fmt.Fprintf(&sb, "%s: %s\n", key, value)
	}
	return []byte(sb.String()), nil
}

func writeConfig(configPath string, config map[string]any, format string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	content, err := renderConfig(config, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
