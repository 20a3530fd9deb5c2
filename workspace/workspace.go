// Package workspace bundles a model and its views and converts them to
// and from the Structurizr workspace JSON document.
package workspace

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Benny93/c4-go/model"
	"github.com/Benny93/c4-go/view"
)

// ErrUnknownElement is returned when a document refers to an element or
// relationship id that does not exist.
var ErrUnknownElement = errors.New("unknown element")

// Workspace is the unit of exchange: a model, its views, and metadata.
type Workspace struct {
	ID                int64
	Name              string
	Description       string
	Version           string
	Revision          int64
	Thumbnail         string
	LastModifiedDate  time.Time
	LastModifiedUser  string
	LastModifiedAgent string

	Model *model.Model
	Views *view.ViewSet

	// Configuration holds the view configuration (styles, branding,
	// terminology) as read, so it survives a load and save.
	Configuration map[string]any
}

// New creates an empty workspace. The options configure the model.
func New(name, description string, opts ...model.Option) *Workspace {
	m := model.NewModel(opts...)
	return &Workspace{
		Name:        name,
		Description: description,
		Model:       m,
		Views:       view.NewViewSet(m),
	}
}

// Load reads a workspace document from path. Paths ending in .gz are
// decompressed.
func Load(path string, opts ...model.Option) (*Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	w, err := Loads(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return w, nil
}

// Loads parses a workspace document and hydrates its model and views.
// Stored relationships are registered as-is: no implied relationships are
// created and nothing is replicated.
func Loads(data []byte, opts ...model.Option) (*Workspace, error) {
	var doc workspaceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding workspace: %w", err)
	}
	return decodeWorkspace(&doc, opts...)
}

// Dumps renders the workspace as indented JSON.
func (w *Workspace) Dumps() ([]byte, error) {
	data, err := json.MarshalIndent(encodeWorkspace(w), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding workspace: %w", err)
	}
	return data, nil
}

// Dump writes the workspace to path, gzip-compressed when path ends in
// .gz.
func (w *Workspace) Dump(path string) error {
	data, err := w.Dumps()
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return fmt.Errorf("compressing workspace: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("compressing workspace: %w", err)
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workspace: %w", err)
	}
	return nil
}

// DumpYAML renders the workspace document as YAML, with the same field
// names as the JSON form.
func (w *Workspace) DumpYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(encodeWorkspace(w)); err != nil {
		return nil, fmt.Errorf("encoding workspace: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding workspace: %w", err)
	}
	return buf.Bytes(), nil
}
