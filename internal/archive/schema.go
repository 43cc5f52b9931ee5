package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/Akamitori/qcvault/schema"
)

// Schema is a compiled JSON Schema every archive document is checked against.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Violation is a single schema failure inside one document.
type Violation struct {
	Path    string // JSON Pointer to the offending value
	Message string
}

// DefaultSchema compiles the post schema shipped with qcvault.
func DefaultSchema() (*Schema, error) {
	return CompileSchema("post.schema.json", schema.Post)
}

// LoadSchema reads and compiles the schema at path. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schema file %s: %w", path, err)
	}
	return CompileSchema(path, data)
}

// CompileSchema compiles a schema document. name is used to pick the
// encoding and to identify the schema in errors.
func CompileSchema(name string, data []byte) (*Schema, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("error unmarshalling schema %s: %w", name, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("error converting schema %s to JSON: %w", name, err)
		}
		data = converted
	}

	url := "mem://qcvault/" + filepath.Base(name)
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error loading schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("error compiling schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string { return s.name }

// Validate checks a decoded document and returns every leaf violation. A nil
// result means the document conforms.
func (s *Schema) Validate(doc any) []Violation {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []Violation{{Message: err.Error()}}
	}
	var out []Violation
	collectViolations(ve, &out)
	return out
}

func collectViolations(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{Path: ve.InstanceLocation, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, out)
	}
}
