package archive

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/clbanning/mxj/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// record is the typed shape a document is decoded into before it becomes a
// model.Post.
type record struct {
	Title   string   `yaml:"title" json:"title"`
	Date    string   `yaml:"date" json:"date"`
	Author  string   `yaml:"author" json:"author"`
	Summary string   `yaml:"summary" json:"summary"`
	Tags    []string `yaml:"tags" json:"tags"`
	Body    string   `yaml:"body" json:"body"`
}

// format knows how to read one kind of archive file. parse produces the
// generic tree used for schema validation; decode fills a record.
type format struct {
	name   string
	parse  func(data []byte) (any, error)
	decode func(data []byte, rec *record) error
}

var frontMatterYAML = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

var (
	markdownFormat = &format{
		name: "markdown",
		parse: func(data []byte) (any, error) {
			var fm map[string]any
			if _, err := frontmatter.MustParse(bytes.NewReader(data), &fm, frontMatterYAML); err != nil {
				return nil, err
			}
			return normalize(fm)
		},
		decode: func(data []byte, rec *record) error {
			rest, err := frontmatter.MustParse(bytes.NewReader(data), rec, frontMatterYAML)
			if err != nil {
				return err
			}
			if rec.Body == "" {
				rec.Body = strings.TrimSpace(string(rest))
			}
			return nil
		},
	}

	yamlFormat = &format{
		name: "yaml",
		parse: func(data []byte) (any, error) {
			var doc any
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, err
			}
			return normalize(doc)
		},
		decode: func(data []byte, rec *record) error {
			return yaml.Unmarshal(data, rec)
		},
	}

	xmlFormat = &format{
		name:  "xml",
		parse: parseXMLTree,
		decode: func(data []byte, rec *record) error {
			tree, err := parseXMLTree(data)
			if err != nil {
				return err
			}
			encoded, err := json.Marshal(tree)
			if err != nil {
				return err
			}
			return json.Unmarshal(encoded, rec)
		},
	}

	jsonFormat = &format{
		name: "json",
		parse: func(data []byte) (any, error) {
			if !json.Valid(data) {
				return nil, errors.New("invalid JSON document")
			}
			return decodeJSONTree(data)
		},
		decode: func(data []byte, rec *record) error {
			return json.Unmarshal(data, rec)
		},
	}
)

var formatsByExt = map[string]*format{
	".md":       markdownFormat,
	".markdown": markdownFormat,
	".yaml":     yamlFormat,
	".yml":      yamlFormat,
	".json":     jsonFormat,
	".xml":      xmlFormat,
}

func formatFor(file string) (*format, error) {
	ext := strings.ToLower(filepath.Ext(file))
	f, ok := formatsByExt[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q", ext)
	}
	return f, nil
}

// normalize re-encodes a decoded value so that it only holds JSON model
// types (map[string]any, []any, string, json.Number, bool, nil).
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSONTree(data)
}

func decodeJSONTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// parseXMLTree maps a tag-based post onto the same tree the other formats
// produce. The root element's name is ignored, its children become fields
// with lowercased names, root attributes are dropped, and the children of
// <tags> become a list whatever they are called:
//
//	<Post>
//	  <Title>A</Title>
//	  <Date>2020-01-01</Date>
//	  <Tags><Tag>go</Tag><Tag>xml</Tag></Tags>
//	</Post>
func parseXMLTree(data []byte) (any, error) {
	m, err := mxj.NewMapXml(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if err != nil {
		return nil, err
	}
	if len(m) != 1 {
		return nil, errors.New("XML document must have a single root element")
	}

	var root any
	for _, v := range m {
		root = v
	}
	fields, ok := root.(map[string]any)
	if !ok {
		// An empty or text-only root has no fields.
		return normalize(root)
	}

	doc := make(map[string]any, len(fields))
	for name, v := range fields {
		if strings.HasPrefix(name, "-") || name == "#text" {
			continue
		}
		doc[strings.ToLower(name)] = v
	}
	if tags, ok := doc["tags"]; ok {
		doc["tags"] = xmlList(tags)
	}
	return normalize(doc)
}

// xmlList unwraps <tags><tag>a</tag><tag>b</tag></tags> into [a b]. A lone
// child decodes as a scalar and an empty <tags/> as "", both become lists.
func xmlList(v any) any {
	wrapper, ok := v.(map[string]any)
	if !ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return []any{}
		}
		return v
	}
	var items any
	n := 0
	for name, child := range wrapper {
		if strings.HasPrefix(name, "-") {
			continue
		}
		items = child
		n++
	}
	if n != 1 {
		return v
	}
	if list, ok := items.([]any); ok {
		return list
	}
	return []any{items}
}
