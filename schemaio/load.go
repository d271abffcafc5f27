// Package schemaio loads schema documents, definitions, instances and
// validation configs from JSON or YAML files.
package schemaio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/reoring/jsbuilder"
	js "github.com/reoring/jsbuilder/jsonschema"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadJSON returns the file as JSON. YAML files are converted keeping the
// order of mapping keys. Repeated object keys are rejected.
func ReadJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		if data, err = YAMLToJSON(data); err != nil {
			return nil, fmt.Errorf("schemaio: %s: %w", path, err)
		}
	}
	if err := CheckDuplicateKeys(data); err != nil {
		return nil, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	return data, nil
}

// LoadSchema reads a schema document.
func LoadSchema(path string) (*js.Schema, error) {
	data, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	s, err := js.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	return s, nil
}

// LoadDefinitions reads a mapping from definition name to schema.
func LoadDefinitions(path string) (map[string]*js.Schema, error) {
	data, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	var defs map[string]*js.Schema
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	return defs, nil
}

// LoadInstance reads an instance value to validate.
func LoadInstance(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		if data, err = k8syaml.YAMLToJSON(data); err != nil {
			return nil, fmt.Errorf("schemaio: %s: %w", path, err)
		}
	}
	if err := CheckDuplicateKeys(data); err != nil {
		return nil, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	return v, nil
}

// LoadConfig reads a validation config. JSON is a subset of YAML, so both
// formats go through the same decoder.
func LoadConfig(path string) (jsbuilder.ValidationConfig, error) {
	var cfg jsbuilder.ValidationConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := k8syaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("schemaio: %s: %w", path, err)
	}
	return cfg, nil
}

// YAMLToJSON converts the first YAML document in data to JSON, keeping
// mapping key order.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeNode(&buf, &doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		buf.WriteString("null")
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k.Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNode(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
	default:
		return errors.New("unsupported YAML node")
	}
	return nil
}
