package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// writeStructured writes v as indented JSON or as YAML. Other formats are
// the caller's responsibility.
func writeStructured(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "output: encode json")
	case "yaml":
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return eris.Wrap(err, "output: write yaml")
	default:
		return eris.Errorf("output: unsupported format %q", format)
	}
}

// toYAML renders v with its JSON field names and field order by decoding
// the JSON encoding into a yaml.Node tree.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "output: marshal")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, eris.Wrap(err, "output: parse")
	}
	blockStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, eris.Wrap(err, "output: marshal yaml")
	}
	return out, nil
}

// blockStyle clears the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
