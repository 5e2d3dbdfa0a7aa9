package catalog

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// file mirrors the YAML layout:
//
//	quantities:
//	  Orange: 2
//	  Lime: 1
//	yes_no: [Soap]
//	packs: [Napkins]
//
// quantities is kept as a raw node so mapping order survives decoding.
type file struct {
	Quantities yaml.Node `yaml:"quantities"`
	YesNo      []string  `yaml:"yes_no"`
	Packs      []string  `yaml:"packs"`
}

// Load reads a catalog definition from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog definition.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	quantities, err := decodeThresholds(&f.Quantities)
	if err != nil {
		return nil, err
	}

	return New(Definition{
		Quantities: quantities,
		YesNo:      f.YesNo,
		Packs:      f.Packs,
	})
}

func decodeThresholds(node *yaml.Node) ([]Threshold, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("quantities: expected a mapping at line %d", node.Line)
	}

	out := make([]Threshold, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		minimum, err := strconv.ParseFloat(val.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("quantities: %q: invalid minimum %q at line %d", key.Value, val.Value, val.Line)
		}
		out = append(out, Threshold{Name: key.Value, Min: minimum})
	}
	return out, nil
}
