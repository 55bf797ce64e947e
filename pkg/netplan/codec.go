package netplan

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hostplan/hostplan/pkg/util"
)

// Parse parses the byte contents of one netplan document. The schema is
// closed at the top level: any key other than "network" is rejected.
// Unknown keys inside the network block are ignored, matching what the
// renderer itself tolerates.
func Parse(data []byte) (*Document, error) {
	return parse(data, "")
}

// ParseFile reads and parses one netplan document file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, util.NewMalformedConfigError(path, err.Error())
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, util.NewMalformedConfigError(path, `missing "network" key`)
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, util.NewMalformedConfigError(path, "document root is not a mapping")
	}

	var network *yaml.Node
	for i := 0; i < len(top.Content)-1; i += 2 {
		key := top.Content[i]
		if key.Value != "network" {
			return nil, util.NewMalformedConfigError(path, fmt.Sprintf("unknown field %q", key.Value))
		}
		network = top.Content[i+1]
	}
	if network == nil {
		return nil, util.NewMalformedConfigError(path, `missing "network" key`)
	}

	return parseNetwork(network, path)
}

func parseNetwork(n *yaml.Node, path string) (*Document, error) {
	if n.Kind != yaml.MappingNode {
		return nil, util.NewMalformedConfigError(path, `"network" is not a mapping`)
	}

	doc := &Document{}
	sawEthernets := false

	for i := 0; i < len(n.Content)-1; i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "version":
			if err := value.Decode(&doc.Version); err != nil {
				return nil, util.NewMalformedConfigError(path, fmt.Sprintf("version: %v", err))
			}
		case "renderer":
			if err := value.Decode(&doc.Renderer); err != nil {
				return nil, util.NewMalformedConfigError(path, fmt.Sprintf("renderer: %v", err))
			}
		case "ethernets":
			if value.Kind != yaml.MappingNode {
				return nil, util.NewMalformedConfigError(path, `"ethernets" is not a mapping`)
			}
			if err := parseEthernets(value, doc, path); err != nil {
				return nil, err
			}
			sawEthernets = true
		case "bridges":
			if err := value.Decode(&doc.Bridges); err != nil {
				return nil, util.NewMalformedConfigError(path, fmt.Sprintf("bridges: %v", err))
			}
		default:
			// Only ethernets and bridges are managed; other device
			// classes pass through the parser unrecognized and are
			// dropped on the next commit.
		}
	}

	if !sawEthernets {
		return nil, util.NewMalformedConfigError(path, `missing "ethernets" key`)
	}
	return doc, nil
}

func parseEthernets(n *yaml.Node, doc *Document, path string) error {
	for i := 0; i < len(n.Content)-1; i += 2 {
		name := n.Content[i].Value
		if _, exists := doc.Interface(name); exists {
			return util.NewMalformedConfigError(path, fmt.Sprintf("duplicate interface %q", name))
		}
		var cfg InterfaceConfig
		if err := n.Content[i+1].Decode(&cfg); err != nil {
			return util.NewMalformedConfigError(path, fmt.Sprintf("interface %q: %v", name, err))
		}
		doc.Interfaces = append(doc.Interfaces, InterfaceEntry{Name: name, Config: cfg})
	}
	return nil
}

type networkOut struct {
	Version   *int                    `yaml:"version,omitempty"`
	Renderer  *string                 `yaml:"renderer,omitempty"`
	Ethernets *yaml.Node              `yaml:"ethernets"`
	Bridges   map[string]BridgeConfig `yaml:"bridges,omitempty"`
}

type documentOut struct {
	Network networkOut `yaml:"network"`
}

// Marshal serializes the document. Unset fields are omitted entirely;
// the interface mapping is emitted in stored order.
func (d *Document) Marshal() ([]byte, error) {
	ethernets := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := range d.Interfaces {
		var key, value yaml.Node
		key.SetString(d.Interfaces[i].Name)
		if err := value.Encode(d.Interfaces[i].Config); err != nil {
			return nil, fmt.Errorf("encoding interface %s: %w", d.Interfaces[i].Name, err)
		}
		ethernets.Content = append(ethernets.Content, &key, &value)
	}

	out := documentOut{Network: networkOut{
		Version:   d.Version,
		Renderer:  d.Renderer,
		Ethernets: ethernets,
		Bridges:   d.Bridges,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// String renders the document for logging and previews. Serialization
// errors yield an empty string.
func (d *Document) String() string {
	data, err := d.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}
