package properties

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Wire shape shared by the JSON and YAML encodings:
//
//	version: 2
//	data:
//	  <section>: {type: object, value: {<name>: <node>...}, description}
//	  <leaf>:    {type: string, value, description, copyable, qr, masked}

type leafWire struct {
	Type        Kind    `json:"type" yaml:"type"`
	Value       string  `json:"value" yaml:"value"`
	Description *string `json:"description" yaml:"description"`
	Copyable    bool    `json:"copyable" yaml:"copyable"`
	QR          bool    `json:"qr" yaml:"qr"`
	Masked      bool    `json:"masked" yaml:"masked"`
}

type nodeWire struct {
	Type        Kind            `json:"type"`
	Value       json.RawMessage `json:"value"`
	Description *string         `json:"description"`
	Copyable    bool            `json:"copyable"`
	QR          bool            `json:"qr"`
	Masked      bool            `json:"masked"`
}

type documentWire struct {
	Version uint8           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

var ErrUnknownKind = errors.New("unknown node type")

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (l Leaf) wire() leafWire {
	return leafWire{
		Type:        KindString,
		Value:       l.Value,
		Description: optional(l.Description),
		Copyable:    l.Copyable,
		QR:          l.QR,
		Masked:      l.Masked,
	}
}

func (w leafWire) leaf() Leaf {
	return Leaf{
		Value:       w.Value,
		Description: deref(w.Description),
		Copyable:    w.Copyable,
		QR:          w.QR,
		Masked:      w.Masked,
	}
}

func (l Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.wire())
}

func (g *Group) MarshalJSON() ([]byte, error) {
	value, err := encodeEntriesJSON(g.entries)
	if err != nil {
		return nil, err
	}
	description, err := json.Marshal(optional(g.description))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","value":`)
	buf.Write(value)
	buf.WriteString(`,"description":`)
	buf.Write(description)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	data, err := encodeEntriesJSON(d.sections)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"version":%d,"data":`, d.version)
	buf.Write(data)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Data) == 0 {
		return errors.New("properties: missing data")
	}

	sections, err := decodeEntriesJSON(w.Data)
	if err != nil {
		return err
	}
	doc, err := NewDocument(w.Version, sections...)
	if err != nil {
		return err
	}

	*d = *doc
	return nil
}

// encodeEntriesJSON writes entries as a JSON object in slice order.
func encodeEntriesJSON(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Node)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeEntriesJSON reads a JSON object keeping the key order.
func decodeEntriesJSON(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("properties: expected object, got %v", tok)
	}

	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("properties: expected member name, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %q: %w", name, err)
		}
		node, err := decodeNodeJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Node: node})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeNodeJSON(data []byte) (Node, error) {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	switch w.Type {
	case KindString:
		var value string
		if err := json.Unmarshal(w.Value, &value); err != nil {
			return nil, fmt.Errorf("leaf value: %w", err)
		}
		return leafWire{
			Value:       value,
			Description: w.Description,
			Copyable:    w.Copyable,
			QR:          w.QR,
			Masked:      w.Masked,
		}.leaf(), nil

	case KindObject:
		if len(w.Value) == 0 {
			return nil, errors.New("object without value")
		}
		entries, err := decodeEntriesJSON(w.Value)
		if err != nil {
			return nil, err
		}
		return NewGroup(deref(w.Description), entries...)
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownKind, w.Type)
}

func (l Leaf) MarshalYAML() (interface{}, error) {
	return l.wire(), nil
}

func (g *Group) MarshalYAML() (interface{}, error) {
	value, err := encodeEntriesYAML(g.entries)
	if err != nil {
		return nil, err
	}
	description := &yaml.Node{}
	if err := description.Encode(optional(g.description)); err != nil {
		return nil, err
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			strNode("type"), strNode(string(KindObject)),
			strNode("value"), value,
			strNode("description"), description,
		},
	}, nil
}

func (d *Document) MarshalYAML() (interface{}, error) {
	data, err := encodeEntriesYAML(d.sections)
	if err != nil {
		return nil, err
	}
	version := &yaml.Node{}
	if err := version.Encode(d.version); err != nil {
		return nil, err
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			strNode("version"), version,
			strNode("data"), data,
		},
	}, nil
}

func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("properties: expected mapping at line %d", value.Line)
	}

	var (
		version  uint8
		sections []Entry
		haveData bool
	)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "version":
			if err := val.Decode(&version); err != nil {
				return fmt.Errorf("properties: version: %w", err)
			}
		case "data":
			entries, err := decodeEntriesYAML(val)
			if err != nil {
				return err
			}
			sections = entries
			haveData = true
		default:
			return fmt.Errorf("properties: unknown key %q at line %d", key.Value, key.Line)
		}
	}
	if !haveData {
		return errors.New("properties: missing data")
	}

	doc, err := NewDocument(version, sections...)
	if err != nil {
		return err
	}

	*d = *doc
	return nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func encodeEntriesYAML(entries []Entry) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		v := &yaml.Node{}
		if err := v.Encode(e.Node); err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Name, err)
		}
		m.Content = append(m.Content, strNode(e.Name), v)
	}
	return m, nil
}

func decodeEntriesYAML(n *yaml.Node) ([]Entry, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("properties: expected mapping at line %d", n.Line)
	}

	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		node, err := decodeNodeYAML(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Node: node})
	}
	return entries, nil
}

func decodeNodeYAML(n *yaml.Node) (Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping at line %d", n.Line)
	}

	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	typ, ok := fields["type"]
	if !ok {
		return nil, fmt.Errorf("missing type at line %d", n.Line)
	}

	switch Kind(typ.Value) {
	case KindString:
		var w leafWire
		if err := n.Decode(&w); err != nil {
			return nil, err
		}
		return w.leaf(), nil

	case KindObject:
		value, ok := fields["value"]
		if !ok {
			return nil, fmt.Errorf("object without value at line %d", n.Line)
		}
		entries, err := decodeEntriesYAML(value)
		if err != nil {
			return nil, err
		}
		var description *string
		if d, ok := fields["description"]; ok {
			if err := d.Decode(&description); err != nil {
				return nil, err
			}
		}
		return NewGroup(deref(description), entries...)
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownKind, typ.Value)
}
