// Package properties models the status document shown to the operator: a
// tree of display leaves grouped into named sections. Member order is part
// of the document and is kept exactly as constructed.
package properties

import (
	"errors"
	"fmt"
)

// SchemaVersion identifies the shape of the document to consumers. Changing
// the set or nesting of sections requires bumping it.
const SchemaVersion uint8 = 2

type Kind string

const (
	KindString Kind = "string"
	KindObject Kind = "object"
)

var (
	ErrDuplicateName = errors.New("duplicate member name")
	ErrEmptyName     = errors.New("empty member name")
	ErrNilNode       = errors.New("nil node")
)

// Node is either a Leaf or a *Group.
type Node interface {
	Kind() Kind
	isNode()
}

// Leaf is one displayable value.
type Leaf struct {
	Value string

	// Optional human readable description. Empty means none.
	Description string

	// The value may be copied to the clipboard.
	Copyable bool

	// The value may be rendered as a QR code.
	QR bool

	// The value is sensitive and hidden by default.
	Masked bool
}

func (Leaf) Kind() Kind { return KindString }
func (Leaf) isNode()    {}

// Entry is a named member of a group or a top level section.
type Entry struct {
	Name string
	Node Node
}

// Group is a named collection of nodes. It cannot be changed after
// construction.
type Group struct {
	description string
	entries     []Entry
}

func (*Group) Kind() Kind { return KindObject }
func (*Group) isNode()    {}

// NewGroup returns a group holding entries in the given order.
func NewGroup(description string, entries ...Entry) (*Group, error) {
	if err := checkEntries(entries); err != nil {
		return nil, err
	}

	return &Group{
		description: description,
		entries:     append([]Entry(nil), entries...),
	}, nil
}

func (g *Group) Description() string {
	return g.description
}

func (g *Group) Len() int {
	return len(g.entries)
}

// Entries returns a copy of the members in display order.
func (g *Group) Entries() []Entry {
	return append([]Entry(nil), g.entries...)
}

// Names returns the member names in display order.
func (g *Group) Names() []string {
	return names(g.entries)
}

func (g *Group) Get(name string) (Node, bool) {
	return lookup(g.entries, name)
}

// Document is the root of the status tree.
type Document struct {
	version  uint8
	sections []Entry
}

// NewDocument returns a document holding sections in the given order.
func NewDocument(version uint8, sections ...Entry) (*Document, error) {
	if err := checkEntries(sections); err != nil {
		return nil, err
	}

	return &Document{
		version:  version,
		sections: append([]Entry(nil), sections...),
	}, nil
}

func (d *Document) Version() uint8 {
	return d.version
}

// Sections returns a copy of the sections in display order.
func (d *Document) Sections() []Entry {
	return append([]Entry(nil), d.sections...)
}

// Names returns the section names in display order.
func (d *Document) Names() []string {
	return names(d.sections)
}

func (d *Document) Section(name string) (Node, bool) {
	return lookup(d.sections, name)
}

// Leaf walks the path of section and member names down to a leaf.
func (d *Document) Leaf(path ...string) (Leaf, bool) {
	if len(path) == 0 {
		return Leaf{}, false
	}

	node, ok := d.Section(path[0])
	for _, name := range path[1:] {
		if !ok {
			return Leaf{}, false
		}
		group, isGroup := node.(*Group)
		if !isGroup {
			return Leaf{}, false
		}
		node, ok = group.Get(name)
	}
	if !ok {
		return Leaf{}, false
	}

	leaf, ok := node.(Leaf)
	return leaf, ok
}

func checkEntries(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return ErrEmptyName
		}
		if e.Node == nil {
			return fmt.Errorf("%w for %q", ErrNilNode, e.Name)
		}
		if g, ok := e.Node.(*Group); ok && g == nil {
			return fmt.Errorf("%w for %q", ErrNilNode, e.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func lookup(entries []Entry, name string) (Node, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Node, true
		}
	}
	return nil, false
}
