// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package xmltree decodes an XML document into a plain attribute tree.
// The scene loader only ever looks at element names, attributes and child
// order, so the tree keeps exactly that and nothing else.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// package errors
var (
	ErrMissingAttribute = errors.New("required attribute missing")
	ErrAttributeFormat  = errors.New("attribute has an invalid format")
	ErrEmptyDocument    = errors.New("document has no root element")
)

// Node is a single element of the attribute tree
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
}

// Parse reads a whole document from r and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	var root Node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDocument
		}
		return nil, err
	}
	return &root, nil
}

// UnmarshalXML walks the element tokens, keeping attributes and
// child elements while discarding character data and comments.
func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.Name = start.Name.Local
	n.Attrs = append(n.Attrs[:0], start.Attr...)

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch el := token.(type) {
		case xml.StartElement:
			child := &Node{}
			if err := child.UnmarshalXML(d, el); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// Attr returns the raw value of the named attribute
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present
func (n *Node) Has(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// String returns the named attribute, failing when absent or blank.
func (n *Node) String(name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: '%s' in <%s>", ErrMissingAttribute, name, n.Name)
	}
	return strings.TrimSpace(v), nil
}

// Float parses the named attribute as a float32
func (n *Node) Float(name string) (float32, error) {
	raw, err := n.String(name)
	if err != nil {
		return 0, err
	}
	num, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'=%q in <%s> is not a number", ErrAttributeFormat, name, raw, n.Name)
	}
	return float32(num), nil
}

// Int parses the named attribute as an integer. Decimal notation
// with an integral value ("8.0") is accepted.
func (n *Node) Int(name string) (int, error) {
	raw, err := n.String(name)
	if err != nil {
		return 0, err
	}
	if num, err := strconv.Atoi(raw); err == nil {
		return num, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: '%s'=%q in <%s> is not an integer", ErrAttributeFormat, name, raw, n.Name)
	}
	return int(f), nil
}

// Bool parses the named attribute as a boolean
func (n *Node) Bool(name string) (bool, error) {
	raw, err := n.String(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: '%s'=%q in <%s> is not a boolean", ErrAttributeFormat, name, raw, n.Name)
	}
	return b, nil
}

// Child returns the first child element with the given name, or nil
func (n *Node) Child(name string) *Node {
	if idx := n.ChildIndex(name); idx >= 0 {
		return n.Children[idx]
	}
	return nil
}

// ChildIndex returns the position of the first child with the given name,
// or -1 when there is none.
func (n *Node) ChildIndex(name string) int {
	for idx, c := range n.Children {
		if c.Name == name {
			return idx
		}
	}
	return -1
}

// ChildNames lists the names of all children in document order
func (n *Node) ChildNames() []string {
	names := make([]string, len(n.Children))
	for idx, c := range n.Children {
		names[idx] = c.Name
	}
	return names
}
