package classify

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// Element is a namespace-stripped view of one XML element of a manifest.
type Element struct {
	Name     string
	Text     string
	Attrs    map[string]string
	Children []*Element
}

// Child returns the first direct child named name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children named name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below e named name, depth first.
func (e *Element) Descendants(name string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		for _, c := range el.Children {
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// Manifest is a parsed project file plus the filesystem facts the rules need.
type Manifest struct {
	// Path is the manifest location on disk.
	Path string

	// Root is the namespace-stripped document element.
	Root *Element

	// HasLaunchSettings reports whether Properties/launchSettings.json
	// exists next to the manifest.
	HasLaunchSettings bool
}

// ParseManifest parses manifest XML. Namespace prefixes and namespace
// declarations are dropped so rules can match on local names only.
func ParseManifest(data []byte, path string, hasLaunchSettings bool) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse manifest XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("failed to parse manifest XML: no root element")
	}

	return &Manifest{
		Path:              path,
		Root:              convert(root),
		HasLaunchSettings: hasLaunchSettings,
	}, nil
}

func convert(el *etree.Element) *Element {
	out := &Element{
		Name:  el.Tag,
		Text:  el.Text(),
		Attrs: make(map[string]string, len(el.Attr)),
	}
	for _, attr := range el.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		out.Attrs[attr.Key] = attr.Value
	}
	for _, child := range el.ChildElements() {
		out.Children = append(out.Children, convert(child))
	}
	return out
}
