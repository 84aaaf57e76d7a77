// Package variant describes the Visual Studio versions a .suo can be written
// for and where each version expects its file.
//
// Visual Studio 2012 and 2013 keep a single "<solution>.vNN.suo" next to the
// solution. From 2015 on the file lives at ".vs/<solution>/vNN/.suo".
package variant

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknown indicates a variant name that is not supported.
var ErrUnknown = errors.New("unknown Visual Studio version")

// Layout is the on-disk placement scheme of a variant.
type Layout string

const (
	// Legacy places the container next to the solution with a versioned extension.
	Legacy Layout = "legacy"

	// Modern places the container in a hidden per-solution folder.
	Modern Layout = "modern"
)

const (
	hiddenFolder  = ".vs"
	containerName = ".suo"
)

// Variant is one supported IDE version.
type Variant struct {
	// Name is the user-facing identifier, e.g. "vs2022".
	Name string

	// Layout selects how the container path is derived.
	Layout Layout

	// Suffix replaces the solution extension (Legacy only).
	Suffix string

	// VersionDir is the version-coded subfolder (Modern only).
	VersionDir string

	// TemplateID names the seed container.
	TemplateID string
}

// Target is the resolved location of one variant's container.
type Target struct {
	Variant    string `json:"variant"`
	Path       string `json:"path"`
	Dir        string `json:"dir,omitempty"`
	TemplateID string `json:"template"`
}

var all = [...]Variant{
	{Name: "vs2012", Layout: Legacy, Suffix: ".v11.suo", TemplateID: "Solution2012.suotemplate"},
	{Name: "vs2013", Layout: Legacy, Suffix: ".v12.suo", TemplateID: "Solution2013.suotemplate"},
	{Name: "vs2015", Layout: Modern, VersionDir: "v14", TemplateID: "Solution2015.suotemplate"},
	{Name: "vs2017", Layout: Modern, VersionDir: "v15", TemplateID: "Solution2017.suotemplate"},
	{Name: "vs2019", Layout: Modern, VersionDir: "v16", TemplateID: "Solution2019.suotemplate"},
	{Name: "vs2022", Layout: Modern, VersionDir: "v17", TemplateID: "Solution2022.suotemplate"},
}

// All returns every supported variant, oldest first.
func All() []Variant {
	out := make([]Variant, len(all))
	copy(out, all[:])
	return out
}

// Default returns the variants written when none are requested.
func Default() []Variant {
	return mustParse("vs2017", "vs2019", "vs2022")
}

// Lookup finds a variant by name, case-insensitively. "2022" is accepted
// as shorthand for "vs2022".
func Lookup(name string) (Variant, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(key, "vs") {
		key = "vs" + key
	}
	for _, v := range all {
		if v.Name == key {
			return v, true
		}
	}
	return Variant{}, false
}

// Parse resolves names to variants, keeping the first occurrence of each.
func Parse(names ...string) ([]Variant, error) {
	var out []Variant
	seen := make(map[string]bool)
	for _, name := range names {
		v, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
		}
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	return out, nil
}

func mustParse(names ...string) []Variant {
	out, err := Parse(names...)
	if err != nil {
		panic(err)
	}
	return out
}

// Target computes where this variant's container lives for a solution.
func (v Variant) Target(solutionPath string) Target {
	t := Target{Variant: v.Name, TemplateID: v.TemplateID}
	ext := filepath.Ext(solutionPath)
	switch v.Layout {
	case Legacy:
		t.Path = strings.TrimSuffix(solutionPath, ext) + v.Suffix
	default:
		name := strings.TrimSuffix(filepath.Base(solutionPath), ext)
		t.Dir = filepath.Join(filepath.Dir(solutionPath), hiddenFolder, name, v.VersionDir)
		t.Path = filepath.Join(t.Dir, containerName)
	}
	return t
}
