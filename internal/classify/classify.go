// Package classify decides whether a project should be a startup project by
// looking at its project file.
//
// Rules are evaluated in a fixed order and the first match wins:
//
//  1. extension .ccproj (Azure Cloud Service) or .sfproj (Service Fabric)
//  2. Properties/launchSettings.json next to the project file
//  3. any StartAction element equal to "Program"
//  4. root Sdk attribute equal to "Microsoft.NET.Sdk.Web"
//  5. a top-level PropertyGroup with OutputType Exe/WinExe, or with
//     ProjectTypeGuids naming a known application project type
//
// A project file that cannot be read or parsed is an error, never a
// silent exclusion.
package classify

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/guid"
)

var (
	// ErrManifestNotFound indicates the project file does not exist.
	ErrManifestNotFound = errors.New("project file not found")

	// ErrClassification indicates the project file could not be read or parsed.
	ErrClassification = errors.New("failed to classify project")
)

// Rule names reported in a Verdict.
const (
	RuleExtension      = "extension"
	RuleLaunchSettings = "launch-settings"
	RuleStartAction    = "start-action"
	RuleWebSdk         = "web-sdk"
	RuleOutputType     = "output-type"
	RuleProjectType    = "project-type"
	RuleNone           = "none"
)

// WebSdk is the Sdk attribute value of ASP.NET Core projects.
const WebSdk = "Microsoft.NET.Sdk.Web"

var eligibleExtensions = [...]string{".ccproj", ".sfproj"}

// includedProjectTypes are application project types that always run.
var includedProjectTypes = [...]string{
	"603C0E0B-DB56-11DC-BE95-000D561079B0", // ASP.NET MVC 1.0
	"F85E285D-A4E0-4152-9332-AB1D724D3325", // ASP.NET MVC 2.0
	"E53F8FEA-EAE0-44A6-8774-FFD645390401", // ASP.NET MVC 3.0
	"E3E379DF-F4C6-4180-9B81-6769533ABE47", // ASP.NET MVC 4.0
	"349C5851-65DF-11DA-9384-00065B846F21", // Web Application
	"E24C65DC-7377-472B-9ABA-BC803B73C61A", // Web Site
}

// IncludedProjectTypes returns a copy of the project type identities that
// make a project eligible.
func IncludedProjectTypes() []string {
	out := make([]string, len(includedProjectTypes))
	copy(out, includedProjectTypes[:])
	return out
}

// Verdict is the outcome of classifying one project.
type Verdict struct {
	// Eligible is true when the project should be a startup project.
	Eligible bool `json:"eligible"`

	// Rule names the rule that matched, or RuleNone.
	Rule string `json:"rule"`

	// ProjectID is the ProjectGuid declared in the project file, canonicalised.
	// Empty for SDK-style projects, which do not declare one.
	ProjectID string `json:"project_id,omitempty"`
}

type rule struct {
	name  string
	match func(m *Manifest) bool
}

// rules are evaluated in order; the first match wins.
var rules = [...]rule{
	{RuleLaunchSettings, func(m *Manifest) bool { return m.HasLaunchSettings }},
	{RuleStartAction, matchStartAction},
	{RuleWebSdk, matchWebSdk},
	{RuleOutputType, matchOutputType},
	{RuleProjectType, matchProjectType},
}

// Classifier classifies project files found on a filesystem.
type Classifier struct {
	fs fsops.FS
}

// New creates a Classifier reading through fs.
func New(fs fsops.FS) *Classifier {
	return &Classifier{fs: fs}
}

// Classify decides whether the project file at path is a startup project.
func (c *Classifier) Classify(path string) (Verdict, error) {
	isFile, err := fsops.IsFile(c.fs, path)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w %s: %w", ErrClassification, path, err)
	}
	if !isFile {
		return Verdict{}, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
	}

	if EligibleExtension(filepath.Ext(path)) {
		return Verdict{Eligible: true, Rule: RuleExtension}, nil
	}

	manifest, err := c.load(path)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w %s: %w", ErrClassification, path, err)
	}
	return ClassifyManifest(manifest), nil
}

func (c *Classifier) load(path string) (*Manifest, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	launchSettings := filepath.Join(filepath.Dir(path), "Properties", "launchSettings.json")
	hasLaunchSettings, err := fsops.IsFile(c.fs, launchSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", launchSettings, err)
	}

	return ParseManifest(data, path, hasLaunchSettings)
}

// EligibleExtension reports whether a project file extension is always a
// startup project.
func EligibleExtension(ext string) bool {
	for _, e := range eligibleExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// ClassifyManifest applies the manifest rules to an already parsed project file.
func ClassifyManifest(m *Manifest) Verdict {
	verdict := Verdict{Rule: RuleNone, ProjectID: declaredID(m)}
	for _, r := range rules {
		if r.match(m) {
			verdict.Eligible = true
			verdict.Rule = r.name
			break
		}
	}
	return verdict
}

func matchStartAction(m *Manifest) bool {
	for _, el := range m.Root.Descendants("StartAction") {
		if el.Text == "Program" {
			return true
		}
	}
	return false
}

func matchWebSdk(m *Manifest) bool {
	return m.Root.Attrs["Sdk"] == WebSdk
}

func matchOutputType(m *Manifest) bool {
	for _, group := range m.Root.ChildrenNamed("PropertyGroup") {
		// xproj files have no OutputType
		outputType := group.Child("OutputType")
		if outputType == nil {
			continue
		}
		if strings.EqualFold(outputType.Text, "Exe") || strings.EqualFold(outputType.Text, "WinExe") {
			return true
		}
	}
	return false
}

func matchProjectType(m *Manifest) bool {
	for _, group := range m.Root.ChildrenNamed("PropertyGroup") {
		projectTypes := group.Child("ProjectTypeGuids")
		if projectTypes == nil {
			continue
		}
		for _, value := range strings.Split(projectTypes.Text, ";") {
			typeID := strings.Trim(value, "{}")
			for _, included := range includedProjectTypes {
				if strings.EqualFold(typeID, included) {
					return true
				}
			}
		}
	}
	return false
}

func declaredID(m *Manifest) string {
	for _, group := range m.Root.ChildrenNamed("PropertyGroup") {
		el := group.Child("ProjectGuid")
		if el == nil {
			continue
		}
		if id, err := guid.Canonical(el.Text); err == nil {
			return id
		}
	}
	return ""
}
