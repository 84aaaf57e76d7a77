package solution

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danieljhkim/slnstart/internal/fsops"
)

const sampleSolution = `
Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
VisualStudioVersion = 17.0.31903.59
MinimumVisualStudioVersion = 10.0.40219.1
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "ConsoleApp", "src\ConsoleApp\ConsoleApp.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{33333333-3333-3333-3333-333333333333}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Library", "src\Library\Library.csproj", "{22222222-2222-2222-2222-22222222222a}"
EndProject
Global
EndGlobal
`

func writeSolution(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Sample.sln")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write solution: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeSolution(t, sampleSolution)
	dir := filepath.Dir(path)

	projects, err := Parse(fsops.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	consoleRel := filepath.Join("src", "ConsoleApp", "ConsoleApp.csproj")
	libraryRel := filepath.Join("src", "Library", "Library.csproj")
	want := []Project{
		{
			ID:           "11111111-1111-1111-1111-111111111111",
			RelativePath: consoleRel,
			AbsolutePath: filepath.Join(dir, consoleRel),
		},
		{
			ID:           "22222222-2222-2222-2222-22222222222A",
			RelativePath: libraryRel,
			AbsolutePath: filepath.Join(dir, libraryRel),
		},
	}
	if diff := cmp.Diff(want, projects); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SkipsSolutionFolders(t *testing.T) {
	path := writeSolution(t, sampleSolution)

	projects, err := Parse(fsops.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, p := range projects {
		if p.ID == "33333333-3333-3333-3333-333333333333" {
			t.Errorf("solution folder %s should have been skipped", p.RelativePath)
		}
	}
}

func TestParse_AbsolutePathsResolveAgainstSolutionDir(t *testing.T) {
	path := writeSolution(t, sampleSolution)
	dir := filepath.Dir(path)

	projects, err := Parse(fsops.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, p := range projects {
		if got := filepath.Join(dir, p.RelativePath); got != p.AbsolutePath {
			t.Errorf("Join(dir, %q) = %q, want %q", p.RelativePath, got, p.AbsolutePath)
		}
	}
}

func TestParse_CRLF(t *testing.T) {
	path := writeSolution(t, strings.ReplaceAll(sampleSolution, "\n", "\r\n"))

	projects, err := Parse(fsops.NewRealFS(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
}

func TestParse_NotFound(t *testing.T) {
	_, err := Parse(fsops.NewRealFS(), filepath.Join(t.TempDir(), "Missing.sln"))
	if !errors.Is(err, ErrDescriptorNotFound) {
		t.Fatalf("expected ErrDescriptorNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Missing.sln") {
		t.Errorf("error should name the path, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{
			name: "too few fields",
			line: `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "App", "App.csproj"`,
		},
		{
			name: "missing type identity",
			line: `Project("FAE04EC0") = "App", "App.csproj", "{11111111-1111-1111-1111-111111111111}"`,
		},
		{
			name: "invalid project identity",
			line: `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "App", "App.csproj", "{not-a-guid}"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSolution(t, tt.line+"\n")
			_, err := Parse(fsops.NewRealFS(), path)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if !strings.Contains(err.Error(), ":1:") {
				t.Errorf("error should carry the line number, got %v", err)
			}
		})
	}
}

func TestScan_StopsEarly(t *testing.T) {
	path := writeSolution(t, sampleSolution)

	count := 0
	for _, err := range Scan(fsops.NewRealFS(), path) {
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected to consume exactly one project, got %d", count)
	}
}

func TestNormalizePath(t *testing.T) {
	got := NormalizePath(`src\App\App.csproj`)
	want := filepath.Join("src", "App", "App.csproj")
	if got != want {
		t.Errorf("NormalizePath = %q, want %q", got, want)
	}
}
