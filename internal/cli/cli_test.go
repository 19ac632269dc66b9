package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/observability"
)

const fixtureLockfile = `__metadata:
  version: 8
  cacheKey: 10c0

"app@workspace:packages/app":
  version: 0.0.0-use.local
  resolution: "app@workspace:packages/app"
  dependencies:
    ms: "npm:^2.1.0"
  languageName: unknown
  linkType: soft

"jest@npm:^29.0.0":
  version: 29.0.0
  resolution: "jest@npm:29.0.0"
  languageName: node
  linkType: hard

"left-pad@npm:^1.3.0":
  version: 1.3.0
  resolution: "left-pad@npm:1.3.0"
  dependencies:
    ms: "npm:2.1.3"
  languageName: node
  linkType: hard

"ms@npm:2.1.3, ms@npm:^2.1.0":
  version: 2.1.3
  resolution: "ms@npm:2.1.3"
  languageName: node
  linkType: hard

"root@workspace:.":
  version: 0.0.0-use.local
  resolution: "root@workspace:."
  dependencies:
    jest: "npm:^29.0.0"
    left-pad: "npm:^1.3.0"
  languageName: unknown
  linkType: soft
`

// fixtureProject writes an installed node-modules project and returns its
// root.
func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"package.json":                       `{"name":"root","version":"1.0.0","license":"UNLICENSED","private":true,"workspaces":["packages/*"],"dependencies":{"left-pad":"^1.3.0"},"devDependencies":{"jest":"^29.0.0"}}`,
		"packages/app/package.json":          `{"name":"app","version":"0.1.0","dependencies":{"ms":"^2.1.0"}}`,
		"yarn.lock":                          fixtureLockfile,
		"node_modules/left-pad/package.json": `{"name":"left-pad","version":"1.3.0","license":"WTFPL AND MIT","repository":{"type":"git","url":"git://github.com/stevemao/left-pad.git"}}`,
		"node_modules/left-pad/LICENSE":      "left-pad license\n",
		"node_modules/jest/package.json":     `{"name":"jest","version":"29.0.0","license":"MIT"}`,
		"node_modules/ms/package.json":       `{"name":"ms","version":"2.1.3","license":"MIT","author":"Vercel"}`,
		"node_modules/ms/license.md":         "ms license\n",
	}
	for name, content := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	var stdout, stderr bytes.Buffer
	c := New(&stderr, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateDisclaimerStdout(t *testing.T) {
	root := fixtureProject(t)

	out, _, err := execute(t, "generate-disclaimer", "--cwd", root, "--stdout", "--production")
	if err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}

	// Direct production dependencies of both workspaces plus the
	// workspaces themselves, sorted by name.
	order := []string{`"moduleName": "app@0.1.0"`, `"moduleName": "left-pad@1.3.0"`, `"moduleName": "ms@2.1.3"`, `"moduleName": "root@1.0.0"`}
	last := -1
	for _, want := range order {
		i := strings.Index(out, want)
		if i < 0 {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
		if i < last {
			t.Errorf("%s out of order", want)
		}
		last = i
	}
	if strings.Contains(out, "jest") {
		t.Errorf("--production output lists a dev dependency:\n%s", out)
	}
	if !strings.Contains(out, `"license": "WTFPL;MIT"`) {
		t.Errorf("SPDX AND expression not split:\n%s", out)
	}
	if !strings.Contains(out, "}\n\nleft-pad license\n") {
		t.Errorf("license text not appended:\n%s", out)
	}
	if strings.Count(out, "\n------------\n\n") != 3 {
		t.Errorf("want 3 separators:\n%s", out)
	}
}

func TestGenerateDisclaimerVersionlessRoot(t *testing.T) {
	root := fixtureProject(t)
	writeFile(t, filepath.Join(root, "package.json"),
		`{"name":"root","private":true,"workspaces":["packages/*"],"dependencies":{"left-pad":"^1.3.0"},"devDependencies":{"jest":"^29.0.0"}}`)
	dirPath := filepath.Join(t.TempDir(), "split")

	out, _, err := execute(t, "generate-disclaimer", "--cwd", root, "--stdout", "--outputDir", dirPath)
	if err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}
	if !strings.Contains(out, `"moduleName": "root@undefined"`) {
		t.Errorf("root workspace missing from output:\n%s", out)
	}

	for _, dir := range []string{"app-0.1.0", "jest-29.0.0", "left-pad-1.3.0", "ms-2.1.3", "root-undefined"} {
		if _, err := os.Stat(filepath.Join(dirPath, dir, "npm-license.txt")); err != nil {
			t.Errorf("missing entry file: %v", err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dirPath, "root-undefined", "npm-license.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"version"`) {
		t.Errorf("absent version written to header:\n%s", data)
	}
}

func TestGenerateDisclaimerLogsSkipOnce(t *testing.T) {
	root := fixtureProject(t)
	if err := os.Remove(filepath.Join(root, "node_modules", "jest", "package.json")); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := execute(t, "generate-disclaimer", "--cwd", root, "--stdout", "-v")
	if err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}
	if strings.Contains(out, "jest") {
		t.Errorf("uninstalled package in output:\n%s", out)
	}
	if n := strings.Count(stderr, "jest@npm:29.0.0"); n != 1 {
		t.Errorf("skipped package logged %d times, want 1:\n%s", n, stderr)
	}
}

func TestGenerateDisclaimerFiles(t *testing.T) {
	root := fixtureProject(t)
	out := t.TempDir()
	csvPath := filepath.Join(out, "reports", "licenses.csv")
	filePath := filepath.Join(out, "reports", "DISCLAIMER.txt")
	dirPath := filepath.Join(out, "split")

	_, _, err := execute(t, "generate-disclaimer", "--cwd", filepath.Join(root, "packages", "app"), "-R",
		"--outputCsv", csvPath, "--outputFile", filePath, "--outputDir", dirPath)
	if err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}

	csv, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(csv), `"module name","name","version","repository","url","licenses"`+"\n") {
		t.Errorf("csv header:\n%s", csv)
	}
	if !strings.Contains(string(csv), `"left-pad@1.3.0","left-pad","1.3.0","git://github.com/stevemao/left-pad.git","","WTFPL;MIT"`) {
		t.Errorf("csv rows:\n%s", csv)
	}
	if !strings.Contains(string(csv), `"jest@29.0.0"`) {
		t.Errorf("recursive mode without --production should include dev dependencies:\n%s", csv)
	}

	all, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(all), "\n\n") {
		t.Errorf("combined disclaimer should end with a blank line")
	}

	ms, err := os.ReadFile(filepath.Join(dirPath, "ms-2.1.3", "npm-license.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(ms), "\nms license\n") {
		t.Errorf("ms disclaimer:\n%s", ms)
	}
}

func TestGenerateDisclaimerConfig(t *testing.T) {
	root := fixtureProject(t)
	csvPath := filepath.Join(t.TempDir(), "licenses.csv")
	writeFile(t, filepath.Join(root, configFilename), "production = true\n[output]\ncsv = \""+filepath.ToSlash(csvPath)+"\"\n")

	if _, _, err := execute(t, "generate-disclaimer", "--cwd", root); err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}
	csv, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("config output.csv not written: %v", err)
	}
	if strings.Contains(string(csv), "jest") {
		t.Errorf("config production = true ignored:\n%s", csv)
	}
}

func TestGenerateDisclaimerNoOutput(t *testing.T) {
	root := fixtureProject(t)
	out, stderr, err := execute(t, "generate-disclaimer", "--cwd", root)
	if err != nil {
		t.Fatalf("generate-disclaimer: %v", err)
	}
	if out != "" || !strings.Contains(stderr, "No output selected") {
		t.Errorf("stdout = %q, stderr = %q", out, stderr)
	}
}

func TestWorkspaceRequired(t *testing.T) {
	_, _, err := execute(t, "generate-disclaimer", "--cwd", t.TempDir(), "--stdout")
	if !errors.Is(err, errors.ErrCodeWorkspaceRequired) {
		t.Fatalf("error = %v, want WORKSPACE_REQUIRED", err)
	}

	root := fixtureProject(t)
	outside := filepath.Join(root, "docs")
	if err := os.MkdirAll(outside, 0o755); err != nil {
		t.Fatal(err)
	}
	_, _, err = execute(t, "list", "--cwd", outside)
	if err != nil {
		t.Fatalf("a directory below the root workspace is inside it: %v", err)
	}
}

func TestUnsupportedLinker(t *testing.T) {
	root := fixtureProject(t)
	writeFile(t, filepath.Join(root, ".yarnrc.yml"), "nodeLinker: pnp\n")

	_, _, err := execute(t, "list", "--cwd", root)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("error = %v, want UNSUPPORTED", err)
	}
}

func TestList(t *testing.T) {
	root := fixtureProject(t)

	out, _, err := execute(t, "list", "--cwd", root, "-R", "--json", "--exclude-metadata")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{`{"value":"UNKNOWN"`, `{"value":"MIT"`, `{"value":"WTFPL;MIT"`, `{"value":"UNLICENSED"`}
	if len(lines) != len(want) {
		t.Fatalf("got %d license groups, want %d:\n%s", len(lines), len(want), out)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %s, want prefix %s", i, lines[i], prefix)
		}
	}
	if !strings.Contains(lines[1], `"ms@npm:2.1.3":{"value":{"locator":"ms@npm:2.1.3","descriptor":"ms@npm:^2.1.0"},"children":{}}`) {
		t.Errorf("later descriptor should replace the earlier one for the same locator:\n%s", lines[1])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	root := fixtureProject(t)
	snap := filepath.Join(t.TempDir(), "project.json")

	if _, _, err := execute(t, "snapshot", "--cwd", root, "-o", snap); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	fromLock, _, err := execute(t, "generate-disclaimer", "--cwd", root, "-R", "--stdout")
	if err != nil {
		t.Fatal(err)
	}
	fromSnap, _, err := execute(t, "generate-disclaimer", "--snapshot", snap, "-R", "--stdout")
	if err != nil {
		t.Fatalf("generate-disclaimer --snapshot: %v", err)
	}
	if fromLock != fromSnap {
		t.Errorf("snapshot output differs:\n%s\n---\n%s", fromLock, fromSnap)
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "licensetower") {
		t.Errorf("bash completion does not mention the command:\n%.200s", out)
	}
}
