package disclaimer

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/project/projecttest"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func mustGenerate(t *testing.T, p *project.Project, fsys fstest.MapFS, opts deps.Options) *Result {
	t.Helper()
	ctx := context.Background()
	selected, err := deps.SortedPackages(ctx, p, opts)
	if err != nil {
		t.Fatalf("SortedPackages: %v", err)
	}
	res, err := Generate(ctx, p, linker.NewNodeModules(fsys), selected, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Disclaimers) != len(res.Entries) {
		t.Fatalf("%d disclaimers for %d entries", len(res.Disclaimers), len(res.Entries))
	}
	return res
}

func TestMetadataOnly(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	b.Depend(root, "left-pad@npm:^1.0.0", b.Package("left-pad", "1.0.0"))

	fsys := fstest.MapFS{
		"package.json":                       file(`{"name":"root","version":"1.0.0","private":true}`),
		"node_modules/left-pad/package.json": file(`{"name":"left-pad","version":"1.0.0","license":"MIT"}`),
		"node_modules/left-pad/index.js":     file(""),
	}
	res := mustGenerate(t, b.P, fsys, deps.Options{})

	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 (left-pad, root)", len(res.Entries))
	}
	e := res.Entries[0]
	if e.ModuleName != "left-pad@1.0.0" || e.License != "MIT" {
		t.Errorf("entry = %+v", e.Info)
	}
	want := "{\n" +
		"  \"moduleName\": \"left-pad@1.0.0\",\n" +
		"  \"name\": \"left-pad\",\n" +
		"  \"version\": \"1.0.0\",\n" +
		"  \"license\": \"MIT\"\n" +
		"}\n"
	if e.Disclaimer != want {
		t.Errorf("disclaimer =\n%s\nwant\n%s", e.Disclaimer, want)
	}
	if res.Entries[1].License != "UNKNOWN" {
		t.Errorf("root license = %q, want UNKNOWN", res.Entries[1].License)
	}
}

func TestDuplicateModuleName(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	foo := b.Package("foo", "1.0.0")
	bar := b.Package("bar", "1.0.0")
	b.Depend(root, "foo@npm:^1.0.0", foo)
	b.Depend(root, "bar@npm:^1.0.0", bar)
	b.Require(foo, "bar@npm:1.0.0", bar)

	fsys := fstest.MapFS{
		"package.json":                  file(`{"name":"root","version":"1.0.0"}`),
		"node_modules/foo/package.json": file(`{"name":"foo","version":"1.0.0","license":"ISC"}`),
		"node_modules/bar/package.json": file(`{"name":"bar","version":"1.0.0","license":"MIT"}`),
	}
	res := mustGenerate(t, b.P, fsys, deps.Options{Recursive: true})

	var names []string
	for _, e := range res.Entries {
		names = append(names, e.ModuleName)
	}
	got := strings.Join(names, ",")
	if got != "bar@1.0.0,foo@1.0.0,root@1.0.0" {
		t.Errorf("entries = %s", got)
	}
}

func TestLicenseAndNotice(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	b.Depend(root, "lib@npm:^3.0.0", b.Package("lib", "3.0.0"))

	fsys := fstest.MapFS{
		"package.json":                  file(`{"name":"root","version":"1.0.0"}`),
		"node_modules/lib/package.json": file(`{"name":"lib","version":"3.0.0","license":"Apache-2.0","repository":{"type":"git","url":"https://example.com/lib.git"},"author":{"name":"Lib Corp","url":"https://lib.example"}}`),
		"node_modules/lib/LICENSE.md":   file("\n  Apache License 2.0\n\n"),
		"node_modules/lib/NOTICE.txt":   file("Copyright Lib Corp\n"),
	}
	res := mustGenerate(t, b.P, fsys, deps.Options{})

	e := res.Entries[0]
	if e.ModuleName != "lib@3.0.0" {
		t.Fatalf("first entry = %s", e.ModuleName)
	}
	header := "{\n" +
		"  \"moduleName\": \"lib@3.0.0\",\n" +
		"  \"name\": \"lib\",\n" +
		"  \"version\": \"3.0.0\",\n" +
		"  \"url\": \"https://example.com/lib.git\",\n" +
		"  \"license\": \"Apache-2.0\",\n" +
		"  \"vendorName\": \"Lib Corp\",\n" +
		"  \"vendorUrl\": \"https://lib.example\"\n" +
		"}\n"
	want := header + "\nApache License 2.0\n\n\n\nNOTICE\n\nCopyright Lib Corp\n"
	if e.Disclaimer != want {
		t.Errorf("disclaimer =\n%q\nwant\n%q", e.Disclaimer, want)
	}
}

func TestNoticeWithoutLicenseIgnored(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	b.Depend(root, "lib@npm:^1.0.0", b.Package("lib", "1.0.0"))

	fsys := fstest.MapFS{
		"package.json":                  file(`{"name":"root","version":"1.0.0"}`),
		"node_modules/lib/package.json": file(`{"name":"lib","version":"1.0.0","license":"MIT"}`),
		"node_modules/lib/NOTICE":       file("notice"),
	}
	res := mustGenerate(t, b.P, fsys, deps.Options{})
	if strings.Contains(res.Entries[0].Disclaimer, "NOTICE") {
		t.Errorf("notice without license file should be ignored:\n%s", res.Entries[0].Disclaimer)
	}
}

func TestNotInstalledSkipped(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	b.Depend(root, "ghost@npm:^1.0.0", b.Package("ghost", "1.0.0"))

	fsys := fstest.MapFS{
		"package.json": file(`{"name":"root","version":"1.0.0"}`),
	}
	var logged []string
	ctx := context.Background()
	selected, err := deps.SortedPackages(ctx, b.P, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Generate(ctx, b.P, linker.NewNodeModules(fsys), selected, Options{
		Logger: func(format string, args ...any) { logged = append(logged, format) },
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Name != "root" {
		t.Errorf("entries = %+v", res.Entries)
	}
	if len(logged) != 1 {
		t.Errorf("logged %d messages, want 1", len(logged))
	}
}

func TestBadManifestAborts(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "1.0.0")
	b.Depend(root, "a@npm:^1.0.0", b.Package("a", "1.0.0"))

	fsys := fstest.MapFS{
		"package.json":                file(`{"name":"root","version":"1.0.0"}`),
		"node_modules/a/package.json": file(`{"name":"a","version":"1.0.0"}`),
	}
	l := linker.NewNodeModules(fsys)
	ctx := context.Background()
	selected, err := deps.SortedPackages(ctx, b.P, deps.Options{})
	if err != nil {
		t.Fatal(err)
	}
	// The root manifest is read from the workspace directory, not the index.
	fsys["package.json"] = file(`not json`)

	if _, err := Generate(ctx, b.P, l, selected, Options{}); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Fatalf("Generate error = %v, want INVALID_MANIFEST", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	if opts.Workers != linker.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", opts.Workers, linker.DefaultWorkers)
	}
	if opts.Logger == nil {
		t.Error("Logger is nil")
	}
}
