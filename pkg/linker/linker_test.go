package linker

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/project/projecttest"
)

func manifest(name, version string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`{"name":"` + name + `","version":"` + version + `"}`)}
}

func TestResolve(t *testing.T) {
	fsys := fstest.MapFS{}
	tests := []struct {
		name     string
		want     string
		wantCode errors.Code
	}{
		{"", NodeModules, ""},
		{"node-modules", NodeModules, ""},
		{"pnpm", Pnpm, ""},
		{"pnp", "", errors.ErrCodeUnsupported},
		{"yarn", "", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Resolve(tt.name, fsys)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Resolve(%q) error = %v, want %s", tt.name, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.name, err)
			}
			if l.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", l.Name(), tt.want)
			}
		})
	}
}

func TestNodeModulesPackagePath(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "0.0.0")
	app := b.Workspace("packages/app", "app", "1.0.0")
	left := b.Package("left-pad", "1.3.0")
	leftOld := b.Package("left-pad", "1.0.0")
	scoped := b.Package("@babel/core", "7.0.0")
	local := b.Package("local", "2.0.0")
	local.Location = "vendor/local"
	missing := b.Package("missing", "1.0.0")
	b.Depend(root, "left-pad@npm:^1.3.0", left)
	b.Depend(app, "left-pad@npm:^1.0.0", leftOld)

	fsys := fstest.MapFS{
		"package.json":                                    manifest("root", "0.0.0"),
		"packages/app/package.json":                       manifest("app", "1.0.0"),
		"node_modules/left-pad/package.json":              manifest("left-pad", "1.3.0"),
		"node_modules/@babel/core/package.json":           manifest("@babel/core", "7.0.0"),
		"node_modules/.bin/left-pad":                      {Data: []byte("#!")},
		"node_modules/broken/index.js":                    {Data: []byte("")},
		"packages/app/node_modules/left-pad/package.json": manifest("left-pad", "1.0.0"),
		"vendor/local/package.json":                       manifest("local", "2.0.0"),
	}
	l := NewNodeModules(fsys)
	ctx := context.Background()

	tests := []struct {
		name string
		pkg  string
		want string
	}{
		{"root workspace", root.Locator.Hash(), "."},
		{"nested workspace", app.Locator.Hash(), "packages/app"},
		{"hoisted", left.Locator.Hash(), "node_modules/left-pad"},
		{"workspace node_modules", leftOld.Locator.Hash(), "packages/app/node_modules/left-pad"},
		{"scoped", scoped.Locator.Hash(), "node_modules/@babel/core"},
		{"recorded location", local.Locator.Hash(), "vendor/local"},
		{"not installed", missing.Locator.Hash(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.PackagePath(ctx, b.P, b.P.StoredPackages[tt.pkg])
			if err != nil {
				t.Fatalf("PackagePath: %v", err)
			}
			if got != tt.want {
				t.Errorf("PackagePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeModulesNestedFirstWins(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")
	dep := b.Package("dep", "1.0.0")

	fsys := fstest.MapFS{
		"node_modules/a/package.json":                  manifest("a", "1.0.0"),
		"node_modules/a/node_modules/dep/package.json": manifest("dep", "1.0.0"),
		"node_modules/dep/package.json":                manifest("dep", "1.0.0"),
	}
	got, err := NewNodeModules(fsys).PackagePath(context.Background(), b.P, dep)
	if err != nil {
		t.Fatalf("PackagePath: %v", err)
	}
	if got != "node_modules/dep" {
		t.Errorf("PackagePath = %q, want the shallowest copy", got)
	}
}

func TestNodeModulesVirtual(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")
	react := b.Package("react-dom", "18.2.0")
	_, vpkg := b.Virtual("react-dom@npm:^18.0.0", "abc123", react)

	fsys := fstest.MapFS{
		"node_modules/react-dom/package.json": manifest("react-dom", "18.2.0"),
	}
	got, err := NewNodeModules(fsys).PackagePath(context.Background(), b.P, vpkg)
	if err != nil {
		t.Fatalf("PackagePath: %v", err)
	}
	if got != "node_modules/react-dom" {
		t.Errorf("PackagePath = %q, want node_modules/react-dom", got)
	}
}

func TestNodeModulesCanceled(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")
	dep := b.Package("dep", "1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewNodeModules(fstest.MapFS{}).PackagePath(ctx, b.P, dep); err == nil {
		t.Error("expected context error")
	}
}

func TestPnpmPackagePath(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "0.0.0")
	lodash := b.Package("lodash", "4.17.21")
	scoped := b.Package("@types/node", "20.1.0")
	missing := b.Package("missing", "1.0.0")

	fsys := fstest.MapFS{
		"package.json":                                                                            manifest("root", "0.0.0"),
		"node_modules/.store/lodash-npm-4.17.21-1a2b3c/package/package.json":                      manifest("lodash", "4.17.21"),
		"node_modules/.store/@types-node-npm-20.1.0-4d5e6f/node_modules/@types/node/package.json": manifest("@types/node", "20.1.0"),
	}
	l := NewPnpm(fsys)
	ctx := context.Background()

	tests := []struct {
		name string
		pkg  string
		want string
	}{
		{"workspace", root.Locator.Hash(), "."},
		{"package dir", lodash.Locator.Hash(), "node_modules/.store/lodash-npm-4.17.21-1a2b3c/package"},
		{"nested node_modules", scoped.Locator.Hash(), "node_modules/.store/@types-node-npm-20.1.0-4d5e6f/node_modules/@types/node"},
		{"not installed", missing.Locator.Hash(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.PackagePath(ctx, b.P, b.P.StoredPackages[tt.pkg])
			if err != nil {
				t.Fatalf("PackagePath: %v", err)
			}
			if got != tt.want {
				t.Errorf("PackagePath = %q, want %q", got, tt.want)
			}
		})
	}
	if l.FS() == nil {
		t.Error("FS() = nil")
	}
}

func TestReadAll(t *testing.T) {
	b := projecttest.New("/repo")
	root := b.Workspace(".", "root", "0.0.0")
	a := b.Package("a", "1.0.0")
	missing := b.Package("missing", "1.0.0")
	c := b.Package("c", "3.0.0")

	fsys := fstest.MapFS{
		"package.json":                {Data: []byte(`{"name":"root","version":"0.0.0","license":"MIT"}`)},
		"node_modules/a/package.json": manifest("a", "1.0.0"),
		"node_modules/a/LICENSE":      {Data: []byte("MIT")},
		"node_modules/c/package.json": manifest("c", "3.0.0"),
	}
	pkgs := []*project.Package{b.P.StoredPackages[root.Locator.Hash()], a, missing, c}

	got, err := ReadAll(context.Background(), b.P, NewNodeModules(fsys), pkgs, 2)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(pkgs) {
		t.Fatalf("len = %d, want %d", len(got), len(pkgs))
	}
	wantDirs := []string{".", "node_modules/a", "", "node_modules/c"}
	for i, in := range got {
		if in.Package != pkgs[i] {
			t.Errorf("[%d] package = %s, want %s", i, in.Package.Locator, pkgs[i].Locator)
		}
		if in.Dir != wantDirs[i] {
			t.Errorf("[%d] dir = %q, want %q", i, in.Dir, wantDirs[i])
		}
	}
	if got[1].Manifest.Name != "a" || len(got[1].Files) != 2 {
		t.Errorf("a = %+v", got[1])
	}
}

func TestReadAllFailsOnBadManifest(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")
	a := b.Package("a", "1.0.0")
	bad := b.Package("bad", "1.0.0")

	fsys := fstest.MapFS{
		"node_modules/a/package.json":   manifest("a", "1.0.0"),
		"node_modules/bad/package.json": manifest("bad", "1.0.0"),
	}
	l := NewNodeModules(fsys)
	// Index first, then break the manifest the aggregator will read.
	if _, err := l.PackagePath(context.Background(), b.P, a); err != nil {
		t.Fatal(err)
	}
	fsys["node_modules/bad/package.json"] = &fstest.MapFile{Data: []byte(`{"name":`)}

	_, err := ReadAll(context.Background(), b.P, l, []*project.Package{a, bad}, 4)
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Fatalf("ReadAll error = %v, want INVALID_MANIFEST", err)
	}
}

func TestReadAllReportsEarliestFailure(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")

	fsys := fstest.MapFS{}
	var pkgs []*project.Package
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		pkgs = append(pkgs, b.Package(name, "1.0.0"))
		fsys["node_modules/"+name+"/package.json"] = manifest(name, "1.0.0")
	}
	l := NewNodeModules(fsys)
	if _, err := l.PackagePath(context.Background(), b.P, pkgs[0]); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"c", "e", "f"} {
		fsys["node_modules/"+name+"/package.json"] = &fstest.MapFile{Data: []byte(`{"name":`)}
	}

	for i := 0; i < 20; i++ {
		_, err := ReadAll(context.Background(), b.P, l, pkgs, 4)
		if err == nil || !strings.Contains(err.Error(), "node_modules/c/package.json") {
			t.Fatalf("ReadAll error = %v, want the failure of c", err)
		}
	}
}

func TestReadAllCanceled(t *testing.T) {
	b := projecttest.New("/repo")
	b.Workspace(".", "root", "0.0.0")
	a := b.Package("a", "1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadAll(ctx, b.P, NewNodeModules(fstest.MapFS{}), []*project.Package{a}, 1)
	if err != context.Canceled {
		t.Fatalf("ReadAll error = %v, want context.Canceled", err)
	}
}
