package linker

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Install layouts understood by [Resolve].
const (
	NodeModules = "node-modules"
	Pnpm        = "pnpm"
	Pnp         = "pnp"
)

// Linker finds the install directory of packages for one install layout.
type Linker interface {
	// Name returns the layout name (e.g., "node-modules").
	Name() string
	// FS returns the filesystem rooted at the project directory.
	FS() fs.FS
	// PackagePath returns the install directory of pkg relative to the
	// project root, or "" when the package is not installed (virtual-only,
	// not built yet, or optional and skipped).
	PackagePath(ctx context.Context, p *project.Project, pkg *project.Package) (string, error)
}

// Resolve returns the linker for the given nodeLinker setting. An empty
// name selects node-modules.
func Resolve(name string, fsys fs.FS) (Linker, error) {
	switch name {
	case "", NodeModules:
		return NewNodeModules(fsys), nil
	case Pnpm:
		return NewPnpm(fsys), nil
	case Pnp:
		return nil, errors.New(errors.ErrCodeUnsupported, "nodeLinker %q keeps packages in archives; use node-modules or pnpm", name)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown nodeLinker %q", name)
	}
}

// knownPath handles the cases every layout shares: workspaces live in their
// own directory and packages with a recorded location live there. ok is
// false when the layout has to decide.
func knownPath(fsys fs.FS, p *project.Project, pkg *project.Package) (dir string, ok bool) {
	if ws, found := p.Workspace(pkg.Locator); found {
		return existingDir(fsys, path.Clean(ws.Cwd)), true
	}
	if pkg.Location != "" {
		return existingDir(fsys, path.Clean(filepath.ToSlash(pkg.Location))), true
	}
	return "", false
}

// existingDir returns dir when it exists in fsys and "" otherwise.
func existingDir(fsys fs.FS, dir string) string {
	info, err := fs.Stat(fsys, dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
