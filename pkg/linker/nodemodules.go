package linker

import (
	"context"
	"encoding/json"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/matzehuels/licensetower/pkg/project"
)

const nodeModulesDir = "node_modules"

// NodeModulesLinker resolves packages installed in hoisted node_modules
// trees. The first directory (breadth-first from the project root and then
// each workspace) holding a given name@version wins.
type NodeModulesLinker struct {
	fsys fs.FS

	once  sync.Once
	index map[string]string // name@version -> directory
	err   error
}

// NewNodeModules creates a node-modules linker over fsys.
func NewNodeModules(fsys fs.FS) *NodeModulesLinker {
	return &NodeModulesLinker{fsys: fsys}
}

func (l *NodeModulesLinker) Name() string { return NodeModules }
func (l *NodeModulesLinker) FS() fs.FS    { return l.fsys }

// PackagePath implements [Linker].
func (l *NodeModulesLinker) PackagePath(ctx context.Context, p *project.Project, pkg *project.Package) (string, error) {
	if dir, ok := knownPath(l.fsys, p, pkg); ok {
		return dir, nil
	}
	l.once.Do(func() { l.index, l.err = l.buildIndex(ctx, p) })
	if l.err != nil {
		return "", l.err
	}
	return l.index[pkg.Ident.String()+"@"+pkg.Version], nil
}

func (l *NodeModulesLinker) buildIndex(ctx context.Context, p *project.Project) (map[string]string, error) {
	index := make(map[string]string)

	queue := []string{nodeModulesDir}
	for _, ws := range p.Workspaces {
		if dir := path.Clean(ws.Cwd); dir != "." {
			queue = append(queue, path.Join(dir, nodeModulesDir))
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := queue[0]
		queue = queue[1:]

		for _, pkgDir := range l.packageDirs(dir) {
			key, ok := l.identify(pkgDir.path)
			if !ok {
				continue
			}
			if _, seen := index[key]; !seen {
				index[key] = pkgDir.path
			}
			// Symlinked entries point at workspaces or portals; their own
			// node_modules are reached from the workspace list instead.
			if !pkgDir.symlink {
				queue = append(queue, path.Join(pkgDir.path, nodeModulesDir))
			}
		}
	}
	return index, nil
}

type packageDir struct {
	path    string
	symlink bool
}

// packageDirs lists the package directories directly inside a node_modules
// directory, expanding @scope folders. Dot entries (.bin, .cache, .store,
// state files) are ignored.
func (l *NodeModulesLinker) packageDirs(dir string) []packageDir {
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil
	}
	var out []packageDir
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !isDirLike(e) {
			continue
		}
		full := path.Join(dir, name)
		if !strings.HasPrefix(name, "@") {
			out = append(out, packageDir{path: full, symlink: e.Type()&fs.ModeSymlink != 0})
			continue
		}
		scoped, err := fs.ReadDir(l.fsys, full)
		if err != nil {
			continue
		}
		for _, s := range scoped {
			if isDirLike(s) {
				out = append(out, packageDir{path: path.Join(full, s.Name()), symlink: s.Type()&fs.ModeSymlink != 0})
			}
		}
	}
	return out
}

// identify reads name and version from dir/package.json.
func (l *NodeModulesLinker) identify(dir string) (string, bool) {
	data, err := fs.ReadFile(l.fsys, path.Join(dir, ManifestFilename))
	if err != nil {
		return "", false
	}
	var m struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &m); err != nil || m.Name == "" {
		return "", false
	}
	return m.Name + "@" + m.Version, true
}

func isDirLike(e fs.DirEntry) bool {
	return e.IsDir() || e.Type()&fs.ModeSymlink != 0
}
