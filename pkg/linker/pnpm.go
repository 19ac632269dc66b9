package linker

import (
	"context"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/matzehuels/licensetower/pkg/project"
)

var storeDir = path.Join(nodeModulesDir, ".store")

// PnpmLinker resolves packages installed in an isolated store: every package
// lives in node_modules/.store/<slug>-<hash>/package.
type PnpmLinker struct {
	fsys fs.FS

	once    sync.Once
	entries []string
}

// NewPnpm creates a pnpm linker over fsys.
func NewPnpm(fsys fs.FS) *PnpmLinker {
	return &PnpmLinker{fsys: fsys}
}

func (l *PnpmLinker) Name() string { return Pnpm }
func (l *PnpmLinker) FS() fs.FS    { return l.fsys }

// PackagePath implements [Linker].
func (l *PnpmLinker) PackagePath(ctx context.Context, p *project.Project, pkg *project.Package) (string, error) {
	if dir, ok := knownPath(l.fsys, p, pkg); ok {
		return dir, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.once.Do(func() {
		entries, err := fs.ReadDir(l.fsys, storeDir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if isDirLike(e) {
				l.entries = append(l.entries, e.Name())
			}
		}
	})

	prefix := pkg.Locator.Slug() + "-"
	for _, entry := range l.entries {
		if !strings.HasPrefix(entry, prefix) {
			continue
		}
		base := path.Join(storeDir, entry)
		if dir := existingDir(l.fsys, path.Join(base, "package")); dir != "" {
			return dir, nil
		}
		if dir := existingDir(l.fsys, path.Join(base, nodeModulesDir, pkg.Ident.String())); dir != "" {
			return dir, nil
		}
	}
	return "", nil
}
