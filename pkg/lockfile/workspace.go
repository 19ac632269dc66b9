package lockfile

import (
	"encoding/json"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
)

const manifestFilename = "package.json"

// rootWorkspaceName is the name Yarn gives a root workspace without one.
const rootWorkspaceName = "root-workspace-0b6124"

type packageFile struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Workspaces       json.RawMessage   `json:"workspaces"`
}

// patterns returns the workspace globs, accepting both the array form and
// the {"packages": [...]} form.
func (f packageFile) patterns() ([]string, error) {
	if len(f.Workspaces) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(f.Workspaces, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(f.Workspaces, &obj); err != nil {
		return nil, err
	}
	return obj.Packages, nil
}

func readPackageFile(fsys fs.FS, dir string) (packageFile, error) {
	p := path.Join(dir, manifestFilename)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return packageFile{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", p)
	}
	var f packageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return packageFile{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", p)
	}
	return f, nil
}

// ignoredDirs are never searched for workspaces.
var ignoredDirs = []string{"node_modules", ".git", ".yarn"}

// workspaceDirs expands the root manifest's workspace globs into the
// directories that hold a package.json. Patterns may use "**"; a leading
// "!" excludes the directories it matches. The root itself comes first;
// the rest are sorted.
func workspaceDirs(fsys fs.FS, root packageFile) ([]string, error) {
	patterns, err := root.patterns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse workspaces field")
	}

	var include, exclude []string
	for _, pattern := range patterns {
		if neg, ok := strings.CutPrefix(pattern, "!"); ok {
			exclude = append(exclude, path.Clean(neg))
			continue
		}
		include = append(include, path.Clean(pattern))
	}

	var dirs []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "workspace pattern %q", pattern)
		}
		for _, m := range matches {
			if m == "." || ignored(m) || excluded(exclude, m) {
				continue
			}
			if _, err := fs.Stat(fsys, path.Join(m, manifestFilename)); err == nil {
				dirs = append(dirs, m)
			}
		}
	}
	slices.Sort(dirs)
	return append([]string{"."}, slices.Compact(dirs)...), nil
}

func ignored(dir string) bool {
	for _, seg := range strings.Split(dir, "/") {
		if slices.Contains(ignoredDirs, seg) {
			return true
		}
	}
	return false
}

func excluded(patterns []string, dir string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, dir); err == nil && ok {
			return true
		}
	}
	return false
}

// newWorkspace builds the workspace for the manifest found in dir.
func newWorkspace(dir string, f packageFile) (*project.Workspace, error) {
	name := f.Name
	if name == "" {
		if dir != "." {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "workspace %s has no name", dir)
		}
		name = rootWorkspaceName
	}
	ident, err := project.ParseIdent(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "workspace %s", dir)
	}

	m := &project.Manifest{
		Name:             ident,
		Version:          f.Version,
		Dependencies:     make(map[string]project.Descriptor, len(f.Dependencies)),
		DevDependencies:  make(map[string]project.Descriptor, len(f.DevDependencies)),
		PeerDependencies: make(map[string]project.Descriptor, len(f.PeerDependencies)),
	}
	for _, section := range []struct {
		dst map[string]project.Descriptor
		src map[string]string
	}{
		{m.Dependencies, f.Dependencies},
		{m.DevDependencies, f.DevDependencies},
		{m.PeerDependencies, f.PeerDependencies},
	} {
		if err := addDependencies(section.dst, section.src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "workspace %s", dir)
		}
	}

	loc := project.Locator{Ident: ident, Reference: "workspace:" + dir}
	return &project.Workspace{
		Cwd:                dir,
		Locator:            loc,
		AnchoredDescriptor: project.NewDescriptor(ident, loc.Reference),
		Manifest:           m,
	}, nil
}

// ensureWorkspacePackage records the workspace package when the lockfile
// does not have it yet (a workspace added since the last install).
func ensureWorkspacePackage(p *project.Project, ws *project.Workspace) {
	if _, ok := p.StoredPackages[ws.Locator.Hash()]; !ok {
		deps := make(map[string]project.Descriptor, len(ws.Manifest.Dependencies)+len(ws.Manifest.DevDependencies))
		for _, d := range ws.Dependencies() {
			deps[d.Ident.Hash()] = d
		}
		p.AddPackage(&project.Package{
			Locator:          ws.Locator,
			Version:          ws.Manifest.Version,
			LinkType:         project.LinkSoft,
			Dependencies:     deps,
			PeerDependencies: ws.Manifest.PeerDependencies,
		})
	}
	p.AddResolution(ws.AnchoredDescriptor, ws.Locator)
}
