package project

import (
	"cmp"
	"context"
	"path/filepath"
	"slices"
	"strings"
)

// LinkType tells whether a package is copied into place (hard) or linked
// from a local directory (soft, e.g. workspaces and portals).
type LinkType string

const (
	LinkHard LinkType = "hard"
	LinkSoft LinkType = "soft"
)

// Package is a resolved dependency.
type Package struct {
	Locator
	Version          string
	LinkType         LinkType
	Dependencies     map[string]Descriptor // ident hash -> descriptor
	PeerDependencies map[string]Descriptor // ident hash -> descriptor

	// Location is the install directory relative to the project root, when
	// the install state records one. Empty means "let the linker decide".
	Location string
}

// Manifest holds the dependency sections of a workspace manifest, keyed by
// ident hash.
type Manifest struct {
	Name             Ident
	Version          string
	Dependencies     map[string]Descriptor
	DevDependencies  map[string]Descriptor
	PeerDependencies map[string]Descriptor
}

// Workspace is a project member with its own manifest.
type Workspace struct {
	Cwd                string // relative to the project root, "." for the root workspace
	Locator            Locator
	AnchoredDescriptor Descriptor
	Manifest           *Manifest
}

// Dependencies returns the regular and development dependency descriptors
// of the workspace, sorted by ident. When an ident appears in both sections
// the development descriptor wins.
func (w *Workspace) Dependencies() []Descriptor {
	merged := make(map[string]Descriptor, len(w.Manifest.Dependencies)+len(w.Manifest.DevDependencies))
	for h, d := range w.Manifest.Dependencies {
		merged[h] = d
	}
	for h, d := range w.Manifest.DevDependencies {
		merged[h] = d
	}
	out := make([]Descriptor, 0, len(merged))
	for _, d := range merged {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		return cmp.Or(cmp.Compare(a.Ident.String(), b.Ident.String()), cmp.Compare(a.Range, b.Range))
	})
	return out
}

// IsDevDependency reports whether identHash is declared as a development
// dependency of the workspace.
func (w *Workspace) IsDevDependency(identHash string) bool {
	_, ok := w.Manifest.DevDependencies[identHash]
	return ok
}

// Project is a resolved project: workspaces plus resolution tables.
//
// A Project is built once per command invocation and is not safe for
// concurrent mutation.
type Project struct {
	Cwd        string // absolute project root
	NodeLinker string // install layout ("node-modules", "pnpm", "pnp")
	Workspaces []*Workspace

	StoredDescriptors map[string]Descriptor // descriptor hash -> descriptor
	StoredResolutions map[string]string     // descriptor hash -> locator hash
	StoredPackages    map[string]*Package   // locator hash -> package
}

// New creates an empty project rooted at cwd.
func New(cwd string) *Project {
	return &Project{
		Cwd:               cwd,
		StoredDescriptors: make(map[string]Descriptor),
		StoredResolutions: make(map[string]string),
		StoredPackages:    make(map[string]*Package),
	}
}

// AddPackage stores pkg under its locator hash.
func (p *Project) AddPackage(pkg *Package) {
	p.StoredPackages[pkg.Locator.Hash()] = pkg
}

// AddResolution records that d resolves to the package at loc.
func (p *Project) AddResolution(d Descriptor, loc Locator) {
	h := d.Hash()
	p.StoredDescriptors[h] = d
	p.StoredResolutions[h] = loc.Hash()
}

// Resolve returns the package d resolves to.
func (p *Project) Resolve(d Descriptor) (*Package, bool) {
	locHash, ok := p.StoredResolutions[d.Hash()]
	if !ok {
		return nil, false
	}
	pkg, ok := p.StoredPackages[locHash]
	return pkg, ok
}

// Descriptors returns the stored descriptors in no particular order.
func (p *Project) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(p.StoredDescriptors))
	for _, d := range p.StoredDescriptors {
		out = append(out, d)
	}
	return out
}

// Workspace returns the workspace whose locator is loc.
func (p *Project) Workspace(loc Locator) (*Workspace, bool) {
	loc = loc.Devirtualize()
	for _, ws := range p.Workspaces {
		if ws.Locator == loc {
			return ws, true
		}
	}
	return nil, false
}

// WorkspaceForPath returns the innermost workspace containing dir.
func (p *Project) WorkspaceForPath(dir string) (*Workspace, bool) {
	var (
		best    *Workspace
		bestLen = -1
	)
	for _, ws := range p.Workspaces {
		root := filepath.Join(p.Cwd, filepath.FromSlash(ws.Cwd))
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > bestLen {
			best, bestLen = ws, len(root)
		}
	}
	return best, best != nil
}

// ClearDevDependencies removes the development dependencies from every
// workspace manifest. Call [Project.ResolveEverything] afterwards to drop
// the dev-only subtrees from the stored descriptors.
func (p *Project) ClearDevDependencies() {
	for _, ws := range p.Workspaces {
		ws.Manifest.DevDependencies = make(map[string]Descriptor)
	}
}

// ResolveEverything recomputes the stored descriptors as the set reachable
// from the workspace manifests. Workspace packages contribute their current
// manifest dependencies rather than the ones recorded at install time, so
// dependencies removed from a manifest disappear transitively.
func (p *Project) ResolveEverything(ctx context.Context) error {
	reachable := make(map[string]Descriptor, len(p.StoredDescriptors))
	var queue []Descriptor

	push := func(d Descriptor) {
		h := d.Hash()
		if _, seen := reachable[h]; seen {
			return
		}
		if _, ok := p.StoredResolutions[h]; !ok {
			return
		}
		reachable[h] = d
		queue = append(queue, d)
	}

	for _, ws := range p.Workspaces {
		push(ws.AnchoredDescriptor)
		for _, d := range ws.Dependencies() {
			push(d)
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := queue[0]
		queue = queue[1:]

		pkg, ok := p.Resolve(d)
		if !ok {
			continue
		}
		if ws, ok := p.Workspace(pkg.Locator); ok {
			for _, dep := range ws.Dependencies() {
				push(dep)
			}
			continue
		}
		for _, dep := range sortedDescriptors(pkg.Dependencies) {
			push(dep)
		}
	}

	p.StoredDescriptors = reachable
	return nil
}

func sortedDescriptors(m map[string]Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		return cmp.Or(cmp.Compare(a.Ident.String(), b.Ident.String()), cmp.Compare(a.Range, b.Range))
	})
	return out
}
