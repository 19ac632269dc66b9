// Package projecttest builds in-memory projects for tests.
package projecttest

import (
	"fmt"

	"github.com/matzehuels/licensetower/pkg/project"
)

// Builder assembles a [project.Project] one workspace and package at a time.
// All methods panic on malformed input; they are meant for test fixtures.
type Builder struct {
	P *project.Project
}

// New creates a builder for a project rooted at cwd.
func New(cwd string) *Builder {
	p := project.New(cwd)
	p.NodeLinker = "node-modules"
	return &Builder{P: p}
}

// Workspace adds a workspace at cwd (relative, "." for the root) and the
// soft-linked package it resolves to.
func (b *Builder) Workspace(cwd, name, version string) *project.Workspace {
	ident := mustIdent(name)
	loc := project.Locator{Ident: ident, Reference: "workspace:" + cwd}
	ws := &project.Workspace{
		Cwd:                cwd,
		Locator:            loc,
		AnchoredDescriptor: project.NewDescriptor(ident, loc.Reference),
		Manifest: &project.Manifest{
			Name:             ident,
			Version:          version,
			Dependencies:     make(map[string]project.Descriptor),
			DevDependencies:  make(map[string]project.Descriptor),
			PeerDependencies: make(map[string]project.Descriptor),
		},
	}
	b.P.Workspaces = append(b.P.Workspaces, ws)
	b.P.AddPackage(&project.Package{
		Locator:          loc,
		Version:          version,
		LinkType:         project.LinkSoft,
		Dependencies:     make(map[string]project.Descriptor),
		PeerDependencies: make(map[string]project.Descriptor),
	})
	b.P.AddResolution(ws.AnchoredDescriptor, loc)
	return ws
}

// Package returns the registry package name@npm:version, adding it when
// missing.
func (b *Builder) Package(name, version string) *project.Package {
	loc := project.Locator{Ident: mustIdent(name), Reference: "npm:" + version}
	if pkg, ok := b.P.StoredPackages[loc.Hash()]; ok {
		return pkg
	}
	pkg := &project.Package{
		Locator:          loc,
		Version:          version,
		LinkType:         project.LinkHard,
		Dependencies:     make(map[string]project.Descriptor),
		PeerDependencies: make(map[string]project.Descriptor),
	}
	b.P.AddPackage(pkg)
	return pkg
}

// Resolve records that descriptor resolves to pkg.
func (b *Builder) Resolve(descriptor string, pkg *project.Package) project.Descriptor {
	d := mustDescriptor(descriptor)
	b.P.AddResolution(d, pkg.Locator)
	return d
}

// Depend declares descriptor as a regular dependency of ws resolving to pkg.
func (b *Builder) Depend(ws *project.Workspace, descriptor string, pkg *project.Package) project.Descriptor {
	d := b.Resolve(descriptor, pkg)
	ws.Manifest.Dependencies[d.Ident.Hash()] = d
	b.workspacePackage(ws).Dependencies[d.Ident.Hash()] = d
	return d
}

// DevDepend declares descriptor as a development dependency of ws resolving
// to pkg.
func (b *Builder) DevDepend(ws *project.Workspace, descriptor string, pkg *project.Package) project.Descriptor {
	d := b.Resolve(descriptor, pkg)
	ws.Manifest.DevDependencies[d.Ident.Hash()] = d
	b.workspacePackage(ws).Dependencies[d.Ident.Hash()] = d
	return d
}

// Require declares descriptor as a dependency of parent resolving to pkg.
func (b *Builder) Require(parent *project.Package, descriptor string, pkg *project.Package) project.Descriptor {
	d := b.Resolve(descriptor, pkg)
	parent.Dependencies[d.Ident.Hash()] = d
	return d
}

// Virtual adds a virtual instance of pkg for the peer context id, requested
// by the virtualized form of descriptor. The real descriptor must already
// resolve (or will be resolved) separately.
func (b *Builder) Virtual(descriptor, id string, pkg *project.Package) (project.Descriptor, *project.Package) {
	d := project.Virtualize(mustDescriptor(descriptor), id)
	loc := project.Locator{Ident: pkg.Ident, Reference: "virtual:" + id + "#" + pkg.Reference}
	vpkg := &project.Package{
		Locator:          loc,
		Version:          pkg.Version,
		LinkType:         pkg.LinkType,
		Dependencies:     pkg.Dependencies,
		PeerDependencies: pkg.PeerDependencies,
	}
	b.P.AddPackage(vpkg)
	b.P.AddResolution(d, loc)
	return d, vpkg
}

func (b *Builder) workspacePackage(ws *project.Workspace) *project.Package {
	pkg, ok := b.P.StoredPackages[ws.Locator.Hash()]
	if !ok {
		panic(fmt.Sprintf("projecttest: workspace %s has no package", ws.Locator))
	}
	return pkg
}

func mustIdent(s string) project.Ident {
	ident, err := project.ParseIdent(s)
	if err != nil {
		panic(err)
	}
	return ident
}

func mustDescriptor(s string) project.Descriptor {
	d, err := project.ParseDescriptor(s)
	if err != nil {
		panic(err)
	}
	return d
}
