package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
)

// ReadJSON decodes a project snapshot from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A locator, descriptor or package name cannot be parsed
//   - A resolution points at a package that is not listed
//   - A workspace has no matching "<name>@workspace:<cwd>" package
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*project.Project, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}

	p := project.New(data.Cwd)
	p.NodeLinker = data.NodeLinker

	for _, pk := range data.Packages {
		loc, err := project.ParseLocator(pk.Locator)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "package %s", pk.Locator)
		}
		deps, err := descriptorMap(pk.Dependencies)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "package %s", pk.Locator)
		}
		peers, err := descriptorMap(pk.PeerDependencies)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "package %s", pk.Locator)
		}
		linkType := project.LinkHard
		if pk.LinkType == string(project.LinkSoft) {
			linkType = project.LinkSoft
		}
		p.AddPackage(&project.Package{
			Locator:          loc,
			Version:          pk.Version,
			LinkType:         linkType,
			Location:         pk.Location,
			Dependencies:     deps,
			PeerDependencies: peers,
		})
	}

	for from, to := range data.Resolutions {
		d, err := project.ParseDescriptor(from)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolution %s", from)
		}
		loc, err := project.ParseLocator(to)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolution %s", from)
		}
		if _, ok := p.StoredPackages[loc.Hash()]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "resolution %s -> %s: unknown package", from, to)
		}
		p.AddResolution(d, loc)
	}

	for _, w := range data.Workspaces {
		ws, err := readWorkspace(w)
		if err != nil {
			return nil, err
		}
		if _, ok := p.StoredPackages[ws.Locator.Hash()]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "workspace %s: no package %s", w.Cwd, ws.Locator)
		}
		p.AddResolution(ws.AnchoredDescriptor, ws.Locator)
		p.Workspaces = append(p.Workspaces, ws)
	}

	return p, nil
}

// ImportJSON reads a JSON snapshot file at path and returns the project.
func ImportJSON(path string) (*project.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func readWorkspace(w workspace) (*project.Workspace, error) {
	ident, err := project.ParseIdent(w.Name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "workspace %s", w.Cwd)
	}
	m := &project.Manifest{Name: ident, Version: w.Version}
	for _, section := range []struct {
		dst *map[string]project.Descriptor
		src map[string]string
	}{
		{&m.Dependencies, w.Dependencies},
		{&m.DevDependencies, w.DevDependencies},
		{&m.PeerDependencies, w.PeerDependencies},
	} {
		if *section.dst, err = descriptorMap(section.src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "workspace %s", w.Cwd)
		}
	}

	loc := project.Locator{Ident: ident, Reference: "workspace:" + w.Cwd}
	return &project.Workspace{
		Cwd:                w.Cwd,
		Locator:            loc,
		AnchoredDescriptor: project.NewDescriptor(ident, loc.Reference),
		Manifest:           m,
	}, nil
}

func descriptorMap(src map[string]string) (map[string]project.Descriptor, error) {
	out := make(map[string]project.Descriptor, len(src))
	for name, rng := range src {
		ident, err := project.ParseIdent(name)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		d := project.NewDescriptor(ident, rng)
		out[d.Ident.Hash()] = d
	}
	return out, nil
}
