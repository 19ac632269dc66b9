package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/project"
)

// WriteJSON encodes a project snapshot as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(p *project.Project, w io.Writer) error {
	out := snapshot{
		Generator:   buildinfo.String(),
		Cwd:         p.Cwd,
		NodeLinker:  p.NodeLinker,
		Workspaces:  make([]workspace, len(p.Workspaces)),
		Packages:    make([]pkg, 0, len(p.StoredPackages)),
		Resolutions: make(map[string]string, len(p.StoredResolutions)),
	}

	for i, ws := range p.Workspaces {
		out.Workspaces[i] = workspace{
			Cwd:              ws.Cwd,
			Name:             ws.Manifest.Name.String(),
			Version:          ws.Manifest.Version,
			Dependencies:     rangeMap(ws.Manifest.Dependencies),
			DevDependencies:  rangeMap(ws.Manifest.DevDependencies),
			PeerDependencies: rangeMap(ws.Manifest.PeerDependencies),
		}
	}

	for _, pk := range p.StoredPackages {
		out.Packages = append(out.Packages, pkg{
			Locator:          pk.Locator.String(),
			Version:          pk.Version,
			LinkType:         string(pk.LinkType),
			Location:         pk.Location,
			Dependencies:     rangeMap(pk.Dependencies),
			PeerDependencies: rangeMap(pk.PeerDependencies),
		})
	}
	slices.SortFunc(out.Packages, func(a, b pkg) int { return strings.Compare(a.Locator, b.Locator) })

	for descHash, d := range p.StoredDescriptors {
		locHash, ok := p.StoredResolutions[descHash]
		if !ok {
			continue
		}
		if pk, ok := p.StoredPackages[locHash]; ok {
			out.Resolutions[d.String()] = pk.Locator.String()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a project snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(p *project.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, f)
}

func rangeMap(deps map[string]project.Descriptor) map[string]string {
	if len(deps) == 0 {
		return nil
	}
	out := make(map[string]string, len(deps))
	for _, d := range deps {
		out[d.Ident.String()] = d.Range
	}
	return out
}
