package deps

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Options configures package selection.
type Options struct {
	Recursive  bool                 // Include transitive dependencies
	Production bool                 // Exclude development dependencies
	Logger     func(string, ...any) // Debug callback for skipped descriptors (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Selected pairs a requested descriptor with the package it resolves to.
type Selected struct {
	Descriptor project.Descriptor
	Package    *project.Package
}

// SortedPackages returns the packages of p in a deterministic order, one per
// distinct (devirtualized) descriptor.
//
// In recursive production mode the development dependencies are removed
// from every workspace manifest of p and the project is re-resolved before
// descriptors are collected, so p is modified.
func SortedPackages(ctx context.Context, p *project.Project, opts Options) ([]Selected, error) {
	opts = opts.WithDefaults()
	hooks := observability.Selection()
	start := time.Now()
	hooks.OnSelectStart(ctx, opts.Recursive, opts.Production)

	selected, err := sortedPackages(ctx, p, opts)
	hooks.OnSelectComplete(ctx, len(selected), time.Since(start), err)
	return selected, err
}

func sortedPackages(ctx context.Context, p *project.Project, opts Options) ([]Selected, error) {
	candidates, err := candidateDescriptors(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	SortDescriptors(candidates)

	hooks := observability.Selection()
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Selected, 0, len(candidates))

	for _, d := range candidates {
		pkg, ok := p.Resolve(d)
		if !ok {
			opts.Logger("skipping %s: no resolution", d)
			hooks.OnDescriptorSkipped(ctx, d.String(), "unresolved")
			continue
		}

		key := d.Devirtualize().Hash()
		if _, dup := seen[key]; dup {
			hooks.OnDescriptorSkipped(ctx, d.String(), "duplicate")
			continue
		}
		seen[key] = struct{}{}

		out = append(out, Selected{Descriptor: d, Package: pkg})
	}
	return out, nil
}

// candidateDescriptors collects the descriptors to consider: the direct
// dependencies of every workspace, or every stored descriptor when
// recursive.
func candidateDescriptors(ctx context.Context, p *project.Project, opts Options) ([]project.Descriptor, error) {
	if opts.Recursive {
		if opts.Production {
			p.ClearDevDependencies()
			if err := p.ResolveEverything(ctx); err != nil {
				return nil, err
			}
		}
		return p.Descriptors(), nil
	}

	var out []project.Descriptor
	for _, ws := range p.Workspaces {
		out = append(out, ws.AnchoredDescriptor)
		for _, d := range ws.Dependencies() {
			if opts.Production && ws.IsDevDependency(d.Ident.Hash()) {
				continue
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// SortDescriptors sorts descriptors by ident, then virtual before real, then
// range. The sort is stable, so equal descriptors keep their relative order.
func SortDescriptors(ds []project.Descriptor) {
	slices.SortStableFunc(ds, func(a, b project.Descriptor) int {
		return cmp.Or(
			cmp.Compare(a.Ident.String(), b.Ident.String()),
			cmp.Compare(virtualRank(a), virtualRank(b)),
			cmp.Compare(a.Range, b.Range),
		)
	})
}

// virtualRank puts virtual descriptors first: the node-modules layout
// prefers the virtual instance when both exist.
func virtualRank(d project.Descriptor) int {
	if d.IsVirtual() {
		return 0
	}
	return 1
}
