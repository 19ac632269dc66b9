package linker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/project"
)

// DefaultWorkers is the number of packages read concurrently by [ReadAll].
const DefaultWorkers = 8

// Installed is what [ReadAll] learned about one package. Dir is empty when
// the package is not installed; Manifest and Files are then zero.
type Installed struct {
	Package  *project.Package
	Dir      string
	Manifest license.Manifest
	Files    []string
}

// ReadAll locates every package with l and reads its manifest and file
// list, using up to workers goroutines. Results keep the order of pkgs.
//
// Any read failure aborts the whole call. Every package is read even after
// a failure, so when several packages fail the error of the earliest one in
// pkgs is returned.
func ReadAll(ctx context.Context, p *project.Project, l Linker, pkgs []*project.Package, workers int) ([]Installed, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	out := make([]Installed, len(pkgs))
	errs := make([]error, len(pkgs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i], errs[i] = readInstalled(ctx, p, l, pkg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readInstalled(ctx context.Context, p *project.Project, l Linker, pkg *project.Package) (Installed, error) {
	in := Installed{Package: pkg}
	dir, err := l.PackagePath(ctx, p, pkg)
	if err != nil || dir == "" {
		return in, err
	}
	if in.Manifest, err = ReadManifest(l.FS(), dir); err != nil {
		return in, err
	}
	if in.Files, err = ListFiles(l.FS(), dir); err != nil {
		return in, err
	}
	in.Dir = dir
	return in, nil
}
