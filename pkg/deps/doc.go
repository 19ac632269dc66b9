// Package deps selects the packages of a resolved project whose licenses
// should be reported.
//
// # Selection
//
// [SortedPackages] walks a [project.Project] in one of two modes:
//
//   - Direct (default): each workspace's own descriptor plus the descriptors
//     declared in its manifest. With Production set, descriptors declared as
//     development dependencies of that workspace are skipped.
//   - Recursive: every stored descriptor. With Production set, development
//     dependencies are removed from all workspace manifests and the project
//     is re-resolved first, so dev-only subtrees disappear transitively.
//
// # Ordering
//
// Candidates are sorted by ident, then virtual descriptors before real ones,
// then range ([SortDescriptors]). The order never depends on map iteration
// or discovery order, which keeps disclaimer output reproducible.
//
// # Deduplication
//
// Virtual descriptors are devirtualized before deduplication, so a package
// instantiated for several peer contexts is reported once. Descriptors that
// do not resolve are skipped silently.
//
//	selected, err := deps.SortedPackages(ctx, p, deps.Options{Recursive: true})
//	for _, s := range selected {
//	    fmt.Println(s.Descriptor, "->", s.Package.Locator)
//	}
//
// [project.Project]: github.com/matzehuels/licensetower/pkg/project.Project
package deps
