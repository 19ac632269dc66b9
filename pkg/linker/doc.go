// Package linker locates installed packages on disk and reads their
// manifests and license files.
//
// A [Linker] maps a resolved [project.Package] to its install directory for
// one install layout:
//
//   - node-modules: hoisted node_modules trees ([NewNodeModules])
//   - pnpm: isolated store entries under node_modules/.store ([NewPnpm])
//
// Plug'n'Play installs keep packages in zip archives and are rejected by
// [Resolve].
//
// All paths are slash-separated and relative to the project root; the
// filesystem itself is an [fs.FS] so tests can use [fstest.MapFS].
//
// [project.Package]: github.com/matzehuels/licensetower/pkg/project.Package
// [fstest.MapFS]: https://pkg.go.dev/testing/fstest#MapFS
package linker
