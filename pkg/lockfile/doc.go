// Package lockfile loads a resolved project from an installed Yarn Berry
// checkout.
//
// [Load] reads three kinds of files from the project root:
//
//   - package.json of the root workspace and of every workspace matched by
//     its "workspaces" globs (either an array or {"packages": [...]})
//   - yarn.lock, whose entries become the stored descriptors, resolutions
//     and packages of the [project.Project]
//   - .yarnrc.yml, for the nodeLinker setting (node-modules by default)
//
// Ranges without a protocol ("^1.2.0", "latest") are read as npm ranges, so
// "left-pad@^1.2.0" and "left-pad@npm:^1.2.0" name the same descriptor.
//
// The lockfile never records virtual packages. Projects that depend on peer
// dependency contexts can be captured with the snapshot format in pkg/io
// instead.
package lockfile
