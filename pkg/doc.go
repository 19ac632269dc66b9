// Package pkg holds the libraries behind licensetower.
//
// # Overview
//
// Licensetower reports the licenses of the dependencies of a resolved Yarn
// project. The packages are layered:
//
//  1. [project] - Identities, descriptors, locators and the resolution tables
//  2. [lockfile], [io] - Loading a project from yarn.lock or a JSON snapshot
//  3. [deps] - Selecting and ordering the packages to report on
//  4. [linker] - Finding installed packages on disk and reading their files
//  5. [license] - Normalizing package.json license metadata
//  6. [disclaimer], [tree] - Building and writing the reports
//
// # Data Flow
//
//	yarn.lock + package.json files        snapshot.json
//	         ↓                                  ↓
//	    [lockfile].Load                   [io].ImportJSON
//	         ↓                                  ↓
//	                 [project].Project
//	                        ↓
//	          [deps].SortedPackages (ordered, deduplicated)
//	                        ↓
//	   [disclaimer].Generate          [tree].Build
//	                        ↓
//	   disclaimer text, CSV, per-package files, license tree
//
// Supporting packages: [errors] (error codes), [observability] (hooks for
// selection and aggregation events) and [buildinfo] (version stamping).
//
// [project]: github.com/matzehuels/licensetower/pkg/project
// [lockfile]: github.com/matzehuels/licensetower/pkg/lockfile
// [io]: github.com/matzehuels/licensetower/pkg/io
// [deps]: github.com/matzehuels/licensetower/pkg/deps
// [linker]: github.com/matzehuels/licensetower/pkg/linker
// [license]: github.com/matzehuels/licensetower/pkg/license
// [disclaimer]: github.com/matzehuels/licensetower/pkg/disclaimer
// [tree]: github.com/matzehuels/licensetower/pkg/tree
// [errors]: github.com/matzehuels/licensetower/pkg/errors
// [observability]: github.com/matzehuels/licensetower/pkg/observability
// [buildinfo]: github.com/matzehuels/licensetower/pkg/buildinfo
package pkg
