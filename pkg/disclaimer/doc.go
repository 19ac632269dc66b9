// Package disclaimer builds license disclaimers for the selected packages of
// a project.
//
// # Generating
//
// [Generate] walks the output of [deps.SortedPackages] in order. For every
// installed package it reads package.json, normalizes the license metadata
// with [license.FromManifest] and renders one disclaimer block:
//
//	{
//	  "moduleName": "left-pad@1.3.0",
//	  "name": "left-pad",
//	  "version": "1.3.0",
//	  "url": "git+https://github.com/stevemao/left-pad.git",
//	  "license": "WTFPL;MIT"
//	}
//
//	<contents of the LICENSE file>
//
// When the package also ships a NOTICE file its contents follow the license
// text under a "NOTICE" heading. Packages are deduplicated by moduleName;
// the first occurrence wins. Packages that are not installed are skipped.
//
// Manifests are read concurrently (see [Options.Workers]) but blocks are
// always produced in selection order, so output is reproducible.
//
// # Writing
//
// [Concat], [WriteCSV] and [WriteEntries] turn a [Result] into the combined
// disclaimer text, a CSV summary and one file per package.
package disclaimer
