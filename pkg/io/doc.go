// Package io provides JSON import and export for resolved project snapshots.
//
// # Overview
//
// A snapshot captures everything the selector and the linkers need from a
// project: its workspaces, the resolved packages and the descriptor to
// locator resolutions. Snapshots are useful for:
//
//   - Reproducing a disclaimer without the original checkout's yarn.lock
//   - Projects that rely on virtual (peer-dependent) packages, which the
//     lockfile does not record
//   - Feeding graphs produced by other tools into the aggregator
//
// # JSON Format
//
//	{
//	  "generator": "licensetower v1.0.0 (abc1234)",
//	  "cwd": "/repo",
//	  "nodeLinker": "node-modules",
//	  "workspaces": [
//	    {"cwd": ".", "name": "root", "version": "1.0.0",
//	     "dependencies": {"left-pad": "npm:^1.3.0"}}
//	  ],
//	  "packages": [
//	    {"locator": "root@workspace:.", "version": "1.0.0", "linkType": "soft",
//	     "dependencies": {"left-pad": "npm:^1.3.0"}},
//	    {"locator": "left-pad@npm:1.3.0", "version": "1.3.0", "linkType": "hard"}
//	  ],
//	  "resolutions": {
//	    "root@workspace:.": "root@workspace:.",
//	    "left-pad@npm:^1.3.0": "left-pad@npm:1.3.0"
//	  }
//	}
//
// Dependency maps go from package name to range. Ranges and references may
// use the virtual form ("virtual:<id>#npm:^1.0.0"). A package may carry a
// "location" relative to the project root, which the linkers use instead of
// searching node_modules.
//
// # Import
//
// Use [ImportJSON] to read a snapshot from a file path, or [ReadJSON] to
// read from any io.Reader. Every workspace must have a package, and every
// resolution must point at a known package.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON]. Packages are written sorted by locator
// and maps are written with sorted keys, so exporting the same project
// twice yields identical bytes.
package io
