// Package license normalizes the license metadata found in package.json
// manifests.
//
// Manifests express licenses in several shapes:
//
//	"license": "MIT"
//	"license": {"type": "MIT", "url": "..."}
//	"licenses": [{"type": "MIT"}, {"type": "Apache-2.0"}]
//	"license": "(MIT AND Apache-2.0)"
//
// [Normalize] and [FromManifest] reduce all of them to a single string. Lists
// and SPDX conjunctions become semicolon-separated identifiers
// ("MIT;Apache-2.0"), which keeps the value usable as one CSV cell. Anything
// unrecognised becomes [Unknown].
//
// SPDX expressions are not parsed beyond a single layer of parentheses around
// an "AND" list: "(MIT OR Apache-2.0)" and nested groups are returned as is.
package license
