// Package tree groups the selected packages of a project by license.
//
// [Build] produces a three-level tree: license nodes, the packages using
// that license (keyed by locator) and, unless metadata is excluded, the
// package's url, vendorName and vendorUrl. [Render] draws the tree for a
// terminal with lipgloss; [WriteJSON] emits one JSON document per license
// node, one per line.
package tree
