package tree

import (
	"context"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Options configures [Build].
type Options struct {
	ExcludeMetadata bool // Leave out url, vendorName and vendorUrl leaves
	JSON            bool // Store raw metadata values instead of "Label: value"
	Workers         int  // Concurrent package reads (default: linker.DefaultWorkers)
}

// PackageRef is the value of a package node.
type PackageRef struct {
	Locator    string `json:"locator"`
	Descriptor string `json:"descriptor"`
}

// String returns "locator (via range)".
func (r PackageRef) String() string {
	return r.Locator + " (via " + r.Descriptor + ")"
}

// Node is a tree node. Value is a string or a [PackageRef]; the root has no
// value. Leaves have nil Children.
type Node struct {
	Key      string
	Value    any
	Children []*Node

	index map[string]int
}

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.Children[i], true
}

// set stores c under key. Replacing a key keeps its original position.
func (n *Node) set(key string, c *Node) {
	c.Key = key
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if i, ok := n.index[key]; ok {
		n.Children[i] = c
		return
	}
	n.index[key] = len(n.Children)
	n.Children = append(n.Children, c)
}

// Build groups selected by license. Packages that are not installed are
// skipped; an unreadable manifest aborts the build.
func Build(ctx context.Context, p *project.Project, l linker.Linker, selected []deps.Selected, opts Options) (*Node, error) {
	pkgs := make([]*project.Package, len(selected))
	for i, s := range selected {
		pkgs[i] = s.Package
	}
	installed, err := linker.ReadAll(ctx, p, l, pkgs, opts.Workers)
	if err != nil {
		return nil, err
	}

	root := &Node{Children: []*Node{}}
	for i, in := range installed {
		if in.Dir == "" {
			continue
		}
		info := license.FromManifest(in.Manifest)

		group, ok := root.Child(info.License)
		if !ok {
			group = &Node{Value: info.License, Children: []*Node{}}
			root.set(info.License, group)
		}

		ref := PackageRef{
			Locator:    in.Package.Locator.String(),
			Descriptor: selected[i].Descriptor.String(),
		}
		node := &Node{Value: ref, Children: []*Node{}}
		if !opts.ExcludeMetadata {
			addLeaf(node, "url", "URL", info.URL, opts.JSON)
			addLeaf(node, "vendorName", "VendorName", info.VendorName, opts.JSON)
			addLeaf(node, "vendorUrl", "VendorUrl", info.VendorURL, opts.JSON)
		}
		group.set(ref.Locator, node)
	}
	return root, nil
}

func addLeaf(n *Node, key, label, value string, raw bool) {
	if value == "" {
		return
	}
	if !raw {
		value = label + ": " + value
	}
	n.set(key, &Node{Value: value})
}
