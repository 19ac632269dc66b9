// Package project models a resolved JavaScript project: its workspaces, the
// descriptors they request, and the packages those descriptors resolve to.
//
// # Identities
//
// Three identities appear throughout licensetower:
//
//   - [Ident]: a package name, optionally scoped ("@babel/core")
//   - [Descriptor]: an ident plus a requested range ("left-pad@npm:^1.0.0")
//   - [Locator]: an ident plus a resolved reference ("left-pad@npm:1.3.0")
//
// Each identity has a stable hash ([Ident.Hash], [Descriptor.Hash],
// [Locator.Hash]) used as map keys in the resolution tables.
//
// # Virtual Descriptors
//
// Packages with peer dependencies are instantiated once per peer context.
// Those instances are requested through virtual descriptors whose range has
// the form "virtual:<id>#<range>". A [Descriptor] is a tagged union: a real
// descriptor has no underlying descriptor, a virtual one carries the real
// descriptor it was expanded from. [Descriptor.Devirtualize] maps a virtual
// descriptor back to it.
//
// # Resolution
//
// A [Project] stores three tables, mirroring a lockfile plus install state:
//
//   - StoredDescriptors: descriptor hash -> descriptor
//   - StoredResolutions: descriptor hash -> locator hash (many to one)
//   - StoredPackages: locator hash -> package
//
// [Project.ResolveEverything] recomputes the set of reachable descriptors
// from the workspace manifests, which is how dev-only subtrees are dropped
// after [Project.ClearDevDependencies].
package project
