package project

import (
	"fmt"
	"strings"
)

const virtualPrefix = "virtual:"

// Ident is a package name with an optional scope (without the leading "@").
type Ident struct {
	Scope string
	Name  string
}

// String returns "@scope/name" for scoped idents and "name" otherwise.
func (i Ident) String() string {
	if i.Scope != "" {
		return "@" + i.Scope + "/" + i.Name
	}
	return i.Name
}

// Hash returns the ident hash.
func (i Ident) Hash() string { return hashParts(i.Scope, i.Name) }

// Slug returns a filesystem-friendly form of the ident ("@scope-name").
func (i Ident) Slug() string {
	if i.Scope != "" {
		return "@" + i.Scope + "-" + i.Name
	}
	return i.Name
}

// ParseIdent parses "name" or "@scope/name".
func ParseIdent(s string) (Ident, error) {
	if s == "" {
		return Ident{}, fmt.Errorf("empty ident")
	}
	if !strings.HasPrefix(s, "@") {
		if strings.Contains(s, "/") {
			return Ident{}, fmt.Errorf("invalid ident %q", s)
		}
		return Ident{Name: s}, nil
	}
	scope, name, ok := strings.Cut(s[1:], "/")
	if !ok || scope == "" || name == "" || strings.Contains(name, "/") {
		return Ident{}, fmt.Errorf("invalid scoped ident %q", s)
	}
	return Ident{Scope: scope, Name: name}, nil
}

// Descriptor is a requested dependency: an ident and a range.
//
// The zero value is not meaningful; build descriptors with [NewDescriptor]
// or [ParseDescriptor]. A descriptor whose range starts with "virtual:" is
// virtual and keeps the real descriptor it was expanded from.
type Descriptor struct {
	Ident
	Range string

	underlying *Descriptor
}

// NewDescriptor builds a descriptor, recognising virtual ranges.
func NewDescriptor(ident Ident, rng string) Descriptor {
	d := Descriptor{Ident: ident, Range: rng}
	if inner, ok := splitVirtual(rng); ok {
		base := Descriptor{Ident: ident, Range: inner}
		d.underlying = &base
	}
	return d
}

// Virtualize returns the virtual descriptor for d in the peer context id.
// Virtualizing a virtual descriptor re-roots its underlying descriptor.
func Virtualize(d Descriptor, id string) Descriptor {
	base := d.Devirtualize()
	return Descriptor{
		Ident:      base.Ident,
		Range:      virtualPrefix + id + "#" + base.Range,
		underlying: &base,
	}
}

// ParseDescriptor parses "name@range" or "@scope/name@range".
func ParseDescriptor(s string) (Descriptor, error) {
	name, rng, err := splitAt(s)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor %q: %w", s, err)
	}
	ident, err := ParseIdent(name)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor %q: %w", s, err)
	}
	return NewDescriptor(ident, rng), nil
}

// IsVirtual reports whether the descriptor was expanded for a peer context.
func (d Descriptor) IsVirtual() bool { return d.underlying != nil }

// Devirtualize returns the underlying real descriptor, or d itself when d is
// already real.
func (d Descriptor) Devirtualize() Descriptor {
	if d.underlying == nil {
		return d
	}
	return *d.underlying
}

// Hash returns the descriptor hash.
func (d Descriptor) Hash() string { return hashParts(d.Ident.Hash(), d.Range) }

// String returns "name@range".
func (d Descriptor) String() string { return d.Ident.String() + "@" + d.Range }

// Locator identifies a resolved package: an ident and a reference.
type Locator struct {
	Ident
	Reference string
}

// ParseLocator parses "name@reference" or "@scope/name@reference".
func ParseLocator(s string) (Locator, error) {
	name, ref, err := splitAt(s)
	if err != nil {
		return Locator{}, fmt.Errorf("locator %q: %w", s, err)
	}
	ident, err := ParseIdent(name)
	if err != nil {
		return Locator{}, fmt.Errorf("locator %q: %w", s, err)
	}
	return Locator{Ident: ident, Reference: ref}, nil
}

// IsVirtual reports whether the locator points at a virtual package instance.
func (l Locator) IsVirtual() bool {
	_, ok := splitVirtual(l.Reference)
	return ok
}

// Devirtualize strips the virtual prefix from the reference.
func (l Locator) Devirtualize() Locator {
	if inner, ok := splitVirtual(l.Reference); ok {
		return Locator{Ident: l.Ident, Reference: inner}
	}
	return l
}

// IsWorkspace reports whether the locator references a workspace.
func (l Locator) IsWorkspace() bool {
	return strings.HasPrefix(l.Devirtualize().Reference, "workspace:")
}

// Hash returns the locator hash.
func (l Locator) Hash() string { return hashParts(l.Ident.Hash(), l.Reference) }

// String returns "name@reference".
func (l Locator) String() string { return l.Ident.String() + "@" + l.Reference }

// Slug returns "<ident slug>-<protocol>-<version>" for registry references
// and "<ident slug>-<protocol>" otherwise.
func (l Locator) Slug() string {
	ref := l.Devirtualize().Reference
	protocol, selector, ok := strings.Cut(ref, ":")
	if !ok {
		return l.Ident.Slug() + "-exotic"
	}
	if isSemver(selector) {
		return l.Ident.Slug() + "-" + protocol + "-" + selector
	}
	return l.Ident.Slug() + "-" + protocol
}

// splitAt splits "name@range" at the '@' that follows the name, skipping
// the leading '@' of a scoped name.
func splitAt(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("empty string")
	}
	i := strings.IndexByte(s[1:], '@')
	if i < 0 {
		return "", "", fmt.Errorf("missing range")
	}
	i++
	if i == len(s)-1 {
		return "", "", fmt.Errorf("missing range")
	}
	return s[:i], s[i+1:], nil
}

func splitVirtual(ref string) (string, bool) {
	if !strings.HasPrefix(ref, virtualPrefix) {
		return "", false
	}
	_, inner, ok := strings.Cut(ref, "#")
	if !ok || inner == "" {
		return "", false
	}
	return inner, true
}

// isSemver reports whether v looks like a full semver version (x.y.z with
// optional prerelease/build suffix).
func isSemver(v string) bool {
	core, _, _ := strings.Cut(v, "+")
	core, _, _ = strings.Cut(core, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
