package lockfile

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Filename is the name of the lockfile in the project root.
const Filename = "yarn.lock"

const metadataKey = "__metadata"

// Entry is one resolved package in yarn.lock.
type Entry struct {
	Version          string            `yaml:"version"`
	Resolution       string            `yaml:"resolution"`
	Dependencies     map[string]string `yaml:"dependencies"`
	PeerDependencies map[string]string `yaml:"peerDependencies"`
	LinkType         string            `yaml:"linkType"`
	LanguageName     string            `yaml:"languageName"`
}

// Lockfile maps each comma-separated descriptor list to its entry.
type Lockfile struct {
	Version string
	Entries map[string]Entry
}

// Parse decodes a Berry yarn.lock. Classic (v1) lockfiles are not YAML and
// fail here.
func Parse(data []byte) (*Lockfile, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", Filename)
	}

	lf := &Lockfile{Entries: make(map[string]Entry, len(raw))}
	for key, node := range raw {
		if key == metadataKey {
			var meta struct {
				Version string `yaml:"version"`
			}
			if err := node.Decode(&meta); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "decode %s", metadataKey)
			}
			lf.Version = meta.Version
			continue
		}
		var e Entry
		if err := node.Decode(&e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "decode entry %q", key)
		}
		if e.Resolution == "" {
			return nil, errors.New(errors.ErrCodeInvalidLockfile, "entry %q has no resolution", key)
		}
		lf.Entries[key] = e
	}
	return lf, nil
}

// Populate adds every entry of lf to p: one package per entry and one
// resolution per descriptor in the entry key. Keys are applied in sorted
// order so the result does not depend on map iteration.
func (lf *Lockfile) Populate(p *project.Project) error {
	keys := make([]string, 0, len(lf.Entries))
	for k := range lf.Entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		e := lf.Entries[key]
		loc, err := project.ParseLocator(e.Resolution)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
		}

		pkg := &project.Package{
			Locator:          loc,
			Version:          e.Version,
			LinkType:         project.LinkHard,
			Dependencies:     make(map[string]project.Descriptor, len(e.Dependencies)),
			PeerDependencies: make(map[string]project.Descriptor, len(e.PeerDependencies)),
		}
		if e.LinkType == string(project.LinkSoft) {
			pkg.LinkType = project.LinkSoft
		}
		if err := addDependencies(pkg.Dependencies, e.Dependencies); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
		}
		if err := addDependencies(pkg.PeerDependencies, e.PeerDependencies); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
		}
		p.AddPackage(pkg)

		for _, raw := range strings.Split(key, ",") {
			d, err := parseDescriptor(strings.TrimSpace(raw))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
			}
			p.AddResolution(d, loc)
		}
	}
	return nil
}

func addDependencies(dst map[string]project.Descriptor, src map[string]string) error {
	for name, rng := range src {
		d, err := newDescriptor(name, rng)
		if err != nil {
			return err
		}
		dst[d.Ident.Hash()] = d
	}
	return nil
}

// newDescriptor builds the descriptor for a "name": "range" pair.
func newDescriptor(name, rng string) (project.Descriptor, error) {
	ident, err := project.ParseIdent(name)
	if err != nil {
		return project.Descriptor{}, err
	}
	return project.NewDescriptor(ident, normalizeRange(rng)), nil
}

func parseDescriptor(s string) (project.Descriptor, error) {
	d, err := project.ParseDescriptor(s)
	if err != nil {
		return project.Descriptor{}, err
	}
	if d.IsVirtual() {
		return d, nil
	}
	return project.NewDescriptor(d.Ident, normalizeRange(d.Range)), nil
}

// normalizeRange adds the default npm protocol to bare semver ranges and
// tags.
func normalizeRange(rng string) string {
	if strings.Contains(rng, ":") {
		return rng
	}
	return "npm:" + rng
}
