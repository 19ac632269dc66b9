package license

import (
	"encoding/json"
	"fmt"
)

// Manifest is the subset of package.json that carries license metadata.
// Fields with several accepted shapes are decoded as raw JSON values.
type Manifest struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	License    any    `json:"license"`    // string or {"type": ...}
	Licenses   any    `json:"licenses"`   // legacy array of license values
	Repository any    `json:"repository"` // string or {"type": ..., "url": ...}
	Homepage   any    `json:"homepage"`
	Author     any    `json:"author"` // string or {"name": ..., "url": ...}
}

// ParseManifest decodes a package.json document.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// Missing is written in place of an absent name or version wherever the
// two are joined into an identity (module name, output directory).
const Missing = "undefined"

// Info is the normalized license metadata of one installed package. Its
// JSON form is the header of a disclaimer block, so the field order and
// names are part of the output format.
type Info struct {
	ModuleName string `json:"moduleName"`
	Name       string `json:"name,omitempty"`
	Version    string `json:"version,omitempty"`
	URL        string `json:"url,omitempty"`
	License    string `json:"license"`
	VendorName string `json:"vendorName,omitempty"`
	VendorURL  string `json:"vendorUrl,omitempty"`
}

// FromManifest derives the license metadata of a manifest.
//
//   - ModuleName: name@version, with [Missing] for an absent part
//   - License: normalized "license"/"licenses" value, SPDX "AND" split
//   - URL: repository object's url, else homepage
//   - VendorName: author string, else author object's name
//   - VendorURL: homepage, else author object's url
func FromManifest(m Manifest) Info {
	homepage, _ := m.Homepage.(string)
	repoURL := ""
	if repo, ok := m.Repository.(map[string]any); ok {
		repoURL = extractField(repo, "url")
	}

	info := Info{
		ModuleName: orMissing(m.Name) + "@" + orMissing(m.Version),
		Name:       m.Name,
		Version:    m.Version,
		URL:        firstNonEmpty(repoURL, homepage),
		License:    SplitAnd(normalizeManifest(m.License, m.Licenses)),
	}

	switch author := m.Author.(type) {
	case string:
		info.VendorName = author
		info.VendorURL = homepage
	case map[string]any:
		info.VendorName = extractField(author, "name")
		info.VendorURL = firstNonEmpty(homepage, extractField(author, "url"))
	default:
		info.VendorURL = homepage
	}
	return info
}

func orMissing(s string) string {
	if s == "" {
		return Missing
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
