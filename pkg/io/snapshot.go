package io

type snapshot struct {
	Generator   string            `json:"generator,omitempty"`
	Cwd         string            `json:"cwd"`
	NodeLinker  string            `json:"nodeLinker,omitempty"`
	Workspaces  []workspace       `json:"workspaces"`
	Packages    []pkg             `json:"packages"`
	Resolutions map[string]string `json:"resolutions"`
}

type workspace struct {
	Cwd              string            `json:"cwd"`
	Name             string            `json:"name"`
	Version          string            `json:"version,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

type pkg struct {
	Locator          string            `json:"locator"`
	Version          string            `json:"version"`
	LinkType         string            `json:"linkType,omitempty"`
	Location         string            `json:"location,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}
