package lockfile

import (
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
)

// RCFilename is the Yarn settings file in the project root.
const RCFilename = ".yarnrc.yml"

// DefaultNodeLinker is used when .yarnrc.yml is missing or silent.
const DefaultNodeLinker = "node-modules"

type rcFile struct {
	NodeLinker string `yaml:"nodeLinker"`
}

// Load reads the project rooted at fsys. cwd is the absolute project
// directory and becomes [project.Project.Cwd]; all paths inside the
// project stay relative to fsys.
func Load(fsys fs.FS, cwd string) (*project.Project, error) {
	root, err := readPackageFile(fsys, ".")
	if err != nil {
		return nil, err
	}
	dirs, err := workspaceDirs(fsys, root)
	if err != nil {
		return nil, err
	}

	p := project.New(cwd)
	if p.NodeLinker, err = readNodeLinker(fsys); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(fsys, Filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s (run yarn install first)", Filename)
	}
	lf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := lf.Populate(p); err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		f := root
		if dir != "." {
			if f, err = readPackageFile(fsys, dir); err != nil {
				return nil, err
			}
		}
		ws, err := newWorkspace(dir, f)
		if err != nil {
			return nil, err
		}
		p.Workspaces = append(p.Workspaces, ws)
		ensureWorkspacePackage(p, ws)
	}
	return p, nil
}

func readNodeLinker(fsys fs.FS) (string, error) {
	data, err := fs.ReadFile(fsys, RCFilename)
	if err != nil {
		return DefaultNodeLinker, nil
	}
	var rc rcFile
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", RCFilename)
	}
	if rc.NodeLinker == "" {
		return DefaultNodeLinker, nil
	}
	return rc.NodeLinker, nil
}
