package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/lockfile"
	"github.com/matzehuels/licensetower/pkg/project"
)

// session is a loaded project together with its settings.
type session struct {
	project *project.Project
	linker  linker.Linker
	config  Config
}

// projectRoot walks up from dir to the first directory with a yarn.lock.
func projectRoot(dir string) (string, error) {
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, lockfile.Filename)); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", errors.New(errors.ErrCodeWorkspaceRequired, "%s is not inside a project (no %s found)", dir, lockfile.Filename)
		}
		d = parent
	}
}

// openSession loads the project for the current command. With a snapshot
// the project comes from the file and its recorded directory is used as the
// install root; otherwise the project containing cwd is loaded from disk
// and cwd must lie inside one of its workspaces.
func (c *CLI) openSession(ctx context.Context, snapshot string) (*session, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cwd, err := filepath.Abs(c.cwd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", c.cwd)
	}

	var p *project.Project
	if snapshot != "" {
		if p, err = io.ImportJSON(snapshot); err != nil {
			return nil, err
		}
		if p.Cwd == "" {
			p.Cwd = cwd
		}
	} else {
		root, err := projectRoot(cwd)
		if err != nil {
			return nil, err
		}
		if p, err = lockfile.Load(os.DirFS(root), root); err != nil {
			return nil, err
		}
		ws, ok := p.WorkspaceForPath(cwd)
		if !ok {
			return nil, errors.New(errors.ErrCodeWorkspaceRequired, "%s is not inside a workspace of %s", cwd, root)
		}
		logger.Debug("workspace", "name", ws.Manifest.Name, "cwd", ws.Cwd)
	}

	cfg, unknown, err := loadConfig(p.Cwd, c.configPath)
	if err != nil {
		return nil, err
	}
	for _, key := range unknown {
		logger.Warn("unknown config key", "key", key)
	}

	name := p.NodeLinker
	if cfg.Linker != "" {
		name = cfg.Linker
	}
	l, err := linker.Resolve(name, os.DirFS(p.Cwd))
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Loaded %d packages from %s", len(p.StoredPackages), p.Cwd))
	logger.Debug("project", "workspaces", len(p.Workspaces), "linker", l.Name())
	return &session{project: p, linker: l, config: cfg}, nil
}

