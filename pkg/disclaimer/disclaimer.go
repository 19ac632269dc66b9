package disclaimer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
)

// Options configures disclaimer generation.
type Options struct {
	Workers int                  // Concurrent package reads (default: linker.DefaultWorkers)
	Logger  func(string, ...any) // Debug callback for skipped packages (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = linker.DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Entry is the license metadata of one package plus its rendered block.
type Entry struct {
	license.Info
	Disclaimer string
}

// Result holds the disclaimer blocks in output order. Disclaimers[i] is
// Entries[i].Disclaimer.
type Result struct {
	Disclaimers []string
	Entries     []Entry
}

// Generate builds the disclaimers for selected. Reading an installed
// package's manifest or directory is fatal; missing install paths and
// missing license files are not.
func Generate(ctx context.Context, p *project.Project, l linker.Linker, selected []deps.Selected, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	hooks := observability.Aggregation()
	start := time.Now()

	res, err := generate(ctx, p, l, selected, opts)
	count := 0
	if res != nil {
		count = len(res.Entries)
	}
	hooks.OnAggregateComplete(ctx, count, time.Since(start), err)
	return res, err
}

func generate(ctx context.Context, p *project.Project, l linker.Linker, selected []deps.Selected, opts Options) (*Result, error) {
	pkgs := make([]*project.Package, len(selected))
	for i, s := range selected {
		pkgs[i] = s.Package
	}
	installed, err := linker.ReadAll(ctx, p, l, pkgs, opts.Workers)
	if err != nil {
		return nil, err
	}

	hooks := observability.Aggregation()
	res := &Result{}
	seen := make(map[string]struct{}, len(installed))

	for _, in := range installed {
		loc := in.Package.Locator.String()
		if in.Dir == "" {
			opts.Logger("skipping %s: not installed", loc)
			hooks.OnPackageSkipped(ctx, loc, "not installed")
			continue
		}

		info := license.FromManifest(in.Manifest)
		if _, dup := seen[info.ModuleName]; dup {
			hooks.OnPackageSkipped(ctx, loc, "duplicate "+info.ModuleName)
			continue
		}
		seen[info.ModuleName] = struct{}{}

		text, hasLicense, err := render(l, in, info)
		if err != nil {
			return nil, err
		}
		hooks.OnEntry(ctx, info.ModuleName, hasLicense)

		res.Disclaimers = append(res.Disclaimers, text)
		res.Entries = append(res.Entries, Entry{Info: info, Disclaimer: text})
	}
	return res, nil
}

// render formats one disclaimer block: the indented metadata record,
// followed by the license (and notice) text when the package ships one.
func render(l linker.Linker, in linker.Installed, info license.Info) (string, bool, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return "", false, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", info.ModuleName)
	}

	licenseFile, ok := linker.FindLicenseFile(in.Files)
	if !ok {
		return buf.String(), false, nil
	}
	text, err := linker.ReadText(l.FS(), in.Dir, licenseFile)
	if err != nil {
		return "", false, err
	}
	if noticeFile, ok := linker.FindNoticeFile(in.Files); ok {
		notice, err := linker.ReadText(l.FS(), in.Dir, noticeFile)
		if err != nil {
			return "", false, err
		}
		text += "\n\nNOTICE\n\n" + notice
	}

	buf.WriteString("\n")
	buf.WriteString(strings.TrimSpace(text))
	buf.WriteString("\n")
	return buf.String(), true, nil
}
