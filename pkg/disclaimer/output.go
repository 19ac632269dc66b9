package disclaimer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
)

// Separator goes between two disclaimer blocks in the combined output.
const Separator = "\n------------\n\n"

// EntryFilename is the name of the per-package file written by [WriteEntries].
const EntryFilename = "npm-license.txt"

const csvHeader = `"module name","name","version","repository","url","licenses"`

// Concat joins disclaimer blocks into one document ending in a newline.
func Concat(disclaimers []string) string {
	return strings.Join(disclaimers, Separator) + "\n"
}

// WriteCSV writes one row per entry. Fields are quoted as JSON strings. The
// repository column carries the package URL and the url column is always
// empty, which is the layout existing consumers of this report expect.
func WriteCSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(csvHeader + "\n")
	for _, e := range entries {
		for _, field := range []string{e.ModuleName, e.Name, e.Version, e.URL} {
			q, err := quote(field)
			if err != nil {
				return err
			}
			bw.WriteString(q + ",")
		}
		bw.WriteString(`"",`)
		q, err := quote(e.License)
		if err != nil {
			return err
		}
		bw.WriteString(q + "\n")
	}
	return bw.Flush()
}

func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EntryPath returns dir/<name>-<version>/npm-license.txt. An absent name
// or version is written as [license.Missing]. It fails when the name or
// version would place the file outside dir.
func EntryPath(dir string, e Entry) (string, error) {
	name, version := e.Name, e.Version
	if name == "" {
		name = license.Missing
	}
	if version == "" {
		version = license.Missing
	}
	if err := errors.ValidatePackageName(name); err != nil {
		return "", err
	}
	if err := errors.ValidateVersion(version); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(name+"-"+version), EntryFilename), nil
}

// EntryPaths returns the [EntryPath] of every entry. It writes nothing and
// fails on the first entry that cannot be placed below dir.
func EntryPaths(dir string, entries []Entry) ([]string, error) {
	paths := make([]string, len(entries))
	for i, e := range entries {
		p, err := EntryPath(dir, e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.ModuleName, err)
		}
		paths[i] = p
	}
	return paths, nil
}

// WriteEntries writes each entry's disclaimer to its [EntryPath], creating
// directories as needed. All paths are checked before the first write.
func WriteEntries(dir string, entries []Entry) error {
	paths, err := EntryPaths(dir, entries)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if err := WriteFile(paths[i], []byte(e.Disclaimer)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes data to path, creating parent directories first.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
