package linker

import (
	"io/fs"
	"path"
	"strings"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
)

// ManifestFilename is the name of a package manifest.
const ManifestFilename = "package.json"

// ReadManifest reads and decodes dir/package.json.
func ReadManifest(fsys fs.FS, dir string) (license.Manifest, error) {
	p := path.Join(dir, ManifestFilename)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return license.Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", p)
	}
	m, err := license.ParseManifest(data)
	if err != nil {
		return license.Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", p)
	}
	return m, nil
}

// ListFiles returns the names of the regular files in dir, in directory
// order. Subdirectories and symlinks are left out.
func ListFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "list %s", dir)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// ReadText reads dir/name as text.
func ReadText(fsys fs.FS, dir, name string) (string, error) {
	p := path.Join(dir, name)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", p)
	}
	return string(data), nil
}

// FindLicenseFile returns the first file named license, license.*,
// unlicense or unlicense.* (case-insensitive).
func FindLicenseFile(files []string) (string, bool) {
	return findFile(files, "license", "unlicense")
}

// FindNoticeFile returns the first file named notice or notice.*
// (case-insensitive).
func FindNoticeFile(files []string) (string, bool) {
	return findFile(files, "notice")
}

func findFile(files []string, stems ...string) (string, bool) {
	for _, f := range files {
		lower := strings.ToLower(f)
		for _, stem := range stems {
			if lower == stem || strings.HasPrefix(lower, stem+".") {
				return f, true
			}
		}
	}
	return "", false
}
