package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/licensetower/pkg/errors"
)

// configFilename is looked up in the project root when --config is not set.
const configFilename = appName + ".toml"

// Config mirrors licensetower.toml. Every field has a command-line flag of
// the same meaning; flags given explicitly win over the file.
type Config struct {
	Recursive  bool         `toml:"recursive"`
	Production bool         `toml:"production"`
	Linker     string       `toml:"linker"`
	Workers    int          `toml:"workers"`
	Output     OutputConfig `toml:"output"`
}

// OutputConfig selects where generate-disclaimer writes.
type OutputConfig struct {
	Stdout bool   `toml:"stdout"`
	File   string `toml:"file"`
	CSV    string `toml:"csv"`
	Dir    string `toml:"dir"`
}

// loadConfig reads the configuration file. An explicit path must exist;
// the default file in root is optional. The second result lists keys the
// file set that licensetower does not know.
func loadConfig(root, explicit string) (Config, []string, error) {
	var cfg Config
	path := explicit
	if path == "" {
		path = filepath.Join(root, configFilename)
		if _, err := os.Stat(path); err != nil {
			return cfg, nil, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
		}
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}

// applyBool copies v into dst unless flag name was given on the command
// line. applyString and applyInt do the same and also ignore zero values.
func applyBool(flags *pflag.FlagSet, name string, dst *bool, v bool) {
	if !flags.Changed(name) {
		*dst = v
	}
}

func applyString(flags *pflag.FlagSet, name string, dst *string, v string) {
	if !flags.Changed(name) && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func applyInt(flags *pflag.FlagSet, name string, dst *int, v int) {
	if !flags.Changed(name) && v != 0 {
		*dst = v
	}
}
