// Package config loads taxotree settings from a YAML file. The config
// names the two dump files and the root taxid; command-line flags
// override whatever the file provides.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/taxotree-dev/taxotree/internal/tree"
)

// DefaultFile is the config file looked up in the working directory
// when --config is not given.
const DefaultFile = ".taxotree.yaml"

// Config names the inputs of a tree build.
type Config struct {
	// Nodes is the path to the node table (nodes.dmp, optionally .gz).
	Nodes string `yaml:"nodes"`
	// Names is the path to the name table (names.dmp, optionally .gz).
	Names string `yaml:"names"`
	// Root is the root taxid; the NCBI dumps use 1.
	Root int `yaml:"root"`
}

// Default returns the zero-input configuration with the conventional
// root taxid.
func Default() Config {
	return Config{Root: tree.DefaultRootTaxID}
}

// Load reads a config file. A missing file at the default path is not
// an error; the default configuration is returned instead.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultFile {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Root == 0 {
		cfg.Root = tree.DefaultRootTaxID
	}
	return cfg, nil
}

// Validate checks that both dump paths are set.
func (c Config) Validate() error {
	if c.Nodes == "" {
		return fmt.Errorf("no node table configured (set nodes: in %s or pass --nodes)", DefaultFile)
	}
	if c.Names == "" {
		return fmt.Errorf("no name table configured (set names: in %s or pass --names)", DefaultFile)
	}
	return nil
}
