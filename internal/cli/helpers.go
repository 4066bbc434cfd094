package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taxotree-dev/taxotree/internal/config"
	"github.com/taxotree-dev/taxotree/internal/tree"
)

// BuildTree resolves configuration (file first, flags override) and
// constructs the taxonomy tree for one command invocation. The tree is
// rebuilt per invocation; nothing is persisted between runs.
func BuildTree(cmd *cobra.Command) (*tree.Tree, error) {
	cfg, err := ResolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cmd)
	if err != nil {
		return nil, err
	}
	return tree.Build(cfg.Nodes, cfg.Names, tree.Config{RootTaxID: cfg.Root, Logger: logger})
}

// ResolveConfig loads the config file and applies flag overrides.
func ResolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read --config flag: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("nodes") {
		cfg.Nodes, _ = cmd.Flags().GetString("nodes")
	}
	if cmd.Flags().Changed("names") {
		cfg.Names, _ = cmd.Flags().GetString("names")
	}
	if cmd.Flags().Changed("root") {
		cfg.Root, _ = cmd.Flags().GetInt("root")
	}
	return cfg, nil
}

// NewLogger returns a stderr slog logger; --verbose lowers the level to
// debug so build progress is visible.
func NewLogger(cmd *cobra.Command) (*slog.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to read --verbose flag: %w", err)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// ParseTaxIDs converts positional arguments to taxids.
func ParseTaxIDs(args []string) ([]int, error) {
	taxids := make([]int, 0, len(args))
	for _, arg := range args {
		taxid, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid taxid %q", arg)
		}
		taxids = append(taxids, taxid)
	}
	return taxids, nil
}

// ParseTaxID converts a single positional argument to a taxid.
func ParseTaxID(arg string) (int, error) {
	taxid, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid taxid %q", arg)
	}
	return taxid, nil
}

// JSONFlag reads the --json flag when the command defines it.
func JSONFlag(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Lookup("json") == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool("json")
	if err != nil {
		return false, fmt.Errorf("failed to read --json flag: %w", err)
	}
	return value, nil
}
