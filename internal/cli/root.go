package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxotree-dev/taxotree/internal/config"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taxotree",
		Short: "Query the NCBI taxonomy from names.dmp and nodes.dmp",
		Long: `Taxotree builds an in-memory taxonomy tree from the two flat NCBI
taxdump reference files (names.dmp and nodes.dmp, optionally gzipped)
and answers structural queries over it: lineages, subtrees, leaves,
ranks and name lookups.

The tree is rebuilt per invocation; nothing is written to disk.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("nodes", "", "Path to nodes.dmp (overrides config)")
	rootCmd.PersistentFlags().String("names", "", "Path to names.dmp (overrides config)")
	rootCmd.PersistentFlags().Int("root", 0, "Root taxid (overrides config; NCBI dumps use 1)")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Config file with dump paths and root taxid")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log build progress to stderr")

	parentCmd := &cobra.Command{
		Use:   "parent <taxid>...",
		Short: "Show the parent taxid of each taxon",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunParent,
	}
	parentCmd.Flags().Bool("json", false, "Print machine-readable results")

	rankCmd := &cobra.Command{
		Use:   "rank <taxid>...",
		Short: "Show the rank of each taxon",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunRank,
	}
	rankCmd.Flags().Bool("json", false, "Print machine-readable results")

	nameCmd := &cobra.Command{
		Use:   "name <taxid>...",
		Short: "Show the scientific name of each taxon",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunName,
	}
	nameCmd.Flags().Bool("json", false, "Print machine-readable results")

	childrenCmd := &cobra.Command{
		Use:   "children <taxid>...",
		Short: "List direct children of each taxon",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunChildren,
	}
	childrenCmd.Flags().Bool("json", false, "Print machine-readable results")

	lineageCmd := &cobra.Command{
		Use:   "lineage <taxid>...",
		Short: "Show the ancestor lineage up to the root",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunLineage,
	}
	lineageCmd.Flags().Bool("std-ranks", false, "Keep only the seven standard ranks")
	lineageCmd.Flags().Bool("json", false, "Print machine-readable results")

	descendantsCmd := &cobra.Command{
		Use:   "descendants <taxid>...",
		Short: "List every taxon in the subtree, in preorder",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunDescendants,
	}
	descendantsCmd.Flags().Bool("info", false, "Include rank and name per entry")
	descendantsCmd.Flags().Bool("json", false, "Print machine-readable results")

	leavesCmd := &cobra.Command{
		Use:   "leaves <taxid>",
		Short: "List the leaf taxa of a subtree",
		Args:  cobra.ExactArgs(1),
		RunE:  RunLeaves,
	}
	leavesCmd.Flags().Bool("info", false, "Include rank and name per entry")
	leavesCmd.Flags().Bool("json", false, "Print machine-readable results")

	atRankCmd := &cobra.Command{
		Use:   "at-rank <rank>",
		Short: "List every taxid at a given rank",
		Args:  cobra.ExactArgs(1),
		RunE:  RunAtRank,
	}
	atRankCmd.Flags().Bool("json", false, "Print machine-readable results")

	traverseCmd := &cobra.Command{
		Use:   "traverse <taxid>",
		Short: "Print the subtree as a nested preorder traversal",
		Args:  cobra.ExactArgs(1),
		RunE:  RunTraverse,
	}
	traverseCmd.Flags().Bool("leaves", false, "Omit internal taxids, keep leaf grouping")
	traverseCmd.Flags().Bool("json", false, "Print machine-readable results")

	searchCmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Find taxids by scientific name",
		Args:  cobra.ExactArgs(1),
		RunE:  RunSearch,
	}
	searchCmd.Flags().Int("limit", 10, "Maximum number of matches to return")
	searchCmd.Flags().Bool("json", false, "Print machine-readable results")

	extractCmd := &cobra.Command{
		Use:   "extract <taxdump.tar.gz> <dir>",
		Short: "Unpack nodes.dmp and names.dmp from a taxdump archive",
		Args:  cobra.ExactArgs(2),
		RunE:  RunExtract,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxotree %s\n", version)
		},
	}

	rootCmd.AddCommand(
		parentCmd,
		rankCmd,
		nameCmd,
		childrenCmd,
		lineageCmd,
		descendantsCmd,
		leavesCmd,
		atRankCmd,
		traverseCmd,
		searchCmd,
		extractCmd,
		versionCmd,
	)

	return rootCmd
}
