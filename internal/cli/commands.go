package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taxotree-dev/taxotree/internal/fileutil"
	"github.com/taxotree-dev/taxotree/internal/output"
	"github.com/taxotree-dev/taxotree/internal/search"
	"github.com/taxotree-dev/taxotree/internal/tree"
)

func RunParent(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	parents, err := t.Parents(taxids)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"parents": parents})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	for _, taxid := range taxids {
		if parents[taxid] == tree.NoParent {
			out.Line("%d is the root", taxid)
			continue
		}
		out.Line("%d -> %d", taxid, parents[taxid])
	}
	return nil
}

func RunRank(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	ranks, err := t.Ranks(taxids)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"ranks": ranks})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	for _, taxid := range taxids {
		out.Line("%d: %s", taxid, ranks[taxid])
	}
	return nil
}

func RunName(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	names, err := t.Names(taxids)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"names": names})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	for _, taxid := range taxids {
		out.Line("%d: %s", taxid, names[taxid])
	}
	return nil
}

func RunChildren(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	children, err := t.Children(taxids)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"children": children})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	for _, taxid := range taxids {
		out.IDList(fmt.Sprintf("children of %d", taxid), children[taxid])
	}
	return nil
}

func RunLineage(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	stdRanks, err := cmd.Flags().GetBool("std-ranks")
	if err != nil {
		return fmt.Errorf("failed to read --std-ranks flag: %w", err)
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	lineages, err := t.Ascendants(taxids, stdRanks)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"lineages": lineages})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	for _, taxid := range taxids {
		out.TaxonList(fmt.Sprintf("lineage of %d", taxid), lineages[taxid])
	}
	return nil
}

func RunDescendants(cmd *cobra.Command, args []string) error {
	taxids, err := ParseTaxIDs(args)
	if err != nil {
		return err
	}
	withInfo, err := cmd.Flags().GetBool("info")
	if err != nil {
		return fmt.Errorf("failed to read --info flag: %w", err)
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	out := output.NewWriter(cmd.OutOrStdout())

	if withInfo {
		descendants, err := t.DescendantsInfo(taxids)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd, map[string]any{"descendants": descendants})
		}
		for _, taxid := range taxids {
			out.TaxonList(fmt.Sprintf("descendants of %d", taxid), descendants[taxid])
		}
		return nil
	}

	descendants, err := t.Descendants(taxids)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"descendants": descendants})
	}
	for _, taxid := range taxids {
		out.IDList(fmt.Sprintf("descendants of %d", taxid), descendants[taxid])
	}
	return nil
}

func RunLeaves(cmd *cobra.Command, args []string) error {
	taxid, err := ParseTaxID(args[0])
	if err != nil {
		return err
	}
	withInfo, err := cmd.Flags().GetBool("info")
	if err != nil {
		return fmt.Errorf("failed to read --info flag: %w", err)
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	out := output.NewWriter(cmd.OutOrStdout())

	if withInfo {
		leaves, err := t.LeavesInfo(taxid)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd, map[string]any{"leaves": leaves})
		}
		out.TaxonList(fmt.Sprintf("leaves under %d", taxid), leaves)
		return nil
	}

	leaves, err := t.Leaves(taxid)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"leaves": leaves})
	}
	out.IDList(fmt.Sprintf("leaves under %d", taxid), leaves)
	return nil
}

func RunAtRank(cmd *cobra.Command, args []string) error {
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	taxids := t.TaxIDsAtRank(args[0])
	sort.Ints(taxids)

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"rank": args[0], "taxids": taxids})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	out.IDList(fmt.Sprintf("taxids at rank %q", args[0]), taxids)
	return nil
}

func RunTraverse(cmd *cobra.Command, args []string) error {
	taxid, err := ParseTaxID(args[0])
	if err != nil {
		return err
	}
	onlyLeaves, err := cmd.Flags().GetBool("leaves")
	if err != nil {
		return fmt.Errorf("failed to read --leaves flag: %w", err)
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	subtree, err := t.PreorderTraversal(taxid, onlyLeaves)
	if err != nil {
		return err
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, map[string]any{"traversal": subtree})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	out.Subtree(subtree)
	return nil
}

func RunSearch(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit flag: %w", err)
	}
	t, err := BuildTree(cmd)
	if err != nil {
		return err
	}

	index := search.Build(t)
	results := search.Search(index, args[0], limit)
	if len(results) == 0 {
		return fmt.Errorf("no taxa match %q", args[0])
	}

	asJSON, err := JSONFlag(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		hits := make([]map[string]any, 0, len(results))
		for _, result := range results {
			hits = append(hits, map[string]any{
				"taxid": result.TaxID,
				"name":  result.Name,
				"rank":  result.Rank,
				"score": result.Score,
			})
		}
		return writeJSON(cmd, map[string]any{"query": args[0], "matches": hits})
	}

	out := output.NewWriter(cmd.OutOrStdout())
	out.Line("matches for %q (%d)", args[0], len(results))
	for _, result := range results {
		out.Line("- %d [%s] %s (%.3f)", result.TaxID, result.Rank, result.Name, result.Score)
	}
	return nil
}

func RunExtract(cmd *cobra.Command, args []string) error {
	nodesPath, namesPath, err := fileutil.ExtractTaxdump(args[0], args[1])
	if err != nil {
		return err
	}
	out := output.NewWriter(cmd.OutOrStdout())
	out.Line("extracted %s", nodesPath)
	out.Line("extracted %s", namesPath)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
