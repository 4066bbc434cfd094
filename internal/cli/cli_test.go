package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNames = "1\t|\tall\t|\t\t|\tsynonym\t|\n" +
	"1\t|\troot\t|\t\t|\tscientific name\t|\n" +
	"543\t|\tEnterobacteriaceae\t|\t\t|\tscientific name\t|\n" +
	"561\t|\tEscherichia\t|\t\t|\tscientific name\t|\n" +
	"562\t|\tEscherichia coli\t|\t\t|\tscientific name\t|\n" +
	"564\t|\tEscherichia fergusonii\t|\t\t|\tscientific name\t|\n"

const testNodes = "1\t|\t1\t|\tno rank\t|\n" +
	"543\t|\t1\t|\tfamily\t|\n" +
	"561\t|\t543\t|\tgenus\t|\n" +
	"562\t|\t561\t|\tspecies\t|\n" +
	"564\t|\t561\t|\tspecies\t|\n"

func writeFixtures(t *testing.T) (nodesPath, namesPath string) {
	t.Helper()
	dir := t.TempDir()
	nodesPath = filepath.Join(dir, "nodes.dmp")
	namesPath = filepath.Join(dir, "names.dmp")
	require.NoError(t, os.WriteFile(nodesPath, []byte(testNodes), 0o644))
	require.NoError(t, os.WriteFile(namesPath, []byte(testNames), 0o644))
	return nodesPath, namesPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	nodesPath, namesPath := writeFixtures(t)

	var buf bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--nodes", nodesPath, "--names", namesPath))
	err := cmd.Execute()
	return buf.String(), err
}

func TestParentCommand(t *testing.T) {
	out, err := runCommand(t, "parent", "562", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "562 -> 561")
	assert.Contains(t, out, "1 is the root")
}

func TestRankAndNameCommands(t *testing.T) {
	out, err := runCommand(t, "rank", "562")
	require.NoError(t, err)
	assert.Contains(t, out, "562: species")

	out, err = runCommand(t, "name", "561")
	require.NoError(t, err)
	assert.Contains(t, out, "561: Escherichia")
}

func TestChildrenCommand(t *testing.T) {
	out, err := runCommand(t, "children", "561")
	require.NoError(t, err)
	assert.Contains(t, out, "children of 561 (2)")
	assert.Contains(t, out, "- 562")
	assert.Contains(t, out, "- 564")
}

func TestLineageCommand(t *testing.T) {
	out, err := runCommand(t, "lineage", "562")
	require.NoError(t, err)
	assert.Contains(t, out, "lineage of 562 (4)")
	assert.Contains(t, out, "Escherichia coli")
	assert.Contains(t, out, "root")
}

func TestLineageStdRanks(t *testing.T) {
	out, err := runCommand(t, "lineage", "562", "--std-ranks")
	require.NoError(t, err)
	// The unranked root is filtered out.
	assert.Contains(t, out, "lineage of 562 (3)")
	assert.NotContains(t, out, "no rank")
}

func TestDescendantsCommandJSON(t *testing.T) {
	out, err := runCommand(t, "descendants", "561", "--json")
	require.NoError(t, err)

	var payload struct {
		Descendants map[string][]int `json:"descendants"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, []int{561, 562, 564}, payload.Descendants["561"])
}

func TestLeavesCommand(t *testing.T) {
	out, err := runCommand(t, "leaves", "543")
	require.NoError(t, err)
	assert.Contains(t, out, "leaves under 543 (2)")
	assert.Contains(t, out, "- 562")
	assert.Contains(t, out, "- 564")
}

func TestLeavesInfoCommand(t *testing.T) {
	out, err := runCommand(t, "leaves", "543", "--info")
	require.NoError(t, err)
	assert.Contains(t, out, "Escherichia coli")
	assert.Contains(t, out, "Escherichia fergusonii")
}

func TestAtRankCommand(t *testing.T) {
	out, err := runCommand(t, "at-rank", "species")
	require.NoError(t, err)
	assert.Contains(t, out, `taxids at rank "species" (2)`)
}

func TestTraverseCommand(t *testing.T) {
	out, err := runCommand(t, "traverse", "561")
	require.NoError(t, err)
	assert.Contains(t, out, "- 561")
	assert.Contains(t, out, "  - 562")
	assert.Contains(t, out, "  - 564")
}

func TestSearchCommand(t *testing.T) {
	out, err := runCommand(t, "search", "Escherichia coli")
	require.NoError(t, err)
	assert.Contains(t, out, "562")
}

func TestUnknownTaxidFailsCommand(t *testing.T) {
	_, err := runCommand(t, "lineage", "999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown taxid 999999")
}

func TestInvalidTaxidArgument(t *testing.T) {
	_, err := runCommand(t, "parent", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid taxid")
}

func TestMissingInputsFailValidation(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// Point --config at an absent explicit file so neither file nor
	// flags provide dump paths.
	cmd.SetArgs([]string{"rank", "1", "--config", filepath.Join(t.TempDir(), ".taxotree.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestConfigFileProvidesInputs(t *testing.T) {
	nodesPath, namesPath := writeFixtures(t)
	cfgPath := filepath.Join(t.TempDir(), "taxotree.yaml")
	cfgContent := "nodes: " + nodesPath + "\nnames: " + namesPath + "\nroot: 1\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	var buf bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"rank", "562", "--config", cfgPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "562: species")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewRootCommand("1.2.3")
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "taxotree 1.2.3")
}
