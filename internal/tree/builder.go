package tree

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/taxotree-dev/taxotree/internal/dump"
)

// Config controls tree construction.
type Config struct {
	// RootTaxID is the taxid of the tree root. The root's node record
	// references itself as parent in the raw data; that self-loop is
	// removed during Finalize. Defaults to DefaultRootTaxID.
	RootTaxID int

	// Logger receives build progress. Nil disables logging.
	Logger *slog.Logger
}

// Builder assembles a Tree from two record streams: all name records
// first, then all node records. Node records may arrive in any order; a
// record that references a parent whose own record has not been seen yet
// creates a placeholder node which is promoted in place when its record
// arrives. The builder is single-use: after Finalize it must be
// discarded.
type Builder struct {
	root   int
	logger *slog.Logger

	names     map[int]string // scientific names not yet attached to a node
	nodes     map[int]*Node
	pending   map[int]bool // placeholders awaiting their own node record
	nameRows  int
	nodeRows  int
	promoted  int
	finalized bool
}

// NewBuilder returns a Builder for the given configuration.
func NewBuilder(cfg Config) *Builder {
	root := cfg.RootTaxID
	if root == 0 {
		root = DefaultRootTaxID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{
		root:    root,
		logger:  logger,
		names:   make(map[int]string),
		nodes:   make(map[int]*Node),
		pending: make(map[int]bool),
	}
}

// AddName records one name-table row. Only scientific-name rows are
// retained; other classes are ignored. Duplicate scientific-name rows
// for one taxid are last-write-wins, an accepted ambiguity of the source
// data. Names must all be added before the first AddNode, because node
// processing consumes names as it creates nodes.
func (b *Builder) AddName(rec dump.NameRecord) error {
	if b.finalized {
		return invariantf("AddName on a finalized builder")
	}
	if b.nodeRows > 0 {
		return invariantf("AddName after node processing began (taxid %d)", rec.TaxID)
	}
	if rec.Class != dump.ScientificNameClass {
		return nil
	}
	b.names[rec.TaxID] = rec.Name
	b.nameRows++
	return nil
}

// AddNode records one node-table row, in stream order.
func (b *Builder) AddNode(rec dump.NodeRecord) error {
	if b.finalized {
		return invariantf("AddNode on a finalized builder")
	}
	b.nodeRows++

	if node, ok := b.nodes[rec.TaxID]; ok {
		// Placeholder created earlier as someone's parent reference;
		// promote it in place, keeping the children already attached.
		node.Rank = rec.Rank
		node.Parent = rec.ParentID
		delete(b.pending, rec.TaxID)
		b.promoted++
	} else {
		name, ok := b.takeName(rec.TaxID)
		if !ok {
			return &MissingNameError{TaxID: rec.TaxID}
		}
		b.nodes[rec.TaxID] = &Node{
			TaxID:    rec.TaxID,
			Name:     name,
			Rank:     rec.Rank,
			Parent:   rec.ParentID,
			Children: []int{},
		}
	}

	parent, ok := b.nodes[rec.ParentID]
	if !ok {
		name, ok := b.takeName(rec.ParentID)
		if !ok {
			return &MissingNameError{TaxID: rec.ParentID}
		}
		parent = &Node{
			TaxID:    rec.ParentID,
			Name:     name,
			Children: []int{},
		}
		b.nodes[rec.ParentID] = parent
		b.pending[rec.ParentID] = true
	}
	parent.Children = append(parent.Children, rec.TaxID)
	return nil
}

// Finalize seals the tree: the root's raw self-reference is removed, the
// root's parent is cleared, and the build invariants are checked. Any
// placeholder still unpromoted means the node table never defined that
// taxid, which is a build error rather than a usable tree.
func (b *Builder) Finalize() (*Tree, error) {
	if b.finalized {
		return nil, invariantf("Finalize called twice")
	}
	b.finalized = true

	root, ok := b.nodes[b.root]
	if !ok {
		return nil, invariantf("root taxid %d not present after build", b.root)
	}
	root.Children = removeFirst(root.Children, b.root)
	root.Parent = NoParent

	if len(b.pending) > 0 {
		for taxid := range b.pending {
			return nil, invariantf("taxid %d referenced as parent but never defined by a node record", taxid)
		}
	}

	byRank := make(map[string][]int)
	for taxid, node := range b.nodes {
		if taxid != b.root && node.Parent == NoParent {
			return nil, invariantf("taxid %d has no parent but is not the root", taxid)
		}
		byRank[node.Rank] = append(byRank[node.Rank], taxid)
	}

	b.logger.Info("taxonomy tree built",
		"nodes", len(b.nodes),
		"promoted", b.promoted,
		"root", b.root,
	)

	t := &Tree{root: b.root, nodes: b.nodes, byRank: byRank}
	b.nodes = nil
	b.names = nil
	b.pending = nil
	return t, nil
}

// Build constructs a Tree from a node table and a name table on disk.
// The name table is consumed fully before the node table, and any
// construction error aborts the build with the identity of the offending
// record.
func Build(nodesPath, namesPath string, cfg Config) (*Tree, error) {
	b := NewBuilder(cfg)

	b.logger.Debug("parsing name table", "path", namesPath)
	namesFile, err := dump.Open(namesPath)
	if err != nil {
		return nil, fmt.Errorf("build from %s: %w", namesPath, err)
	}
	err = dump.ScanNames(namesFile, namesPath, b.AddName)
	if cerr := namesFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("build from %s: %w", namesPath, err)
	}
	b.logger.Debug("name table parsed", "scientific_names", b.nameRows)

	b.logger.Debug("parsing node table", "path", nodesPath)
	nodesFile, err := dump.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("build from %s: %w", nodesPath, err)
	}
	err = dump.ScanNodes(nodesFile, nodesPath, b.AddNode)
	if cerr := nodesFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("build from %s: %w", nodesPath, err)
	}
	b.logger.Debug("node table parsed", "records", b.nodeRows)

	return b.Finalize()
}

func (b *Builder) takeName(taxid int) (string, bool) {
	name, ok := b.names[taxid]
	if !ok {
		return "", false
	}
	// Consumed names are dropped to bound memory during large builds.
	delete(b.names, taxid)
	return name, true
}

func removeFirst(values []int, target int) []int {
	for i, value := range values {
		if value == target {
			return append(values[:i], values[i+1:]...)
		}
	}
	return values
}
