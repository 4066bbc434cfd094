// Package tree builds and queries an immutable taxonomy tree: a rooted
// hierarchy of integer taxids with a rank and a scientific name on every
// node. Construction is a single sequential pass over node records that
// tolerates arbitrary record order; the finalized tree is read-only and
// safe for concurrent readers without locking.
package tree

// NoParent is the Parent value of the root node. Taxids in this domain
// are strictly positive, so zero is free to encode "no parent".
const NoParent = 0

// DefaultRootTaxID is the root taxid of the NCBI taxonomy dumps. The
// builder accepts any root id through Config; this is only the default.
const DefaultRootTaxID = 1

// StandardRanks are the seven canonical ranks used for coarse lineage
// filtering, ordered fine to coarse.
var StandardRanks = []string{
	"species",
	"genus",
	"family",
	"order",
	"class",
	"phylum",
	"superkingdom",
}

// NoRank is the rank string of unranked taxa (including the root).
const NoRank = "no rank"

// Node is one taxonomic entry. Children preserve first-seen order from
// construction, never contain duplicates and never contain the node's
// own id. Nodes are fixed once the tree is finalized.
type Node struct {
	TaxID    int
	Name     string
	Rank     string
	Parent   int // NoParent for the root
	Children []int
}

// TaxonInfo is the (taxid, rank, name) triple produced by lineage and
// enumeration queries.
type TaxonInfo struct {
	TaxID int    `json:"taxid"`
	Rank  string `json:"rank"`
	Name  string `json:"name"`
}

// Subtree is one element of a nested preorder traversal result. Internal
// nodes carry child results; leaves have a nil Children slice. In a
// leaves-only traversal internal nodes keep their grouping but their
// TaxID is zeroed, so only leaf ids appear in the structure.
type Subtree struct {
	TaxID    int        `json:"taxid,omitempty"`
	Children []*Subtree `json:"children,omitempty"`
}

// Leaf reports whether this entry is a leaf of the traversal.
func (s *Subtree) Leaf() bool {
	return s.Children == nil
}

var standardRankSet = func() map[string]bool {
	set := make(map[string]bool, len(StandardRanks))
	for _, rank := range StandardRanks {
		set[rank] = true
	}
	return set
}()

// IsStandardRank reports whether rank is one of the seven canonical ranks.
func IsStandardRank(rank string) bool {
	return standardRankSet[rank]
}
