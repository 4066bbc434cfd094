package tree

// Tree is the finalized taxonomy. It exclusively owns its node table;
// queries hand out copies or derived values, never references into node
// storage, so a single Tree can serve any number of concurrent readers.
type Tree struct {
	root   int
	nodes  map[int]*Node
	byRank map[string][]int
}

// Root returns the root taxid.
func (t *Tree) Root() int { return t.root }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a copy of one node, with its own children slice.
func (t *Tree) Node(taxid int) (Node, bool) {
	node, ok := t.nodes[taxid]
	if !ok {
		return Node{}, false
	}
	copied := *node
	copied.Children = append([]int(nil), node.Children...)
	return copied, true
}

// Parents maps each taxid to its parent taxid; the root maps to
// NoParent. Any unknown taxid fails the whole call.
func (t *Tree) Parents(taxids []int) (map[int]int, error) {
	result := make(map[int]int, len(taxids))
	for _, taxid := range taxids {
		node, ok := t.nodes[taxid]
		if !ok {
			return nil, &UnknownTaxonError{TaxID: taxid}
		}
		result[taxid] = node.Parent
	}
	return result, nil
}

// Ranks maps each taxid to its rank string.
func (t *Tree) Ranks(taxids []int) (map[int]string, error) {
	result := make(map[int]string, len(taxids))
	for _, taxid := range taxids {
		node, ok := t.nodes[taxid]
		if !ok {
			return nil, &UnknownTaxonError{TaxID: taxid}
		}
		result[taxid] = node.Rank
	}
	return result, nil
}

// Names maps each taxid to its scientific name.
func (t *Tree) Names(taxids []int) (map[int]string, error) {
	result := make(map[int]string, len(taxids))
	for _, taxid := range taxids {
		node, ok := t.nodes[taxid]
		if !ok {
			return nil, &UnknownTaxonError{TaxID: taxid}
		}
		result[taxid] = node.Name
	}
	return result, nil
}

// Children maps each taxid to its direct children in first-seen order.
// Leaves map to an empty slice.
func (t *Tree) Children(taxids []int) (map[int][]int, error) {
	result := make(map[int][]int, len(taxids))
	for _, taxid := range taxids {
		node, ok := t.nodes[taxid]
		if !ok {
			return nil, &UnknownTaxonError{TaxID: taxid}
		}
		result[taxid] = append([]int{}, node.Children...)
	}
	return result, nil
}

// TaxIDsAtRank returns every taxid whose rank equals rank, in no
// particular order. Any rank string is accepted, not only the standard
// seven.
func (t *Tree) TaxIDsAtRank(rank string) []int {
	return append([]int(nil), t.byRank[rank]...)
}

// Ascendants maps each taxid to its lineage: (taxid, rank, name) triples
// from the node itself up to the root inclusive. With onlyStdRanks the
// lineage keeps only standard-rank entries, except the queried node
// itself is retained at the head when its rank is "no rank".
func (t *Tree) Ascendants(taxids []int, onlyStdRanks bool) (map[int][]TaxonInfo, error) {
	result := make(map[int][]TaxonInfo, len(taxids))
	for _, taxid := range taxids {
		lineage, err := t.ascend(taxid)
		if err != nil {
			return nil, err
		}
		if onlyStdRanks {
			lineage = filterStandardRanks(lineage)
		}
		result[taxid] = lineage
	}
	return result, nil
}

func (t *Tree) ascend(taxid int) ([]TaxonInfo, error) {
	node, ok := t.nodes[taxid]
	if !ok {
		return nil, &UnknownTaxonError{TaxID: taxid}
	}

	lineage := []TaxonInfo{{TaxID: node.TaxID, Rank: node.Rank, Name: node.Name}}
	// A well-formed tree walks to the root in at most len(nodes) steps;
	// going past that means a cycle rather than a long lineage.
	for steps := 0; node.Parent != NoParent; steps++ {
		if steps >= len(t.nodes) {
			return nil, invariantf("parent chain from taxid %d does not terminate", taxid)
		}
		next, ok := t.nodes[node.Parent]
		if !ok {
			return nil, invariantf("taxid %d references missing parent %d", node.TaxID, node.Parent)
		}
		node = next
		lineage = append(lineage, TaxonInfo{TaxID: node.TaxID, Rank: node.Rank, Name: node.Name})
	}
	return lineage, nil
}

func filterStandardRanks(lineage []TaxonInfo) []TaxonInfo {
	filtered := make([]TaxonInfo, 0, len(lineage))
	if len(lineage) > 0 && lineage[0].Rank == NoRank {
		filtered = append(filtered, lineage[0])
	}
	for _, level := range lineage {
		if IsStandardRank(level.Rank) {
			filtered = append(filtered, level)
		}
	}
	return filtered
}

// Walk visits the subtree rooted at taxid in preorder: each node before
// its subtrees, subtrees in child-list order. The traversal uses an
// explicit stack, so depth is bounded by memory rather than the call
// stack. A non-nil error from visit aborts the walk.
func (t *Tree) Walk(taxid int, visit func(taxID int, leaf bool) error) error {
	if _, ok := t.nodes[taxid]; !ok {
		return &UnknownTaxonError{TaxID: taxid}
	}

	stack := []int{taxid}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := t.nodes[id]
		if !ok {
			return invariantf("child list references missing taxid %d", id)
		}
		if err := visit(id, len(node.Children) == 0); err != nil {
			return err
		}
		// Children pushed in reverse so they pop in child-list order.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return nil
}

// Descendants maps each taxid to its full subtree in preorder, the node
// itself included.
func (t *Tree) Descendants(taxids []int) (map[int][]int, error) {
	result := make(map[int][]int, len(taxids))
	for _, taxid := range taxids {
		descendants := make([]int, 0)
		err := t.Walk(taxid, func(id int, leaf bool) error {
			descendants = append(descendants, id)
			return nil
		})
		if err != nil {
			return nil, err
		}
		result[taxid] = descendants
	}
	return result, nil
}

// DescendantsInfo is Descendants with (taxid, rank, name) entries.
func (t *Tree) DescendantsInfo(taxids []int) (map[int][]TaxonInfo, error) {
	result := make(map[int][]TaxonInfo, len(taxids))
	for _, taxid := range taxids {
		descendants := make([]TaxonInfo, 0)
		err := t.Walk(taxid, func(id int, leaf bool) error {
			node := t.nodes[id]
			descendants = append(descendants, TaxonInfo{TaxID: id, Rank: node.Rank, Name: node.Name})
			return nil
		})
		if err != nil {
			return nil, err
		}
		result[taxid] = descendants
	}
	return result, nil
}

// Leaves returns the childless nodes of the subtree rooted at taxid in
// left-to-right traversal order. A leaf input yields itself.
func (t *Tree) Leaves(taxid int) ([]int, error) {
	leaves := make([]int, 0)
	err := t.Walk(taxid, func(id int, leaf bool) error {
		if leaf {
			leaves = append(leaves, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

// LeavesInfo is Leaves with (taxid, rank, name) entries.
func (t *Tree) LeavesInfo(taxid int) ([]TaxonInfo, error) {
	leaves, err := t.Leaves(taxid)
	if err != nil {
		return nil, err
	}
	info := make([]TaxonInfo, 0, len(leaves))
	for _, leaf := range leaves {
		node := t.nodes[leaf]
		info = append(info, TaxonInfo{TaxID: leaf, Rank: node.Rank, Name: node.Name})
	}
	return info, nil
}

// PreorderTraversal returns a nested structure mirroring the shape of
// the subtree rooted at taxid: internal nodes carry their child results,
// leaves are bare entries. With onlyLeaves the internal taxids are
// omitted and only the nested leaf grouping remains.
func (t *Tree) PreorderTraversal(taxid int, onlyLeaves bool) (*Subtree, error) {
	if _, ok := t.nodes[taxid]; !ok {
		return nil, &UnknownTaxonError{TaxID: taxid}
	}

	type frame struct {
		id     int
		parent *Subtree
	}
	var result *Subtree
	stack := []frame{{id: taxid}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := t.nodes[fr.id]
		if !ok {
			return nil, invariantf("child list references missing taxid %d", fr.id)
		}

		entry := &Subtree{TaxID: fr.id}
		if len(node.Children) > 0 {
			entry.Children = make([]*Subtree, 0, len(node.Children))
			if onlyLeaves {
				entry.TaxID = 0
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: node.Children[i], parent: entry})
			}
		}

		if fr.parent == nil {
			result = entry
		} else {
			fr.parent.Children = append(fr.parent.Children, entry)
		}
	}
	return result, nil
}
