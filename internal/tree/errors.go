package tree

import "fmt"

// UnknownTaxonError reports a query for a taxid that is not in the tree.
// Batch queries fail whole: no partial result is returned alongside it.
type UnknownTaxonError struct {
	TaxID int
}

func (e *UnknownTaxonError) Error() string {
	return fmt.Sprintf("unknown taxid %d", e.TaxID)
}

// MissingNameError reports a node record whose taxid has no scientific
// name in the name table and no previously created placeholder.
type MissingNameError struct {
	TaxID int
}

func (e *MissingNameError) Error() string {
	return fmt.Sprintf("no scientific name for taxid %d", e.TaxID)
}

// InvariantError reports an internal-consistency failure: a missing or
// duplicated root, a placeholder that was never promoted, or a parent
// chain that does not terminate.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "taxonomy invariant violated: " + e.Reason
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
