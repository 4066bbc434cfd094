// Package output renders query results for the terminal. Ranks are
// colorized when stdout is a TTY; plumbing into a pipe gets plain text.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/taxotree-dev/taxotree/internal/tree"
)

var rankColor = color.New(color.FgCyan)
var taxidColor = color.New(color.FgYellow)

// Writer renders taxonomy query results.
type Writer struct {
	w     io.Writer
	color bool
}

// NewWriter returns a Writer for w. Color is enabled only when w is a
// terminal.
func NewWriter(w io.Writer) *Writer {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{w: w, color: colored}
}

// TaxonLine renders one (taxid, rank, name) entry.
func (o *Writer) TaxonLine(info tree.TaxonInfo) {
	fmt.Fprintf(o.w, "- %s [%s] %s\n", o.taxid(info.TaxID), o.rank(info.Rank), info.Name)
}

// TaxonList renders a heading followed by entries.
func (o *Writer) TaxonList(heading string, entries []tree.TaxonInfo) {
	fmt.Fprintf(o.w, "%s (%d)\n", heading, len(entries))
	for _, entry := range entries {
		o.TaxonLine(entry)
	}
}

// IDList renders a heading followed by bare taxids, one per line.
func (o *Writer) IDList(heading string, taxids []int) {
	fmt.Fprintf(o.w, "%s (%d)\n", heading, len(taxids))
	for _, taxid := range taxids {
		fmt.Fprintf(o.w, "- %s\n", o.taxid(taxid))
	}
}

// Line renders one formatted line.
func (o *Writer) Line(format string, args ...any) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

// Subtree renders a nested traversal with two-space indentation per
// level, mirroring the tree shape.
func (o *Writer) Subtree(s *tree.Subtree) {
	o.subtree(s, 0)
}

func (o *Writer) subtree(s *tree.Subtree, depth int) {
	if s == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch {
	case s.Leaf():
		fmt.Fprintf(o.w, "%s- %s\n", indent, o.taxid(s.TaxID))
	case s.TaxID == 0:
		fmt.Fprintf(o.w, "%s- (...)\n", indent)
	default:
		fmt.Fprintf(o.w, "%s- %s\n", indent, o.taxid(s.TaxID))
	}
	for _, child := range s.Children {
		o.subtree(child, depth+1)
	}
}

func (o *Writer) taxid(taxid int) string {
	if o.color {
		return taxidColor.Sprintf("%d", taxid)
	}
	return fmt.Sprintf("%d", taxid)
}

func (o *Writer) rank(rank string) string {
	if o.color {
		return rankColor.Sprint(rank)
	}
	return rank
}
