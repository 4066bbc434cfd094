// Package dump reads NCBI taxdump reference files (names.dmp, nodes.dmp)
// into typed records. Records are pipe-delimited; each field is framed by
// one leading and one trailing character (a tab in the published dumps)
// which is stripped before use.
package dump

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ScientificNameClass is the name-class label of the rows retained for
// tree construction; all other name rows (synonyms, common names, ...)
// are skipped.
const ScientificNameClass = "scientific name"

// NameRecord is one row of a name table: a taxid, a name string and the
// class of that name.
type NameRecord struct {
	TaxID int
	Name  string
	Class string
}

// NodeRecord is one row of a node table: a taxid, its parent taxid and
// its rank. The root row references itself as parent.
type NodeRecord struct {
	TaxID    int
	ParentID int
	Rank     string
}

// ParseError reports a malformed record and identifies the offending line.
type ParseError struct {
	Path   string
	Line   int // 1-based
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// ScanNames streams name records from r in file order. Only syntactic
// checks are performed; rows of every name class are delivered and the
// caller decides which to retain. Scanning stops at the first malformed
// row or the first error returned by fn.
func ScanNames(r io.Reader, path string, fn func(NameRecord) error) error {
	return scanLines(r, path, func(lineNo int, fields []string) error {
		if len(fields) < 4 {
			return &ParseError{Path: path, Line: lineNo, Reason: fmt.Sprintf("name record needs at least 4 fields, got %d", len(fields))}
		}
		taxid, err := parseTaxID(fields[0])
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Reason: fmt.Sprintf("bad taxid %q", strings.TrimSpace(fields[0]))}
		}
		return fn(NameRecord{
			TaxID: taxid,
			Name:  unframe(fields[1]),
			Class: unframe(fields[3]),
		})
	})
}

// ScanNodes streams node records from r in file order. Record order is
// significant to the consumer (placeholder promotion depends on it) and
// is preserved exactly.
func ScanNodes(r io.Reader, path string, fn func(NodeRecord) error) error {
	return scanLines(r, path, func(lineNo int, fields []string) error {
		if len(fields) < 3 {
			return &ParseError{Path: path, Line: lineNo, Reason: fmt.Sprintf("node record needs at least 3 fields, got %d", len(fields))}
		}
		taxid, err := parseTaxID(fields[0])
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Reason: fmt.Sprintf("bad taxid %q", strings.TrimSpace(fields[0]))}
		}
		parent, err := parseTaxID(fields[1])
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Reason: fmt.Sprintf("bad parent taxid %q", strings.TrimSpace(fields[1]))}
		}
		return fn(NodeRecord{
			TaxID:    taxid,
			ParentID: parent,
			Rank:     unframe(fields[2]),
		})
	})
}

// Open opens a dump file for scanning, transparently decompressing
// gzip-compressed inputs. The returned closer must be closed by the
// caller; it closes both the decompressor and the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gzipFile{zr: zr, f: f}, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func scanLines(r io.Reader, path string, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, strings.Split(line, "|")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// unframe strips the single framing character from each side of a field.
// Fields shorter than the frame are returned trimmed of whitespace so a
// loosely formatted row still yields something usable.
func unframe(field string) string {
	if len(field) >= 2 {
		return field[1 : len(field)-1]
	}
	return strings.TrimSpace(field)
}

// Numeric fields are trimmed rather than unframed: the leading field of a
// row carries only a trailing frame character, so stripping a fixed
// prefix would eat a digit.
func parseTaxID(field string) (int, error) {
	taxid, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, err
	}
	return taxid, nil
}
