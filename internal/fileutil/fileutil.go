// Package fileutil holds file helpers shared by the CLI, chiefly
// taxdump archive extraction.
package fileutil

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	NodesFile = "nodes.dmp"
	NamesFile = "names.dmp"
)

// ExtractTaxdump unpacks nodes.dmp and names.dmp from a taxdump .tar.gz
// archive into dir and returns their paths. Other archive members are
// skipped. Entries that would escape dir are rejected.
func ExtractTaxdump(archive, dir string) (nodesPath, namesPath string, err error) {
	f, err := os.Open(archive)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", "", fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("read archive %s: %w", archive, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		base := filepath.Base(filepath.Clean(header.Name))
		if base != NodesFile && base != NamesFile {
			continue
		}
		dest := filepath.Join(dir, base)
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return "", "", fmt.Errorf("archive entry %q escapes %s", header.Name, dir)
		}

		out, err := os.Create(dest)
		if err != nil {
			return "", "", err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return "", "", fmt.Errorf("extract %s: %w", header.Name, err)
		}
		if err := out.Close(); err != nil {
			return "", "", err
		}

		switch base {
		case NodesFile:
			nodesPath = dest
		case NamesFile:
			namesPath = dest
		}
	}

	if nodesPath == "" || namesPath == "" {
		return "", "", fmt.Errorf("archive %s is missing %s or %s", archive, NodesFile, NamesFile)
	}
	return nodesPath, namesPath, nil
}
