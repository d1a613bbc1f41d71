// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns PDF files into text, table, and image
// artifacts on disk. Dispatch accepts a single PDF or a directory of
// PDFs; per-file extraction is performed by an Extractor, with status
// reported on an io.Writer.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// Extractor converts one PDF file into artifacts under outDir. The
// production implementation is Pipeline.
type Extractor interface {
	ExtractFile(pdfPath, outDir string) ([]types.Artifact, error)
}

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Convert dispatches on the input path: a PDF file converts directly
// into outputRoot, a directory converts every PDF it contains into
// outputRoot/<dirname>/, and anything else prints a notice and does
// nothing. PDF extensions are compared case-insensitively.
func Convert(e Extractor, input, outputRoot string, w io.Writer) (BatchResult, error) {
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		return convertDir(e, input, outputRoot, w)
	case err == nil && isPDF(input):
		var result BatchResult
		convertOne(e, input, outputRoot, w, &result)
		return result, nil
	default:
		fmt.Fprintln(w, "Invalid file or directory. Please provide a valid PDF file or a folder containing PDF files.")
		return BatchResult{}, nil
	}
}

// convertDir converts every PDF directly under dir, in lexicographic
// order, and prints a batch summary. A failed file does not stop the
// batch.
func convertDir(e Extractor, dir, outputRoot string, w io.Writer) (BatchResult, error) {
	paths, err := listPDFs(dir)
	if err != nil {
		return BatchResult{}, err
	}
	outDir := filepath.Join(outputRoot, filepath.Base(dir))
	var result BatchResult
	for _, path := range paths {
		convertOne(e, path, outDir, w, &result)
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result, nil
}

func convertOne(e Extractor, pdfPath, outDir string, w io.Writer, result *BatchResult) {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	artifacts, err := e.ExtractFile(pdfPath, outDir)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		result.Failed++
		return
	}
	fmt.Fprintf(w, "converted: %s (%d artifacts)\n", base, len(artifacts))
	result.Converted++
}

// isPDF reports whether path has a .pdf extension in any case.
func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// listPDFs returns the PDF files directly under dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
