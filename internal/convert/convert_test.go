// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// fakeExtractor implements Extractor for testing. It records every call
// and returns canned artifacts or an error, depending on the input path.
type fakeExtractor struct {
	artifacts map[string][]types.Artifact
	errors    map[string]error
	calls     []extractCall
}

type extractCall struct {
	pdfPath string
	outDir  string
}

func (f *fakeExtractor) ExtractFile(pdfPath, outDir string) ([]types.Artifact, error) {
	f.calls = append(f.calls, extractCall{pdfPath: pdfPath, outDir: outDir})
	if err, ok := f.errors[pdfPath]; ok {
		return nil, err
	}
	return f.artifacts[pdfPath], nil
}

func textArtifact(stem string) []types.Artifact {
	return []types.Artifact{{Kind: types.ArtifactText, File: stem + ".txt"}}
}

func TestConvertFile(t *testing.T) {
	tmpDir := t.TempDir()
	pdfPath := filepath.Join(tmpDir, "report.PDF")
	if err := os.WriteFile(pdfPath, []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	outputRoot := filepath.Join(tmpDir, "out")

	ex := &fakeExtractor{artifacts: map[string][]types.Artifact{pdfPath: textArtifact("report")}}
	var log bytes.Buffer

	result, err := Convert(ex, pdfPath, outputRoot, &log)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Converted != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want {Converted:1 Failed:0}", result)
	}
	if len(ex.calls) != 1 {
		t.Fatalf("extractor called %d times, want 1", len(ex.calls))
	}
	// A single file converts straight into the output root, no subdirectory.
	if ex.calls[0].outDir != outputRoot {
		t.Errorf("outDir = %q, want %q", ex.calls[0].outDir, outputRoot)
	}
	if !strings.Contains(log.String(), "converted: report (1 artifacts)") {
		t.Errorf("log output %q missing converted line", log.String())
	}
	if strings.Contains(log.String(), "Batch summary:") {
		t.Error("single-file conversion should not print a batch summary")
	}
}

func TestConvertFileFailure(t *testing.T) {
	tmpDir := t.TempDir()
	pdfPath := filepath.Join(tmpDir, "broken.pdf")
	if err := os.WriteFile(pdfPath, []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	ex := &fakeExtractor{errors: map[string]error{pdfPath: errors.New("damaged xref")}}
	var log bytes.Buffer

	result, err := Convert(ex, pdfPath, filepath.Join(tmpDir, "out"), &log)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Converted != 0 || result.Failed != 1 {
		t.Errorf("result = %+v, want {Converted:0 Failed:1}", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if !strings.Contains(log.String(), "failed:  broken (damaged xref)") {
		t.Errorf("log output %q missing failed line", log.String())
	}
	if strings.Contains(log.String(), "Batch summary:") {
		t.Error("single-file conversion should not print a batch summary")
	}
}

func TestConvertDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "papers")
	if err := os.MkdirAll(filepath.Join(inputDir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Deliberately create out of order; conversion must be sorted.
	for _, name := range []string{"b.pdf", "a.pdf", "note.txt"} {
		if err := os.WriteFile(filepath.Join(inputDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// PDFs in subdirectories are out of scope for a directory conversion.
	if err := os.WriteFile(filepath.Join(inputDir, "nested", "deep.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	outputRoot := filepath.Join(tmpDir, "out")

	aPath := filepath.Join(inputDir, "a.pdf")
	bPath := filepath.Join(inputDir, "b.pdf")
	ex := &fakeExtractor{artifacts: map[string][]types.Artifact{
		aPath: textArtifact("a"),
		bPath: textArtifact("b"),
	}}
	var log bytes.Buffer

	result, err := Convert(ex, inputDir, outputRoot, &log)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Converted != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want {Converted:2 Failed:0}", result)
	}

	wantOutDir := filepath.Join(outputRoot, "papers")
	wantCalls := []extractCall{
		{pdfPath: aPath, outDir: wantOutDir},
		{pdfPath: bPath, outDir: wantOutDir},
	}
	if len(ex.calls) != len(wantCalls) {
		t.Fatalf("extractor called %d times, want %d", len(ex.calls), len(wantCalls))
	}
	for i, want := range wantCalls {
		if ex.calls[i] != want {
			t.Errorf("call %d = %+v, want %+v", i, ex.calls[i], want)
		}
	}
	if !strings.Contains(log.String(), "Batch summary: 2 converted, 0 failed (total: 2)") {
		t.Errorf("log output %q missing batch summary", log.String())
	}
}

func TestConvertDirectoryContinuesPastFailure(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "papers")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bad.pdf", "good.pdf"} {
		if err := os.WriteFile(filepath.Join(inputDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	badPath := filepath.Join(inputDir, "bad.pdf")
	goodPath := filepath.Join(inputDir, "good.pdf")
	ex := &fakeExtractor{
		artifacts: map[string][]types.Artifact{goodPath: textArtifact("good")},
		errors:    map[string]error{badPath: errors.New("damaged xref")},
	}
	var log bytes.Buffer

	result, err := Convert(ex, inputDir, filepath.Join(tmpDir, "out"), &log)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Converted != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want {Converted:1 Failed:1}", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 2 {
		t.Errorf("total = %d, want 2", result.Total())
	}

	output := log.String()
	if !strings.Contains(output, "failed:  bad (damaged xref)") {
		t.Errorf("log output %q missing failed line", output)
	}
	if !strings.Contains(output, "converted: good") {
		t.Errorf("log output %q missing converted line", output)
	}
	if !strings.Contains(output, "Batch summary: 1 converted, 1 failed (total: 2)") {
		t.Errorf("log output %q missing batch summary", output)
	}
}

func TestConvertInvalidInput(t *testing.T) {
	tmpDir := t.TempDir()
	notPDF := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(notPDF, []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{name: "missing path", input: filepath.Join(tmpDir, "missing.pdf")},
		{name: "existing non-pdf file", input: notPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &fakeExtractor{}
			var log bytes.Buffer

			result, err := Convert(ex, tt.input, filepath.Join(tmpDir, "out"), &log)
			if err != nil {
				t.Fatalf("Convert returned error: %v", err)
			}
			if result.Total() != 0 {
				t.Errorf("result = %+v, want zero", result)
			}
			if len(ex.calls) != 0 {
				t.Errorf("extractor called %d times, want 0", len(ex.calls))
			}
			want := "Invalid file or directory. Please provide a valid PDF file or a folder containing PDF files.\n"
			if log.String() != want {
				t.Errorf("log output = %q, want %q", log.String(), want)
			}
		})
	}
}

func TestConvertEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "empty")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	ex := &fakeExtractor{}
	var log bytes.Buffer

	result, err := Convert(ex, inputDir, filepath.Join(tmpDir, "out"), &log)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Total() != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
	if !strings.Contains(log.String(), "Batch summary: 0 converted, 0 failed (total: 0)") {
		t.Errorf("log output %q missing batch summary", log.String())
	}
}
