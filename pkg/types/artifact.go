// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArtifactKind identifies the kind of output file produced from a document.
type ArtifactKind string

const (
	ArtifactText   ArtifactKind = "text"
	ArtifactTable  ArtifactKind = "table"
	ArtifactFigure ArtifactKind = "figure"
)

// Artifact records one output file produced from a source document.
type Artifact struct {
	// Kind is the artifact type: text, table, or figure.
	Kind ArtifactKind `json:"kind" yaml:"kind"`

	// File is the filename relative to the document's output directory.
	File string `json:"file" yaml:"file"`

	// Page is the 1-based source page number. Zero for document-level
	// artifacts such as the text file.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// Caption is the caption-derived name fragment. Empty when the
	// artifact fell back to an indexed name.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// Manifest describes one document conversion: the source PDF and every
// artifact written for it. Written as a YAML sidecar next to the
// artifacts when manifests are enabled, and consumed by the catalog.
type Manifest struct {
	// Source is the input PDF path as given on the command line.
	Source string `json:"source" yaml:"source"`

	// Stem is the source filename without extension. Artifact filenames
	// are prefixed with it.
	Stem string `json:"stem" yaml:"stem"`

	// Pages is the page count of the source document.
	Pages int `json:"pages" yaml:"pages"`

	// ConvertedAt is the UTC completion time of the conversion.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// Artifacts lists every file written, in write order.
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`
}
