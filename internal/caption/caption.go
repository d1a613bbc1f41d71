// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package caption locates table and figure captions near a region of a
// PDF page and turns them into filesystem-safe artifact names.
//
// A caption line looks like "Table 3: Quarterly revenue" or
// "Figure 12 - Throughput". The search scans a fixed-height band above
// the anchor region first, then a band below it; the first line that
// matches the pattern ends the search whether or not it yields a
// usable name.
package caption

import (
	"regexp"
	"strings"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// Kind distinguishes the two caption families.
type Kind string

const (
	// KindTable matches lines starting with "Table N".
	KindTable Kind = "table"

	// KindFigure matches lines starting with "Figure N" or "Fig N".
	KindFigure Kind = "figure"
)

// DefaultBand is the height in points of the search band scanned above
// and below the anchor region.
const DefaultBand = 40.0

// maxNameLen caps sanitized caption names, in runes.
const maxNameLen = 40

var (
	linePattern = regexp.MustCompile(`(?i)^(table|fig(?:ure)?)\s*\d+[:.\-\s]*(.*)$`)
	nonWordRun  = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
)

// Match tests a single line against the caption pattern. It returns
// the caption kind and the raw caption body with the label prefix
// stripped. The body may be empty for a bare label like "Table 7:".
func Match(line string) (Kind, string, bool) {
	m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	kind := KindFigure
	if strings.EqualFold(m[1], "table") {
		kind = KindTable
	}
	return kind, strings.TrimSpace(m[2]), true
}

// Sanitize converts a caption body into a name safe for filenames.
// Runs of characters outside letters, digits, underscore and hyphen
// collapse into single underscores, then the result is truncated to
// 40 runes. The result may be empty.
func Sanitize(body string) string {
	name := nonWordRun.ReplaceAllString(body, "_")
	runes := []rune(name)
	if len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

// RegionSource supplies page geometry and region text to a Finder.
// *pdf.Document satisfies it.
type RegionSource interface {
	// PageSize returns the page dimensions in points.
	PageSize(pageIndex int) (width, height float64, err error)

	// RegionText returns the text inside the given region of the page,
	// assembled into lines.
	RegionText(pageIndex int, box types.BoundingBox) (string, error)
}

// Finder searches for captions around anchor regions.
type Finder struct {
	// Band is the search band height in points. Zero means DefaultBand.
	Band float64
}

// Find looks for a caption near the anchor region on the given page.
// It scans the band above the anchor, then the band below, each
// clipped to the page; bands clipped to nothing are skipped. Within a
// band, lines are checked top to bottom and the first line matching
// the caption pattern ends the search: if its body sanitizes to a
// non-empty name that name is returned, otherwise no caption is
// reported. pageIndex is zero-based.
func (f Finder) Find(src RegionSource, pageIndex int, anchor types.BoundingBox) (string, bool, error) {
	band := f.Band
	if band <= 0 {
		band = DefaultBand
	}
	pageW, pageH, err := src.PageSize(pageIndex)
	if err != nil {
		return "", false, err
	}

	bands := []types.BoundingBox{
		{X0: anchor.X0, Top: anchor.Top - band, X1: anchor.X1, Bottom: anchor.Top},
		{X0: anchor.X0, Top: anchor.Bottom, X1: anchor.X1, Bottom: anchor.Bottom + band},
	}
	for _, box := range bands {
		box = box.Clip(pageW, pageH)
		if box.IsEmpty() {
			continue
		}
		text, err := src.RegionText(pageIndex, box)
		if err != nil {
			return "", false, err
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if _, body, ok := Match(line); ok {
				name := Sanitize(body)
				return name, name != "", nil
			}
		}
	}
	return "", false, nil
}
