// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// RegionText returns the text of the fragments lying fully inside the
// given region, assembled into lines. Regions containing no text
// yield an empty string.
func (d *Document) RegionText(pageIndex int, box types.BoundingBox) (string, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return "", err
	}
	pageHeight, err := page.Height()
	if err != nil {
		return "", fmt.Errorf("page %d height: %w", pageIndex+1, err)
	}
	fragments, err := d.reader.ExtractTextFragments(page)
	if err != nil {
		return "", fmt.Errorf("extract text fragments from page %d: %w", pageIndex+1, err)
	}
	return assembleLines(filterFragments(fragments, box, pageHeight)), nil
}

// filterFragments keeps the fragments fully contained in box. The box
// is top-origin; fragment coordinates are bottom-origin, so the
// vertical bounds flip against the page height.
func filterFragments(fragments []text.TextFragment, box types.BoundingBox, pageHeight float64) []text.TextFragment {
	yMax := pageHeight - box.Top
	yMin := pageHeight - box.Bottom

	var keep []text.TextFragment
	for _, f := range fragments {
		if f.X >= box.X0 && f.X+f.Width <= box.X1 &&
			f.Y >= yMin && f.Y+f.Height <= yMax {
			keep = append(keep, f)
		}
	}
	return keep
}

// assembleLines orders fragments top to bottom, left to right, and
// joins them into newline-separated lines. Fragments on the same
// baseline within half a fragment height merge into one line, with a
// space inserted when the horizontal gap exceeds a third of the font
// size.
func assembleLines(fragments []text.TextFragment) string {
	if len(fragments) == 0 {
		return ""
	}

	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[i].Y - sorted[j].Y
		if math.Abs(yDiff) > sorted[i].Height*0.5 {
			return yDiff > 0
		}
		if math.Abs(sorted[i].X-sorted[j].X) < sorted[i].FontSize*0.25 {
			return false
		}
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	lastY := sorted[0].Y
	lastEndX := sorted[0].X + sorted[0].Width
	b.WriteString(sorted[0].Text)

	for _, f := range sorted[1:] {
		if math.Abs(f.Y-lastY) > f.Height*0.5 {
			b.WriteString("\n")
		} else if f.X-lastEndX > f.FontSize*0.3 {
			b.WriteString(" ")
		}
		b.WriteString(f.Text)
		lastY = f.Y
		lastEndX = f.X + f.Width
	}
	return b.String()
}
