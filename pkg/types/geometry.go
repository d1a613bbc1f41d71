// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BoundingBox is a rectangle in page space with a top-left origin:
// (X0, Top) is the upper-left corner and (X1, Bottom) the lower-right,
// both in PDF points. All extraction code converts to this orientation
// at the parser boundary so crop math and raster math agree.
type BoundingBox struct {
	X0     float64 `json:"x0" yaml:"x0"`
	Top    float64 `json:"top" yaml:"top"`
	X1     float64 `json:"x1" yaml:"x1"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Bottom - b.Top }

// IsEmpty reports whether the box encloses no area. Inverted boxes
// count as empty.
func (b BoundingBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Bottom <= b.Top
}

// Clip constrains the box to a page of the given dimensions.
func (b BoundingBox) Clip(pageWidth, pageHeight float64) BoundingBox {
	if b.X0 < 0 {
		b.X0 = 0
	}
	if b.Top < 0 {
		b.Top = 0
	}
	if b.X1 > pageWidth {
		b.X1 = pageWidth
	}
	if b.Bottom > pageHeight {
		b.Bottom = pageHeight
	}
	return b
}
