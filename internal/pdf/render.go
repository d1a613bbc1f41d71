// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// ErrEmptyRegion reports a crop region that maps to no pixels.
var ErrEmptyRegion = errors.New("region maps to an empty pixel area")

// RenderPage rasterizes a full page at the given resolution.
func (d *Document) RenderPage(pageIndex int, dpi int) (*image.RGBA, error) {
	f, err := d.rasterizer()
	if err != nil {
		return nil, err
	}
	img, err := f.ImageDPI(pageIndex, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex+1, err)
	}
	return img, nil
}

// CropPage rasterizes a page and cuts out the given region. The box
// is in top-origin page points; pixel coordinates scale by dpi/72.
// Returns ErrEmptyRegion when the region covers no area or falls
// outside the page raster.
func (d *Document) CropPage(pageIndex int, box types.BoundingBox, dpi int) (*image.RGBA, error) {
	full, err := d.RenderPage(pageIndex, dpi)
	if err != nil {
		return nil, err
	}
	rect, ok := cropRect(box, dpi, full.Bounds())
	if !ok {
		return nil, fmt.Errorf("crop page %d: %w", pageIndex+1, ErrEmptyRegion)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), full, rect.Min, draw.Src)
	return out, nil
}

// cropRect maps a page-space box to pixel space and clamps it to the
// rendered bounds. ok is false when nothing remains. The box must be
// checked for emptiness first: image.Rect would silently normalize an
// inverted rectangle into a positive one.
func cropRect(box types.BoundingBox, dpi int, bounds image.Rectangle) (image.Rectangle, bool) {
	if box.IsEmpty() {
		return image.Rectangle{}, false
	}
	scale := float64(dpi) / 72
	rect := image.Rect(
		int(math.Floor(box.X0*scale)),
		int(math.Floor(box.Top*scale)),
		int(math.Ceil(box.X1*scale)),
		int(math.Ceil(box.Bottom*scale)),
	)
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return image.Rectangle{}, false
	}
	return rect, true
}
