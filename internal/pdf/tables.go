// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"

	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// Table is a detected table: cell text by row, plus the region the
// table covers in top-origin page coordinates.
type Table struct {
	Rows [][]string
	BBox types.BoundingBox
}

// Tables detects tables on a page from text fragment geometry,
// supported by ruling lines recovered from the content streams.
func (d *Document) Tables(pageIndex int) ([]Table, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return nil, err
	}
	pageWidth, err := page.Width()
	if err != nil {
		return nil, fmt.Errorf("page %d width: %w", pageIndex+1, err)
	}
	pageHeight, err := page.Height()
	if err != nil {
		return nil, fmt.Errorf("page %d height: %w", pageIndex+1, err)
	}
	fragments, err := d.reader.ExtractTextFragments(page)
	if err != nil {
		return nil, fmt.Errorf("extract text fragments from page %d: %w", pageIndex+1, err)
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	mp := model.NewPage(pageWidth, pageHeight)
	mp.Number = pageIndex + 1
	mp.RawText = toModelFragments(fragments)
	mp.RawLines = d.rulingLines(page)

	detected, err := tables.NewGeometricDetector().Detect(mp)
	if err != nil {
		return nil, fmt.Errorf("detect tables on page %d: %w", pageIndex+1, err)
	}
	return fromModelTables(detected, pageHeight), nil
}

// fromModelTables flattens detected tables to cell text by row and
// converts their regions to top-origin coordinates.
func fromModelTables(detected []*model.Table, pageHeight float64) []Table {
	out := make([]Table, 0, len(detected))
	for _, t := range detected {
		rows := make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = cell.Text
			}
			rows[i] = cells
		}
		out = append(out, Table{Rows: rows, BBox: fromModelBBox(t.BBox, pageHeight)})
	}
	return out
}

// rulingLines recovers stroked lines and rectangles from the page
// content streams. Pages whose graphics fail to parse yield no ruling
// lines; detection then rests on text geometry alone.
func (d *Document) rulingLines(page *pages.Page) []model.Line {
	streams, err := decodedContents(page)
	if err != nil {
		return nil
	}
	ge := graphicsstate.NewGraphicsExtractor()
	for _, data := range streams {
		if err := ge.ExtractFromBytes(data); err != nil {
			return nil
		}
	}
	return append(ge.ToModelLines(), ge.ToModelRectangles()...)
}

func toModelFragments(fragments []text.TextFragment) []model.TextFragment {
	out := make([]model.TextFragment, len(fragments))
	for i, f := range fragments {
		out[i] = model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		}
	}
	return out
}

// fromModelBBox converts a bottom-origin box to top-origin page
// coordinates.
func fromModelBBox(b model.BBox, pageHeight float64) types.BoundingBox {
	return types.BoundingBox{
		X0:     b.X,
		Top:    pageHeight - (b.Y + b.Height),
		X1:     b.X + b.Width,
		Bottom: pageHeight - b.Y,
	}
}
