// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdfsift/pkg/types"
)

const helloContent = "BT /F1 12 Tf 100 700 Td (Hello World) Tj ET"

// writeSamplePDF builds a valid PDF with one US Letter page per
// content stream and returns its path. Cross-reference offsets are
// computed from the assembled bytes.
func writeSamplePDF(t *testing.T, contents ...string) string {
	t.Helper()

	n := len(contents)
	kids := make([]string, n)
	for i := range contents {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	fontNum := n + 3

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	}
	for i := range contents {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontNum, fontNum+1+i))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for _, content := range contents {
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)

	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func openSample(t *testing.T, contents ...string) *Document {
	t.Helper()
	doc, err := Open(writeSamplePDF(t, contents...))
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestOpen(t *testing.T) {
	doc := openSample(t, helloContent)

	assert.Equal(t, 1, doc.PageCount())
	assert.True(t, strings.HasSuffix(doc.Path(), "sample.pdf"))

	width, height, err := doc.PageSize(0)
	require.NoError(t, err)
	assert.Equal(t, 612.0, width)
	assert.Equal(t, 792.0, height)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestPageSizeOutOfRange(t *testing.T) {
	doc := openSample(t, helloContent)

	_, _, err := doc.PageSize(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, _, err = doc.PageSize(-1)
	assert.Error(t, err)
}

func TestPageText(t *testing.T) {
	doc := openSample(t, helloContent)

	got, err := doc.PageText(0)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
}

func TestTextConcatenatesPagesWithoutSeparator(t *testing.T) {
	doc := openSample(t,
		"BT /F1 12 Tf 72 720 Td (Page one) Tj ET",
		"BT /F1 12 Tf 72 720 Td (Page two) Tj ET",
	)

	got, err := doc.Text()
	require.NoError(t, err)
	assert.Equal(t, "Page onePage two", got)
}

func TestRegionText(t *testing.T) {
	doc := openSample(t, helloContent)

	full, err := doc.RegionText(0, types.BoundingBox{X0: 0, Top: 0, X1: 612, Bottom: 792})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", full)

	corner, err := doc.RegionText(0, types.BoundingBox{X0: 0, Top: 0, X1: 50, Bottom: 50})
	require.NoError(t, err)
	assert.Equal(t, "", corner)
}

func TestTablesNoneDetected(t *testing.T) {
	doc := openSample(t, helloContent)

	got, err := doc.Tables(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlacementsNoImages(t *testing.T) {
	doc := openSample(t, helloContent)

	got, err := doc.Placements(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterFragments(t *testing.T) {
	fragments := []text.TextFragment{
		{Text: "inside", X: 100, Y: 700, Width: 50, Height: 12},
		{Text: "straddles", X: 280, Y: 700, Width: 50, Height: 12},
		{Text: "below", X: 100, Y: 100, Width: 50, Height: 12},
	}
	// Band 50..200 from the top of a 792pt page.
	box := types.BoundingBox{X0: 50, Top: 50, X1: 300, Bottom: 200}

	kept := filterFragments(fragments, box, 792)
	require.Len(t, kept, 1)
	assert.Equal(t, "inside", kept[0].Text)
}

func TestAssembleLines(t *testing.T) {
	tests := []struct {
		name      string
		fragments []text.TextFragment
		want      string
	}{
		{
			name: "orders and joins with spaces",
			fragments: []text.TextFragment{
				{Text: "world", X: 140, Y: 700, Width: 40, Height: 12, FontSize: 12},
				{Text: "Hello", X: 100, Y: 700, Width: 36, Height: 12, FontSize: 12},
				{Text: "next line", X: 100, Y: 670, Width: 60, Height: 12, FontSize: 12},
			},
			want: "Hello world\nnext line",
		},
		{
			name: "adjacent fragments merge without space",
			fragments: []text.TextFragment{
				{Text: "Val", X: 100, Y: 700, Width: 20, Height: 12, FontSize: 12},
				{Text: "ue", X: 120.5, Y: 700, Width: 14, Height: 12, FontSize: 12},
			},
			want: "Value",
		},
		{
			name: "empty input",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assembleLines(tt.fragments))
		})
	}
}

func TestFromModelTables(t *testing.T) {
	detected := []*model.Table{
		{
			Rows: [][]model.Cell{
				{{Text: "A1"}, {Text: "B1"}},
				{{Text: "A2"}, {Text: "B2"}},
			},
			BBox: model.BBox{X: 100, Y: 500, Width: 300, Height: 200},
		},
	}

	got := fromModelTables(detected, 792)
	require.Len(t, got, 1)
	assert.Equal(t, [][]string{{"A1", "B1"}, {"A2", "B2"}}, got[0].Rows)
	assert.Equal(t, types.BoundingBox{X0: 100, Top: 92, X1: 400, Bottom: 292}, got[0].BBox)
}

func parseOps(t *testing.T, src string) []contentstream.Operation {
	t.Helper()
	ops, err := contentstream.NewParser([]byte(src)).Parse()
	require.NoError(t, err)
	return ops
}

func newTestWalker() *placementWalker {
	return &placementWalker{
		resolve:    func(obj core.Object) (core.Object, error) { return obj, nil },
		pageHeight: 792,
		gs:         graphicsstate.NewGraphicsState(),
	}
}

func imageResources(names ...string) core.Dict {
	xobjects := core.Dict{}
	for _, name := range names {
		xobjects[name] = &core.Stream{Dict: core.Dict{"Subtype": core.Name("Image")}}
	}
	return core.Dict{"XObject": xobjects}
}

func TestPlacementWalkerFlatImage(t *testing.T) {
	w := newTestWalker()
	ops := parseOps(t, "q 144 0 0 72 100 500 cm /Im1 Do Q")

	require.NoError(t, w.walk(ops, imageResources("Im1"), 0))

	require.Len(t, w.found, 1)
	assert.Equal(t, "Im1", w.found[0].Name)
	assert.Equal(t, types.BoundingBox{X0: 100, Top: 220, X1: 244, Bottom: 292}, w.found[0].BBox)
}

func TestPlacementWalkerRestoresState(t *testing.T) {
	// The second draw happens after Q, so the first transform no
	// longer applies.
	w := newTestWalker()
	ops := parseOps(t, "q 144 0 0 72 100 500 cm /Im1 Do Q 72 0 0 72 10 20 cm /Im1 Do")

	require.NoError(t, w.walk(ops, imageResources("Im1"), 0))

	require.Len(t, w.found, 2)
	assert.Equal(t, types.BoundingBox{X0: 100, Top: 220, X1: 244, Bottom: 292}, w.found[0].BBox)
	assert.Equal(t, types.BoundingBox{X0: 10, Top: 700, X1: 82, Bottom: 772}, w.found[1].BBox)
}

func TestPlacementWalkerForm(t *testing.T) {
	form := &core.Stream{
		Dict: core.Dict{
			"Subtype": core.Name("Form"),
			"Matrix":  core.Array{core.Int(1), core.Int(0), core.Int(0), core.Int(1), core.Int(50), core.Int(50)},
		},
		Data: []byte("/Im2 Do"),
	}
	resources := core.Dict{"XObject": core.Dict{
		"Fm1": form,
		"Im2": &core.Stream{Dict: core.Dict{"Subtype": core.Name("Image")}},
	}}

	w := newTestWalker()
	require.NoError(t, w.walk(parseOps(t, "/Fm1 Do"), resources, 0))

	require.Len(t, w.found, 1)
	assert.Equal(t, "Im2", w.found[0].Name)
	assert.Equal(t, types.BoundingBox{X0: 50, Top: 741, X1: 51, Bottom: 742}, w.found[0].BBox)
}

func TestPlacementWalkerUnknownName(t *testing.T) {
	w := newTestWalker()

	require.NoError(t, w.walk(parseOps(t, "/Nope Do"), core.Dict{}, 0))
	assert.Empty(t, w.found)
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		box    types.BoundingBox
		dpi    int
		bounds image.Rectangle
		want   image.Rectangle
		wantOK bool
	}{
		{
			name:   "interior box scales by dpi",
			box:    types.BoundingBox{X0: 72, Top: 72, X1: 144, Bottom: 216},
			dpi:    144,
			bounds: image.Rect(0, 0, 1224, 1584),
			want:   image.Rect(144, 144, 288, 432),
			wantOK: true,
		},
		{
			name:   "overflow clamps to raster bounds",
			box:    types.BoundingBox{X0: -10, Top: -10, X1: 1000, Bottom: 500},
			dpi:    72,
			bounds: image.Rect(0, 0, 612, 792),
			want:   image.Rect(0, 0, 612, 500),
			wantOK: true,
		},
		{
			name:   "fully outside the raster",
			box:    types.BoundingBox{X0: 700, Top: 0, X1: 800, Bottom: 100},
			dpi:    72,
			bounds: image.Rect(0, 0, 612, 792),
		},
		{
			name:   "inverted box",
			box:    types.BoundingBox{X0: 200, Top: 100, X1: 100, Bottom: 200},
			dpi:    72,
			bounds: image.Rect(0, 0, 612, 792),
		},
		{
			name:   "zero width box",
			box:    types.BoundingBox{X0: 100, Top: 100, X1: 100, Bottom: 200},
			dpi:    72,
			bounds: image.Rect(0, 0, 612, 792),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cropRect(tt.box, tt.dpi, tt.bounds)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	doc := openSample(t, helloContent)

	info, err := doc.Info()
	require.NoError(t, err)
	assert.Equal(t, "1.4", info.Version)
	assert.Equal(t, 1, info.Pages)
	// The sample document carries no info dictionary.
	assert.Empty(t, info.Title)
	assert.Empty(t, info.Author)
}

func TestEmbeddedImageCountNone(t *testing.T) {
	doc := openSample(t, helloContent)

	count, err := doc.EmbeddedImageCount(0)
	require.NoError(t, err)
	assert.Zero(t, count)
}
