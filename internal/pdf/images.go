// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"
	"math"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"

	"github.com/pdiddy/pdfsift/pkg/types"
)

// maxFormDepth bounds Form XObject recursion so reference cycles in
// malformed files cannot hang the walk.
const maxFormDepth = 8

// Placement is an image drawn on a page: the XObject name and the
// region it covers in top-origin page coordinates.
type Placement struct {
	Name string
	BBox types.BoundingBox
}

// Placements walks the page content streams and reports every image
// XObject drawn on the page together with its placed bounding box, in
// draw order. An image drawn more than once is reported per draw.
func (d *Document) Placements(pageIndex int) ([]Placement, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return nil, err
	}
	pageHeight, err := page.Height()
	if err != nil {
		return nil, fmt.Errorf("page %d height: %w", pageIndex+1, err)
	}
	resources, err := page.Resources()
	if err != nil {
		return nil, nil // no resources, nothing to draw
	}
	streams, err := decodedContents(page)
	if err != nil {
		return nil, fmt.Errorf("decode content of page %d: %w", pageIndex+1, err)
	}

	w := &placementWalker{
		resolve:    d.reader.Resolve,
		pageHeight: pageHeight,
		gs:         graphicsstate.NewGraphicsState(),
	}
	for _, data := range streams {
		ops, err := contentstream.NewParser(data).Parse()
		if err != nil {
			return nil, fmt.Errorf("parse content of page %d: %w", pageIndex+1, err)
		}
		if err := w.walk(ops, resources, 0); err != nil {
			return nil, fmt.Errorf("walk content of page %d: %w", pageIndex+1, err)
		}
	}
	return w.found, nil
}

// decodedContents returns the decoded bytes of every content stream
// on the page.
func decodedContents(page *pages.Page) ([][]byte, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, err
	}
	var streams [][]byte
	for i, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode content stream %d: %w", i, err)
		}
		streams = append(streams, data)
	}
	return streams, nil
}

type placementWalker struct {
	resolve    func(core.Object) (core.Object, error)
	pageHeight float64
	gs         *graphicsstate.GraphicsState
	found      []Placement
}

// walk tracks the transformation stack through one operation list and
// records a placement for every image draw.
func (w *placementWalker) walk(ops []contentstream.Operation, resources core.Dict, depth int) error {
	if depth > maxFormDepth {
		return nil
	}
	for _, op := range ops {
		switch op.Operator {
		case "q":
			w.gs.Save()
		case "Q":
			if err := w.gs.Restore(); err != nil {
				return err
			}
		case "cm":
			if len(op.Operands) == 6 {
				w.gs.Transform(matrixFromOperands(op.Operands))
			}
		case "Do":
			if len(op.Operands) != 1 {
				continue
			}
			name, ok := op.Operands[0].(core.Name)
			if !ok {
				continue
			}
			if err := w.drawXObject(string(name), resources, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *placementWalker) drawXObject(name string, resources core.Dict, depth int) error {
	stream := w.lookupXObject(name, resources)
	if stream == nil {
		return nil
	}
	subtype, _ := stream.Dict.GetName("Subtype")
	switch string(subtype) {
	case "Image":
		w.found = append(w.found, Placement{Name: name, BBox: w.placedBox()})
	case "Form":
		return w.walkForm(stream, resources, depth)
	}
	return nil
}

// lookupXObject resolves a named XObject from the resource
// dictionary. Missing or unresolvable entries are skipped, matching
// how viewers treat dangling names.
func (w *placementWalker) lookupXObject(name string, resources core.Dict) *core.Stream {
	xobjObj := resources.Get("XObject")
	if xobjObj == nil {
		return nil
	}
	resolved, err := w.resolve(xobjObj)
	if err != nil {
		return nil
	}
	xobjects, ok := resolved.(core.Dict)
	if !ok {
		return nil
	}
	entry := xobjects.Get(name)
	if entry == nil {
		return nil
	}
	resolved, err = w.resolve(entry)
	if err != nil {
		return nil
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return nil
	}
	return stream
}

// walkForm recurses into a Form XObject with the form matrix applied.
// The form's own resource dictionary takes over when present.
func (w *placementWalker) walkForm(form *core.Stream, parentResources core.Dict, depth int) error {
	data, err := form.Decode()
	if err != nil {
		return nil
	}
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil
	}

	resources := parentResources
	if resObj := form.Dict.Get("Resources"); resObj != nil {
		if resolved, err := w.resolve(resObj); err == nil {
			if dict, ok := resolved.(core.Dict); ok {
				resources = dict
			}
		}
	}

	w.gs.Save()
	if arr, ok := form.Dict.GetArray("Matrix"); ok && arr.Len() == 6 {
		m := model.Identity()
		for i := 0; i < 6; i++ {
			if v, ok := toFloat(arr.Get(i)); ok {
				m[i] = v
			}
		}
		w.gs.Transform(m)
	}
	err = w.walk(ops, resources, depth+1)
	if rerr := w.gs.Restore(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// placedBox maps the image unit square through the current transform
// and converts the result to top-origin coordinates.
func (w *placementWalker) placedBox() types.BoundingBox {
	corners := [4]model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	p := w.gs.CTM.Transform(corners[0])
	minX, maxX := p.X, p.X
	minY, maxY := p.Y, p.Y
	for _, c := range corners[1:] {
		p = w.gs.CTM.Transform(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return types.BoundingBox{
		X0:     minX,
		Top:    w.pageHeight - maxY,
		X1:     maxX,
		Bottom: w.pageHeight - minY,
	}
}

func matrixFromOperands(operands []core.Object) model.Matrix {
	m := model.Identity()
	for i := 0; i < 6 && i < len(operands); i++ {
		if v, ok := toFloat(operands[i]); ok {
			m[i] = v
		}
	}
	return m
}

func toFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
