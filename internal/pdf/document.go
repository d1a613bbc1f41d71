// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf wraps a parsed PDF behind session-style accessors for
// text, tables, image placements and rasterization. A Document keeps
// the underlying parser open so repeated region and page queries do
// not reparse the file; callers must Close it when done.
package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
)

// Document is an open PDF session. All page indices are zero-based.
type Document struct {
	path   string
	reader *reader.Reader
	raster *fitz.Document
	pages  int
}

// Open parses the PDF at path and returns a Document ready for
// queries. The rasterizer is opened lazily on first render.
func Open(path string) (*Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	count, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("read page count of %s: %w", path, err)
	}
	return &Document{path: path, reader: r, pages: count}, nil
}

// Close releases the parser and, if opened, the rasterizer.
func (d *Document) Close() error {
	var firstErr error
	if d.raster != nil {
		if err := d.raster.Close(); err != nil {
			firstErr = err
		}
		d.raster = nil
	}
	if d.reader != nil {
		if err := d.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.reader = nil
	}
	return firstErr
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return d.pages }

// PageSize returns the page dimensions in points.
func (d *Document) PageSize(pageIndex int) (width, height float64, err error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return 0, 0, err
	}
	width, err = page.Width()
	if err != nil {
		return 0, 0, fmt.Errorf("page %d width: %w", pageIndex+1, err)
	}
	height, err = page.Height()
	if err != nil {
		return 0, 0, fmt.Errorf("page %d height: %w", pageIndex+1, err)
	}
	return width, height, nil
}

func (d *Document) page(pageIndex int) (*pages.Page, error) {
	if pageIndex < 0 || pageIndex >= d.pages {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageIndex+1, d.pages)
	}
	page, err := d.reader.GetPage(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", pageIndex+1, err)
	}
	return page, nil
}

// rasterizer opens the render backend on first use.
func (d *Document) rasterizer() (*fitz.Document, error) {
	if d.raster == nil {
		f, err := fitz.New(d.path)
		if err != nil {
			return nil, fmt.Errorf("open rasterizer for %s: %w", d.path, err)
		}
		d.raster = f
	}
	return d.raster, nil
}
