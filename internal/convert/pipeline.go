// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfsift/internal/caption"
	"github.com/pdiddy/pdfsift/internal/pdf"
	"github.com/pdiddy/pdfsift/pkg/types"
)

// DefaultDPI is the rasterization resolution used when the options do
// not set one.
const DefaultDPI = 300

// manifestSuffix names the per-document manifest sidecar.
const manifestSuffix = ".manifest.yaml"

// docSession is the document surface the pipeline extracts from.
// *pdf.Document satisfies it; tests substitute fakes.
type docSession interface {
	caption.RegionSource
	PageCount() int
	PageText(pageIndex int) (string, error)
	Text() (string, error)
	Tables(pageIndex int) ([]pdf.Table, error)
	Placements(pageIndex int) ([]pdf.Placement, error)
	CropPage(pageIndex int, box types.BoundingBox, dpi int) (*image.RGBA, error)
	OCRPage(pageIndex int, dpi int) (string, error)
}

// Pipeline is the production Extractor. It opens each PDF once and
// pulls text, tables, and images out of the same session, reporting
// each saved artifact on its writer.
type Pipeline struct {
	opts      types.ConvertOptions
	out       io.Writer
	finder    caption.Finder
	ocrWarned bool
}

// NewPipeline returns a Pipeline with the given options.
func NewPipeline(opts types.ConvertOptions, out io.Writer) *Pipeline {
	return &Pipeline{opts: opts, out: out}
}

func (p *Pipeline) dpi() int {
	if p.opts.DPI > 0 {
		return p.opts.DPI
	}
	return DefaultDPI
}

// ExtractFile converts a single PDF into artifacts under outDir.
func (p *Pipeline) ExtractFile(pdfPath, outDir string) ([]types.Artifact, error) {
	doc, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return p.extract(doc, pdfPath, outDir)
}

func (p *Pipeline) extract(doc docSession, pdfPath, outDir string) ([]types.Artifact, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	text, err := p.documentText(doc)
	if err != nil {
		return nil, err
	}
	txtName := stem + ".txt"
	if err := os.WriteFile(filepath.Join(outDir, txtName), []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", txtName, err)
	}
	fmt.Fprintf(p.out, "saved: %s\n", txtName)
	artifacts := []types.Artifact{{Kind: types.ArtifactText, File: txtName}}

	if p.opts.Tables {
		tableArtifacts, err := p.extractTables(doc, stem, outDir)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, tableArtifacts...)
	}
	if p.opts.Images {
		imageArtifacts, err := p.extractImages(doc, stem, outDir)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, imageArtifacts...)
	}

	if p.opts.Manifest {
		m := types.Manifest{
			Source:      pdfPath,
			Stem:        stem,
			Pages:       doc.PageCount(),
			ConvertedAt: time.Now().UTC(),
			Artifacts:   artifacts,
		}
		if err := writeManifest(filepath.Join(outDir, stem+manifestSuffix), m); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}

// documentText concatenates page texts in order with no separator
// between pages. With OCR enabled, pages with no extractable text
// fall back to recognition.
func (p *Pipeline) documentText(doc docSession) (string, error) {
	if !p.opts.OCR {
		return doc.Text()
	}
	var b strings.Builder
	for i := 0; i < doc.PageCount(); i++ {
		pageText, err := doc.PageText(i)
		if err != nil {
			return "", err
		}
		if pageText == "" {
			pageText = p.recognizePage(doc, i)
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// recognizePage runs OCR on a page, degrading to empty text when
// recognition is unavailable or fails. The first failure is reported
// once per pipeline.
func (p *Pipeline) recognizePage(doc docSession, pageIndex int) string {
	recognized, err := doc.OCRPage(pageIndex, p.dpi())
	if err != nil {
		if !p.ocrWarned {
			fmt.Fprintf(p.out, "note: ocr unavailable: %v\n", err)
			p.ocrWarned = true
		}
		return ""
	}
	return recognized
}

// extractTables saves every detected table as CSV. Tables with no
// nearby caption take table_<N> names from a per-document counter
// that advances once per saved table, captioned or not.
func (p *Pipeline) extractTables(doc docSession, stem, outDir string) ([]types.Artifact, error) {
	var artifacts []types.Artifact
	counter := 1
	for pageIndex := 0; pageIndex < doc.PageCount(); pageIndex++ {
		tables, err := doc.Tables(pageIndex)
		if err != nil {
			return nil, err
		}
		for _, table := range tables {
			name, found, err := p.finder.Find(doc, pageIndex, table.BBox)
			if err != nil {
				return nil, err
			}
			var capt string
			if found {
				capt = name
			} else {
				name = fmt.Sprintf("table_%d", counter)
			}
			file := artifactFileName(stem, name, pageIndex+1, "csv")
			if err := writeCSV(filepath.Join(outDir, file), table.Rows); err != nil {
				return nil, err
			}
			fmt.Fprintf(p.out, "saved: %s\n", file)
			counter++
			artifacts = append(artifacts, types.Artifact{
				Kind:    types.ArtifactTable,
				File:    file,
				Page:    pageIndex + 1,
				Caption: capt,
			})
		}
	}
	return artifacts, nil
}

// extractImages crops every placed image to PNG at the configured
// resolution. Placements whose crop region is empty are skipped
// without consuming a figure number.
func (p *Pipeline) extractImages(doc docSession, stem, outDir string) ([]types.Artifact, error) {
	var artifacts []types.Artifact
	counter := 1
	for pageIndex := 0; pageIndex < doc.PageCount(); pageIndex++ {
		placements, err := doc.Placements(pageIndex)
		if err != nil {
			return nil, err
		}
		for _, placement := range placements {
			img, err := doc.CropPage(pageIndex, placement.BBox, p.dpi())
			if errors.Is(err, pdf.ErrEmptyRegion) {
				fmt.Fprintf(p.out, "skipped image on page %d: %v\n", pageIndex+1, err)
				continue
			}
			if err != nil {
				return nil, err
			}
			name, found, err := p.finder.Find(doc, pageIndex, placement.BBox)
			if err != nil {
				return nil, err
			}
			var capt string
			if found {
				capt = name
			} else {
				name = fmt.Sprintf("figure_%d", counter)
			}
			file := artifactFileName(stem, name, pageIndex+1, "png")
			if err := writePNG(filepath.Join(outDir, file), img); err != nil {
				return nil, err
			}
			fmt.Fprintf(p.out, "saved: %s\n", file)
			counter++
			artifacts = append(artifacts, types.Artifact{
				Kind:    types.ArtifactFigure,
				File:    file,
				Page:    pageIndex + 1,
				Caption: capt,
			})
		}
	}
	return artifacts, nil
}

// artifactFileName builds <stem>_<name>_p<page>.<ext>.
func artifactFileName(stem, name string, page int, ext string) string {
	return fmt.Sprintf("%s_%s_p%d.%s", stem, name, page, ext)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func writeManifest(path string, m types.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
