package pdf

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tsawler/tabula/ocr"
)

// OCRPage rasterizes a page and runs it through text recognition.
// Builds without the ocr tag return ocr.ErrOCRNotEnabled.
func (d *Document) OCRPage(pageIndex int, dpi int) (string, error) {
	client, err := ocr.New()
	if err != nil {
		return "", err
	}
	defer client.Close()

	img, err := d.RenderPage(pageIndex, dpi)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page %d for recognition: %w", pageIndex+1, err)
	}
	return client.RecognizeImage(buf.Bytes())
}
