// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"
	"strings"

	"github.com/tsawler/tabula"
)

// PageText returns the assembled text of a single page. Pages with no
// text yield an empty string.
func (d *Document) PageText(pageIndex int) (string, error) {
	if pageIndex < 0 || pageIndex >= d.pages {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", pageIndex+1, d.pages)
	}
	text, _, err := tabula.FromReader(d.reader).Pages(pageIndex + 1).Text()
	if err != nil {
		return "", fmt.Errorf("extract text from page %d: %w", pageIndex+1, err)
	}
	return text, nil
}

// Text returns the text of all pages concatenated in order, with no
// separator between pages.
func (d *Document) Text() (string, error) {
	var b strings.Builder
	for i := 0; i < d.pages; i++ {
		pageText, err := d.PageText(i)
		if err != nil {
			return "", err
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
